package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/navigation"
	"github.com/SAP-F-2025/educloud-dashboard/internal/routing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/services"
	"github.com/SAP-F-2025/educloud-dashboard/internal/session"
)

const unauthorizedMessage = "You don't have permission to access this page."

// PageResponse is what a page route renders.
type PageResponse struct {
	Screen     session.Screen    `json:"screen"`
	View       routing.View      `json:"view"`
	Session    session.Snapshot  `json:"session"`
	Navigation *navigation.Menus `json:"navigation,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	Title      string            `json:"title,omitempty"`
	Message    string            `json:"message,omitempty"`
}

type PageHandler struct {
	BaseHandler
	dashboard    services.DashboardService
	subscription services.SubscriptionService
}

func NewPageHandler(dashboard services.DashboardService, subscription services.SubscriptionService, base BaseHandler) *PageHandler {
	return &PageHandler{
		BaseHandler:  base,
		dashboard:    dashboard,
		subscription: subscription,
	}
}

// Page serves every guarded path. The decision comes from the route table;
// this handler only turns it into a redirect or a rendered view.
func (h *PageHandler) Page(c *gin.Context) {
	s := GetSessionFromContext(c)
	user := s.User()
	path := c.Request.URL.Path

	decision, found := routing.Decide(path, string(user.Role))
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Page not found"})
		return
	}

	if decision.Outcome == routing.OutcomeRedirect {
		h.LogRequest(c, "Redirecting page request", "path", path, "location", decision.Location, "role", user.Role)
		c.Redirect(http.StatusFound, decision.Location)
		return
	}

	if decision.View == routing.ViewUnauthorized {
		h.Unauthorized(c)
		return
	}

	// Decide only renders for a known role
	role, _ := routing.EffectiveRole(string(user.Role))
	resp := h.newPage(s, decision.View, role)

	switch decision.View {
	case routing.ViewSubscriptionManager:
		resp.Title = "Subscription Management"
		resp.Data = h.subscriptionState(c, user.TenantID)
	default:
		effective := *user
		effective.Role = role
		dash, err := h.dashboard.GetDashboard(c.Request.Context(), &effective)
		if err != nil {
			h.LogError(c, err, "Failed to load dashboard", "role", role)
		} else {
			resp.Title = dash.Title
			resp.Data = dash
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Unauthorized renders the access denied view.
func (h *PageHandler) Unauthorized(c *gin.Context) {
	s := GetSessionFromContext(c)
	role, _ := routing.EffectiveRole(string(s.User().Role))

	resp := h.newPage(s, routing.ViewUnauthorized, role)
	resp.Title = "Unauthorized"
	resp.Message = unauthorizedMessage
	c.JSON(http.StatusForbidden, resp)
}

func (h *PageHandler) newPage(s *session.Session, view routing.View, role models.UserRole) PageResponse {
	resp := PageResponse{
		Screen:  s.Screen(),
		View:    view,
		Session: s.Snapshot(),
	}
	if menus, ok := navigation.For(role); ok {
		resp.Navigation = &menus
	}
	return resp
}

// subscriptionState never fails: a load error is logged and rendered as the
// empty state.
func (h *PageHandler) subscriptionState(c *gin.Context, tenantID string) *services.SubscriptionState {
	state, err := h.subscription.GetSubscription(c.Request.Context(), tenantID)
	if err != nil {
		h.LogError(c, err, "Failed to load subscription", "tenant_id", tenantID)
		return &services.SubscriptionState{}
	}
	return state
}
