package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/educloud-dashboard/internal/billing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/services"
	"github.com/SAP-F-2025/educloud-dashboard/internal/validator"
)

type SubscriptionHandler struct {
	BaseHandler
	service   services.SubscriptionService
	validator *validator.Validator
}

func NewSubscriptionHandler(service services.SubscriptionService, v *validator.Validator, base BaseHandler) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler: base,
		service:     service,
		validator:   v,
	}
}

// ListCatalog returns the plan catalog
// @Router /plans [get]
func (h *SubscriptionHandler) ListCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": billing.Plans()})
}

// GetSubscription returns the caller's tenant subscription. Load failures
// answer with the empty state instead of an error.
// @Router /subscription [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		h.handleServiceError(c, services.ErrUnauthorized)
		return
	}

	h.LogRequest(c, "Getting subscription", "tenant_id", user.TenantID)

	state, err := h.service.GetSubscription(c.Request.Context(), user.TenantID)
	if err != nil {
		h.LogError(c, err, "Failed to load subscription", "tenant_id", user.TenantID)
		state = &services.SubscriptionState{}
	}

	c.JSON(http.StatusOK, state)
}

// ComparePlans lists every plan with its action relative to the current one
// @Router /subscription/plans [get]
func (h *SubscriptionHandler) ComparePlans(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		h.handleServiceError(c, services.ErrUnauthorized)
		return
	}

	options, err := h.service.ListPlans(c.Request.Context(), user.TenantID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": options})
}

// ChangePlan moves the caller's tenant onto another plan
// @Router /subscription/plan [put]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		h.handleServiceError(c, services.ErrUnauthorized)
		return
	}

	var req validator.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 && ve[0].Rule == "plan_id" {
			h.handleServiceError(c, services.ErrUnknownPlan)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err,
		})
		return
	}

	h.LogRequest(c, "Changing subscription plan", "tenant_id", user.TenantID, "plan_id", req.PlanID)

	state, err := h.service.ChangePlan(c.Request.Context(), user, user.TenantID, models.SubscriptionPlan(req.PlanID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// History lists the tenant's recent plan changes
// @Router /subscription/history [get]
func (h *SubscriptionHandler) History(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		h.handleServiceError(c, services.ErrUnauthorized)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	changes, err := h.service.History(c.Request.Context(), user.TenantID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"changes": changes})
}

func (h *SubscriptionHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownPlan):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unknown plan",
			Details: "plan_id must be starter, professional or enterprise",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Tenant not found",
		})
	case errors.Is(err, services.ErrPlanChangePending):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Plan change already in progress",
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
