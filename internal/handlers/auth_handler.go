package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/educloud-dashboard/internal/navigation"
	"github.com/SAP-F-2025/educloud-dashboard/internal/routing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/session"
	"github.com/SAP-F-2025/educloud-dashboard/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	manager      *session.Manager
	validator    *validator.Validator
	secureCookie bool
}

func NewAuthHandler(manager *session.Manager, v *validator.Validator, secureCookie bool, base BaseHandler) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  base,
		manager:      manager,
		validator:    v,
		secureCookie: secureCookie,
	}
}

// SignIn checks email and password and starts a cookie session
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req validator.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err,
		})
		return
	}

	h.LogRequest(c, "Signing in")

	s := h.manager.Begin()
	token, err := h.manager.SignIn(c.Request.Context(), s, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, s.Snapshot())
			return
		}
		h.LogError(c, err, "Sign-in failed")
		c.JSON(http.StatusInternalServerError, s.Snapshot())
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, s.Snapshot())
}

// SignOut forgets the cookie session
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.LogRequest(c, "Signing out")

	s := GetSessionFromContext(c)
	token, _ := c.Cookie(SessionCookieName)
	if err := h.manager.SignOut(c.Request.Context(), s, token); err != nil {
		h.LogError(c, err, "Failed to delete session")
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, s.Snapshot())
}

// Session returns the resolved session state
// @Router /session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, GetSessionFromContext(c).Snapshot())
}

// Navigation returns both menus for the caller's role
// @Router /navigation [get]
func (h *AuthHandler) Navigation(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	role, ok := routing.EffectiveRole(string(user.Role))
	menus, found := navigation.For(role)
	if !ok || !found {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: "no navigation for role",
		})
		return
	}

	c.JSON(http.StatusOK, menus)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(h.manager.TTL().Seconds()), "/", "", h.secureCookie, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.secureCookie, true)
}
