package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories/casdoor"
	"github.com/SAP-F-2025/educloud-dashboard/internal/routing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/session"
	"github.com/SAP-F-2025/educloud-dashboard/internal/utils"
)

const (
	SessionCookieName = "educloud_session"

	sessionContextKey = "session"
)

// AuthMiddleware resolves the caller's session once per request, from the
// session cookie or from a Casdoor bearer token.
type AuthMiddleware struct {
	manager  *session.Manager
	identity *casdoor.Identity
	userRepo repositories.UserRepository
	logger   utils.Logger
}

// NewAuthMiddleware creates the middleware. identity may be nil, in which
// case bearer tokens are ignored.
func NewAuthMiddleware(manager *session.Manager, identity *casdoor.Identity, userRepo repositories.UserRepository, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		manager:  manager,
		identity: identity,
		userRepo: userRepo,
		logger:   logger,
	}
}

// ResolveSession settles the request's session and stores it in the context.
// It never aborts.
func (am *AuthMiddleware) ResolveSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := am.manager.Begin()

		if token, ok := bearerToken(c); ok && am.identity != nil {
			am.resolveBearer(c, s, token)
		} else {
			cookie, _ := c.Cookie(SessionCookieName)
			am.manager.Resolve(c.Request.Context(), s, cookie)
		}

		c.Set(sessionContextKey, s)
		if user := s.User(); user != nil {
			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("user_role", user.Role)
			c.Set("user_email", user.Email)
		}

		c.Next()
	}
}

func (am *AuthMiddleware) resolveBearer(c *gin.Context, s *session.Session, token string) {
	log := utils.RequestLogger(c, am.logger)

	claims, err := am.identity.Verify(token)
	if err != nil {
		log.Info("Bearer token rejected", "error", err)
		s.Anonymous()
		return
	}

	user, err := am.userRepo.GetByID(c.Request.Context(), claims.User.Id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no local row yet, trust the token's profile
		user = casdoor.UserFromClaims(claims)
	case err != nil:
		// a deactivated row may be hiding behind the outage
		log.Error("Failed to load bearer token user", "error", err, "user_id", claims.User.Id)
		s.Anonymous()
		return
	}
	if !user.IsActive() {
		s.Anonymous()
		return
	}
	s.Authenticate(user)
}

// RequireSession rejects anonymous callers with the sign-in screen.
func (am *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := GetSessionFromContext(c)
		if !s.Authenticated() {
			c.JSON(http.StatusUnauthorized, s.Snapshot())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoleMiddleware lets the request through only when the caller's role
// equals required. There is no role hierarchy.
func (am *AuthMiddleware) RequireRoleMiddleware(required models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Unauthorized",
				Details: err.Error(),
			})
			c.Abort()
			return
		}

		role, ok := routing.EffectiveRole(string(user.Role))
		if !ok || role != required {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden",
				Details: fmt.Sprintf("insufficient permissions, required role: %s", required),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// GetSessionFromContext returns the session set by ResolveSession. A request
// that skipped resolution gets an anonymous session.
func GetSessionFromContext(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	s := session.New()
	s.Anonymous()
	return s
}

// GetUserFromContext extracts user from Gin context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}
