package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories/casdoor"
	"github.com/SAP-F-2025/educloud-dashboard/internal/routing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/services"
	"github.com/SAP-F-2025/educloud-dashboard/internal/session"
	"github.com/SAP-F-2025/educloud-dashboard/internal/utils"
	"github.com/SAP-F-2025/educloud-dashboard/internal/validator"
)

const serviceName = "educloud-dashboard"

type HandlerManager struct {
	serviceManager services.ServiceManager

	pageHandler         *PageHandler
	authHandler         *AuthHandler
	subscriptionHandler *SubscriptionHandler
	superAdminHandler   *SuperAdminHandler
	authMiddleware      *AuthMiddleware
}

// HandlerConfig carries the request-independent wiring of the HTTP layer.
type HandlerConfig struct {
	SessionManager *session.Manager
	Identity       *casdoor.Identity
	UserRepo       repositories.UserRepository
	SecureCookies  bool
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	cfg HandlerConfig,
) *HandlerManager {
	base := NewBaseHandler(logger)

	return &HandlerManager{
		serviceManager:      serviceManager,
		pageHandler:         NewPageHandler(serviceManager.Dashboard(), serviceManager.Subscription(), base),
		authHandler:         NewAuthHandler(cfg.SessionManager, validator, cfg.SecureCookies, base),
		subscriptionHandler: NewSubscriptionHandler(serviceManager.Subscription(), validator, base),
		superAdminHandler:   NewSuperAdminHandler(serviceManager.Dashboard(), serviceManager.Report(), validator, base),
		authMiddleware:      NewAuthMiddleware(cfg.SessionManager, cfg.Identity, cfg.UserRepo, logger),
	}
}

// SetupRoutes sets up the page routes and the API
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.health)

	resolved := router.Group("")
	resolved.Use(hm.authMiddleware.ResolveSession())

	// Page routes: every path in the route table plus "/" and "/unauthorized"
	pages := resolved.Group("")
	pages.Use(hm.authMiddleware.RequireSession())
	{
		pages.GET(routing.RootPath, hm.pageHandler.Page)
		pages.GET(routing.UnauthorizedPath, hm.pageHandler.Unauthorized)
		for _, route := range routing.Routes() {
			pages.GET(route.Path, hm.pageHandler.Page)
		}
	}

	v1 := resolved.Group("/api/v1")
	{
		v1.POST("/auth/sign-in", hm.authHandler.SignIn)
		v1.POST("/auth/sign-out", hm.authHandler.SignOut)
		v1.GET("/session", hm.authHandler.Session)
		v1.GET("/plans", hm.subscriptionHandler.ListCatalog)

		authed := v1.Group("")
		authed.Use(hm.authMiddleware.RequireSession())
		{
			authed.GET("/navigation", hm.authHandler.Navigation)

			// Subscription routes - tenant admins only
			subscription := authed.Group("/subscription")
			subscription.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
			{
				subscription.GET("", hm.subscriptionHandler.GetSubscription)
				subscription.GET("/plans", hm.subscriptionHandler.ComparePlans)
				subscription.PUT("/plan", hm.subscriptionHandler.ChangePlan)
				subscription.GET("/history", hm.subscriptionHandler.History)
			}

			// Platform routes - superadmins only
			superadmin := authed.Group("/superadmin")
			superadmin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleSuperAdmin))
			{
				superadmin.GET("/overview", hm.superAdminHandler.Overview)
				superadmin.GET("/tenants", hm.superAdminHandler.ListTenants)
				superadmin.GET("/tenants/export", hm.superAdminHandler.ExportTenants)
			}
		}
	}
}

func (hm *HandlerManager) health(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": serviceName,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
