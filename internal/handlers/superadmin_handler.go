package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/services"
	"github.com/SAP-F-2025/educloud-dashboard/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SuperAdminHandler struct {
	BaseHandler
	dashboard services.DashboardService
	reports   services.ReportService
	validator *validator.Validator
}

func NewSuperAdminHandler(dashboard services.DashboardService, reports services.ReportService, v *validator.Validator, base BaseHandler) *SuperAdminHandler {
	return &SuperAdminHandler{
		BaseHandler: base,
		dashboard:   dashboard,
		reports:     reports,
		validator:   v,
	}
}

// Overview returns the platform metrics and recent tenants
// @Router /superadmin/overview [get]
func (h *SuperAdminHandler) Overview(c *gin.Context) {
	h.LogRequest(c, "Getting platform overview")

	overview, err := h.dashboard.GetPlatformOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// ListTenants lists tenants with optional status and plan filters
// @Router /superadmin/tenants [get]
func (h *SuperAdminHandler) ListTenants(c *gin.Context) {
	var query validator.TenantListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err,
		})
		return
	}

	h.LogRequest(c, "Listing tenants", "status", query.Status, "plan", query.Plan)

	tenants, total, err := h.dashboard.ListTenants(c.Request.Context(), services.TenantListFilters{
		Status:    models.TenantStatus(query.Status),
		Plan:      models.SubscriptionPlan(query.Plan),
		Limit:     query.Limit,
		Offset:    query.Offset,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenants": tenants,
		"total":   total,
	})
}

// ExportTenants downloads the tenant billing workbook
// @Router /superadmin/tenants/export [get]
func (h *SuperAdminHandler) ExportTenants(c *gin.Context) {
	h.LogRequest(c, "Exporting tenants")

	var buf bytes.Buffer
	if err := h.reports.ExportTenants(c.Request.Context(), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("tenants-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *SuperAdminHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
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
