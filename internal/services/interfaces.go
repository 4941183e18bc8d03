package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/educloud-dashboard/internal/billing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

// ===== SUBSCRIPTION DTOs =====

// SubscriptionState is what the subscription manager renders. Subscription is
// nil when the tenant could not be loaded.
type SubscriptionState struct {
	Subscription *billing.Subscription `json:"subscription"`
	Loading      bool                  `json:"loading"`
	Pending      bool                  `json:"pending"`
}

// ===== DASHBOARD DTOs =====

type Metric struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change,omitempty"`
}

type UpcomingClass struct {
	Subject string `json:"subject"`
	Time    string `json:"time"`
	Room    string `json:"room"`
	Teacher string `json:"teacher"`
}

type RecentGrade struct {
	Subject    string `json:"subject"`
	Grade      string `json:"grade"`
	Assignment string `json:"assignment"`
	Date       string `json:"date"`
}

type Recommendation struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

type StudentDashboard struct {
	Greeting        string           `json:"greeting"`
	Metrics         []Metric         `json:"metrics"`
	Classes         []UpcomingClass  `json:"classes"`
	Grades          []RecentGrade    `json:"grades"`
	Recommendations []Recommendation `json:"recommendations"`
}

// PlatformMetrics aggregates every tenant on the platform.
type PlatformMetrics struct {
	MonthlyRevenue float64 `json:"monthly_revenue"`
	TotalTenants   int     `json:"total_tenants"`
	ActiveTenants  int     `json:"active_tenants"`
	TotalStudents  int     `json:"total_students"`
	ActiveRatio    int     `json:"active_ratio_percentage"`
}

type TenantSummary struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Plan     models.SubscriptionPlan `json:"plan"`
	Status   models.BillingStatus    `json:"status"`
	Students int                     `json:"students"`
	Revenue  float64                 `json:"revenue"`
}

type SuperAdminDashboard struct {
	Metrics       PlatformMetrics `json:"metrics"`
	RecentTenants []TenantSummary `json:"recent_tenants"`
}

type AdminDashboard struct {
	Subscription *billing.Subscription `json:"subscription"`
}

// Dashboard is the data behind one role's home view. Exactly one of the
// role sections is set, except for placeholder roles which carry none.
type Dashboard struct {
	Role     models.UserRole `json:"role"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`

	Student    *StudentDashboard    `json:"student,omitempty"`
	SuperAdmin *SuperAdminDashboard `json:"superadmin,omitempty"`
	Admin      *AdminDashboard      `json:"admin,omitempty"`
}

// ===== SERVICE INTERFACES =====

type SubscriptionService interface {
	GetSubscription(ctx context.Context, tenantID string) (*SubscriptionState, error)
	ChangePlan(ctx context.Context, actor *models.User, tenantID string, planID models.SubscriptionPlan) (*SubscriptionState, error)
	IsPending(ctx context.Context, tenantID string) bool
	ListPlans(ctx context.Context, tenantID string) ([]billing.PlanOption, error)
	History(ctx context.Context, tenantID string, limit int) ([]*models.PlanChange, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, user *models.User) (*Dashboard, error)
	GetPlatformOverview(ctx context.Context) (*SuperAdminDashboard, error)
	ListTenants(ctx context.Context, filters TenantListFilters) ([]*models.Tenant, int64, error)
}

type ReportService interface {
	ExportTenants(ctx context.Context, w io.Writer) error
}

// TenantListFilters is the superadmin tenant list query.
type TenantListFilters struct {
	Status    models.TenantStatus
	Plan      models.SubscriptionPlan
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Subscription() SubscriptionService
	Dashboard() DashboardService
	Report() ReportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
