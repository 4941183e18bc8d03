package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/SAP-F-2025/educloud-dashboard/internal/billing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/cache"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
)

const (
	platformOverviewKey = "tenants:overview"
	recentTenantsLimit  = 5
)

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheManager
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, cm *cache.CacheManager, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		cache:  cm,
		logger: logger,
	}
}

// GetDashboard builds the home view data for the user's role.
func (s *dashboardService) GetDashboard(ctx context.Context, user *models.User) (*Dashboard, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	switch user.Role {
	case models.RoleStudent:
		return &Dashboard{
			Role:     user.Role,
			Title:    "Student Dashboard",
			Subtitle: "Ready to continue your learning journey?",
			Student:  studentPanels(user),
		}, nil

	case models.RoleSuperAdmin:
		overview, err := s.GetPlatformOverview(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to load platform overview", "error", err)
			overview = &SuperAdminDashboard{RecentTenants: []TenantSummary{}}
		}
		return &Dashboard{
			Role:       user.Role,
			Title:      "Platform Overview",
			Subtitle:   "Monitor and manage the EduCloud platform",
			SuperAdmin: overview,
		}, nil

	case models.RoleAdmin:
		admin := &AdminDashboard{}
		tenant, err := s.repo.Tenant().GetByID(ctx, user.TenantID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to load tenant for admin dashboard", "error", err, "tenant_id", user.TenantID)
		} else {
			sub := billing.Derive(tenant)
			admin.Subscription = &sub
		}
		return &Dashboard{
			Role:     user.Role,
			Title:    "School Administration",
			Subtitle: "Manage your school's subscription and users",
			Admin:    admin,
		}, nil

	case models.RoleParent:
		return &Dashboard{Role: user.Role, Title: "Parent Dashboard", Subtitle: "Parent dashboard coming soon..."}, nil
	case models.RoleTeacher:
		return &Dashboard{Role: user.Role, Title: "Teacher Dashboard", Subtitle: "Teacher dashboard coming soon..."}, nil
	case models.RolePrincipal:
		return &Dashboard{Role: user.Role, Title: "Principal Dashboard", Subtitle: "Principal dashboard coming soon..."}, nil

	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, user.Role)
	}
}

// GetPlatformOverview aggregates every tenant. The result is cached for the
// stats TTL and dropped whenever a tenant's plan changes.
func (s *dashboardService) GetPlatformOverview(ctx context.Context) (*SuperAdminDashboard, error) {
	var overview SuperAdminDashboard
	err := s.cache.Stats.CacheOrExecute(ctx, platformOverviewKey, &overview, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		tenants, _, err := s.repo.Tenant().List(ctx, repositories.TenantFilters{
			Limit:     -1,
			SortBy:    "created_at",
			SortOrder: "desc",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list tenants: %w", err)
		}
		return buildOverview(tenants), nil
	})
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

func (s *dashboardService) ListTenants(ctx context.Context, filters TenantListFilters) ([]*models.Tenant, int64, error) {
	repoFilters := repositories.TenantFilters{
		Limit:     filters.Limit,
		Offset:    filters.Offset,
		SortBy:    filters.SortBy,
		SortOrder: filters.SortOrder,
	}
	if filters.Status != "" {
		repoFilters.Status = &filters.Status
	}
	if filters.Plan != "" {
		repoFilters.Plan = &filters.Plan
	}

	tenants, total, err := s.repo.Tenant().List(ctx, repoFilters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, total, nil
}

// Revenue counts tenants whose billing is active or past due; trial and
// cancelled tenants bill nothing.
func tenantRevenue(t *models.Tenant) float64 {
	switch t.BillingStatus {
	case models.BillingStatusActive, models.BillingStatusPastDue, "":
		return billing.Derive(t).MonthlyCost
	default:
		return 0
	}
}

// buildOverview expects tenants newest first.
func buildOverview(tenants []*models.Tenant) *SuperAdminDashboard {
	overview := &SuperAdminDashboard{RecentTenants: []TenantSummary{}}
	m := &overview.Metrics

	for i, t := range tenants {
		revenue := tenantRevenue(t)
		m.TotalTenants++
		m.TotalStudents += t.StudentsCount
		m.MonthlyRevenue += revenue
		if t.Status == models.TenantStatusActive || t.Status == "" {
			m.ActiveTenants++
		}

		if i < recentTenantsLimit {
			status := t.BillingStatus
			if status == "" {
				status = models.BillingStatusActive
			}
			overview.RecentTenants = append(overview.RecentTenants, TenantSummary{
				ID:       t.ID,
				Name:     t.Name,
				Plan:     t.SubscriptionPlan,
				Status:   status,
				Students: t.StudentsCount,
				Revenue:  revenue,
			})
		}
	}

	if m.TotalTenants > 0 {
		m.ActiveRatio = int(math.Round(float64(m.ActiveTenants) / float64(m.TotalTenants) * 100))
	}
	return overview
}

func studentPanels(user *models.User) *StudentDashboard {
	name := user.FirstName
	if name == "" {
		name = "there"
	}
	return &StudentDashboard{
		Greeting: fmt.Sprintf("Welcome back, %s!", name),
		Metrics: []Metric{
			{Label: "Overall GPA", Value: "3.8"},
			{Label: "Attendance", Value: "96%"},
			{Label: "Assignments", Value: "7 Pending"},
			{Label: "Achievements", Value: "12"},
		},
		Classes: []UpcomingClass{
			{Subject: "Mathematics", Time: "09:00 AM", Room: "Room 101", Teacher: "Mr. Johnson"},
			{Subject: "Physics", Time: "11:00 AM", Room: "Lab 201", Teacher: "Dr. Smith"},
			{Subject: "Chemistry", Time: "02:00 PM", Room: "Lab 102", Teacher: "Ms. Davis"},
		},
		Grades: []RecentGrade{
			{Subject: "Mathematics", Grade: "A", Assignment: "Quiz 3", Date: "2 days ago"},
			{Subject: "Physics", Grade: "B+", Assignment: "Lab Report", Date: "1 week ago"},
			{Subject: "English", Grade: "A-", Assignment: "Essay", Date: "1 week ago"},
		},
		Recommendations: []Recommendation{
			{Type: "Study Focus", Message: "Based on your recent performance, focus more on Algebra concepts", Priority: "high"},
			{Type: "Time Management", Message: "You have 3 assignments due this week. Plan accordingly.", Priority: "medium"},
			{Type: "Achievement", Message: "Great improvement in Physics! Keep up the excellent work.", Priority: "low"},
		},
	}
}
