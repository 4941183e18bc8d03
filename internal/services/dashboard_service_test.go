package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/educloud-dashboard/internal/cache"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

func platformTenants() []models.Tenant {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.Tenant{
		{
			ID: "t-1", Name: "Springfield Elementary", SubscriptionPlan: models.PlanProfessional,
			Status: models.TenantStatusActive, BillingStatus: models.BillingStatusActive,
			StudentsCount: 450, CreatedAt: base,
		},
		{
			ID: "t-2", Name: "Oak Hill High School", SubscriptionPlan: models.PlanEnterprise,
			Status: models.TenantStatusActive, BillingStatus: models.BillingStatusActive,
			StudentsCount: 1200, CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID: "t-3", Name: "Riverside Academy", SubscriptionPlan: models.PlanProfessional,
			Status: models.TenantStatusActive, BillingStatus: models.BillingStatusTrial,
			StudentsCount: 800, CreatedAt: base.Add(48 * time.Hour),
		},
		{
			ID: "t-4", Name: "Valley Middle School", SubscriptionPlan: models.PlanStarter,
			Status: models.TenantStatusSuspended, BillingStatus: models.BillingStatusPastDue,
			StudentsCount: 50, CreatedAt: base.Add(72 * time.Hour),
		},
	}
}

func newDashboardService(t *testing.T, repo *fakeRepo) DashboardService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDashboardService(repo, cache.NewCacheManager(client), testLogger())
}

func TestPlatformOverview(t *testing.T) {
	svc := newDashboardService(t, newFakeRepo(platformTenants()...))

	overview, err := svc.GetPlatformOverview(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	m := overview.Metrics
	// 450*10 + 1200*20 + trial 0 + past due 50*5
	if m.MonthlyRevenue != 28750 {
		t.Errorf("revenue = %v, want 28750", m.MonthlyRevenue)
	}
	if m.TotalTenants != 4 || m.ActiveTenants != 3 || m.ActiveRatio != 75 {
		t.Errorf("tenants = %d active = %d ratio = %d", m.TotalTenants, m.ActiveTenants, m.ActiveRatio)
	}
	if m.TotalStudents != 2500 {
		t.Errorf("students = %d", m.TotalStudents)
	}

	if len(overview.RecentTenants) != 4 || overview.RecentTenants[0].ID != "t-4" {
		t.Fatalf("recent tenants = %+v", overview.RecentTenants)
	}
	for _, rt := range overview.RecentTenants {
		if rt.ID == "t-3" && rt.Revenue != 0 {
			t.Errorf("trial tenant revenue = %v", rt.Revenue)
		}
	}
}

func TestPlatformOverviewIsCached(t *testing.T) {
	repo := newFakeRepo(platformTenants()...)
	svc := newDashboardService(t, repo)
	ctx := context.Background()

	if _, err := svc.GetPlatformOverview(ctx); err != nil {
		t.Fatal(err)
	}

	repo.listErr = errors.New("database down")
	overview, err := svc.GetPlatformOverview(ctx)
	if err != nil {
		t.Fatalf("cached overview returned error: %v", err)
	}
	if overview.Metrics.TotalTenants != 4 {
		t.Errorf("cached total = %d", overview.Metrics.TotalTenants)
	}
}

func TestPlatformOverviewEmpty(t *testing.T) {
	svc := newDashboardService(t, newFakeRepo())

	overview, err := svc.GetPlatformOverview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if overview.Metrics.ActiveRatio != 0 || overview.RecentTenants == nil {
		t.Errorf("overview = %+v", overview)
	}
}

func TestGetDashboardByRole(t *testing.T) {
	tenant := springfield()
	svc := newDashboardService(t, newFakeRepo(tenant))
	ctx := context.Background()

	tests := []struct {
		role  models.UserRole
		title string
		check func(t *testing.T, d *Dashboard)
	}{
		{models.RoleStudent, "Student Dashboard", func(t *testing.T, d *Dashboard) {
			if d.Student == nil || len(d.Student.Classes) != 3 || d.Student.Metrics[0].Value != "3.8" {
				t.Errorf("student panels = %+v", d.Student)
			}
			if d.Student.Greeting != "Welcome back, Sam!" {
				t.Errorf("greeting = %q", d.Student.Greeting)
			}
		}},
		{models.RoleAdmin, "School Administration", func(t *testing.T, d *Dashboard) {
			if d.Admin == nil || d.Admin.Subscription == nil || d.Admin.Subscription.Utilization != 68 {
				t.Errorf("admin panels = %+v", d.Admin)
			}
		}},
		{models.RoleSuperAdmin, "Platform Overview", func(t *testing.T, d *Dashboard) {
			if d.SuperAdmin == nil || d.SuperAdmin.Metrics.TotalTenants != 1 {
				t.Errorf("superadmin panels = %+v", d.SuperAdmin)
			}
		}},
		{models.RoleParent, "Parent Dashboard", nil},
		{models.RoleTeacher, "Teacher Dashboard", nil},
		{models.RolePrincipal, "Principal Dashboard", nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			user := &models.User{ID: "u", TenantID: tenant.ID, Role: tt.role, FirstName: "Sam"}
			d, err := svc.GetDashboard(ctx, user)
			if err != nil {
				t.Fatal(err)
			}
			if d.Title != tt.title || d.Role != tt.role {
				t.Errorf("title = %q role = %s", d.Title, d.Role)
			}
			if tt.check != nil {
				tt.check(t, d)
			}
		})
	}
}

func TestGetDashboardUnknownRole(t *testing.T) {
	svc := newDashboardService(t, newFakeRepo())

	_, err := svc.GetDashboard(context.Background(), &models.User{Role: "janitor"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetDashboard(context.Background(), nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("nil user error = %v", err)
	}
}

func TestAdminDashboardMissingTenant(t *testing.T) {
	svc := newDashboardService(t, newFakeRepo())

	d, err := svc.GetDashboard(context.Background(), &models.User{Role: models.RoleAdmin, TenantID: "gone"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Admin == nil || d.Admin.Subscription != nil {
		t.Errorf("admin = %+v, want empty subscription", d.Admin)
	}
}

func TestListTenantsFilters(t *testing.T) {
	svc := newDashboardService(t, newFakeRepo(platformTenants()...))

	tenants, total, err := svc.ListTenants(context.Background(), TenantListFilters{Plan: models.PlanProfessional})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(tenants) != 2 {
		t.Errorf("total = %d len = %d", total, len(tenants))
	}
}
