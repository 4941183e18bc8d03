package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/educloud-dashboard/internal/billing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories/casdoor"
	"github.com/SAP-F-2025/educloud-dashboard/internal/services"
	"github.com/SAP-F-2025/educloud-dashboard/internal/session"
	"github.com/SAP-F-2025/educloud-dashboard/internal/utils"
	"github.com/SAP-F-2025/educloud-dashboard/internal/validator"
)

const (
	demoPassword = "demo123"
	demoTenantID = "5f0c2b8e-1d7a-4c3e-9b61-0a2f4e6d8c10"
)

// fakeUsers implements repositories.UserRepository in memory. Missing rows
// answer gorm.ErrRecordNotFound like the postgres repository; err, when
// set, fails every lookup.
type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User
	err  error
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) List(context.Context, repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUsers) Upsert(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	return nil
}

type fakeSubscriptions struct {
	state     *services.SubscriptionState
	getErr    error
	changeErr error
	changedTo models.SubscriptionPlan
}

func (f *fakeSubscriptions) GetSubscription(context.Context, string) (*services.SubscriptionState, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.state, nil
}

func (f *fakeSubscriptions) ChangePlan(_ context.Context, _ *models.User, _ string, plan models.SubscriptionPlan) (*services.SubscriptionState, error) {
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	f.changedTo = plan
	sub := *f.state.Subscription
	sub.CurrentPlan = plan
	return &services.SubscriptionState{Subscription: &sub}, nil
}

func (f *fakeSubscriptions) IsPending(context.Context, string) bool { return false }

func (f *fakeSubscriptions) ListPlans(context.Context, string) ([]billing.PlanOption, error) {
	return billing.Compare(models.PlanProfessional, 342), nil
}

func (f *fakeSubscriptions) History(context.Context, string, int) ([]*models.PlanChange, error) {
	return []*models.PlanChange{}, nil
}

type fakeDashboards struct{}

func (fakeDashboards) GetDashboard(_ context.Context, user *models.User) (*services.Dashboard, error) {
	return &services.Dashboard{Role: user.Role, Title: string(user.Role) + " dashboard"}, nil
}

func (fakeDashboards) GetPlatformOverview(context.Context) (*services.SuperAdminDashboard, error) {
	return &services.SuperAdminDashboard{Metrics: services.PlatformMetrics{TotalTenants: 3}}, nil
}

func (fakeDashboards) ListTenants(context.Context, services.TenantListFilters) ([]*models.Tenant, int64, error) {
	return []*models.Tenant{{ID: demoTenantID, Name: "Demo School"}}, 1, nil
}

type fakeReports struct{}

func (fakeReports) ExportTenants(_ context.Context, w io.Writer) error {
	_, err := w.Write([]byte("PK fake workbook"))
	return err
}

type fakeServiceManager struct {
	subscriptions *fakeSubscriptions
}

func (f *fakeServiceManager) Subscription() services.SubscriptionService { return f.subscriptions }
func (f *fakeServiceManager) Dashboard() services.DashboardService       { return fakeDashboards{} }
func (f *fakeServiceManager) Report() services.ReportService             { return fakeReports{} }
func (f *fakeServiceManager) Initialize(context.Context) error           { return nil }
func (f *fakeServiceManager) HealthCheck(context.Context) error          { return nil }
func (f *fakeServiceManager) Shutdown(context.Context) error             { return nil }

type testServer struct {
	router        *gin.Engine
	users         *fakeUsers
	subscriptions *fakeSubscriptions
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func demoUser(t *testing.T, role models.UserRole) *models.User {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	name := string(role)
	if name == "" {
		name = "norole"
	}
	return &models.User{
		ID:           "user-" + name,
		TenantID:     demoTenantID,
		Email:        name + "@demo.com",
		Role:         role,
		FirstName:    "Demo",
		PasswordHash: string(h),
		Status:       models.UserStatusActive,
	}
}

func newTestServer(t *testing.T, identity *casdoor.Identity, users ...*models.User) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fu := &fakeUsers{byID: make(map[string]*models.User)}
	for _, u := range users {
		fu.byID[u.ID] = u
	}

	sub := billing.Derive(&models.Tenant{
		ID:               demoTenantID,
		SubscriptionPlan: models.PlanProfessional,
		StudentsCount:    342,
	})
	subs := &fakeSubscriptions{state: &services.SubscriptionState{Subscription: &sub}}

	logger := discardLogger()
	manager := session.NewManager(session.NewMemoryStore(), fu, session.Config{Secret: "test-secret"}, logger)

	hm := NewHandlerManager(&fakeServiceManager{subscriptions: subs}, validator.New(), utils.NewSlogLogger(logger), HandlerConfig{
		SessionManager: manager,
		Identity:       identity,
		UserRepo:       fu,
	})

	router := gin.New()
	SetupMiddleware(router, utils.NewSlogLogger(logger), MiddlewareConfig{AllowedOrigins: []string{"https://app.educloud.test"}})
	hm.SetupRoutes(router)

	return &testServer{router: router, users: fu, subscriptions: subs}
}

func (ts *testServer) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) doWithBearer(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// signIn returns the session cookie for email.
func (ts *testServer) signIn(t *testing.T, email string) *http.Cookie {
	t.Helper()
	w := ts.do(http.MethodPost, "/api/v1/auth/sign-in", `{"email":"`+email+`","password":"`+demoPassword+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("sign in %s: status %d body %s", email, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("sign in %s: no session cookie", email)
	return nil
}
