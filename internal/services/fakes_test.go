package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo is an in-memory Repository. WithTransaction restores the tenant
// and plan change tables when fn fails.
type fakeRepo struct {
	mu      sync.Mutex
	tenants map[string]models.Tenant
	changes []*models.PlanChange

	// hooks
	updateErr  error
	createErr  error
	listErr    error
	getCalls   int
	lockCalls  int
	beforeRead func()

	// cachedStudents, when set, is what GetByID reports for StudentsCount,
	// standing in for a cache entry that lags the row.
	cachedStudents int
}

func newFakeRepo(tenants ...models.Tenant) *fakeRepo {
	r := &fakeRepo{tenants: make(map[string]models.Tenant)}
	for _, t := range tenants {
		r.tenants[t.ID] = t
	}
	return r
}

func (r *fakeRepo) User() repositories.UserRepository             { return nil }
func (r *fakeRepo) Tenant() repositories.TenantRepository         { return fakeTenants{r} }
func (r *fakeRepo) PlanChange() repositories.PlanChangeRepository { return fakeChanges{r} }
func (r *fakeRepo) Ping(context.Context) error                    { return nil }
func (r *fakeRepo) Close() error                                  { return nil }

func (r *fakeRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	r.mu.Lock()
	savedTenants := make(map[string]models.Tenant, len(r.tenants))
	for k, v := range r.tenants {
		savedTenants[k] = v
	}
	savedChanges := append([]*models.PlanChange(nil), r.changes...)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.tenants = savedTenants
		r.changes = savedChanges
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeRepo) tenant(id string) models.Tenant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tenants[id]
}

type fakeTenants struct{ r *fakeRepo }

func (f fakeTenants) GetByID(_ context.Context, id string) (*models.Tenant, error) {
	if f.r.beforeRead != nil {
		f.r.beforeRead()
	}
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.getCalls++
	t, ok := f.r.tenants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if f.r.cachedStudents > 0 {
		t.StudentsCount = f.r.cachedStudents
	}
	return &t, nil
}

func (f fakeTenants) GetForUpdate(_ context.Context, id string) (*models.Tenant, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.lockCalls++
	t, ok := f.r.tenants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (f fakeTenants) List(_ context.Context, filters repositories.TenantFilters) ([]*models.Tenant, int64, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if f.r.listErr != nil {
		return nil, 0, f.r.listErr
	}

	var out []*models.Tenant
	for _, t := range f.r.tenants {
		t := t
		if filters.Status != nil && t.Status != *filters.Status {
			continue
		}
		if filters.Plan != nil && t.SubscriptionPlan != *filters.Plan {
			continue
		}
		out = append(out, &t)
	}

	sort.Slice(out, func(i, j int) bool {
		switch filters.SortBy {
		case "created_at":
			if filters.SortOrder == "desc" {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out, int64(len(out)), nil
}

func (f fakeTenants) UpdatePlan(_ context.Context, id string, update repositories.PlanUpdate) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if f.r.updateErr != nil {
		return f.r.updateErr
	}
	t, ok := f.r.tenants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.SubscriptionPlan = update.Plan
	t.MaxStudents = update.MaxStudents
	t.MonthlyCost = update.MonthlyCost
	t.UpdatedAt = update.UpdatedAt
	f.r.tenants[id] = t
	return nil
}

func (f fakeTenants) Upsert(_ context.Context, tenant *models.Tenant) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.tenants[tenant.ID] = *tenant
	return nil
}

type fakeChanges struct{ r *fakeRepo }

func (f fakeChanges) Create(_ context.Context, change *models.PlanChange) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if f.r.createErr != nil {
		return f.r.createErr
	}
	change.ID = uint(len(f.r.changes) + 1)
	f.r.changes = append(f.r.changes, change)
	return nil
}

func (f fakeChanges) ListByTenant(_ context.Context, tenantID string, limit int) ([]*models.PlanChange, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.PlanChange
	for i := len(f.r.changes) - 1; i >= 0; i-- {
		if f.r.changes[i].TenantID == tenantID {
			out = append(out, f.r.changes[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
