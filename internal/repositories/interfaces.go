package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

type TenantFilters struct {
	Status    *models.TenantStatus     `json:"status"`
	Plan      *models.SubscriptionPlan `json:"plan"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "created_at", "name", "students_count"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}

// PlanUpdate is the set of tenant columns a plan change writes.
type PlanUpdate struct {
	Plan        models.SubscriptionPlan
	MaxStudents int
	MonthlyCost float64
	UpdatedAt   time.Time
}

type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*models.Tenant, error)

	// GetForUpdate reads the row uncached and locks it until the surrounding
	// transaction ends. Only meaningful inside WithTransaction.
	GetForUpdate(ctx context.Context, id string) (*models.Tenant, error)
	List(ctx context.Context, filters TenantFilters) ([]*models.Tenant, int64, error)

	// UpdatePlan writes only the plan columns. It returns gorm.ErrRecordNotFound
	// when no row matched.
	UpdatePlan(ctx context.Context, id string, update PlanUpdate) error

	Upsert(ctx context.Context, tenant *models.Tenant) error
}

type PlanChangeRepository interface {
	Create(ctx context.Context, change *models.PlanChange) error
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]*models.PlanChange, error)
}
