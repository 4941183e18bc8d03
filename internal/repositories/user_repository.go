package repositories

import (
	"context"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	TenantID string
	Role     *models.UserRole
	Limit    int
	Offset   int
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Upsert inserts user or updates it in place, keyed by email.
	Upsert(ctx context.Context, user *models.User) error
}
