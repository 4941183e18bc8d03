package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/educloud-dashboard/internal/cache"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
)

type TenantPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewTenantPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.TenantRepository {
	return &TenantPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (t *TenantPostgreSQL) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := t.cacheManager.Tenant.CacheOrExecute(ctx, "id:"+id, &tenant, cache.TenantCacheConfig.TTL, func() (interface{}, error) {
		var dbTenant models.Tenant
		if err := t.db.WithContext(ctx).Where("id = ?", id).First(&dbTenant).Error; err != nil {
			return nil, fmt.Errorf("failed to get tenant: %w", err)
		}
		return &dbTenant, nil
	})
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (t *TenantPostgreSQL) GetForUpdate(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&tenant).Error; err != nil {
		return nil, fmt.Errorf("failed to lock tenant: %w", err)
	}
	return &tenant, nil
}

func (t *TenantPostgreSQL) List(ctx context.Context, filters repositories.TenantFilters) ([]*models.Tenant, int64, error) {
	var tenants []*models.Tenant
	var total int64

	query := t.db.WithContext(ctx).Model(&models.Tenant{})
	query = t.helpers.ApplyTenantFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = t.helpers.ApplyTenantSort(query, filters)
	query = t.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	if err := query.Find(&tenants).Error; err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

func (t *TenantPostgreSQL) UpdatePlan(ctx context.Context, id string, update repositories.PlanUpdate) error {
	result := t.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"subscription_plan": update.Plan,
			"max_students":      update.MaxStudents,
			"monthly_cost":      update.MonthlyCost,
			"updated_at":        update.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (t *TenantPostgreSQL) Upsert(ctx context.Context, tenant *models.Tenant) error {
	return t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subdomain"}},
			UpdateAll: true,
		}).
		Create(tenant).Error
}
