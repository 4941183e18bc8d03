package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
)

type PlanChangePostgreSQL struct {
	db *gorm.DB
}

func NewPlanChangePostgreSQL(db *gorm.DB) repositories.PlanChangeRepository {
	return &PlanChangePostgreSQL{db: db}
}

func (p *PlanChangePostgreSQL) Create(ctx context.Context, change *models.PlanChange) error {
	return p.db.WithContext(ctx).Create(change).Error
}

func (p *PlanChangePostgreSQL) ListByTenant(ctx context.Context, tenantID string, limit int) ([]*models.PlanChange, error) {
	if limit <= 0 {
		limit = 20
	}
	var changes []*models.PlanChange
	if err := p.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}
