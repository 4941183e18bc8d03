package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/educloud-dashboard/internal/billing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/cache"
	"github.com/SAP-F-2025/educloud-dashboard/internal/events"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
)

type subscriptionService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	marker    *cache.PendingMarker
	publisher events.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewSubscriptionService(repo repositories.Repository, cm *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger) SubscriptionService {
	return &subscriptionService{
		repo:      repo,
		cache:     cm,
		marker:    cache.NewPendingMarker(cm.Lock),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func pendingKey(tenantID string) string {
	return "plan:" + tenantID
}

func (s *subscriptionService) GetSubscription(ctx context.Context, tenantID string) (*SubscriptionState, error) {
	tenant, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	sub := billing.Derive(tenant)
	return &SubscriptionState{
		Subscription: &sub,
		Loading:      false,
		Pending:      s.IsPending(ctx, tenantID),
	}, nil
}

// ChangePlan moves the tenant onto planID and returns the state read back
// after the write has committed.
func (s *subscriptionService) ChangePlan(ctx context.Context, actor *models.User, tenantID string, planID models.SubscriptionPlan) (*SubscriptionState, error) {
	plan, ok := billing.LookupPlan(planID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, planID)
	}
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if actor.TenantID != tenantID {
		return nil, ErrForbidden
	}

	token, acquired, err := s.marker.Acquire(ctx, pendingKey(tenantID), cache.LockCacheConfig.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to mark plan change pending: %w", err)
	}
	if !acquired {
		return nil, ErrPlanChangePending
	}
	defer func() {
		if err := s.marker.Release(context.WithoutCancel(ctx), pendingKey(tenantID), token); err != nil {
			s.logger.WarnContext(ctx, "Failed to release plan change marker", "error", err, "tenant_id", tenantID)
		}
	}()

	if tenantID == "" {
		return nil, ErrNotFound
	}

	// Cost is computed from the locked row, never from a cached read, so
	// monthly_cost always matches the students_count it is stored with.
	var change *models.PlanChange
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		current, err := tx.Tenant().GetForUpdate(ctx, tenantID)
		if err != nil {
			return err
		}
		if current.SubscriptionPlan == plan.ID {
			return nil
		}

		next, _ := billing.Apply(*current, plan.ID)
		change = &models.PlanChange{
			TenantID:    tenantID,
			FromPlan:    current.SubscriptionPlan,
			ToPlan:      plan.ID,
			MaxStudents: next.MaxStudents,
			MonthlyCost: next.MonthlyCost,
			ChangedBy:   actor.ID,
			Metadata:    changeMetadata(current),
		}

		update := repositories.PlanUpdate{
			Plan:        next.SubscriptionPlan,
			MaxStudents: next.MaxStudents,
			MonthlyCost: next.MonthlyCost,
			UpdatedAt:   s.now().UTC(),
		}
		if err := tx.Tenant().UpdatePlan(ctx, tenantID, update); err != nil {
			return err
		}
		return tx.PlanChange().Create(ctx, change)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to change plan: %w", err)
	}

	if change == nil {
		// already on plan: nothing written, no audit row, no event
		current, err := s.loadTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		sub := billing.Derive(current)
		return &SubscriptionState{Subscription: &sub}, nil
	}

	cache.InvalidateTenantCache(ctx, s.cache, tenantID)

	reloaded, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sub := billing.Derive(reloaded)

	s.logger.InfoContext(ctx, "Subscription plan changed",
		"tenant_id", tenantID,
		"from_plan", change.FromPlan,
		"to_plan", change.ToPlan,
		"changed_by", actor.ID)

	s.publishPlanChanged(ctx, change)

	return &SubscriptionState{Subscription: &sub}, nil
}

func (s *subscriptionService) IsPending(ctx context.Context, tenantID string) bool {
	held, err := s.marker.Held(ctx, pendingKey(tenantID))
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read plan change marker", "error", err, "tenant_id", tenantID)
		return false
	}
	return held
}

func (s *subscriptionService) ListPlans(ctx context.Context, tenantID string) ([]billing.PlanOption, error) {
	tenant, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return billing.Compare(tenant.SubscriptionPlan, tenant.StudentsCount), nil
}

func (s *subscriptionService) History(ctx context.Context, tenantID string, limit int) ([]*models.PlanChange, error) {
	changes, err := s.repo.PlanChange().ListByTenant(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan changes: %w", err)
	}
	return changes, nil
}

func (s *subscriptionService) loadTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	if tenantID == "" {
		return nil, ErrNotFound
	}
	tenant, err := s.repo.Tenant().GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	return tenant, nil
}

func (s *subscriptionService) publishPlanChanged(ctx context.Context, change *models.PlanChange) {
	if s.publisher == nil {
		return
	}
	event := events.NewEvent(events.TypePlanChanged, change.TenantID, events.PlanChangedData{
		ChangeID:    change.ID,
		FromPlan:    change.FromPlan,
		ToPlan:      change.ToPlan,
		MaxStudents: change.MaxStudents,
		MonthlyCost: change.MonthlyCost,
		ChangedBy:   change.ChangedBy,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish plan change event", "error", err, "tenant_id", change.TenantID)
	}
}

func changeMetadata(before *models.Tenant) datatypes.JSON {
	raw, err := json.Marshal(map[string]interface{}{
		"students_count":       before.StudentsCount,
		"previous_max":         before.MaxStudents,
		"previous_monthly_fee": before.MonthlyCost,
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
