package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

const (
	EventSource  = "educloud-dashboard"
	EventVersion = "1.0"

	TypePlanChanged = "subscription.plan_changed"
)

type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	TenantID  string      `json:"tenant_id,omitempty"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType, tenantID string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		TenantID:  tenantID,
		Data:      data,
	}
}

// PlanChangedData is the payload of TypePlanChanged.
type PlanChangedData struct {
	ChangeID    uint                    `json:"change_id"`
	FromPlan    models.SubscriptionPlan `json:"from_plan"`
	ToPlan      models.SubscriptionPlan `json:"to_plan"`
	MaxStudents int                     `json:"max_students"`
	MonthlyCost float64                 `json:"monthly_cost"`
	ChangedBy   string                  `json:"changed_by"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
