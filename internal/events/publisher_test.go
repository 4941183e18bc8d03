package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(TypePlanChanged, "t-1", PlanChangedData{ToPlan: models.PlanEnterprise})
	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}
	if event.Source != EventSource || event.Version != EventVersion {
		t.Errorf("source/version = %s/%s", event.Source, event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Event timestamp should not be zero")
	}
}

func TestGoChannelPublisherDelivers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub, pubSub := NewGoChannelPublisher("subscriptions", discardLogger())
	defer pub.Close()

	messages, err := pubSub.Subscribe(ctx, "subscriptions")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	sent := NewEvent(TypePlanChanged, "t-1", PlanChangedData{
		FromPlan:    models.PlanProfessional,
		ToPlan:      models.PlanEnterprise,
		MonthlyCost: 6840,
	})
	if err := pub.Publish(ctx, sent); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != sent.ID {
			t.Errorf("message UUID = %s, want %s", msg.UUID, sent.ID)
		}
		if msg.Metadata.Get("event_type") != TypePlanChanged || msg.Metadata.Get("tenant_id") != "t-1" {
			t.Errorf("metadata = %v", msg.Metadata)
		}
		got, err := Decode(msg)
		if err != nil {
			t.Fatal(err)
		}
		data, ok := got.Data.(map[string]interface{})
		if !ok || data["to_plan"] != "enterprise" || data["monthly_cost"] != float64(6840) {
			t.Errorf("data = %#v", got.Data)
		}
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(discardLogger())
	_ = mock.Publish(context.Background(), NewEvent(TypePlanChanged, "t", nil))
	if n := len(mock.GetPublishedEvents()); n != 1 {
		t.Fatalf("events = %d", n)
	}
	mock.ClearEvents()
	if n := len(mock.GetPublishedEvents()); n != 0 {
		t.Fatalf("events after clear = %d", n)
	}
}
