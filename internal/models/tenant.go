package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubscriptionPlan string

const (
	PlanStarter      SubscriptionPlan = "starter"
	PlanProfessional SubscriptionPlan = "professional"
	PlanEnterprise   SubscriptionPlan = "enterprise"
	PlanCustom       SubscriptionPlan = "custom"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusCancelled TenantStatus = "cancelled"
)

// BillingStatus is the state of the tenant's subscription, independent of
// whether the tenant itself is suspended.
type BillingStatus string

const (
	BillingStatusActive    BillingStatus = "active"
	BillingStatusTrial     BillingStatus = "trial"
	BillingStatusPastDue   BillingStatus = "past_due"
	BillingStatusCancelled BillingStatus = "cancelled"
)

type Tenant struct {
	ID               string           `json:"id" gorm:"primaryKey;type:uuid"`
	Name             string           `json:"name" gorm:"not null;size:200"`
	Subdomain        string           `json:"subdomain" gorm:"uniqueIndex;not null;size:63"`
	SubscriptionPlan SubscriptionPlan `json:"subscription_plan" gorm:"type:subscription_plan;not null"`
	Status           TenantStatus     `json:"status" gorm:"size:20;not null;default:active"`
	BillingStatus    BillingStatus    `json:"billing_status" gorm:"size:20;not null;default:active"`
	StudentsCount    int              `json:"students_count" gorm:"not null;default:0"`
	MaxStudents      int              `json:"max_students" gorm:"not null;default:0"`
	MonthlyCost      float64          `json:"monthly_cost" gorm:"type:numeric(12,2);not null;default:0"`
	NextBillingDate  *datatypes.Date  `json:"next_billing_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// PlanChange records one persisted subscription plan change.
type PlanChange struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	TenantID    string           `json:"tenant_id" gorm:"type:uuid;not null;index"`
	FromPlan    SubscriptionPlan `json:"from_plan" gorm:"type:subscription_plan"`
	ToPlan      SubscriptionPlan `json:"to_plan" gorm:"type:subscription_plan;not null"`
	MaxStudents int              `json:"max_students"`
	MonthlyCost float64          `json:"monthly_cost" gorm:"type:numeric(12,2)"`
	ChangedBy   string           `json:"changed_by" gorm:"type:uuid"`
	Metadata    datatypes.JSON   `json:"metadata,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (PlanChange) TableName() string {
	return "subscription_changes"
}
