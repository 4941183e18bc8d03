package billing

import (
	"math"
	"time"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

// Usage policy. A warning is shown strictly above UsageWarningThreshold;
// the usage bar turns yellow above UsageYellowThreshold and red above
// UsageRedThreshold.
const (
	UsageWarningThreshold = 80
	UsageYellowThreshold  = 70
	UsageRedThreshold     = 90
)

type UsageColor string

const (
	UsageGreen  UsageColor = "green"
	UsageYellow UsageColor = "yellow"
	UsageRed    UsageColor = "red"
)

// Subscription is the derived billing view of a tenant.
type Subscription struct {
	TenantID        string                  `json:"tenant_id"`
	CurrentPlan     models.SubscriptionPlan `json:"current_plan"`
	PlanName        string                  `json:"plan_name"`
	PricePerStudent int                     `json:"price_per_student"`
	StudentsCount   int                     `json:"students_count"`
	MaxStudents     int                     `json:"max_students"`
	MonthlyCost     float64                 `json:"monthly_cost"`
	NextBillingDate string                  `json:"next_billing_date,omitempty"`
	Status          models.BillingStatus    `json:"status"`
	Utilization     int                     `json:"utilization_percentage"`
	UsageWarning    bool                    `json:"usage_warning"`
	UsageColor      UsageColor              `json:"usage_color"`
}

// Utilization returns round(count/max*100), or 0 when max is not positive.
func Utilization(studentsCount, maxStudents int) int {
	if maxStudents <= 0 || studentsCount <= 0 {
		return 0
	}
	return int(math.Round(float64(studentsCount) / float64(maxStudents) * 100))
}

// PlanUtilization measures studentsCount against the ceiling of plan. Unknown
// plans report 0.
func PlanUtilization(studentsCount int, plan models.SubscriptionPlan) int {
	p, ok := LookupPlan(plan)
	if !ok {
		return 0
	}
	return Utilization(studentsCount, p.MaxStudents)
}

// MonthlyCost returns studentsCount times the plan's per-student price.
func MonthlyCost(studentsCount int, plan models.SubscriptionPlan) (float64, bool) {
	p, ok := LookupPlan(plan)
	if !ok {
		return 0, false
	}
	if studentsCount < 0 {
		studentsCount = 0
	}
	return float64(studentsCount * p.PricePerStudent), true
}

func ShowUsageWarning(utilization int) bool {
	return utilization > UsageWarningThreshold
}

func ColorFor(utilization int) UsageColor {
	switch {
	case utilization > UsageRedThreshold:
		return UsageRed
	case utilization > UsageYellowThreshold:
		return UsageYellow
	default:
		return UsageGreen
	}
}

// Derive builds the subscription view of t. Cost and utilization are always
// recomputed from the plan and the student count; the stored monthly_cost
// column is only used for plans outside the catalog.
func Derive(t *models.Tenant) Subscription {
	sub := Subscription{
		TenantID:      t.ID,
		CurrentPlan:   t.SubscriptionPlan,
		StudentsCount: t.StudentsCount,
		MaxStudents:   t.MaxStudents,
		MonthlyCost:   t.MonthlyCost,
		Status:        t.BillingStatus,
	}
	if sub.Status == "" {
		sub.Status = models.BillingStatusActive
	}
	if t.NextBillingDate != nil {
		sub.NextBillingDate = time.Time(*t.NextBillingDate).Format(time.DateOnly)
	}

	if p, ok := LookupPlan(t.SubscriptionPlan); ok {
		sub.PlanName = p.Name
		sub.PricePerStudent = p.PricePerStudent
		sub.MaxStudents = p.MaxStudents
		sub.MonthlyCost, _ = MonthlyCost(t.StudentsCount, p.ID)
		sub.Utilization = Utilization(t.StudentsCount, p.MaxStudents)
	}

	sub.UsageWarning = ShowUsageWarning(sub.Utilization)
	sub.UsageColor = ColorFor(sub.Utilization)
	return sub
}

// Apply returns a copy of t moved onto plan, with the ceiling and cost the
// catalog dictates. ok is false for plans outside the catalog, in which case
// t is returned unchanged.
func Apply(t models.Tenant, plan models.SubscriptionPlan) (models.Tenant, bool) {
	p, ok := LookupPlan(plan)
	if !ok {
		return t, false
	}
	t.SubscriptionPlan = p.ID
	t.MaxStudents = p.MaxStudents
	t.MonthlyCost, _ = MonthlyCost(t.StudentsCount, p.ID)
	return t, true
}
