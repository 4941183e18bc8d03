package billing

import "github.com/SAP-F-2025/educloud-dashboard/internal/models"

type PlanAction string

const (
	ActionCurrent   PlanAction = "current"
	ActionUpgrade   PlanAction = "upgrade"
	ActionDowngrade PlanAction = "downgrade"
)

// featurePreview is how many features a plan card lists before "+n more".
const featurePreview = 3

type PlanOption struct {
	Plan
	Action        PlanAction `json:"action"`
	FeaturePicks  []string   `json:"feature_preview"`
	MoreFeatures  int        `json:"more_features"`
	ProjectedCost float64    `json:"projected_monthly_cost"`
}

// Compare lists the catalog relative to the current plan. A plan priced above
// the current one is an upgrade; anything else that is not current is a
// downgrade. studentsCount drives the projected cost of each option.
func Compare(current models.SubscriptionPlan, studentsCount int) []PlanOption {
	var currentPrice int
	if p, ok := LookupPlan(current); ok {
		currentPrice = p.PricePerStudent
	}

	plans := Plans()
	options := make([]PlanOption, 0, len(plans))
	for _, p := range plans {
		opt := PlanOption{Plan: p}
		switch {
		case p.ID == current:
			opt.Action = ActionCurrent
		case p.PricePerStudent > currentPrice:
			opt.Action = ActionUpgrade
		default:
			opt.Action = ActionDowngrade
		}

		n := min(len(p.Features), featurePreview)
		opt.FeaturePicks = p.Features[:n]
		opt.MoreFeatures = len(p.Features) - n
		opt.ProjectedCost, _ = MonthlyCost(studentsCount, p.ID)
		options = append(options, opt)
	}
	return options
}
