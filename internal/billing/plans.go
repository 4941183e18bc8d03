// Package billing holds the plan catalog and the subscription figures derived
// from it. Nothing here touches storage; callers pass in tenant records.
package billing

import "github.com/SAP-F-2025/educloud-dashboard/internal/models"

// Plan is a billing tier with a per-student price and a student ceiling.
type Plan struct {
	ID              models.SubscriptionPlan `json:"id"`
	Name            string                  `json:"name"`
	PricePerStudent int                     `json:"price_per_student"` // USD per student per month
	MaxStudents     int                     `json:"max_students"`
	Features        []string                `json:"features"`
}

// catalog is ordered by price; Plans returns copies.
var catalog = []Plan{
	{
		ID:              models.PlanStarter,
		Name:            "Starter",
		PricePerStudent: 5,
		MaxStudents:     100,
		Features:        []string{"Basic Analytics", "Student Management", "Grade Tracking", "Email Support"},
	},
	{
		ID:              models.PlanProfessional,
		Name:            "Professional",
		PricePerStudent: 10,
		MaxStudents:     500,
		Features:        []string{"Advanced Analytics", "AI Insights", "Parent Portal", "SMS Notifications", "Priority Support"},
	},
	{
		ID:              models.PlanEnterprise,
		Name:            "Enterprise",
		PricePerStudent: 20,
		MaxStudents:     2000,
		Features:        []string{"Custom Analytics", "AI Tutor", "White Label", "API Access", "Dedicated Support"},
	},
}

// Plans returns the catalog in ascending price order.
func Plans() []Plan {
	out := make([]Plan, len(catalog))
	for i, p := range catalog {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

// LookupPlan returns the catalog entry for id. The custom plan has no
// catalog entry.
func LookupPlan(id models.SubscriptionPlan) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			p.Features = append([]string(nil), p.Features...)
			return p, true
		}
	}
	return Plan{}, false
}
