package validator

// SignInRequest is the body of POST /api/auth/sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// ChangePlanRequest is the body of PUT /api/subscription/plan.
type ChangePlanRequest struct {
	PlanID string `json:"plan_id" validate:"required,plan_id"`
}

// TenantListQuery binds the superadmin tenant list filters.
type TenantListQuery struct {
	Status    string `form:"status" json:"status" validate:"omitempty,oneof=active suspended cancelled"`
	Plan      string `form:"plan" json:"plan" validate:"omitempty,oneof=starter professional enterprise custom"`
	Limit     int    `form:"limit" json:"limit" validate:"omitempty,min=1,max=500"`
	Offset    int    `form:"offset" json:"offset" validate:"omitempty,min=0"`
	SortBy    string `form:"sort_by" json:"sort_by" validate:"omitempty,oneof=name created_at students_count monthly_cost"`
	SortOrder string `form:"sort_order" json:"sort_order" validate:"omitempty,oneof=asc desc"`
}
