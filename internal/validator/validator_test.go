package validator

import (
	"errors"
	"testing"
)

func TestValidateSignInRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		req       SignInRequest
		wantField string
		wantRule  string
	}{
		{name: "valid", req: SignInRequest{Email: "student@demo.com", Password: "demo123"}},
		{name: "missing email", req: SignInRequest{Password: "x"}, wantField: "email", wantRule: "required"},
		{name: "bad email", req: SignInRequest{Email: "nope", Password: "x"}, wantField: "email", wantRule: "email"},
		{name: "missing password", req: SignInRequest{Email: "a@b.com"}, wantField: "password", wantRule: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ve ValidationErrors
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if ve[0].Field != tt.wantField || ve[0].Rule != tt.wantRule {
				t.Errorf("got %s/%s, want %s/%s", ve[0].Field, ve[0].Rule, tt.wantField, tt.wantRule)
			}
		})
	}
}

func TestValidatePlanID(t *testing.T) {
	v := New()

	for _, id := range []string{"starter", "professional", "enterprise"} {
		if err := v.Validate(ChangePlanRequest{PlanID: id}); err != nil {
			t.Errorf("%s: unexpected error %v", id, err)
		}
	}

	err := v.Validate(ChangePlanRequest{PlanID: "platinum"})
	var ve ValidationErrors
	if !errors.As(err, &ve) || ve[0].Rule != "plan_id" {
		t.Fatalf("expected plan_id failure, got %v", err)
	}
	if ve[0].Message != "must be starter, professional or enterprise" {
		t.Errorf("message = %q", ve[0].Message)
	}
}

func TestValidateTenantListQuery(t *testing.T) {
	v := New()
	if err := v.Validate(TenantListQuery{Status: "active", Limit: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(TenantListQuery{SortOrder: "sideways"}); err == nil {
		t.Fatal("expected sort order to be rejected")
	}
}

func TestValidationErrorsError(t *testing.T) {
	if got := (ValidationErrors{}).Error(); got != "validation failed" {
		t.Errorf("empty = %q", got)
	}
	one := ValidationErrors{{Field: "email", Message: "is required"}}
	if got := one.Error(); got != "validation failed: email is required" {
		t.Errorf("one = %q", got)
	}
}
