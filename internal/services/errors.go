package services

import (
	"errors"

	"github.com/SAP-F-2025/educloud-dashboard/internal/session"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrValidationFailed  = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrUnknownPlan       = errors.New("unknown subscription plan")
	ErrPlanChangePending = errors.New("plan change already in progress")

	ErrInvalidCredentials = session.ErrInvalidCredentials
)
