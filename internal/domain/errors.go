package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrConflict     = errors.New("domain: conflict")
	ErrUnauthorized = errors.New("domain: unauthorized")
	ErrForbidden    = errors.New("domain: forbidden")

	// ErrTenantNotFound is returned when a resolution descriptor (subdomain
	// or dev override) matches no tenant. Surfaces as a non-retryable 404.
	ErrTenantNotFound = errors.New("domain: tenant not found")

	// ErrTenantMismatch is returned when a session's tenant claim disagrees
	// with the tenant resolved for the request. The session is invalid in
	// this context.
	ErrTenantMismatch = errors.New("domain: tenant mismatch")

	// ErrTenantInactive is returned when the resolved tenant has been
	// deactivated.
	ErrTenantInactive = errors.New("domain: tenant inactive")

	// ErrInvalidTrainingType is returned when an achievement references a
	// training type that does not exist or belongs to another tenant.
	ErrInvalidTrainingType = errors.New("domain: invalid training type")
)
