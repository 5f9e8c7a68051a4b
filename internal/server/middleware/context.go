package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/domain"
)

type contextKey string

const (
	ContextKeyTenant      contextKey = "tenant"
	ContextKeyTenantID    contextKey = "tenant_id"
	ContextKeySubjectID   contextKey = "subject_id"
	ContextKeySubjectRole contextKey = "role"
)

// TenantFromContext returns the tenant resolved from the request host, set by
// the ResolveTenant middleware.
func TenantFromContext(ctx context.Context) (*domain.Tenant, bool) {
	v, ok := ctx.Value(ContextKeyTenant).(*domain.Tenant)
	return v, ok
}

// TenantIDFromContext returns the tenant the caller's credentials were issued
// under, set by the Auth middleware. This may differ from the resolved tenant;
// EnforceTenant rejects such requests.
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyTenantID).(uuid.UUID)
	return v, ok
}

func SubjectIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeySubjectID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeySubjectRole).(string)
	return v, ok
}
