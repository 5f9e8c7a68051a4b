package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is one school. Every other entity in the system belongs to exactly
// one tenant; tenants are never merged and never hard-deleted while
// referencing data exists (soft deactivation via Active only).
type Tenant struct {
	ID          uuid.UUID
	Name        string
	Subdomain   string // unique resolution key, e.g. "bello" for bello.pawgress.app
	Branding    map[string]any
	Plan        string // "starter", "pro", "enterprise"
	Active      bool
	TrialEndsAt *time.Time // nil once on a paid plan
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Tenant, error)
}
