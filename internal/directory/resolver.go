// Package directory resolves inbound request descriptors to tenants. It is
// the only component allowed to turn a subdomain into a tenant identity;
// everything downstream works with the resolved tenant from the request
// context.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pawgress/pawgress/internal/domain"
)

// Descriptor identifies the tenant a request claims to belong to. Subdomain
// is derived from the Host header; Override comes from the dev-only header
// and is ignored unless the resolver was built with dev mode enabled.
type Descriptor struct {
	Subdomain string
	Override  string
}

// Cache is a read-through cache over subdomain lookups. Implementations must
// key by subdomain and tolerate misses; Invalidate is called on every tenant
// write so renames never serve stale identities.
type Cache interface {
	Get(ctx context.Context, subdomain string) (*domain.Tenant, bool)
	Set(ctx context.Context, t *domain.Tenant)
	Invalidate(ctx context.Context, subdomain string)
}

// Resolver maps descriptors to tenants with a single exact-match lookup.
type Resolver struct {
	tenants domain.TenantRepository
	cache   Cache // may be nil
	devMode bool
}

func NewResolver(tenants domain.TenantRepository, cache Cache, devMode bool) *Resolver {
	return &Resolver{tenants: tenants, cache: cache, devMode: devMode}
}

// Resolve returns the tenant for the descriptor, domain.ErrTenantNotFound
// when no tenant matches, or domain.ErrTenantInactive when the matched tenant
// has been deactivated. A deactivated school never resolves; its public
// surface goes dark along with its authenticated one. The override wins only
// in dev mode; production deployments resolve from the host-derived subdomain
// alone and never trust a client-supplied value.
func (r *Resolver) Resolve(ctx context.Context, d Descriptor) (*domain.Tenant, error) {
	key := d.Subdomain
	if r.devMode && d.Override != "" {
		key = d.Override
	}

	if key == "" {
		return nil, fmt.Errorf("directory.Resolve: empty descriptor: %w", domain.ErrTenantNotFound)
	}

	if r.cache != nil {
		if t, ok := r.cache.Get(ctx, key); ok {
			if !t.Active {
				return nil, fmt.Errorf("directory.Resolve: %q: %w", key, domain.ErrTenantInactive)
			}
			return t, nil
		}
	}

	t, err := r.tenants.GetBySubdomain(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("directory.Resolve: %q: %w", key, domain.ErrTenantNotFound)
		}
		return nil, fmt.Errorf("directory.Resolve: %w", err)
	}

	// Inactive tenants are cached too, so repeated requests to a deactivated
	// school do not hit postgres every time.
	if r.cache != nil {
		r.cache.Set(ctx, t)
	}

	if !t.Active {
		return nil, fmt.Errorf("directory.Resolve: %q: %w", key, domain.ErrTenantInactive)
	}

	return t, nil
}

// Rename updates a tenant's record and invalidates both the old and new
// subdomain cache entries so no request resolves the stale key.
func (r *Resolver) Rename(ctx context.Context, t *domain.Tenant, oldSubdomain string) error {
	err := r.tenants.Update(ctx, t)
	if err != nil {
		return fmt.Errorf("directory.Rename: %w", err)
	}

	if r.cache != nil {
		r.cache.Invalidate(ctx, oldSubdomain)
		r.cache.Invalidate(ctx, t.Subdomain)
	}

	log.Info().Str("tenant_id", t.ID.String()).Str("subdomain", t.Subdomain).Msg("tenant renamed")

	return nil
}
