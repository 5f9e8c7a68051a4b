package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/auth"
	"github.com/pawgress/pawgress/internal/billing"
	"github.com/pawgress/pawgress/internal/domain"
	"github.com/pawgress/pawgress/internal/server/middleware"
)

type RegisterTenantInput struct {
	Body struct {
		Name       string `json:"name" minLength:"1" maxLength:"255" doc:"School name"`
		Subdomain  string `json:"subdomain" minLength:"1" maxLength:"63" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe subdomain (lowercase alphanumeric with hyphens)"`
		AdminEmail string `json:"admin_email" minLength:"3" maxLength:"255" doc:"Admin email"`
		AdminName  string `json:"admin_name" minLength:"1" maxLength:"255" doc:"Admin display name"`
		Password   string `json:"password" minLength:"8" maxLength:"128" doc:"Admin password"` //nolint:gosec // G117: registration DTO
	}
}

type RegisterTenantOutput struct {
	Body struct {
		Tenant *domain.Tenant `json:"tenant"`
	}
}

type TenantStatusOutput struct {
	Body struct {
		Name        string     `json:"name"`
		Subdomain   string     `json:"subdomain"`
		Plan        string     `json:"plan"`
		Active      bool       `json:"active"`
		OnTrial     bool       `json:"on_trial"`
		TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	}
}

// reservedSubdomains can never be registered; "default" is the migration
// target for legacy data, the rest are infrastructure hosts.
var reservedSubdomains = map[string]struct{}{
	"default": {},
	"www":     {},
	"api":     {},
	"admin":   {},
	"app":     {},
}

// RegisterTenantRoutes wires school self-registration. The route runs outside
// tenant resolution: the subdomain being claimed does not exist yet.
func RegisterTenantRoutes(api huma.API, store Onboarder) {
	huma.Register(api, huma.Operation{
		OperationID: "register-tenant",
		Method:      http.MethodPost,
		Path:        "/tenants/register",
		Summary:     "Register a new school",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *RegisterTenantInput) (*RegisterTenantOutput, error) {
		subdomain := strings.ToLower(input.Body.Subdomain)
		if _, reserved := reservedSubdomains[subdomain]; reserved {
			return nil, huma.Error409Conflict("subdomain is reserved")
		}

		hash, err := auth.HashPassword(input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to hash password", err)
		}

		now := time.Now()
		trialEnd := now.Add(billing.TrialDuration)
		tenant := &domain.Tenant{
			ID:          uuid.New(),
			Name:        input.Body.Name,
			Subdomain:   subdomain,
			Branding:    map[string]any{},
			Plan:        "enterprise",
			Active:      true,
			TrialEndsAt: &trialEnd,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		admin := &domain.Subject{
			ID:           uuid.New(),
			TenantID:     tenant.ID,
			Email:        input.Body.AdminEmail,
			Name:         input.Body.AdminName,
			PasswordHash: hash,
			Role:         middleware.RoleAdmin,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err = store.Onboard(ctx, tenant, admin, domain.DefaultCatalog())
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("subdomain already taken")
			}
			return nil, huma.Error500InternalServerError("failed to register school", err)
		}

		out := &RegisterTenantOutput{}
		out.Body.Tenant = tenant
		return out, nil
	})
}

// RegisterTenantStatusRoutes wires the per-tenant status endpoint; it runs
// behind tenant resolution but without authentication.
func RegisterTenantStatusRoutes(api huma.API, validator *billing.Validator) {
	huma.Register(api, huma.Operation{
		OperationID: "tenant-status",
		Method:      http.MethodGet,
		Path:        "/tenants/status",
		Summary:     "Subscription status of the resolved school",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, _ *struct{}) (*TenantStatusOutput, error) {
		tenant, ok := middleware.TenantFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("unknown tenant")
		}

		active := tenant.Active
		if err := validator.Check(tenant); err != nil {
			active = false
		}

		out := &TenantStatusOutput{}
		out.Body.Name = tenant.Name
		out.Body.Subdomain = tenant.Subdomain
		out.Body.Plan = tenant.Plan
		out.Body.Active = active
		out.Body.OnTrial = tenant.TrialEndsAt != nil
		out.Body.TrialEndsAt = tenant.TrialEndsAt
		return out, nil
	})
}
