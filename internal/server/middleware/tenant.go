package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/billing"
)

// EnforceTenant rejects any request whose credentials were issued under a
// different tenant than the one the host resolved to. A trainer of school A
// browsing school B's subdomain gets 403, never school B's data. It also
// turns away tenants whose subscription lapsed.
//
// Must be chained after ResolveTenant and Auth.
func EnforceTenant(validator *billing.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant, ok := TenantFromContext(r.Context())
			if !ok {
				http.Error(w, `{"title":"Not Found","status":404,"detail":"unknown tenant"}`, http.StatusNotFound)
				return
			}

			claimTenant, ok := TenantIDFromContext(r.Context())
			if !ok || claimTenant == uuid.Nil {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if claimTenant != tenant.ID {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"credentials belong to a different tenant"}`, http.StatusForbidden)
				return
			}

			if err := validator.Check(tenant); err != nil {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"tenant is not active"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
