package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pawgress/pawgress/internal/directory"
	"github.com/pawgress/pawgress/internal/domain"
)

// TenantOverrideHeader names the tenant directly, bypassing host parsing.
// The directory resolver only honors it in dev mode.
const TenantOverrideHeader = "X-Pawgress-Tenant"

// ResolveTenant resolves the request host to a tenant and stores it in the
// request context. Unknown or missing subdomains get 404; the response never
// reveals whether the subdomain exists as a reserved word or not at all.
// Deactivated tenants get 403 on every resolved route, public ones included.
func ResolveTenant(resolver *directory.Resolver, baseDomain string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := directory.Descriptor{
				Subdomain: subdomainFromHost(r.Host, baseDomain),
				Override:  r.Header.Get(TenantOverrideHeader),
			}

			tenant, err := resolver.Resolve(r.Context(), d)
			if err != nil {
				if errors.Is(err, domain.ErrTenantNotFound) {
					http.Error(w, `{"title":"Not Found","status":404,"detail":"unknown tenant"}`, http.StatusNotFound)
					return
				}
				if errors.Is(err, domain.ErrTenantInactive) {
					http.Error(w, `{"title":"Forbidden","status":403,"detail":"tenant is not active"}`, http.StatusForbidden)
					return
				}
				log.Error().Err(err).Str("host", r.Host).Msg("middleware: tenant resolution failed")
				http.Error(w, `{"title":"Internal Server Error","status":500,"detail":"tenant resolution failed"}`, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyTenant, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// subdomainFromHost extracts the tenant subdomain: the label left of the base
// domain. Hosts that equal the base domain or live outside it yield "".
func subdomainFromHost(host, baseDomain string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	if host == baseDomain {
		return ""
	}

	suffix := "." + baseDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}

	sub := strings.TrimSuffix(host, suffix)
	// Only a single label resolves; "a.b.pawgress.app" is not a tenant host.
	if strings.Contains(sub, ".") {
		return ""
	}

	return sub
}
