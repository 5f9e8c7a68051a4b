package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/pawgress/pawgress/internal/api/v1"
	"github.com/pawgress/pawgress/internal/auth"
	"github.com/pawgress/pawgress/internal/billing"
	"github.com/pawgress/pawgress/internal/progression"
	"github.com/pawgress/pawgress/internal/store/postgres"
)

// registerPlatformRoutes serves requests addressed to the platform itself
// rather than to one school. The claimed subdomain does not resolve yet, so
// these run without tenant resolution.
func registerPlatformRoutes(api huma.API, store *postgres.Store) {
	v1.RegisterTenantRoutes(api, store)
}

// registerPublicRoutes serves the resolved school before login.
func registerPublicRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, validator *billing.Validator) {
	v1.RegisterConfigRoutes(api, store)
	v1.RegisterTenantStatusRoutes(api, validator)
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, prog *progression.Service) {
	v1.RegisterSubjectRoutes(api, store, authSvc)
	v1.RegisterCatalogRoutes(api, store)
	v1.RegisterAchievementRoutes(api, store)
	v1.RegisterProgressionRoutes(api, prog)
	v1.RegisterAPIKeyRoutes(api, store, authSvc)
}
