package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pawgress/pawgress/internal/domain"
	"github.com/pawgress/pawgress/internal/server/middleware"
)

type TenantConfigOutput struct {
	Body struct {
		Name          string                 `json:"name"`
		Subdomain     string                 `json:"subdomain"`
		Branding      map[string]any         `json:"branding"`
		TrainingTypes []*domain.TrainingType `json:"training_types"`
		Levels        []*domain.Level        `json:"levels"`
	}
}

// RegisterConfigRoutes wires the public per-tenant config endpoint. It serves
// everything a client needs to render the school before login: branding plus
// the progression catalog.
func RegisterConfigRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "tenant-config",
		Method:      http.MethodGet,
		Path:        "/config",
		Summary:     "Public config of the resolved school",
		Tags:        []string{"Config"},
	}, func(ctx context.Context, _ *struct{}) (*TenantConfigOutput, error) {
		tenant, ok := middleware.TenantFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("unknown tenant")
		}

		types, err := store.Catalog().ListTrainingTypes(ctx, tenant.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load training types", err)
		}

		levels, err := store.Catalog().ListLevels(ctx, tenant.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load levels", err)
		}

		out := &TenantConfigOutput{}
		out.Body.Name = tenant.Name
		out.Body.Subdomain = tenant.Subdomain
		out.Body.Branding = tenant.Branding
		out.Body.TrainingTypes = types
		out.Body.Levels = levels
		return out, nil
	})
}
