package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/pawgress/pawgress/internal/api/v1"
	"github.com/pawgress/pawgress/internal/domain"
)

// ---------------------------------------------------------------------------
// GET /config
// ---------------------------------------------------------------------------

func TestTenantConfig(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		tenant := &domain.Tenant{
			ID:        uuid.New(),
			Name:      "Bello Dog School",
			Subdomain: "bello",
			Branding:  map[string]any{"primary_color": "#4ADE80"},
			Active:    true,
		}
		types := []*domain.TrainingType{
			{ID: uuid.New(), TenantID: tenant.ID, Code: "group_class", Name: "Group Class", Category: "training"},
		}
		levels := []*domain.Level{
			{ID: uuid.New(), TenantID: tenant.ID, Name: "Puppy", Rank: 1},
			{ID: uuid.New(), TenantID: tenant.ID, Name: "Beginner", Rank: 2},
		}

		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				listTrainingTypesFunc: func(_ context.Context, tenantID uuid.UUID) ([]*domain.TrainingType, error) {
					assert.Equal(t, tenant.ID, tenantID)
					return types, nil
				},
				listLevelsFunc: func(_ context.Context, tenantID uuid.UUID) ([]*domain.Level, error) {
					assert.Equal(t, tenant.ID, tenantID)
					return levels, nil
				},
			},
		}
		v1.RegisterConfigRoutes(api, store)

		resp := api.GetCtx(resolvedCtx(tenant), "/config")

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Name          string                `json:"name"`
			Subdomain     string                `json:"subdomain"`
			Branding      map[string]any        `json:"branding"`
			TrainingTypes []domain.TrainingType `json:"training_types"`
			Levels        []domain.Level        `json:"levels"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "Bello Dog School", body.Name)
		assert.Equal(t, "bello", body.Subdomain)
		assert.Equal(t, "#4ADE80", body.Branding["primary_color"])
		assert.Len(t, body.TrainingTypes, 1)
		assert.Len(t, body.Levels, 2)
	})

	t.Run("no_resolved_tenant", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterConfigRoutes(api, &mockDataStore{})

		resp := api.GetCtx(context.Background(), "/config")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
