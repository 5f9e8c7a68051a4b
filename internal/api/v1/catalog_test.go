package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/pawgress/pawgress/internal/api/v1"
	"github.com/pawgress/pawgress/internal/domain"
)

// ---------------------------------------------------------------------------
// POST /catalog/training-types
// ---------------------------------------------------------------------------

func TestCreateTrainingType(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				createTrainingTypeFunc: func(_ context.Context, tt *domain.TrainingType) error {
					assert.Equal(t, tid, tt.TenantID)
					assert.Equal(t, "agility", tt.Code)
					assert.Equal(t, "training", tt.Category)
					return nil
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.PostCtx(adminCtx(tid), "/catalog/training-types", map[string]any{
			"code": "agility",
			"name": "Agility Class",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.TrainingType
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "agility", body.Code)
		assert.Equal(t, tid, body.TenantID)
	})

	t.Run("duplicate_code", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				createTrainingTypeFunc: func(_ context.Context, _ *domain.TrainingType) error {
					return domain.ErrConflict
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.PostCtx(adminCtx(tid), "/catalog/training-types", map[string]any{
			"code": "agility",
			"name": "Agility Class",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("trainer_forbidden", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		v1.RegisterCatalogRoutes(api, &mockDataStore{})

		resp := api.PostCtx(trainerCtx(tid), "/catalog/training-types", map[string]any{
			"code": "agility",
			"name": "Agility Class",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("invalid_code_rejected", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		v1.RegisterCatalogRoutes(api, &mockDataStore{})

		resp := api.PostCtx(adminCtx(tid), "/catalog/training-types", map[string]any{
			"code": "Agility Class!",
			"name": "Agility Class",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /catalog/levels
// ---------------------------------------------------------------------------

func TestCreateLevel(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				createLevelFunc: func(_ context.Context, l *domain.Level) error {
					assert.Equal(t, tid, l.TenantID)
					assert.Equal(t, "Expert", l.Name)
					assert.Equal(t, 5, l.Rank)
					return nil
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.PostCtx(adminCtx(tid), "/catalog/levels", map[string]any{
			"name":  "Expert",
			"rank":  5,
			"color": "#A78BFA",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("duplicate_rank", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				createLevelFunc: func(_ context.Context, _ *domain.Level) error {
					return domain.ErrConflict
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.PostCtx(adminCtx(tid), "/catalog/levels", map[string]any{
			"name":  "Expert Again",
			"rank":  5,
			"color": "#A78BFA",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// PUT /catalog/levels/{levelID}/requirements
// ---------------------------------------------------------------------------

func TestSetRequirement(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		levelID := uuid.New()
		ttID := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				setRequirementFunc: func(_ context.Context, tenantID uuid.UUID, req *domain.LevelRequirement) error {
					assert.Equal(t, tid, tenantID)
					assert.Equal(t, levelID, req.LevelID)
					assert.Equal(t, ttID, req.TrainingTypeID)
					assert.Equal(t, 6, req.RequiredCount)
					return nil
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.PutCtx(adminCtx(tid), "/catalog/levels/"+levelID.String()+"/requirements", map[string]any{
			"training_type_id": ttID.String(),
			"required_count":   6,
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	// Repeating the same (level, training type) pair is an update, not an
	// error: the handler forwards both calls to the same upsert.
	t.Run("repeat_pair_overwrites", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		levelID := uuid.New()
		ttID := uuid.New()
		var gotCounts []int

		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				setRequirementFunc: func(_ context.Context, _ uuid.UUID, req *domain.LevelRequirement) error {
					gotCounts = append(gotCounts, req.RequiredCount)
					return nil
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		for _, count := range []int{6, 8} {
			resp := api.PutCtx(adminCtx(tid), "/catalog/levels/"+levelID.String()+"/requirements", map[string]any{
				"training_type_id": ttID.String(),
				"required_count":   count,
			})
			require.Equal(t, http.StatusOK, resp.Code)
		}

		assert.Equal(t, []int{6, 8}, gotCounts)
	})

	// On an update the storage layer echoes the stored row; the response must
	// carry that identity, not the fresh one the handler generated.
	t.Run("update_keeps_stored_identity", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		levelID := uuid.New()
		ttID := uuid.New()
		storedID := uuid.New()
		storedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				setRequirementFunc: func(_ context.Context, _ uuid.UUID, req *domain.LevelRequirement) error {
					req.ID = storedID
					req.CreatedAt = storedAt
					return nil
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.PutCtx(adminCtx(tid), "/catalog/levels/"+levelID.String()+"/requirements", map[string]any{
			"training_type_id": ttID.String(),
			"required_count":   8,
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.LevelRequirement
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, storedID, body.ID)
		assert.True(t, body.CreatedAt.Equal(storedAt))
	})

	t.Run("foreign_references_404", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				setRequirementFunc: func(_ context.Context, _ uuid.UUID, _ *domain.LevelRequirement) error {
					return domain.ErrNotFound
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.PutCtx(adminCtx(tid), "/catalog/levels/"+uuid.NewString()+"/requirements", map[string]any{
			"training_type_id": uuid.NewString(),
			"required_count":   1,
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("zero_count_rejected", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		v1.RegisterCatalogRoutes(api, &mockDataStore{})

		resp := api.PutCtx(adminCtx(tid), "/catalog/levels/"+uuid.NewString()+"/requirements", map[string]any{
			"training_type_id": uuid.NewString(),
			"required_count":   0,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /catalog/levels/{levelID}/requirements
// ---------------------------------------------------------------------------

func TestListRequirements(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		levelID := uuid.New()
		now := time.Now().Truncate(time.Second)
		reqs := []*domain.LevelRequirement{
			{ID: uuid.New(), LevelID: levelID, TrainingTypeID: uuid.New(), RequiredCount: 6, RankOrder: 1, CreatedAt: now},
			{ID: uuid.New(), LevelID: levelID, TrainingTypeID: uuid.New(), RequiredCount: 1, RankOrder: 2, CreatedAt: now},
		}

		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				requirementsForLevelFunc: func(_ context.Context, tenantID, lid uuid.UUID) ([]*domain.LevelRequirement, error) {
					assert.Equal(t, tid, tenantID)
					assert.Equal(t, levelID, lid)
					return reqs, nil
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.GetCtx(memberCtx(tid, uuid.New()), "/catalog/levels/"+levelID.String()+"/requirements")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []domain.LevelRequirement
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Len(t, body, 2)
	})
}

// ---------------------------------------------------------------------------
// DELETE /catalog/levels/{levelID}/requirements/{trainingTypeID}
// ---------------------------------------------------------------------------

func TestDeleteRequirement(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		levelID := uuid.New()
		ttID := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				deleteRequirementFunc: func(_ context.Context, tenantID, lid, tt uuid.UUID) error {
					assert.Equal(t, tid, tenantID)
					assert.Equal(t, levelID, lid)
					assert.Equal(t, ttID, tt)
					return nil
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.DeleteCtx(adminCtx(tid), "/catalog/levels/"+levelID.String()+"/requirements/"+ttID.String())

		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		tid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			catalog: &mockCatalogRepo{
				deleteRequirementFunc: func(_ context.Context, _, _, _ uuid.UUID) error {
					return domain.ErrNotFound
				},
			},
		}
		v1.RegisterCatalogRoutes(api, store)

		resp := api.DeleteCtx(adminCtx(tid), "/catalog/levels/"+uuid.NewString()+"/requirements/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
