package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/domain"
	"github.com/pawgress/pawgress/internal/server/middleware"
)

type CreateTrainingTypeInput struct {
	Body struct {
		Code      string `json:"code" minLength:"1" maxLength:"63" pattern:"^[a-z0-9_]+$" doc:"Stable machine key, unique per school"`
		Name      string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Category  string `json:"category" required:"false" enum:"training,workshop,lecture,exam" default:"training" doc:"Category"`
		RankOrder int    `json:"rank_order" required:"false" minimum:"0" default:"0" doc:"Display order"`
	}
}

type TrainingTypeOutput struct {
	Body *domain.TrainingType
}

type ListTrainingTypesOutput struct {
	Body []*domain.TrainingType
}

type CreateLevelInput struct {
	Body struct {
		Name  string `json:"name" minLength:"1" maxLength:"255" doc:"Level name"`
		Rank  int    `json:"rank" minimum:"1" doc:"Progression order, unique per school"`
		Color string `json:"color" maxLength:"32" doc:"Display color"`
	}
}

type LevelOutput struct {
	Body *domain.Level
}

type ListLevelsOutput struct {
	Body []*domain.Level
}

type SetRequirementInput struct {
	LevelID uuid.UUID `path:"levelID" doc:"Level ID"`
	Body    struct {
		TrainingTypeID uuid.UUID `json:"training_type_id" doc:"Training type ID"`
		RequiredCount  int       `json:"required_count" minimum:"1" doc:"Achievements required"`
		RankOrder      int       `json:"rank_order" required:"false" minimum:"0" default:"0" doc:"Display order"`
	}
}

type RequirementOutput struct {
	Body *domain.LevelRequirement
}

type DeleteRequirementInput struct {
	LevelID        uuid.UUID `path:"levelID" doc:"Level ID"`
	TrainingTypeID uuid.UUID `path:"trainingTypeID" doc:"Training type ID"`
}

type ListRequirementsInput struct {
	LevelID uuid.UUID `path:"levelID" doc:"Level ID"`
}

type ListRequirementsOutput struct {
	Body []*domain.LevelRequirement
}

// RegisterCatalogRoutes wires the per-tenant progression catalog: training
// types, levels, and level requirements. All mutations are admin-only.
func RegisterCatalogRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-training-type",
		Method:      http.MethodPost,
		Path:        "/catalog/training-types",
		Summary:     "Create a training type",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *CreateTrainingTypeInput) (*TrainingTypeOutput, error) {
		tenantID, err := requireAdmin(ctx)
		if err != nil {
			return nil, err
		}

		tt := &domain.TrainingType{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Code:      input.Body.Code,
			Name:      input.Body.Name,
			Category:  input.Body.Category,
			RankOrder: input.Body.RankOrder,
			CreatedAt: time.Now(),
		}

		if err := store.Catalog().CreateTrainingType(ctx, tt); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("a training type with this code already exists")
			}
			return nil, huma.Error500InternalServerError("failed to create training type", err)
		}

		return &TrainingTypeOutput{Body: tt}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-training-types",
		Method:      http.MethodGet,
		Path:        "/catalog/training-types",
		Summary:     "List training types",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, _ *struct{}) (*ListTrainingTypesOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		types, err := store.Catalog().ListTrainingTypes(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list training types", err)
		}

		return &ListTrainingTypesOutput{Body: types}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-level",
		Method:      http.MethodPost,
		Path:        "/catalog/levels",
		Summary:     "Create a level",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *CreateLevelInput) (*LevelOutput, error) {
		tenantID, err := requireAdmin(ctx)
		if err != nil {
			return nil, err
		}

		l := &domain.Level{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      input.Body.Name,
			Rank:      input.Body.Rank,
			Color:     input.Body.Color,
			CreatedAt: time.Now(),
		}

		if err := store.Catalog().CreateLevel(ctx, l); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("a level with this rank already exists")
			}
			return nil, huma.Error500InternalServerError("failed to create level", err)
		}

		return &LevelOutput{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-levels",
		Method:      http.MethodGet,
		Path:        "/catalog/levels",
		Summary:     "List levels in progression order",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, _ *struct{}) (*ListLevelsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		levels, err := store.Catalog().ListLevels(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list levels", err)
		}

		return &ListLevelsOutput{Body: levels}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-level-requirement",
		Method:      http.MethodPut,
		Path:        "/catalog/levels/{levelID}/requirements",
		Summary:     "Set a level requirement",
		Description: "Upserts on (level, training type): repeating the pair overwrites the required count.",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *SetRequirementInput) (*RequirementOutput, error) {
		tenantID, err := requireAdmin(ctx)
		if err != nil {
			return nil, err
		}

		req := &domain.LevelRequirement{
			ID:             uuid.New(),
			LevelID:        input.LevelID,
			TrainingTypeID: input.Body.TrainingTypeID,
			RequiredCount:  input.Body.RequiredCount,
			RankOrder:      input.Body.RankOrder,
			CreatedAt:      time.Now(),
		}

		if err := store.Catalog().SetRequirement(ctx, tenantID, req); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("level or training type not found in this school")
			}
			return nil, huma.Error500InternalServerError("failed to set requirement", err)
		}

		return &RequirementOutput{Body: req}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-level-requirement",
		Method:      http.MethodDelete,
		Path:        "/catalog/levels/{levelID}/requirements/{trainingTypeID}",
		Summary:     "Delete a level requirement",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *DeleteRequirementInput) (*struct{}, error) {
		tenantID, err := requireAdmin(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Catalog().DeleteRequirement(ctx, tenantID, input.LevelID, input.TrainingTypeID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("requirement not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete requirement", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-level-requirements",
		Method:      http.MethodGet,
		Path:        "/catalog/levels/{levelID}/requirements",
		Summary:     "List requirements of a level",
		Tags:        []string{"Catalog"},
	}, func(ctx context.Context, input *ListRequirementsInput) (*ListRequirementsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		reqs, err := store.Catalog().RequirementsForLevel(ctx, tenantID, input.LevelID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list requirements", err)
		}

		return &ListRequirementsOutput{Body: reqs}, nil
	})
}

// requireAdmin returns the caller's tenant or the appropriate huma error.
func requireAdmin(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("authentication required")
	}

	role, _ := middleware.RoleFromContext(ctx)
	if role != middleware.RoleAdmin {
		return uuid.Nil, huma.Error403Forbidden("admin role required")
	}

	return tenantID, nil
}
