package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/domain"
	"github.com/pawgress/pawgress/internal/progression"
	"github.com/pawgress/pawgress/internal/server/middleware"
)

type EvaluateInput struct {
	SubjectID uuid.UUID `path:"subjectID" doc:"Subject ID"`
	LevelID   uuid.UUID `path:"levelID" doc:"Target level ID"`
}

type PromoteInput struct {
	SubjectID uuid.UUID `path:"subjectID" doc:"Subject ID"`
	LevelID   uuid.UUID `path:"levelID" doc:"Target level ID"`
}

type DeficitDTO struct {
	TrainingTypeID uuid.UUID `json:"training_type_id"`
	Required       int       `json:"required"`
	Actual         int       `json:"actual"`
	Missing        int       `json:"missing"`
}

type ProgressionOutput struct {
	Body struct {
		Satisfied bool         `json:"satisfied"`
		Deficits  []DeficitDTO `json:"deficits"`
	}
}

func progressionOutput(res progression.Result) *ProgressionOutput {
	out := &ProgressionOutput{}
	out.Body.Satisfied = res.Satisfied
	out.Body.Deficits = make([]DeficitDTO, 0, len(res.Deficits))
	for _, d := range res.Deficits {
		out.Body.Deficits = append(out.Body.Deficits, DeficitDTO{
			TrainingTypeID: d.TrainingTypeID,
			Required:       d.Required,
			Actual:         d.Actual,
			Missing:        d.Missing,
		})
	}

	return out
}

// RegisterProgressionRoutes wires evaluation and promotion. Evaluation is
// read-only and open to the subject themselves; promotion consumes
// achievements and is reserved for staff.
func RegisterProgressionRoutes(api huma.API, svc ProgressionService) {
	huma.Register(api, huma.Operation{
		OperationID: "evaluate-progression",
		Method:      http.MethodGet,
		Path:        "/subjects/{subjectID}/progression/{levelID}",
		Summary:     "Evaluate a subject against a level's requirements",
		Tags:        []string{"Progression"},
	}, func(ctx context.Context, input *EvaluateInput) (*ProgressionOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if err := requireSelfOrStaff(ctx, input.SubjectID); err != nil {
			return nil, err
		}

		res, err := svc.EvaluateSubject(ctx, tenantID, input.SubjectID, input.LevelID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("level not found")
			}
			return nil, huma.Error500InternalServerError("evaluation failed", err)
		}

		return progressionOutput(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "promote-subject",
		Method:      http.MethodPost,
		Path:        "/subjects/{subjectID}/progression/{levelID}/promote",
		Summary:     "Promote a subject to a level",
		Description: "Consumes the counted achievements when the requirements are met. Fails without touching the ledger otherwise.",
		Tags:        []string{"Progression"},
	}, func(ctx context.Context, input *PromoteInput) (*ProgressionOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		role, _ := middleware.RoleFromContext(ctx)
		if role != middleware.RoleAdmin && role != middleware.RoleTrainer {
			return nil, huma.Error403Forbidden("staff role required")
		}

		res, err := svc.Promote(ctx, tenantID, input.SubjectID, input.LevelID)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				var details []error
				for _, d := range res.Deficits {
					if d.Missing > 0 {
						details = append(details, &huma.ErrorDetail{
							Message:  "missing achievements",
							Location: "training_type." + d.TrainingTypeID.String(),
							Value:    d.Missing,
						})
					}
				}
				return nil, huma.Error403Forbidden("requirements not met", details...)
			}
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("level or subject not found")
			}
			return nil, huma.Error500InternalServerError("promotion failed", err)
		}

		return progressionOutput(res), nil
	})
}
