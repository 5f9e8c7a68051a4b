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

type RecordAchievementInput struct {
	SubjectID uuid.UUID `path:"subjectID" doc:"Subject ID"`
	Body      struct {
		TrainingTypeID uuid.UUID  `json:"training_type_id" doc:"Training type ID"`
		AchievedAt     *time.Time `json:"achieved_at,omitempty" doc:"When the training happened; defaults to now"`
	}
}

type AchievementOutput struct {
	Body *domain.Achievement
}

type ListAchievementsInput struct {
	SubjectID uuid.UUID `path:"subjectID" doc:"Subject ID"`
}

type ListAchievementsOutput struct {
	Body []*domain.Achievement
}

type AchievementCountsInput struct {
	SubjectID uuid.UUID `path:"subjectID" doc:"Subject ID"`
}

type AchievementCountsOutput struct {
	Body struct {
		Counts map[uuid.UUID]int `json:"counts" doc:"Unconsumed achievements per training type"`
	}
}

type DeleteAchievementInput struct {
	SubjectID uuid.UUID `path:"subjectID" doc:"Subject ID"`
	ID        uuid.UUID `path:"id" doc:"Achievement ID"`
}

// RegisterAchievementRoutes wires the achievement ledger. Recording is a
// staff operation; the counts and history are visible to the subject
// themselves and to staff.
func RegisterAchievementRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "record-achievement",
		Method:      http.MethodPost,
		Path:        "/subjects/{subjectID}/achievements",
		Summary:     "Record an achievement",
		Tags:        []string{"Achievements"},
	}, func(ctx context.Context, input *RecordAchievementInput) (*AchievementOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		role, _ := middleware.RoleFromContext(ctx)
		if role != middleware.RoleAdmin && role != middleware.RoleTrainer {
			return nil, huma.Error403Forbidden("staff role required")
		}

		achievedAt := time.Now()
		if input.Body.AchievedAt != nil {
			achievedAt = *input.Body.AchievedAt
		}

		a := &domain.Achievement{
			ID:             uuid.New(),
			TenantID:       tenantID,
			SubjectID:      input.SubjectID,
			TrainingTypeID: input.Body.TrainingTypeID,
			AchievedAt:     achievedAt,
		}

		if err := store.Achievements().Record(ctx, a); err != nil {
			if errors.Is(err, domain.ErrInvalidTrainingType) {
				return nil, huma.Error422UnprocessableEntity("subject or training type does not belong to this school")
			}
			return nil, huma.Error500InternalServerError("failed to record achievement", err)
		}

		return &AchievementOutput{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-achievements",
		Method:      http.MethodGet,
		Path:        "/subjects/{subjectID}/achievements",
		Summary:     "List a subject's achievements",
		Tags:        []string{"Achievements"},
	}, func(ctx context.Context, input *ListAchievementsInput) (*ListAchievementsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if err := requireSelfOrStaff(ctx, input.SubjectID); err != nil {
			return nil, err
		}

		achievements, err := store.Achievements().ListForSubject(ctx, tenantID, input.SubjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list achievements", err)
		}

		return &ListAchievementsOutput{Body: achievements}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "achievement-counts",
		Method:      http.MethodGet,
		Path:        "/subjects/{subjectID}/achievements/counts",
		Summary:     "Unconsumed achievement counts per training type",
		Tags:        []string{"Achievements"},
	}, func(ctx context.Context, input *AchievementCountsInput) (*AchievementCountsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if err := requireSelfOrStaff(ctx, input.SubjectID); err != nil {
			return nil, err
		}

		counts, err := store.Achievements().CountsForSubject(ctx, tenantID, input.SubjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count achievements", err)
		}

		out := &AchievementCountsOutput{}
		out.Body.Counts = counts
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-achievement",
		Method:      http.MethodDelete,
		Path:        "/subjects/{subjectID}/achievements/{id}",
		Summary:     "Delete an achievement (administrative correction)",
		Tags:        []string{"Achievements"},
	}, func(ctx context.Context, input *DeleteAchievementInput) (*struct{}, error) {
		tenantID, err := requireAdmin(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Achievements().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("achievement not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete achievement", err)
		}

		return nil, nil
	})
}
