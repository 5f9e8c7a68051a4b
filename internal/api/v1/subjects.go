package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/auth"
	"github.com/pawgress/pawgress/internal/domain"
	"github.com/pawgress/pawgress/internal/server/middleware"
)

type CreateSubjectInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"Subject email"`
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Handler display name"`
		DogName  string `json:"dog_name" required:"false" maxLength:"255" doc:"Dog name"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Initial password"` //nolint:gosec // G117: admin-created credential DTO
		Role     string `json:"role" required:"false" enum:"admin,trainer,member" default:"member" doc:"Subject role"`
	}
}

type SubjectOutput struct {
	Body *domain.Subject
}

type ListSubjectsOutput struct {
	Body []*domain.Subject
}

type GetSubjectInput struct {
	ID uuid.UUID `path:"id" doc:"Subject ID"`
}

// RegisterSubjectRoutes wires subject management. Creation is an admin
// operation; members see only themselves, staff see everyone.
func RegisterSubjectRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-subject",
		Method:      http.MethodPost,
		Path:        "/subjects",
		Summary:     "Create a subject",
		Tags:        []string{"Subjects"},
	}, func(ctx context.Context, input *CreateSubjectInput) (*SubjectOutput, error) {
		role, _ := middleware.RoleFromContext(ctx)
		if role != middleware.RoleAdmin {
			return nil, huma.Error403Forbidden("admin role required")
		}

		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		subject, err := authSvc.Register(ctx, tenantID, input.Body.Email, input.Body.Password, input.Body.Name, input.Body.DogName, input.Body.Role)
		if err != nil {
			if errors.Is(err, auth.ErrSubjectAlreadyExists) {
				return nil, huma.Error409Conflict("a subject with this email already exists")
			}
			return nil, huma.Error500InternalServerError("failed to create subject", err)
		}

		subject.PasswordHash = ""

		return &SubjectOutput{Body: subject}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-subjects",
		Method:      http.MethodGet,
		Path:        "/subjects",
		Summary:     "List subjects of the school",
		Tags:        []string{"Subjects"},
	}, func(ctx context.Context, _ *struct{}) (*ListSubjectsOutput, error) {
		role, _ := middleware.RoleFromContext(ctx)
		if role != middleware.RoleAdmin && role != middleware.RoleTrainer {
			return nil, huma.Error403Forbidden("staff role required")
		}

		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		subjects, err := store.Subjects().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list subjects", err)
		}

		for _, s := range subjects {
			s.PasswordHash = ""
		}

		return &ListSubjectsOutput{Body: subjects}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-subject",
		Method:      http.MethodGet,
		Path:        "/subjects/{id}",
		Summary:     "Get one subject",
		Tags:        []string{"Subjects"},
	}, func(ctx context.Context, input *GetSubjectInput) (*SubjectOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if err := requireSelfOrStaff(ctx, input.ID); err != nil {
			return nil, err
		}

		subject, err := store.Subjects().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("subject not found")
			}
			return nil, huma.Error500InternalServerError("failed to load subject", err)
		}

		subject.PasswordHash = ""

		return &SubjectOutput{Body: subject}, nil
	})
}

// requireSelfOrStaff allows staff, or a member acting on their own record.
func requireSelfOrStaff(ctx context.Context, subjectID uuid.UUID) error {
	role, _ := middleware.RoleFromContext(ctx)
	if role == middleware.RoleAdmin || role == middleware.RoleTrainer {
		return nil
	}

	selfID, ok := middleware.SubjectIDFromContext(ctx)
	if ok && selfID == subjectID {
		return nil
	}

	return huma.Error403Forbidden("insufficient permissions")
}
