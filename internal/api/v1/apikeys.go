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

type CreateAPIKeyInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"255" doc:"Key label"`
	}
}

type CreateAPIKeyOutput struct {
	Body struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Prefix    string    `json:"prefix"`
		Key       string    `json:"key" doc:"Full key, shown only once"`
		CreatedAt time.Time `json:"created_at"`
	}
}

type APIKeySummary struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ListAPIKeysOutput struct {
	Body []APIKeySummary
}

type DeleteAPIKeyInput struct {
	ID uuid.UUID `path:"id" doc:"API key ID"`
}

// RegisterAPIKeyRoutes wires key management for staff integrations. The raw
// key is returned exactly once at creation; listing only ever exposes the
// lookup prefix.
func RegisterAPIKeyRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-api-key",
		Method:      http.MethodPost,
		Path:        "/apikeys",
		Summary:     "Create an API key",
		Tags:        []string{"API Keys"},
	}, func(ctx context.Context, input *CreateAPIKeyInput) (*CreateAPIKeyOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		subjectID, ok := middleware.SubjectIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		role, _ := middleware.RoleFromContext(ctx)
		if role != middleware.RoleAdmin && role != middleware.RoleTrainer {
			return nil, huma.Error403Forbidden("staff role required")
		}

		rawKey, key, err := authSvc.GenerateAPIKey(ctx, tenantID, subjectID, input.Body.Name)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create API key", err)
		}

		out := &CreateAPIKeyOutput{}
		out.Body.ID = key.ID
		out.Body.Name = key.Name
		out.Body.Prefix = key.Prefix
		out.Body.Key = rawKey
		out.Body.CreatedAt = key.CreatedAt
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-api-keys",
		Method:      http.MethodGet,
		Path:        "/apikeys",
		Summary:     "List the caller's API keys",
		Tags:        []string{"API Keys"},
	}, func(ctx context.Context, _ *struct{}) (*ListAPIKeysOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		subjectID, ok := middleware.SubjectIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		keys, err := store.Subjects().ListAPIKeys(ctx, tenantID, subjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list API keys", err)
		}

		out := &ListAPIKeysOutput{Body: make([]APIKeySummary, 0, len(keys))}
		for _, k := range keys {
			out.Body = append(out.Body, APIKeySummary{
				ID:         k.ID,
				Name:       k.Name,
				Prefix:     k.Prefix,
				LastUsedAt: k.LastUsedAt,
				ExpiresAt:  k.ExpiresAt,
				CreatedAt:  k.CreatedAt,
			})
		}

		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-api-key",
		Method:      http.MethodDelete,
		Path:        "/apikeys/{id}",
		Summary:     "Revoke an API key",
		Tags:        []string{"API Keys"},
	}, func(ctx context.Context, input *DeleteAPIKeyInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if err := store.Subjects().DeleteAPIKey(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("API key not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete API key", err)
		}

		return nil, nil
	})
}
