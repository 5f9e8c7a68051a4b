package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/auth"
	"github.com/pawgress/pawgress/internal/domain"
)

// APIKeyValidator checks a raw API key and returns its owning subject.
type APIKeyValidator interface {
	ValidateAPIKey(ctx context.Context, rawKey string) (*domain.Subject, *domain.APIKey, error)
}

// Auth authenticates requests via Bearer JWT or X-API-Key header. On success
// the subject's identity (tenant, subject id, role) is stored in the request
// context; both credential kinds produce the same context shape.
func Auth(jwtSecret string, keys APIKeyValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Try Bearer token first.
			if tok := extractBearer(r); tok != "" {
				ctx, ok := authenticateJWT(r.Context(), tok, jwtSecret)
				if ok {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// Try API key.
			if key := r.Header.Get("X-API-Key"); key != "" {
				ctx, ok := authenticateAPIKey(r.Context(), key, keys)
				if ok {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing or invalid credentials"}`, http.StatusUnauthorized)
		})
	}
}

func extractBearer(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
		return authz[7:]
	}
	return ""
}

func authenticateJWT(ctx context.Context, tokenStr, secret string) (context.Context, bool) {
	claims, err := auth.ValidateToken(secret, tokenStr)
	if err != nil {
		return ctx, false
	}

	// Refresh tokens only mint new access tokens; they never authorize requests.
	if claims.TokenType != "access" {
		return ctx, false
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return ctx, false
	}

	subjectID, err := uuid.Parse(claims.SubjectID)
	if err != nil {
		return ctx, false
	}

	ctx = context.WithValue(ctx, ContextKeyTenantID, tenantID)
	ctx = context.WithValue(ctx, ContextKeySubjectID, subjectID)
	ctx = context.WithValue(ctx, ContextKeySubjectRole, claims.Role)
	return ctx, true
}

func authenticateAPIKey(ctx context.Context, rawKey string, keys APIKeyValidator) (context.Context, bool) {
	subject, apiKey, err := keys.ValidateAPIKey(ctx, rawKey)
	if err != nil {
		return ctx, false
	}

	ctx = context.WithValue(ctx, ContextKeyTenantID, apiKey.TenantID)
	ctx = context.WithValue(ctx, ContextKeySubjectID, subject.ID)
	ctx = context.WithValue(ctx, ContextKeySubjectRole, subject.Role)
	return ctx, true
}
