package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/domain"
	"github.com/pawgress/pawgress/internal/progression"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Subjects() domain.SubjectRepository
	Catalog() domain.CatalogRepository
	Achievements() domain.AchievementRepository
}

// Onboarder creates a tenant with its admin and seed catalog atomically.
// *postgres.Store satisfies this interface.
type Onboarder interface {
	Onboard(ctx context.Context, tenant *domain.Tenant, admin *domain.Subject, seed domain.SeedCatalog) error
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, tenantID uuid.UUID, email, password, name, dogName, role string) (*domain.Subject, error)
	Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	GenerateAPIKey(ctx context.Context, tenantID, subjectID uuid.UUID, name string) (string, *domain.APIKey, error)
}

// ProgressionService abstracts requirement evaluation and promotion.
// *progression.Service satisfies this interface.
type ProgressionService interface {
	EvaluateSubject(ctx context.Context, tenantID, subjectID, levelID uuid.UUID) (progression.Result, error)
	Promote(ctx context.Context, tenantID, subjectID, levelID uuid.UUID) (progression.Result, error)
}
