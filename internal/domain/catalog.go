package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TrainingType is a category of completable activity ("Group Class",
// "Exam"). Code is a stable machine key, unique per tenant; it is the
// reconciliation key used once during the legacy backfill and never matched
// against on the hot path afterwards.
type TrainingType struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Code      string
	Name      string
	Category  string // "training", "workshop", "lecture", "exam"
	RankOrder int
	CreatedAt time.Time
}

// Level is an ordered progression milestone. Rank establishes progression
// order and is unique per tenant.
type Level struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Rank      int
	Color     string
	CreatedAt time.Time
}

// LevelRequirement says: to qualify for Level, a subject needs RequiredCount
// achievements of TrainingType. (Level, TrainingType) is unique; RankOrder
// fixes the display and deficit-report order.
type LevelRequirement struct {
	ID             uuid.UUID
	LevelID        uuid.UUID
	TrainingTypeID uuid.UUID
	RequiredCount  int
	RankOrder      int
	CreatedAt      time.Time
}

// CatalogRepository is the per-tenant requirement catalog. Every method takes
// the tenant explicitly; there is no way to query the catalog without one.
type CatalogRepository interface {
	CreateTrainingType(ctx context.Context, tt *TrainingType) error
	GetTrainingType(ctx context.Context, tenantID, id uuid.UUID) (*TrainingType, error)
	GetTrainingTypeByCode(ctx context.Context, tenantID uuid.UUID, code string) (*TrainingType, error)
	ListTrainingTypes(ctx context.Context, tenantID uuid.UUID) ([]*TrainingType, error)

	CreateLevel(ctx context.Context, l *Level) error
	GetLevel(ctx context.Context, tenantID, id uuid.UUID) (*Level, error)
	ListLevels(ctx context.Context, tenantID uuid.UUID) ([]*Level, error)

	// SetRequirement upserts on (level, training type): a second call for the
	// same pair overwrites the required count instead of erroring.
	SetRequirement(ctx context.Context, tenantID uuid.UUID, req *LevelRequirement) error
	DeleteRequirement(ctx context.Context, tenantID, levelID, trainingTypeID uuid.UUID) error
	RequirementsForLevel(ctx context.Context, tenantID, levelID uuid.UUID) ([]*LevelRequirement, error)
}
