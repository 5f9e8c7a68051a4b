package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Achievement records one completed training-type instance for a subject.
// The ledger is append-only from the evaluator's perspective; rows are
// removed only by explicit administrative correction. Consumed marks
// achievements spent by a level promotion.
type Achievement struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	SubjectID      uuid.UUID
	TrainingTypeID uuid.UUID
	AchievedAt     time.Time
	Consumed       bool
}

type AchievementRepository interface {
	// Record validates inside the storage layer that both the subject and
	// the training type belong to tenantID, failing with
	// ErrInvalidTrainingType otherwise.
	Record(ctx context.Context, a *Achievement) error

	// CountsForSubject aggregates unconsumed achievements per training type.
	// Counts are always derived, never stored, so the ledger cannot drift
	// from its totals.
	CountsForSubject(ctx context.Context, tenantID, subjectID uuid.UUID) (map[uuid.UUID]int, error)

	ListForSubject(ctx context.Context, tenantID, subjectID uuid.UUID) ([]*Achievement, error)

	// Delete is the administrative correction path.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
