package progression

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/domain"
)

// Promoter applies a promotion as one atomic unit: consume the counted
// achievements and advance the subject's level, all or nothing. A partial
// application must never persist. *postgres.Store satisfies this interface.
type Promoter interface {
	PromoteSubject(ctx context.Context, tenantID, subjectID, levelID uuid.UUID, reqs []*domain.LevelRequirement) error
}

// Service wires the pure evaluator to the catalog and ledger. All lookups are
// tenant-scoped; the tenant arrives explicitly on every call.
type Service struct {
	catalog      domain.CatalogRepository
	achievements domain.AchievementRepository
	promoter     Promoter
}

func NewService(catalog domain.CatalogRepository, achievements domain.AchievementRepository, promoter Promoter) *Service {
	return &Service{
		catalog:      catalog,
		achievements: achievements,
		promoter:     promoter,
	}
}

// EvaluateSubject computes the progression status of a subject toward a
// target level: load the level's requirements, aggregate the subject's
// unconsumed achievement counts, and run the evaluator.
func (s *Service) EvaluateSubject(ctx context.Context, tenantID, subjectID, levelID uuid.UUID) (Result, error) {
	reqs, err := s.catalog.RequirementsForLevel(ctx, tenantID, levelID)
	if err != nil {
		return Result{}, fmt.Errorf("progression.EvaluateSubject: %w", err)
	}

	counts, err := s.achievements.CountsForSubject(ctx, tenantID, subjectID)
	if err != nil {
		return Result{}, fmt.Errorf("progression.EvaluateSubject: %w", err)
	}

	return Evaluate(reqs, counts), nil
}

// Promote advances a subject to the target level if its requirements are
// satisfied. Returns domain.ErrForbidden when the requirements are not met.
// Consumption and the level change happen in a single storage transaction,
// so a failure leaves the ledger and the subject exactly as they were.
func (s *Service) Promote(ctx context.Context, tenantID, subjectID, levelID uuid.UUID) (Result, error) {
	reqs, err := s.catalog.RequirementsForLevel(ctx, tenantID, levelID)
	if err != nil {
		return Result{}, fmt.Errorf("progression.Promote: %w", err)
	}

	counts, err := s.achievements.CountsForSubject(ctx, tenantID, subjectID)
	if err != nil {
		return Result{}, fmt.Errorf("progression.Promote: %w", err)
	}

	res := Evaluate(reqs, counts)
	if !res.Satisfied {
		return res, fmt.Errorf("progression.Promote: requirements not met: %w", domain.ErrForbidden)
	}

	err = s.promoter.PromoteSubject(ctx, tenantID, subjectID, levelID, reqs)
	if err != nil {
		return res, fmt.Errorf("progression.Promote: %w", err)
	}

	return res, nil
}
