package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pawgress/pawgress/internal/domain"
)

// PromoteSubject consumes the required achievements for every requirement and
// advances the subject's level in a single transaction. Each requirement must
// consume exactly its required count; coming up short means a concurrent
// promotion spent the rows first, and the whole transaction rolls back with
// domain.ErrConflict. Consumption is oldest first; FOR UPDATE SKIP LOCKED
// keeps two concurrent promotions from spending the same rows.
func (s *Store) PromoteSubject(ctx context.Context, tenantID, subjectID, levelID uuid.UUID, reqs []*domain.LevelRequirement) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, req := range reqs {
			tag, err := tx.Exec(ctx,
				`UPDATE achievements SET consumed = true
				 WHERE id IN (
				   SELECT id FROM achievements
				   WHERE tenant_id = $1 AND subject_id = $2 AND training_type_id = $3 AND NOT consumed
				   ORDER BY achieved_at, id
				   LIMIT $4
				   FOR UPDATE SKIP LOCKED
				 )`,
				tenantID, subjectID, req.TrainingTypeID, req.RequiredCount,
			)
			if err != nil {
				return fmt.Errorf("consume %s: %w", req.TrainingTypeID, err)
			}
			if int(tag.RowsAffected()) != req.RequiredCount {
				return fmt.Errorf("consume %s: got %d of %d: %w",
					req.TrainingTypeID, tag.RowsAffected(), req.RequiredCount, domain.ErrConflict)
			}
		}

		tag, err := tx.Exec(ctx,
			`UPDATE subjects SET current_level_id = $1, updated_at = now()
			 WHERE tenant_id = $2 AND id = $3`,
			levelID, tenantID, subjectID,
		)
		if err != nil {
			return fmt.Errorf("set level: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("set level: %w", domain.ErrNotFound)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("store.PromoteSubject: %w", err)
	}

	return nil
}
