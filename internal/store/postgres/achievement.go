package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawgress/pawgress/internal/domain"
)

type AchievementRepo struct {
	pool *pgxpool.Pool
}

func NewAchievementRepo(pool *pgxpool.Pool) *AchievementRepo {
	return &AchievementRepo{pool: pool}
}

// Record inserts one achievement. The subject and the training type must
// both belong to the same tenant as the achievement; the INSERT..SELECT makes
// the checks and the write one statement, so neither a concurrent catalog
// change nor a cross-tenant subject reference can slip through.
func (r *AchievementRepo) Record(ctx context.Context, a *domain.Achievement) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO achievements (id, tenant_id, subject_id, training_type_id, achieved_at, consumed)
		 SELECT $1, $2, s.id, tt.id, $5, $6
		 FROM subjects s, training_types tt
		 WHERE s.id = $3 AND s.tenant_id = $2
		   AND tt.id = $4 AND tt.tenant_id = $2`,
		a.ID, a.TenantID, a.SubjectID, a.TrainingTypeID, a.AchievedAt, a.Consumed,
	)
	if err != nil {
		return fmt.Errorf("achievementRepo.Record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("achievementRepo.Record: %w", domain.ErrInvalidTrainingType)
	}

	return nil
}

// CountsForSubject aggregates unconsumed achievements per training type.
// Derived on every call; there is no stored counter to drift.
func (r *AchievementRepo) CountsForSubject(ctx context.Context, tenantID, subjectID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT training_type_id, count(*)
		 FROM achievements
		 WHERE tenant_id = $1 AND subject_id = $2 AND NOT consumed
		 GROUP BY training_type_id`,
		tenantID, subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("achievementRepo.CountsForSubject: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var typeID uuid.UUID
		var n int

		err = rows.Scan(&typeID, &n)
		if err != nil {
			return nil, fmt.Errorf("achievementRepo.CountsForSubject: scan: %w", err)
		}

		counts[typeID] = n
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("achievementRepo.CountsForSubject: rows: %w", err)
	}

	return counts, nil
}

func (r *AchievementRepo) ListForSubject(ctx context.Context, tenantID, subjectID uuid.UUID) ([]*domain.Achievement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, subject_id, training_type_id, achieved_at, consumed
		 FROM achievements
		 WHERE tenant_id = $1 AND subject_id = $2
		 ORDER BY achieved_at, id
		 LIMIT 1000`,
		tenantID, subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("achievementRepo.ListForSubject: %w", err)
	}
	defer rows.Close()

	var achievements []*domain.Achievement
	for rows.Next() {
		var a domain.Achievement

		err = rows.Scan(&a.ID, &a.TenantID, &a.SubjectID, &a.TrainingTypeID, &a.AchievedAt, &a.Consumed)
		if err != nil {
			return nil, fmt.Errorf("achievementRepo.ListForSubject: scan: %w", err)
		}

		achievements = append(achievements, &a)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("achievementRepo.ListForSubject: rows: %w", err)
	}

	return achievements, nil
}

func (r *AchievementRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM achievements WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("achievementRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("achievementRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
