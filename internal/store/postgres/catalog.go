package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawgress/pawgress/internal/domain"
)

// isUniqueViolation reports whether err is a unique constraint breach, which
// repos surface as domain.ErrConflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// --- Training Types ---

func (r *CatalogRepo) CreateTrainingType(ctx context.Context, tt *domain.TrainingType) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO training_types (id, tenant_id, code, name, category, rank_order, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tt.ID, tt.TenantID, tt.Code, tt.Name, tt.Category, tt.RankOrder, tt.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("catalogRepo.CreateTrainingType: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("catalogRepo.CreateTrainingType: %w", err)
	}

	return nil
}

func (r *CatalogRepo) GetTrainingType(ctx context.Context, tenantID, id uuid.UUID) (*domain.TrainingType, error) {
	var tt domain.TrainingType

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, code, name, category, rank_order, created_at
		 FROM training_types WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&tt.ID, &tt.TenantID, &tt.Code, &tt.Name, &tt.Category, &tt.RankOrder, &tt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("catalogRepo.GetTrainingType: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.GetTrainingType: %w", err)
	}

	return &tt, nil
}

func (r *CatalogRepo) GetTrainingTypeByCode(ctx context.Context, tenantID uuid.UUID, code string) (*domain.TrainingType, error) {
	var tt domain.TrainingType

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, code, name, category, rank_order, created_at
		 FROM training_types WHERE tenant_id = $1 AND code = $2`,
		tenantID, code,
	).Scan(&tt.ID, &tt.TenantID, &tt.Code, &tt.Name, &tt.Category, &tt.RankOrder, &tt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("catalogRepo.GetTrainingTypeByCode: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.GetTrainingTypeByCode: %w", err)
	}

	return &tt, nil
}

func (r *CatalogRepo) ListTrainingTypes(ctx context.Context, tenantID uuid.UUID) ([]*domain.TrainingType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, code, name, category, rank_order, created_at
		 FROM training_types WHERE tenant_id = $1 ORDER BY rank_order, created_at
		 LIMIT 500`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListTrainingTypes: %w", err)
	}
	defer rows.Close()

	var types []*domain.TrainingType
	for rows.Next() {
		var tt domain.TrainingType

		err = rows.Scan(&tt.ID, &tt.TenantID, &tt.Code, &tt.Name, &tt.Category, &tt.RankOrder, &tt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("catalogRepo.ListTrainingTypes: scan: %w", err)
		}

		types = append(types, &tt)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListTrainingTypes: rows: %w", err)
	}

	return types, nil
}

// --- Levels ---

func (r *CatalogRepo) CreateLevel(ctx context.Context, l *domain.Level) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO levels (id, tenant_id, name, rank, color, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.TenantID, l.Name, l.Rank, l.Color, l.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("catalogRepo.CreateLevel: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("catalogRepo.CreateLevel: %w", err)
	}

	return nil
}

func (r *CatalogRepo) GetLevel(ctx context.Context, tenantID, id uuid.UUID) (*domain.Level, error) {
	var l domain.Level

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, rank, color, created_at
		 FROM levels WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&l.ID, &l.TenantID, &l.Name, &l.Rank, &l.Color, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("catalogRepo.GetLevel: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.GetLevel: %w", err)
	}

	return &l, nil
}

func (r *CatalogRepo) ListLevels(ctx context.Context, tenantID uuid.UUID) ([]*domain.Level, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, rank, color, created_at
		 FROM levels WHERE tenant_id = $1 ORDER BY rank
		 LIMIT 100`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListLevels: %w", err)
	}
	defer rows.Close()

	var levels []*domain.Level
	for rows.Next() {
		var l domain.Level

		err = rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.Rank, &l.Color, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("catalogRepo.ListLevels: scan: %w", err)
		}

		levels = append(levels, &l)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListLevels: rows: %w", err)
	}

	return levels, nil
}

// --- Requirements ---

// SetRequirement upserts on (level_id, training_type_id): repeating a pair
// overwrites required_count and rank_order instead of erroring. The level and
// training type must both belong to tenantID; the join guards against
// cross-tenant references. RETURNING writes the stored row's identity back
// into req, so an update keeps the original id and created_at rather than the
// caller's fresh ones.
func (r *CatalogRepo) SetRequirement(ctx context.Context, tenantID uuid.UUID, req *domain.LevelRequirement) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO level_requirements (id, level_id, training_type_id, required_count, rank_order, created_at)
		 SELECT $1, l.id, tt.id, $4, $5, $6
		 FROM levels l, training_types tt
		 WHERE l.id = $2 AND l.tenant_id = $7
		   AND tt.id = $3 AND tt.tenant_id = $7
		 ON CONFLICT (level_id, training_type_id)
		 DO UPDATE SET required_count = EXCLUDED.required_count, rank_order = EXCLUDED.rank_order
		 RETURNING id, created_at`,
		req.ID, req.LevelID, req.TrainingTypeID, req.RequiredCount, req.RankOrder, req.CreatedAt, tenantID,
	).Scan(&req.ID, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("catalogRepo.SetRequirement: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("catalogRepo.SetRequirement: %w", err)
	}

	return nil
}

func (r *CatalogRepo) DeleteRequirement(ctx context.Context, tenantID, levelID, trainingTypeID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM level_requirements lr
		 USING levels l
		 WHERE lr.level_id = l.id AND l.tenant_id = $1
		   AND lr.level_id = $2 AND lr.training_type_id = $3`,
		tenantID, levelID, trainingTypeID,
	)
	if err != nil {
		return fmt.Errorf("catalogRepo.DeleteRequirement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("catalogRepo.DeleteRequirement: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CatalogRepo) RequirementsForLevel(ctx context.Context, tenantID, levelID uuid.UUID) ([]*domain.LevelRequirement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT lr.id, lr.level_id, lr.training_type_id, lr.required_count, lr.rank_order, lr.created_at
		 FROM level_requirements lr
		 JOIN levels l ON l.id = lr.level_id
		 WHERE l.tenant_id = $1 AND lr.level_id = $2
		 ORDER BY lr.rank_order, lr.created_at
		 LIMIT 100`,
		tenantID, levelID,
	)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.RequirementsForLevel: %w", err)
	}
	defer rows.Close()

	var reqs []*domain.LevelRequirement
	for rows.Next() {
		var req domain.LevelRequirement

		err = rows.Scan(&req.ID, &req.LevelID, &req.TrainingTypeID, &req.RequiredCount, &req.RankOrder, &req.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("catalogRepo.RequirementsForLevel: scan: %w", err)
		}

		reqs = append(reqs, &req)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.RequirementsForLevel: rows: %w", err)
	}

	return reqs, nil
}
