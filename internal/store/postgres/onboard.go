package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pawgress/pawgress/internal/domain"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// Onboard creates a tenant, its first admin subject, and the seed catalog in
// a single transaction. Either the school exists completely -- resolvable
// subdomain, working admin login, default levels and training types -- or no
// trace of it remains.
func (s *Store) Onboard(ctx context.Context, tenant *domain.Tenant, admin *domain.Subject, seed domain.SeedCatalog) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO tenants (id, name, subdomain, branding, plan, active, trial_ends_at, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			tenant.ID, tenant.Name, tenant.Subdomain, tenant.Branding, tenant.Plan,
			tenant.Active, tenant.TrialEndsAt, tenant.CreatedAt, tenant.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert tenant: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO subjects (id, tenant_id, email, name, dog_name, password_hash, role, current_level_id, active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			admin.ID, admin.TenantID, admin.Email, admin.Name, admin.DogName,
			nilIfEmpty(admin.PasswordHash), admin.Role, admin.CurrentLevelID, admin.Active,
			admin.CreatedAt, admin.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert admin: %w", err)
		}

		return seedCatalog(ctx, tx, tenant.ID, seed)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("store.Onboard: %w", domain.ErrConflict)
		}
		return fmt.Errorf("store.Onboard: %w", err)
	}

	return nil
}

// seedCatalog installs the seed training types, levels, and requirements for
// a tenant inside an existing transaction.
func seedCatalog(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, seed domain.SeedCatalog) error {
	now := time.Now()

	typeIDs := make(map[string]uuid.UUID, len(seed.TrainingTypes))
	for _, tt := range seed.TrainingTypes {
		id := uuid.New()
		typeIDs[tt.Code] = id

		_, err := tx.Exec(ctx,
			`INSERT INTO training_types (id, tenant_id, code, name, category, rank_order, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, tenantID, tt.Code, tt.Name, tt.Category, tt.RankOrder, now,
		)
		if err != nil {
			return fmt.Errorf("seed training type %q: %w", tt.Code, err)
		}
	}

	for _, l := range seed.Levels {
		levelID := uuid.New()

		_, err := tx.Exec(ctx,
			`INSERT INTO levels (id, tenant_id, name, rank, color, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			levelID, tenantID, l.Name, l.Rank, l.Color, now,
		)
		if err != nil {
			return fmt.Errorf("seed level %q: %w", l.Name, err)
		}

		for i, req := range l.Requirements {
			typeID, ok := typeIDs[req.TrainingTypeCode]
			if !ok {
				return fmt.Errorf("seed level %q: unknown training type code %q", l.Name, req.TrainingTypeCode)
			}

			_, err := tx.Exec(ctx,
				`INSERT INTO level_requirements (id, level_id, training_type_id, required_count, rank_order, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(), levelID, typeID, req.RequiredCount, i+1, now,
			)
			if err != nil {
				return fmt.Errorf("seed level %q requirement %q: %w", l.Name, req.TrainingTypeCode, err)
			}
		}
	}

	return nil
}
