package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pawgress/pawgress/internal/domain"
)

// DefaultTenantSubdomain is the reserved resolution key the legacy school's
// data is assigned to.
const DefaultTenantSubdomain = "default"

// Steps returns the full backfill sequence in execution order.
func Steps() []Step {
	return []Step{
		{Name: "SchemaExtended", Run: schemaExtended},
		{Name: "TenantSeeded", Run: tenantSeeded},
		{Name: "DataBackfilled", Run: dataBackfilled},
		{Name: "ConstraintsEnforced", Run: constraintsEnforced},
		{Name: "CatalogSeeded", Run: catalogSeeded},
		{Name: "AchievementsReconciled", Run: achievementsReconciled},
		{Name: "Complete", Run: complete},
	}
}

// schemaExtended creates the multi-tenant tables and adds nullable tenant
// columns to the legacy ones. Everything is IF NOT EXISTS; re-running is a
// no-op.
func schemaExtended(ctx context.Context, db DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id            uuid PRIMARY KEY,
			name          text NOT NULL,
			subdomain     text NOT NULL UNIQUE,
			branding      jsonb NOT NULL DEFAULT '{}',
			plan          text NOT NULL DEFAULT 'starter',
			active        boolean NOT NULL DEFAULT true,
			trial_ends_at timestamptz,
			created_at    timestamptz NOT NULL DEFAULT now(),
			updated_at    timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS training_types (
			id         uuid PRIMARY KEY,
			tenant_id  uuid NOT NULL REFERENCES tenants(id),
			code       text NOT NULL,
			name       text NOT NULL,
			category   text NOT NULL DEFAULT 'training',
			rank_order integer NOT NULL DEFAULT 0,
			created_at timestamptz NOT NULL DEFAULT now(),
			UNIQUE (tenant_id, code)
		)`,
		`CREATE TABLE IF NOT EXISTS levels (
			id         uuid PRIMARY KEY,
			tenant_id  uuid NOT NULL REFERENCES tenants(id),
			name       text NOT NULL,
			rank       integer NOT NULL,
			color      text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT now(),
			UNIQUE (tenant_id, rank)
		)`,
		`CREATE TABLE IF NOT EXISTS level_requirements (
			id               uuid PRIMARY KEY,
			level_id         uuid NOT NULL REFERENCES levels(id) ON DELETE CASCADE,
			training_type_id uuid NOT NULL REFERENCES training_types(id),
			required_count   integer NOT NULL,
			rank_order       integer NOT NULL DEFAULT 0,
			created_at       timestamptz NOT NULL DEFAULT now(),
			UNIQUE (level_id, training_type_id)
		)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			id           uuid PRIMARY KEY,
			tenant_id    uuid NOT NULL REFERENCES tenants(id),
			subject_id   uuid NOT NULL,
			name         text NOT NULL,
			key_hash     text NOT NULL,
			prefix       text NOT NULL UNIQUE,
			last_used_at timestamptz,
			expires_at   timestamptz,
			created_at   timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS migration_runs (
			completed_at timestamptz NOT NULL DEFAULT now()
		)`,
		`ALTER TABLE subjects ADD COLUMN IF NOT EXISTS tenant_id uuid`,
		`ALTER TABLE subjects ADD COLUMN IF NOT EXISTS current_level_id uuid`,
		`ALTER TABLE achievements ADD COLUMN IF NOT EXISTS tenant_id uuid`,
		`ALTER TABLE achievements ADD COLUMN IF NOT EXISTS training_type_id uuid`,
		`ALTER TABLE achievements ADD COLUMN IF NOT EXISTS consumed boolean NOT NULL DEFAULT false`,
		// The legacy schema made email globally unique; under multi-tenancy
		// the same address may enroll at two schools. Uniqueness moves to
		// (tenant_id, email). Legacy rows carry NULL tenant_id here and were
		// globally unique already, so the new index cannot fail.
		`ALTER TABLE subjects DROP CONSTRAINT IF EXISTS subjects_email_key`,
		`DROP INDEX IF EXISTS subjects_email_key`,
		`CREATE UNIQUE INDEX IF NOT EXISTS subjects_tenant_email_key ON subjects (tenant_id, email)`,
		// Target of the composite foreign key from achievements.
		`CREATE UNIQUE INDEX IF NOT EXISTS subjects_id_tenant_key ON subjects (id, tenant_id)`,
	}

	for _, stmt := range stmts {
		_, err := db.Exec(ctx, stmt)
		if err != nil {
			return fmt.Errorf("schemaExtended: %w", err)
		}
	}

	return nil
}

// tenantSeeded creates the default tenant the legacy rows will be assigned
// to. A no-op when the reserved subdomain already resolves.
func tenantSeeded(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx,
		`INSERT INTO tenants (id, name, subdomain, plan, active, created_at, updated_at)
		 VALUES ($1, $2, $3, 'enterprise', true, now(), now())
		 ON CONFLICT (subdomain) DO NOTHING`,
		uuid.New(), "Default School", DefaultTenantSubdomain,
	)
	if err != nil {
		return fmt.Errorf("tenantSeeded: %w", err)
	}

	return nil
}

// dataBackfilled assigns every row without a tenant to the default tenant.
// A no-op once no NULL references remain.
func dataBackfilled(ctx context.Context, db DB) error {
	tenantID, err := defaultTenantID(ctx, db)
	if err != nil {
		return fmt.Errorf("dataBackfilled: %w", err)
	}

	for _, table := range []string{"subjects", "achievements"} {
		tag, err := db.Exec(ctx,
			fmt.Sprintf(`UPDATE %s SET tenant_id = $1 WHERE tenant_id IS NULL`, table),
			tenantID,
		)
		if err != nil {
			return fmt.Errorf("dataBackfilled: %s: %w", table, err)
		}

		if tag.RowsAffected() > 0 {
			log.Info().Str("table", table).Int64("rows", tag.RowsAffected()).Msg("migrate: backfilled tenant references")
		}
	}

	return nil
}

// constraintsEnforced tightens tenant_id to NOT NULL with a foreign key. Any
// remaining NULL is an integrity failure: it halts the run instead of being
// silently dropped or defaulted.
func constraintsEnforced(ctx context.Context, db DB) error {
	for _, table := range []string{"subjects", "achievements"} {
		var orphans int

		err := db.QueryRow(ctx,
			fmt.Sprintf(`SELECT count(*) FROM %s WHERE tenant_id IS NULL`, table),
		).Scan(&orphans)
		if err != nil {
			return fmt.Errorf("constraintsEnforced: count %s: %w", table, err)
		}

		if orphans > 0 {
			return fmt.Errorf("constraintsEnforced: %d rows in %s lack a tenant: %w", orphans, table, ErrIntegrity)
		}

		_, err = db.Exec(ctx,
			fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN tenant_id SET NOT NULL`, table),
		)
		if err != nil {
			return fmt.Errorf("constraintsEnforced: %s: %w", table, err)
		}

		// ADD CONSTRAINT has no IF NOT EXISTS; guard via catalog lookup.
		_, err = db.Exec(ctx, fmt.Sprintf(
			`DO $$ BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s_tenant_id_fkey') THEN
					ALTER TABLE %[1]s ADD CONSTRAINT %[1]s_tenant_id_fkey FOREIGN KEY (tenant_id) REFERENCES tenants(id);
				END IF;
			END $$`, table,
		))
		if err != nil {
			return fmt.Errorf("constraintsEnforced: %s fkey: %w", table, err)
		}
	}

	// An achievement may only reference a subject of its own tenant; the
	// composite key makes the database reject cross-tenant rows even if a
	// writer bypasses the repo's guarded INSERT.
	_, err := db.Exec(ctx,
		`DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'achievements_subject_tenant_fkey') THEN
				ALTER TABLE achievements ADD CONSTRAINT achievements_subject_tenant_fkey
					FOREIGN KEY (subject_id, tenant_id) REFERENCES subjects (id, tenant_id);
			END IF;
		END $$`,
	)
	if err != nil {
		return fmt.Errorf("constraintsEnforced: subject fkey: %w", err)
	}

	return nil
}

// catalogSeeded installs the default catalog for the default tenant. A no-op
// when the tenant already has training types.
func catalogSeeded(ctx context.Context, db DB) error {
	tenantID, err := defaultTenantID(ctx, db)
	if err != nil {
		return fmt.Errorf("catalogSeeded: %w", err)
	}

	var existing int
	err = db.QueryRow(ctx,
		`SELECT count(*) FROM training_types WHERE tenant_id = $1`, tenantID,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("catalogSeeded: %w", err)
	}
	if existing > 0 {
		return nil
	}

	seed := domain.DefaultCatalog()
	now := time.Now()

	typeIDs := make(map[string]uuid.UUID, len(seed.TrainingTypes))
	for _, tt := range seed.TrainingTypes {
		id := uuid.New()
		typeIDs[tt.Code] = id

		_, err := db.Exec(ctx,
			`INSERT INTO training_types (id, tenant_id, code, name, category, rank_order, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, tenantID, tt.Code, tt.Name, tt.Category, tt.RankOrder, now,
		)
		if err != nil {
			return fmt.Errorf("catalogSeeded: training type %q: %w", tt.Code, err)
		}
	}

	for _, l := range seed.Levels {
		levelID := uuid.New()

		_, err := db.Exec(ctx,
			`INSERT INTO levels (id, tenant_id, name, rank, color, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			levelID, tenantID, l.Name, l.Rank, l.Color, now,
		)
		if err != nil {
			return fmt.Errorf("catalogSeeded: level %q: %w", l.Name, err)
		}

		for i, req := range l.Requirements {
			_, err := db.Exec(ctx,
				`INSERT INTO level_requirements (id, level_id, training_type_id, required_count, rank_order, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(), levelID, typeIDs[req.TrainingTypeCode], req.RequiredCount, i+1, now,
			)
			if err != nil {
				return fmt.Errorf("catalogSeeded: requirement %q: %w", req.TrainingTypeCode, err)
			}
		}
	}

	return nil
}

// achievementsReconciled rewires legacy string-keyed achievements to their
// training types by exact code match. A legacy code with no matching training
// type halts the run; the rows are never discarded.
func achievementsReconciled(ctx context.Context, db DB) error {
	var unresolved int

	err := db.QueryRow(ctx,
		`SELECT count(*) FROM achievements a
		 WHERE a.training_type_id IS NULL
		   AND NOT EXISTS (
		     SELECT 1 FROM training_types tt
		     WHERE tt.tenant_id = a.tenant_id AND tt.code = a.requirement_id
		   )`,
	).Scan(&unresolved)
	if err != nil {
		return fmt.Errorf("achievementsReconciled: %w", err)
	}

	if unresolved > 0 {
		return fmt.Errorf("achievementsReconciled: %d achievements reference unknown codes: %w", unresolved, ErrIntegrity)
	}

	tag, err := db.Exec(ctx,
		`UPDATE achievements a SET training_type_id = tt.id
		 FROM training_types tt
		 WHERE a.training_type_id IS NULL
		   AND tt.tenant_id = a.tenant_id AND tt.code = a.requirement_id`,
	)
	if err != nil {
		return fmt.Errorf("achievementsReconciled: %w", err)
	}

	if tag.RowsAffected() > 0 {
		log.Info().Int64("rows", tag.RowsAffected()).Msg("migrate: reconciled legacy achievements")
	}

	_, err = db.Exec(ctx, `ALTER TABLE achievements ALTER COLUMN training_type_id SET NOT NULL`)
	if err != nil {
		return fmt.Errorf("achievementsReconciled: %w", err)
	}

	return nil
}

// complete records a finished run.
func complete(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `INSERT INTO migration_runs DEFAULT VALUES`)
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}

	return nil
}

func defaultTenantID(ctx context.Context, db DB) (uuid.UUID, error) {
	var id uuid.UUID

	err := db.QueryRow(ctx,
		`SELECT id FROM tenants WHERE subdomain = $1`, DefaultTenantSubdomain,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("looking up default tenant: %w", err)
	}

	return id, nil
}
