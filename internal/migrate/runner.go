// Package migrate converts a legacy single-school database into the
// multi-tenant layout. The procedure is a run-once state machine; every step
// is idempotent so a partial failure can be retried from the top.
package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// ErrIntegrity is returned when the data cannot be migrated without manual
// repair: rows still lack a tenant reference at constraint-enforcement time,
// or a legacy achievement names a code no training type carries. The
// procedure halts; nothing is discarded.
var ErrIntegrity = errors.New("migrate: integrity failure, manual repair required")

// advisoryLockKey serializes backfill runs across processes.
const advisoryLockKey int64 = 0x70617767 // "pawg"

// DB is the slice of pgx the migration needs. *pgxpool.Conn satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Step is one transition of the state machine. Run must be idempotent:
// re-running a completed step is a no-op.
type Step struct {
	Name string
	Run  func(ctx context.Context, db DB) error
}

// Runner executes steps strictly in order under an exclusive advisory lock,
// halting on the first error. The lock is session-scoped, so the runner pins
// one connection for the entire run; lock, steps, and unlock all share it.
type Runner struct {
	acquire func(ctx context.Context) (DB, func(), error)
	steps   []Step
}

// NewRunner builds a runner over a pool. Every run checks out a dedicated
// connection; statements routed through the pool itself could land on a
// different session than the one holding the advisory lock.
func NewRunner(pool *pgxpool.Pool, steps []Step) *Runner {
	return &Runner{
		acquire: func(ctx context.Context) (DB, func(), error) {
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return nil, nil, err
			}
			return conn, conn.Release, nil
		},
		steps: steps,
	}
}

// NewRunnerWithSession builds a runner over an already-dedicated session. The
// caller guarantees every statement hits that one connection.
func NewRunnerWithSession(db DB, steps []Step) *Runner {
	return &Runner{
		acquire: func(context.Context) (DB, func(), error) {
			return db, func() {}, nil
		},
		steps: steps,
	}
}

// Run acquires a session and the advisory lock, executes every step in order,
// and releases both. A failing step halts the run; completed steps stay
// completed and the whole procedure can be retried.
func (r *Runner) Run(ctx context.Context) error {
	db, release, err := r.acquire(ctx)
	if err != nil {
		return fmt.Errorf("migrate.Run: acquire session: %w", err)
	}
	defer release()

	_, err = db.Exec(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockKey)
	if err != nil {
		return fmt.Errorf("migrate.Run: acquire lock: %w", err)
	}
	defer func() {
		_, unlockErr := db.Exec(ctx, `SELECT pg_advisory_unlock($1)`, advisoryLockKey)
		if unlockErr != nil {
			log.Warn().Err(unlockErr).Msg("migrate: failed to release advisory lock")
		}
	}()

	for i, step := range r.steps {
		log.Info().Int("step", i+1).Int("total", len(r.steps)).Str("name", step.Name).Msg("migrate: running step")

		err := step.Run(ctx, db)
		if err != nil {
			log.Error().Err(err).Str("name", step.Name).Msg("migrate: step failed, halting")
			return fmt.Errorf("migrate.Run: step %q: %w", step.Name, err)
		}

		log.Info().Str("name", step.Name).Msg("migrate: step complete")
	}

	log.Info().Msg("migrate: complete")

	return nil
}
