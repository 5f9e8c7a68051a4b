package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pawgress/pawgress/internal/config"
	"github.com/pawgress/pawgress/internal/migrate"
)

// pawgress-backfill runs the single-tenant to multi-tenant migration as an
// ordered, resumable procedure. Every step is idempotent, so rerunning after
// a halt picks up where the previous run stopped.
func main() {
	if err := run(); err != nil {
		if errors.Is(err, migrate.ErrIntegrity) {
			log.Fatal().Err(err).Msg("backfill halted on an integrity violation, fix the data and rerun")
		}
		log.Fatal().Err(err).Msg("backfill failed")
	}
}

func run() error {
	level, parseErr := zerolog.ParseLevel(os.Getenv("PAWGRESS_LOG_LEVEL"))
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	runner := migrate.NewRunner(pool, migrate.Steps())
	if err := runner.Run(ctx); err != nil {
		return err
	}

	log.Info().Msg("backfill complete")
	return nil
}
