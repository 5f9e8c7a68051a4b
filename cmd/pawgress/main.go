package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pawgress/pawgress/internal/auth"
	"github.com/pawgress/pawgress/internal/config"
	"github.com/pawgress/pawgress/internal/directory"
	"github.com/pawgress/pawgress/internal/progression"
	"github.com/pawgress/pawgress/internal/server"
	"github.com/pawgress/pawgress/internal/store/postgres"
	redisstore "github.com/pawgress/pawgress/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("PAWGRESS_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("PAWGRESS_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis for the tenant-directory cache. The cache is an
	// optimization; when Redis is unreachable the directory resolves every
	// request from postgres.
	var cache directory.Cache
	tenantCache, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TenantTTL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, tenant cache disabled")
	} else {
		cache = tenantCache
		defer func() { _ = tenantCache.Close() }()
	}

	// Create the tenant directory resolver.
	resolver := directory.NewResolver(store.Tenants(), cache, cfg.DevMode)
	if cfg.DevMode {
		log.Warn().Msg("dev mode enabled, tenant override header is honored")
	}

	// Create auth and progression services.
	authSvc := auth.NewService(store.Subjects(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	prog := progression.NewService(store.Catalog(), store.Achievements(), store)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, resolver, authSvc, prog)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("base_domain", cfg.Server.BaseDomain).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
