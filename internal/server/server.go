package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/pawgress/pawgress/internal/auth"
	"github.com/pawgress/pawgress/internal/billing"
	"github.com/pawgress/pawgress/internal/config"
	"github.com/pawgress/pawgress/internal/directory"
	"github.com/pawgress/pawgress/internal/progression"
	"github.com/pawgress/pawgress/internal/server/middleware"
	"github.com/pawgress/pawgress/internal/store/postgres"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	resolver   *directory.Resolver
	billing    *billing.Validator
	prog       *progression.Service
	cfg        *config.Config
}

// New creates a Server with all routes wired.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, resolver *directory.Resolver, authSvc *auth.Service, prog *progression.Service) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID", middleware.TenantOverrideHeader},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router:   router,
		store:    store,
		auth:     authSvc,
		resolver: resolver,
		billing:  billing.NewValidator(),
		prog:     prog,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with three sub-groups:
	// 1. Platform routes that run before any tenant exists (registration).
	// 2. Tenant-resolved but unauthenticated routes (config, status, login).
	// 3. Tenant-resolved, authenticated, tenant-enforced routes.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, cfg.Server.RateLimit, cfg.Server.RateBurst))

			platformConfig := huma.DefaultConfig("Pawgress Platform API", "1.0.0")
			platformConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			platformAPI := humachi.New(r, platformConfig)
			registerPlatformRoutes(platformAPI, store)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.ResolveTenant(resolver, cfg.Server.BaseDomain))
			r.Use(middleware.RateLimit(ctx, cfg.Server.RateLimit, cfg.Server.RateBurst))

			publicConfig := huma.DefaultConfig("Pawgress Public API", "1.0.0")
			publicConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			publicAPI := humachi.New(r, publicConfig)
			registerPublicRoutes(publicAPI, store, authSvc, s.billing)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.ResolveTenant(resolver, cfg.Server.BaseDomain))
			r.Use(middleware.Auth(cfg.JWT.Secret, authSvc))
			r.Use(middleware.EnforceTenant(s.billing))
			r.Use(middleware.RateLimit(ctx, cfg.Server.RateLimit, cfg.Server.RateBurst))

			apiConfig := huma.DefaultConfig("Pawgress API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			api := humachi.New(r, apiConfig)
			registerAPIRoutes(api, store, authSvc, prog)
		})
	})

	// Health check (unauthenticated, no tenant resolution).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
