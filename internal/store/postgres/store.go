package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawgress/pawgress/internal/domain"
)

type Store struct {
	pool         *pgxpool.Pool
	tenants      *TenantRepo
	subjects     *SubjectRepo
	catalog      *CatalogRepo
	achievements *AchievementRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:         pool,
		tenants:      NewTenantRepo(pool),
		subjects:     NewSubjectRepo(pool),
		catalog:      NewCatalogRepo(pool),
		achievements: NewAchievementRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tenants() domain.TenantRepository           { return s.tenants }
func (s *Store) Subjects() domain.SubjectRepository         { return s.subjects }
func (s *Store) Catalog() domain.CatalogRepository          { return s.catalog }
func (s *Store) Achievements() domain.AchievementRepository { return s.achievements }
