package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawgress/pawgress/internal/domain"
)

type SubjectRepo struct {
	pool *pgxpool.Pool
}

func NewSubjectRepo(pool *pgxpool.Pool) *SubjectRepo {
	return &SubjectRepo{pool: pool}
}

// --- Subjects ---

// Create inserts a subject. The database enforces email uniqueness per
// tenant; a duplicate within the tenant comes back as ErrConflict.
func (r *SubjectRepo) Create(ctx context.Context, s *domain.Subject) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO subjects (id, tenant_id, email, name, dog_name, password_hash, role, current_level_id, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.TenantID, s.Email, s.Name, s.DogName,
		nilIfEmpty(s.PasswordHash), s.Role, s.CurrentLevelID, s.Active,
		s.CreatedAt, s.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("subjectRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("subjectRepo.Create: %w", err)
	}

	return nil
}

func (r *SubjectRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Subject, error) {
	var s domain.Subject
	var passwordHash *string

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, email, name, dog_name, password_hash, role, current_level_id, active, created_at, updated_at
		 FROM subjects WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&s.ID, &s.TenantID, &s.Email, &s.Name, &s.DogName, &passwordHash, &s.Role, &s.CurrentLevelID, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("subjectRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("subjectRepo.GetByID: %w", err)
	}

	s.PasswordHash = derefStr(passwordHash)

	return &s, nil
}

func (r *SubjectRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.Subject, error) {
	var s domain.Subject
	var passwordHash *string

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, email, name, dog_name, password_hash, role, current_level_id, active, created_at, updated_at
		 FROM subjects WHERE tenant_id = $1 AND email = $2`,
		tenantID, email,
	).Scan(&s.ID, &s.TenantID, &s.Email, &s.Name, &s.DogName, &passwordHash, &s.Role, &s.CurrentLevelID, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("subjectRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("subjectRepo.GetByEmail: %w", err)
	}

	s.PasswordHash = derefStr(passwordHash)

	return &s, nil
}

func (r *SubjectRepo) Update(ctx context.Context, s *domain.Subject) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subjects SET email = $1, name = $2, dog_name = $3, password_hash = $4, role = $5, current_level_id = $6, active = $7, updated_at = now()
		 WHERE tenant_id = $8 AND id = $9`,
		s.Email, s.Name, s.DogName, nilIfEmpty(s.PasswordHash),
		s.Role, s.CurrentLevelID, s.Active,
		s.TenantID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("subjectRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subjectRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SubjectRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Subject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, email, name, dog_name, password_hash, role, current_level_id, active, created_at, updated_at
		 FROM subjects WHERE tenant_id = $1 ORDER BY created_at, id
		 LIMIT 500`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("subjectRepo.List: %w", err)
	}
	defer rows.Close()

	var subjects []*domain.Subject
	for rows.Next() {
		var s domain.Subject
		var passwordHash *string

		err = rows.Scan(&s.ID, &s.TenantID, &s.Email, &s.Name, &s.DogName, &passwordHash, &s.Role, &s.CurrentLevelID, &s.Active, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("subjectRepo.List: scan: %w", err)
		}

		s.PasswordHash = derefStr(passwordHash)
		subjects = append(subjects, &s)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("subjectRepo.List: rows: %w", err)
	}

	return subjects, nil
}

// --- API Keys ---

func (r *SubjectRepo) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO api_keys (id, tenant_id, subject_id, name, key_hash, prefix, last_used_at, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		key.ID, key.TenantID, key.SubjectID, key.Name,
		key.KeyHash, key.Prefix, key.LastUsedAt, key.ExpiresAt, key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("subjectRepo.CreateAPIKey: %w", err)
	}

	return nil
}

// GetAPIKeyByPrefix searches across tenants; API key authentication has no
// tenant context until the key itself is found.
func (r *SubjectRepo) GetAPIKeyByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error) {
	var key domain.APIKey

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, subject_id, name, key_hash, prefix, last_used_at, expires_at, created_at
		 FROM api_keys WHERE prefix = $1`,
		prefix,
	).Scan(&key.ID, &key.TenantID, &key.SubjectID, &key.Name, &key.KeyHash, &key.Prefix, &key.LastUsedAt, &key.ExpiresAt, &key.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("subjectRepo.GetAPIKeyByPrefix: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("subjectRepo.GetAPIKeyByPrefix: %w", err)
	}

	return &key, nil
}

func (r *SubjectRepo) ListAPIKeys(ctx context.Context, tenantID, subjectID uuid.UUID) ([]*domain.APIKey, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, subject_id, name, key_hash, prefix, last_used_at, expires_at, created_at
		 FROM api_keys WHERE tenant_id = $1 AND subject_id = $2 ORDER BY created_at
		 LIMIT 100`,
		tenantID, subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("subjectRepo.ListAPIKeys: %w", err)
	}
	defer rows.Close()

	var keys []*domain.APIKey
	for rows.Next() {
		var key domain.APIKey

		err = rows.Scan(&key.ID, &key.TenantID, &key.SubjectID, &key.Name, &key.KeyHash, &key.Prefix, &key.LastUsedAt, &key.ExpiresAt, &key.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("subjectRepo.ListAPIKeys: scan: %w", err)
		}

		keys = append(keys, &key)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("subjectRepo.ListAPIKeys: rows: %w", err)
	}

	return keys, nil
}

func (r *SubjectRepo) DeleteAPIKey(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM api_keys WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("subjectRepo.DeleteAPIKey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subjectRepo.DeleteAPIKey: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SubjectRepo) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("subjectRepo.UpdateAPIKeyLastUsed: %w", err)
	}

	return nil
}

// --- Helpers ---

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
