package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subject is the unit of progression: a handler and their dog, scoped to one
// tenant. The same email may exist under different tenants as distinct
// subjects; (tenant, email) is unique.
type Subject struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Email          string
	Name           string
	DogName        string
	PasswordHash   string // argon2id, empty for invited-but-unconfirmed subjects
	Role           string // "admin", "trainer", or "member"
	CurrentLevelID *uuid.UUID
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// APIKey authenticates staff integrations without a browser session.
type APIKey struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	SubjectID  uuid.UUID
	Name       string
	KeyHash    string // SHA-256
	Prefix     string // first 8 chars for lookup
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

type SubjectRepository interface {
	Create(ctx context.Context, s *Subject) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Subject, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Subject, error)
	Update(ctx context.Context, s *Subject) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*Subject, error)

	// API keys
	CreateAPIKey(ctx context.Context, key *APIKey) error
	GetAPIKeyByPrefix(ctx context.Context, prefix string) (*APIKey, error)
	ListAPIKeys(ctx context.Context, tenantID, subjectID uuid.UUID) ([]*APIKey, error)
	DeleteAPIKey(ctx context.Context, tenantID, id uuid.UUID) error
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
}
