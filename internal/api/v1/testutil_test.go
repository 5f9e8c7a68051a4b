package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/domain"
	"github.com/pawgress/pawgress/internal/progression"
	"github.com/pawgress/pawgress/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject tenant/subject/role into context for DoCtx
// ---------------------------------------------------------------------------

func tenantCtx(tenantID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, tenantID)
	return ctx
}

func adminCtx(tenantID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeySubjectID, uuid.New())
	ctx = context.WithValue(ctx, middleware.ContextKeySubjectRole, middleware.RoleAdmin)
	return ctx
}

func trainerCtx(tenantID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeySubjectID, uuid.New())
	ctx = context.WithValue(ctx, middleware.ContextKeySubjectRole, middleware.RoleTrainer)
	return ctx
}

func memberCtx(tenantID, subjectID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeySubjectID, subjectID)
	ctx = context.WithValue(ctx, middleware.ContextKeySubjectRole, middleware.RoleMember)
	return ctx
}

func resolvedCtx(tenant *domain.Tenant) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeyTenant, tenant)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants      domain.TenantRepository
	subjects     domain.SubjectRepository
	catalog      domain.CatalogRepository
	achievements domain.AchievementRepository
}

func (m *mockDataStore) Tenants() domain.TenantRepository           { return m.tenants }
func (m *mockDataStore) Subjects() domain.SubjectRepository         { return m.subjects }
func (m *mockDataStore) Catalog() domain.CatalogRepository          { return m.catalog }
func (m *mockDataStore) Achievements() domain.AchievementRepository { return m.achievements }

// ---------------------------------------------------------------------------
// Mock Onboarder
// ---------------------------------------------------------------------------

type mockOnboarder struct {
	onboardFunc func(ctx context.Context, tenant *domain.Tenant, admin *domain.Subject, seed domain.SeedCatalog) error
}

func (m *mockOnboarder) Onboard(ctx context.Context, tenant *domain.Tenant, admin *domain.Subject, seed domain.SeedCatalog) error {
	return m.onboardFunc(ctx, tenant, admin, seed)
}

// ---------------------------------------------------------------------------
// Mock SubjectRepository
// ---------------------------------------------------------------------------

type mockSubjectRepo struct {
	createFunc     func(ctx context.Context, s *domain.Subject) error
	getByIDFunc    func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Subject, error)
	getByEmailFunc func(ctx context.Context, tenantID uuid.UUID, email string) (*domain.Subject, error)
	updateFunc     func(ctx context.Context, s *domain.Subject) error
	listFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Subject, error)

	createAPIKeyFunc      func(ctx context.Context, key *domain.APIKey) error
	getAPIKeyByPrefixFunc func(ctx context.Context, prefix string) (*domain.APIKey, error)
	listAPIKeysFunc       func(ctx context.Context, tenantID, subjectID uuid.UUID) ([]*domain.APIKey, error)
	deleteAPIKeyFunc      func(ctx context.Context, tenantID, id uuid.UUID) error
	updateLastUsedFunc    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSubjectRepo) Create(ctx context.Context, s *domain.Subject) error {
	return m.createFunc(ctx, s)
}

func (m *mockSubjectRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Subject, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockSubjectRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.Subject, error) {
	return m.getByEmailFunc(ctx, tenantID, email)
}

func (m *mockSubjectRepo) Update(ctx context.Context, s *domain.Subject) error {
	return m.updateFunc(ctx, s)
}

func (m *mockSubjectRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Subject, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockSubjectRepo) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return m.createAPIKeyFunc(ctx, key)
}

func (m *mockSubjectRepo) GetAPIKeyByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error) {
	return m.getAPIKeyByPrefixFunc(ctx, prefix)
}

func (m *mockSubjectRepo) ListAPIKeys(ctx context.Context, tenantID, subjectID uuid.UUID) ([]*domain.APIKey, error) {
	return m.listAPIKeysFunc(ctx, tenantID, subjectID)
}

func (m *mockSubjectRepo) DeleteAPIKey(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteAPIKeyFunc(ctx, tenantID, id)
}

func (m *mockSubjectRepo) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	return m.updateLastUsedFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock CatalogRepository
// ---------------------------------------------------------------------------

type mockCatalogRepo struct {
	createTrainingTypeFunc    func(ctx context.Context, tt *domain.TrainingType) error
	getTrainingTypeFunc       func(ctx context.Context, tenantID, id uuid.UUID) (*domain.TrainingType, error)
	getTrainingTypeByCodeFunc func(ctx context.Context, tenantID uuid.UUID, code string) (*domain.TrainingType, error)
	listTrainingTypesFunc     func(ctx context.Context, tenantID uuid.UUID) ([]*domain.TrainingType, error)

	createLevelFunc func(ctx context.Context, l *domain.Level) error
	getLevelFunc    func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Level, error)
	listLevelsFunc  func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Level, error)

	setRequirementFunc       func(ctx context.Context, tenantID uuid.UUID, req *domain.LevelRequirement) error
	deleteRequirementFunc    func(ctx context.Context, tenantID, levelID, trainingTypeID uuid.UUID) error
	requirementsForLevelFunc func(ctx context.Context, tenantID, levelID uuid.UUID) ([]*domain.LevelRequirement, error)
}

func (m *mockCatalogRepo) CreateTrainingType(ctx context.Context, tt *domain.TrainingType) error {
	return m.createTrainingTypeFunc(ctx, tt)
}

func (m *mockCatalogRepo) GetTrainingType(ctx context.Context, tenantID, id uuid.UUID) (*domain.TrainingType, error) {
	return m.getTrainingTypeFunc(ctx, tenantID, id)
}

func (m *mockCatalogRepo) GetTrainingTypeByCode(ctx context.Context, tenantID uuid.UUID, code string) (*domain.TrainingType, error) {
	return m.getTrainingTypeByCodeFunc(ctx, tenantID, code)
}

func (m *mockCatalogRepo) ListTrainingTypes(ctx context.Context, tenantID uuid.UUID) ([]*domain.TrainingType, error) {
	return m.listTrainingTypesFunc(ctx, tenantID)
}

func (m *mockCatalogRepo) CreateLevel(ctx context.Context, l *domain.Level) error {
	return m.createLevelFunc(ctx, l)
}

func (m *mockCatalogRepo) GetLevel(ctx context.Context, tenantID, id uuid.UUID) (*domain.Level, error) {
	return m.getLevelFunc(ctx, tenantID, id)
}

func (m *mockCatalogRepo) ListLevels(ctx context.Context, tenantID uuid.UUID) ([]*domain.Level, error) {
	return m.listLevelsFunc(ctx, tenantID)
}

func (m *mockCatalogRepo) SetRequirement(ctx context.Context, tenantID uuid.UUID, req *domain.LevelRequirement) error {
	return m.setRequirementFunc(ctx, tenantID, req)
}

func (m *mockCatalogRepo) DeleteRequirement(ctx context.Context, tenantID, levelID, trainingTypeID uuid.UUID) error {
	return m.deleteRequirementFunc(ctx, tenantID, levelID, trainingTypeID)
}

func (m *mockCatalogRepo) RequirementsForLevel(ctx context.Context, tenantID, levelID uuid.UUID) ([]*domain.LevelRequirement, error) {
	return m.requirementsForLevelFunc(ctx, tenantID, levelID)
}

// ---------------------------------------------------------------------------
// Mock AchievementRepository
// ---------------------------------------------------------------------------

type mockAchievementRepo struct {
	recordFunc           func(ctx context.Context, a *domain.Achievement) error
	countsForSubjectFunc func(ctx context.Context, tenantID, subjectID uuid.UUID) (map[uuid.UUID]int, error)
	listForSubjectFunc   func(ctx context.Context, tenantID, subjectID uuid.UUID) ([]*domain.Achievement, error)
	deleteFunc           func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockAchievementRepo) Record(ctx context.Context, a *domain.Achievement) error {
	return m.recordFunc(ctx, a)
}

func (m *mockAchievementRepo) CountsForSubject(ctx context.Context, tenantID, subjectID uuid.UUID) (map[uuid.UUID]int, error) {
	return m.countsForSubjectFunc(ctx, tenantID, subjectID)
}

func (m *mockAchievementRepo) ListForSubject(ctx context.Context, tenantID, subjectID uuid.UUID) ([]*domain.Achievement, error) {
	return m.listForSubjectFunc(ctx, tenantID, subjectID)
}

func (m *mockAchievementRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc       func(ctx context.Context, tenantID uuid.UUID, email, password, name, dogName, role string) (*domain.Subject, error)
	loginFunc          func(ctx context.Context, tenantID uuid.UUID, email, password string) (string, string, error)
	refreshTokenFunc   func(ctx context.Context, refreshToken string) (string, error)
	generateAPIKeyFunc func(ctx context.Context, tenantID, subjectID uuid.UUID, name string) (string, *domain.APIKey, error)
}

func (m *mockAuthService) Register(ctx context.Context, tenantID uuid.UUID, email, password, name, dogName, role string) (*domain.Subject, error) {
	return m.registerFunc(ctx, tenantID, email, password, name, dogName, role)
}

func (m *mockAuthService) Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, tenantID, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

func (m *mockAuthService) GenerateAPIKey(ctx context.Context, tenantID, subjectID uuid.UUID, name string) (string, *domain.APIKey, error) {
	return m.generateAPIKeyFunc(ctx, tenantID, subjectID, name)
}

// ---------------------------------------------------------------------------
// Mock ProgressionService
// ---------------------------------------------------------------------------

type mockProgressionService struct {
	evaluateFunc func(ctx context.Context, tenantID, subjectID, levelID uuid.UUID) (progression.Result, error)
	promoteFunc  func(ctx context.Context, tenantID, subjectID, levelID uuid.UUID) (progression.Result, error)
}

func (m *mockProgressionService) EvaluateSubject(ctx context.Context, tenantID, subjectID, levelID uuid.UUID) (progression.Result, error) {
	return m.evaluateFunc(ctx, tenantID, subjectID, levelID)
}

func (m *mockProgressionService) Promote(ctx context.Context, tenantID, subjectID, levelID uuid.UUID) (progression.Result, error) {
	return m.promoteFunc(ctx, tenantID, subjectID, levelID)
}
