package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

// mockRepository implements repositories.Repository with per-method function
// hooks. Unset hooks return empty results so tests only wire what they need.
type mockRepository struct {
	user           *mockUserRepo
	identity       *mockIdentityRepo
	skill          *mockSkillRepo
	userSkill      *mockUserSkillRepo
	sessionRequest *mockSessionRequestRepo
	session        *mockSessionRepo
	assignment     *mockAssignmentRepo
	feedback       *mockFeedbackRepo
	skillScore     *mockSkillScoreRepo
	legacyScore    *mockLegacyScoreRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user:           &mockUserRepo{},
		identity:       &mockIdentityRepo{},
		skill:          &mockSkillRepo{},
		userSkill:      &mockUserSkillRepo{},
		sessionRequest: &mockSessionRequestRepo{},
		session:        &mockSessionRepo{},
		assignment:     &mockAssignmentRepo{},
		feedback:       &mockFeedbackRepo{},
		skillScore:     &mockSkillScoreRepo{},
		legacyScore:    &mockLegacyScoreRepo{},
	}
}

func (m *mockRepository) User() repositories.UserRepository                     { return m.user }
func (m *mockRepository) Identity() repositories.IdentityRepository             { return m.identity }
func (m *mockRepository) Skill() repositories.SkillRepository                   { return m.skill }
func (m *mockRepository) UserSkill() repositories.UserSkillRepository           { return m.userSkill }
func (m *mockRepository) SessionRequest() repositories.SessionRequestRepository { return m.sessionRequest }
func (m *mockRepository) Session() repositories.SessionRepository               { return m.session }
func (m *mockRepository) Assignment() repositories.AssignmentRepository         { return m.assignment }
func (m *mockRepository) Feedback() repositories.FeedbackRepository             { return m.feedback }
func (m *mockRepository) SkillScore() repositories.SkillScoreRepository         { return m.skillScore }
func (m *mockRepository) LegacyScore() repositories.LegacyScoreRepository       { return m.legacyScore }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== USER =====

type mockUserRepo struct {
	GetByIDFunc           func(ctx context.Context, id string) (*models.User, error)
	UpdateCredibilityFunc func(ctx context.Context, userID string, score int, stats models.CredibilityStats) error
	ExistsByIDFunc        func(ctx context.Context, id string) (bool, error)
	EnsureExistsFunc      func(ctx context.Context, user *models.User) error
	UpdateFunc            func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) EnsureExists(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.EnsureExistsFunc != nil {
		return m.EnsureExistsFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdateCredibility(ctx context.Context, tx *gorm.DB, userID string, score int, stats models.CredibilityStats) error {
	if m.UpdateCredibilityFunc != nil {
		return m.UpdateCredibilityFunc(ctx, userID, score, stats)
	}
	return nil
}

func (m *mockUserRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	if m.ExistsByIDFunc != nil {
		return m.ExistsByIDFunc(ctx, id)
	}
	return true, nil
}

// ===== IDENTITY =====

type mockIdentityRepo struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockIdentityRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockIdentityRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockIdentityRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (m *mockIdentityRepo) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (m *mockIdentityRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	return true, nil
}

// ===== SKILL =====

type mockSkillRepo struct {
	GetByIDFunc      func(ctx context.Context, id uint) (*models.Skill, error)
	ExistsByNameFunc func(ctx context.Context, name string) (bool, error)
	CreateFunc       func(ctx context.Context, skill *models.Skill) error
}

func (m *mockSkillRepo) Create(ctx context.Context, tx *gorm.DB, skill *models.Skill) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, skill)
	}
	return nil
}

func (m *mockSkillRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Skill, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSkillRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Skill, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockSkillRepo) Update(ctx context.Context, tx *gorm.DB, skill *models.Skill) error { return nil }
func (m *mockSkillRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error            { return nil }

func (m *mockSkillRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SkillFilters) ([]*models.Skill, int64, error) {
	return nil, 0, nil
}

func (m *mockSkillRepo) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.SkillFilters) ([]*models.Skill, int64, error) {
	return nil, 0, nil
}

func (m *mockSkillRepo) ExistsByName(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	if m.ExistsByNameFunc != nil {
		return m.ExistsByNameFunc(ctx, name)
	}
	return false, nil
}

// ===== USER SKILL =====

type mockUserSkillRepo struct {
	ExistsFunc func(ctx context.Context, userID string, skillID uint, mode models.SkillMode) (bool, error)
	AddFunc    func(ctx context.Context, userSkill *models.UserSkill) error
}

func (m *mockUserSkillRepo) Add(ctx context.Context, tx *gorm.DB, userSkill *models.UserSkill) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userSkill)
	}
	return nil
}

func (m *mockUserSkillRepo) Remove(ctx context.Context, tx *gorm.DB, userID string, skillID uint, mode models.SkillMode) error {
	return nil
}

func (m *mockUserSkillRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.UserSkill, error) {
	return nil, nil
}

func (m *mockUserSkillRepo) ListBySkill(ctx context.Context, tx *gorm.DB, skillID uint, mode models.SkillMode) ([]*models.UserSkill, error) {
	return nil, nil
}

func (m *mockUserSkillRepo) Exists(ctx context.Context, tx *gorm.DB, userID string, skillID uint, mode models.SkillMode) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, userID, skillID, mode)
	}
	return true, nil
}

// ===== SESSION REQUEST =====

type mockSessionRequestRepo struct {
	GetByIDFunc func(ctx context.Context, id uint) (*models.SessionRequest, error)
	CreateFunc  func(ctx context.Context, request *models.SessionRequest) error
	UpdateFunc  func(ctx context.Context, request *models.SessionRequest) error
}

func (m *mockSessionRequestRepo) Create(ctx context.Context, tx *gorm.DB, request *models.SessionRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, request)
	}
	return nil
}

func (m *mockSessionRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SessionRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSessionRequestRepo) Update(ctx context.Context, tx *gorm.DB, request *models.SessionRequest) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, request)
	}
	return nil
}

func (m *mockSessionRequestRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID string, filters repositories.RequestFilters) ([]*models.SessionRequest, int64, error) {
	return nil, 0, nil
}

func (m *mockSessionRequestRepo) ListByLearner(ctx context.Context, tx *gorm.DB, learnerID string, filters repositories.RequestFilters) ([]*models.SessionRequest, int64, error) {
	return nil, 0, nil
}

// ===== SESSION =====

type mockSessionRepo struct {
	GetByIDFunc                    func(ctx context.Context, id uint) (*models.Session, error)
	CreateFunc                     func(ctx context.Context, session *models.Session) error
	UpdateFunc                     func(ctx context.Context, session *models.Session) error
	GetCompletedBySkillAndUserFunc func(ctx context.Context, skillID uint, userID string) ([]*models.Session, error)
	CountCompletedByRoleFunc       func(ctx context.Context, userID string, role models.SessionRole) (int64, error)
	CountDistinctLearnersFunc      func(ctx context.Context, teacherID string) (int64, error)
	GetUpcomingByUserFunc          func(ctx context.Context, userID string, from time.Time, limit int) ([]*models.Session, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSessionRepo) Update(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	return nil, 0, nil
}

func (m *mockSessionRepo) GetUpcomingByUser(ctx context.Context, tx *gorm.DB, userID string, from time.Time, limit int) ([]*models.Session, error) {
	if m.GetUpcomingByUserFunc != nil {
		return m.GetUpcomingByUserFunc(ctx, userID, from, limit)
	}
	return nil, nil
}

func (m *mockSessionRepo) GetCompletedBySkillAndUser(ctx context.Context, tx *gorm.DB, skillID uint, userID string) ([]*models.Session, error) {
	if m.GetCompletedBySkillAndUserFunc != nil {
		return m.GetCompletedBySkillAndUserFunc(ctx, skillID, userID)
	}
	return nil, nil
}

func (m *mockSessionRepo) CountCompletedByRole(ctx context.Context, tx *gorm.DB, userID string, role models.SessionRole) (int64, error) {
	if m.CountCompletedByRoleFunc != nil {
		return m.CountCompletedByRoleFunc(ctx, userID, role)
	}
	return 0, nil
}

func (m *mockSessionRepo) CountDistinctLearners(ctx context.Context, tx *gorm.DB, teacherID string) (int64, error) {
	if m.CountDistinctLearnersFunc != nil {
		return m.CountDistinctLearnersFunc(ctx, teacherID)
	}
	return 0, nil
}

// ===== ASSIGNMENT =====

type mockAssignmentRepo struct {
	GetByIDFunc                 func(ctx context.Context, id uint) (*models.Assignment, error)
	CreateFunc                  func(ctx context.Context, assignment *models.Assignment) error
	UpdateFunc                  func(ctx context.Context, assignment *models.Assignment) error
	GetGradedByUserAndSkillFunc func(ctx context.Context, userID string, skillID uint) ([]*models.Assignment, error)
}

func (m *mockAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, assignment)
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockAssignmentRepo) Update(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, assignment)
	}
	return nil
}

func (m *mockAssignmentRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.Assignment, error) {
	return nil, nil
}

func (m *mockAssignmentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	return nil, 0, nil
}

func (m *mockAssignmentRepo) GetGradedByUserAndSkill(ctx context.Context, tx *gorm.DB, userID string, skillID uint) ([]*models.Assignment, error) {
	if m.GetGradedByUserAndSkillFunc != nil {
		return m.GetGradedByUserAndSkillFunc(ctx, userID, skillID)
	}
	return nil, nil
}

// ===== FEEDBACK =====

type mockFeedbackRepo struct {
	CreateFunc                     func(ctx context.Context, feedback *models.Feedback) error
	GetByRecipientFunc             func(ctx context.Context, toUserID string) ([]*models.Feedback, error)
	GetByRecipientAndGiverRoleFunc func(ctx context.Context, toUserID string, role models.SessionRole) ([]*models.Feedback, error)
	ExistsBySessionAndGiverFunc    func(ctx context.Context, sessionID uint, fromUserID string) (bool, error)
	GetRatingHistogramFunc         func(ctx context.Context, toUserID string) (*repositories.RatingHistogram, error)
}

func (m *mockFeedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback *models.Feedback) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, feedback)
	}
	return nil
}

func (m *mockFeedbackRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Feedback, error) {
	return nil, repositories.ErrNotFound
}

func (m *mockFeedbackRepo) GetByRecipient(ctx context.Context, tx *gorm.DB, toUserID string) ([]*models.Feedback, error) {
	if m.GetByRecipientFunc != nil {
		return m.GetByRecipientFunc(ctx, toUserID)
	}
	return nil, nil
}

func (m *mockFeedbackRepo) GetByRecipientAndGiverRole(ctx context.Context, tx *gorm.DB, toUserID string, role models.SessionRole) ([]*models.Feedback, error) {
	if m.GetByRecipientAndGiverRoleFunc != nil {
		return m.GetByRecipientAndGiverRoleFunc(ctx, toUserID, role)
	}
	return nil, nil
}

func (m *mockFeedbackRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.Feedback, error) {
	return nil, nil
}

func (m *mockFeedbackRepo) ExistsBySessionAndGiver(ctx context.Context, tx *gorm.DB, sessionID uint, fromUserID string) (bool, error) {
	if m.ExistsBySessionAndGiverFunc != nil {
		return m.ExistsBySessionAndGiverFunc(ctx, sessionID, fromUserID)
	}
	return false, nil
}

func (m *mockFeedbackRepo) GetRatingHistogram(ctx context.Context, tx *gorm.DB, toUserID string) (*repositories.RatingHistogram, error) {
	if m.GetRatingHistogramFunc != nil {
		return m.GetRatingHistogramFunc(ctx, toUserID)
	}
	return &repositories.RatingHistogram{}, nil
}

// ===== SKILL SCORE =====

type mockSkillScoreRepo struct {
	UpsertFunc           func(ctx context.Context, score *models.SkillScore) error
	GetByUserAndSkillFunc func(ctx context.Context, userID string, skillID uint) (*models.SkillScore, error)
	GetByUserFunc        func(ctx context.Context, userID string) ([]*models.SkillScore, error)
	GetTopByUserFunc     func(ctx context.Context, userID string, limit int) ([]*models.SkillScore, error)
}

func (m *mockSkillScoreRepo) Upsert(ctx context.Context, tx *gorm.DB, score *models.SkillScore) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, score)
	}
	return nil
}

func (m *mockSkillScoreRepo) GetByUserAndSkill(ctx context.Context, tx *gorm.DB, userID string, skillID uint) (*models.SkillScore, error) {
	if m.GetByUserAndSkillFunc != nil {
		return m.GetByUserAndSkillFunc(ctx, userID, skillID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSkillScoreRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.SkillScore, error) {
	if m.GetByUserFunc != nil {
		return m.GetByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockSkillScoreRepo) GetTopByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.SkillScore, error) {
	if m.GetTopByUserFunc != nil {
		return m.GetTopByUserFunc(ctx, userID, limit)
	}
	return nil, nil
}

// ===== LEGACY SCORE =====

type mockLegacyScoreRepo struct {
	GetFunc  func(ctx context.Context, userID string, skillID uint) (*models.UserSkillScore, error)
	SaveFunc func(ctx context.Context, score *models.UserSkillScore) error
}

func (m *mockLegacyScoreRepo) Get(ctx context.Context, tx *gorm.DB, userID string, skillID uint) (*models.UserSkillScore, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, skillID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockLegacyScoreRepo) Save(ctx context.Context, tx *gorm.DB, score *models.UserSkillScore) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, score)
	}
	return nil
}
