package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/cache"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

type sessionRequestRepository struct {
	db *gorm.DB
}

func NewSessionRequestPostgreSQL(db *gorm.DB) repositories.SessionRequestRepository {
	return &sessionRequestRepository{db: db}
}

func (r *sessionRequestRepository) Create(ctx context.Context, tx *gorm.DB, request *models.SessionRequest) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create session request: %w", err)
	}
	return nil
}

func (r *sessionRequestRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SessionRequest, error) {
	db := useDB(r.db, tx)

	var request models.SessionRequest
	if err := db.WithContext(ctx).Preload("Skill").First(&request, id).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &request, nil
}

func (r *sessionRequestRepository) Update(ctx context.Context, tx *gorm.DB, request *models.SessionRequest) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Save(request).Error; err != nil {
		return fmt.Errorf("failed to update session request: %w", err)
	}
	return nil
}

func (r *sessionRequestRepository) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID string, filters repositories.RequestFilters) ([]*models.SessionRequest, int64, error) {
	return r.listBy(ctx, tx, "teacher_id = ?", teacherID, filters)
}

func (r *sessionRequestRepository) ListByLearner(ctx context.Context, tx *gorm.DB, learnerID string, filters repositories.RequestFilters) ([]*models.SessionRequest, int64, error) {
	return r.listBy(ctx, tx, "learner_id = ?", learnerID, filters)
}

func (r *sessionRequestRepository) listBy(ctx context.Context, tx *gorm.DB, cond string, userID string, filters repositories.RequestFilters) ([]*models.SessionRequest, int64, error) {
	db := useDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.SessionRequest{}).Where(cond, userID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SkillID != nil {
		query = query.Where("skill_id = ?", *filters.SkillID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count session requests: %w", err)
	}

	var requests []*models.SessionRequest
	if err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Skill").
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list session requests: %w", err)
	}

	return requests, total, nil
}

// ===== SESSIONS =====

type sessionRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSessionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SessionRepository {
	return &sessionRepository{db: db, cacheManager: cacheManager}
}

func (r *sessionRepository) Create(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error) {
	db := useDB(r.db, tx)

	var session models.Session
	if err := db.WithContext(ctx).Preload("Skill").First(&session, id).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if r.cacheManager != nil {
		cache.InvalidateSessionCache(ctx, r.cacheManager, session.ID, session.TeacherID, session.LearnerID)
	}
	return nil
}

func (r *sessionRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	db := useDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.Session{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SkillID != nil {
		query = query.Where("skill_id = ?", *filters.SkillID)
	}
	if filters.UserID != nil {
		query = query.Where("teacher_id = ? OR learner_id = ?", *filters.UserID, *filters.UserID)
	}
	if filters.DateFrom != nil {
		query = query.Where("scheduled_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("scheduled_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy != "scheduled_at" && sortBy != "created_at" {
		sortBy = "scheduled_at"
	}
	order := "desc"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "asc"
	}

	var sessions []*models.Session
	if err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Skill").
		Order(fmt.Sprintf("%s %s", sortBy, order)).
		Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, total, nil
}

func (r *sessionRepository) GetUpcomingByUser(ctx context.Context, tx *gorm.DB, userID string, from time.Time, limit int) ([]*models.Session, error) {
	db := useDB(r.db, tx)

	if limit <= 0 {
		limit = 10
	}

	var sessions []*models.Session
	if err := db.WithContext(ctx).
		Preload("Skill").
		Where("(teacher_id = ? OR learner_id = ?)", userID, userID).
		Where("status = ? AND scheduled_at >= ?", models.SessionScheduled, from).
		Order("scheduled_at asc").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to get upcoming sessions: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) GetCompletedBySkillAndUser(ctx context.Context, tx *gorm.DB, skillID uint, userID string) ([]*models.Session, error) {
	db := useDB(r.db, tx)

	var sessions []*models.Session
	if err := db.WithContext(ctx).
		Where("skill_id = ? AND status = ?", skillID, models.SessionCompleted).
		Where("teacher_id = ? OR learner_id = ?", userID, userID).
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to get completed sessions: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) CountCompletedByRole(ctx context.Context, tx *gorm.DB, userID string, role models.SessionRole) (int64, error) {
	db := useDB(r.db, tx)

	column := "teacher_id"
	if role == models.SessionRoleLearner {
		column = "learner_id"
	}

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Session{}).
		Where(fmt.Sprintf("%s = ? AND status = ?", column), userID, models.SessionCompleted).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count completed sessions: %w", err)
	}
	return count, nil
}

func (r *sessionRepository) CountDistinctLearners(ctx context.Context, tx *gorm.DB, teacherID string) (int64, error) {
	db := useDB(r.db, tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Session{}).
		Where("teacher_id = ? AND status = ?", teacherID, models.SessionCompleted).
		Distinct("learner_id").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count distinct learners: %w", err)
	}
	return count, nil
}
