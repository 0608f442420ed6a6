package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// SessionRequestRepository interface for session negotiation.
type SessionRequestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, request *models.SessionRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SessionRequest, error)
	Update(ctx context.Context, tx *gorm.DB, request *models.SessionRequest) error

	// Query operations
	ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID string, filters RequestFilters) ([]*models.SessionRequest, int64, error)
	ListByLearner(ctx context.Context, tx *gorm.DB, learnerID string, filters RequestFilters) ([]*models.SessionRequest, int64, error)
}

// SessionRepository interface for scheduled/held sessions.
type SessionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, session *models.Session) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error)
	Update(ctx context.Context, tx *gorm.DB, session *models.Session) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SessionFilters) ([]*models.Session, int64, error)
	GetUpcomingByUser(ctx context.Context, tx *gorm.DB, userID string, from time.Time, limit int) ([]*models.Session, error)

	// Scoring queries
	GetCompletedBySkillAndUser(ctx context.Context, tx *gorm.DB, skillID uint, userID string) ([]*models.Session, error)
	CountCompletedByRole(ctx context.Context, tx *gorm.DB, userID string, role models.SessionRole) (int64, error)
	CountDistinctLearners(ctx context.Context, tx *gorm.DB, teacherID string) (int64, error)
}
