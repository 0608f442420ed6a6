package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// AssignmentRepository interface for post-session assignments.
type AssignmentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	Update(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error

	// Query operations
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.Assignment, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters AssignmentFilters) ([]*models.Assignment, int64, error)

	// Scoring queries
	GetGradedByUserAndSkill(ctx context.Context, tx *gorm.DB, userID string, skillID uint) ([]*models.Assignment, error)
}
