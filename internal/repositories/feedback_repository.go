package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// FeedbackRepository interface for peer session feedback.
type FeedbackRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, feedback *models.Feedback) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Feedback, error)

	// Query operations
	GetByRecipient(ctx context.Context, tx *gorm.DB, toUserID string) ([]*models.Feedback, error)
	GetByRecipientAndGiverRole(ctx context.Context, tx *gorm.DB, toUserID string, role models.SessionRole) ([]*models.Feedback, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.Feedback, error)

	// Validation
	ExistsBySessionAndGiver(ctx context.Context, tx *gorm.DB, sessionID uint, fromUserID string) (bool, error)

	// Statistics
	GetRatingHistogram(ctx context.Context, tx *gorm.DB, toUserID string) (*RatingHistogram, error)
}
