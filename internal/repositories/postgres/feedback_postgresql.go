package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackPostgreSQL(db *gorm.DB) repositories.FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, tx *gorm.DB, feedback *models.Feedback) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Feedback, error) {
	db := useDB(r.db, tx)

	var feedback models.Feedback
	if err := db.WithContext(ctx).First(&feedback, id).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &feedback, nil
}

func (r *feedbackRepository) GetByRecipient(ctx context.Context, tx *gorm.DB, toUserID string) ([]*models.Feedback, error) {
	db := useDB(r.db, tx)

	var feedbacks []*models.Feedback
	if err := db.WithContext(ctx).
		Where("to_user_id = ?", toUserID).
		Order("created_at desc").
		Find(&feedbacks).Error; err != nil {
		return nil, fmt.Errorf("failed to get feedback for recipient: %w", err)
	}
	return feedbacks, nil
}

func (r *feedbackRepository) GetByRecipientAndGiverRole(ctx context.Context, tx *gorm.DB, toUserID string, role models.SessionRole) ([]*models.Feedback, error) {
	db := useDB(r.db, tx)

	var feedbacks []*models.Feedback
	if err := db.WithContext(ctx).
		Where("to_user_id = ? AND role = ?", toUserID, role).
		Order("created_at desc").
		Find(&feedbacks).Error; err != nil {
		return nil, fmt.Errorf("failed to get feedback by giver role: %w", err)
	}
	return feedbacks, nil
}

func (r *feedbackRepository) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.Feedback, error) {
	db := useDB(r.db, tx)

	var feedbacks []*models.Feedback
	if err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&feedbacks).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback by session: %w", err)
	}
	return feedbacks, nil
}

func (r *feedbackRepository) ExistsBySessionAndGiver(ctx context.Context, tx *gorm.DB, sessionID uint, fromUserID string) (bool, error) {
	db := useDB(r.db, tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("session_id = ? AND from_user_id = ?", sessionID, fromUserID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check feedback existence: %w", err)
	}
	return count > 0, nil
}

func (r *feedbackRepository) GetRatingHistogram(ctx context.Context, tx *gorm.DB, toUserID string) (*repositories.RatingHistogram, error) {
	db := useDB(r.db, tx)

	var rows []struct {
		Rating int
		Count  int64
	}
	if err := db.WithContext(ctx).
		Model(&models.Feedback{}).
		Select("rating, COUNT(*) as count").
		Where("to_user_id = ?", toUserID).
		Group("rating").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to build rating histogram: %w", err)
	}

	histogram := &repositories.RatingHistogram{}
	for _, row := range rows {
		if row.Rating >= 1 && row.Rating <= 5 {
			histogram.Counts[row.Rating-1] = row.Count
			histogram.Total += row.Count
		}
	}
	return histogram, nil
}
