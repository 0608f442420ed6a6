package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	db := useDB(r.db, tx)

	var assignment models.Assignment
	if err := db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) Update(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Save(assignment).Error; err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.Assignment, error) {
	db := useDB(r.db, tx)

	var assignments []*models.Assignment
	if err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments by session: %w", err)
	}
	return assignments, nil
}

func (r *assignmentRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	db := useDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.Assignment{}).Where("user_id = ?", userID)

	if filters.Graded != nil {
		query = query.Where("graded = ?", *filters.Graded)
	}
	if filters.SkillID != nil {
		query = query.Where("skill_id = ?", *filters.SkillID)
	}
	if filters.Submitted != nil {
		if *filters.Submitted {
			query = query.Where("submission IS NOT NULL")
		} else {
			query = query.Where("submission IS NULL")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	var assignments []*models.Assignment
	if err := applyPagination(query, filters.Limit, filters.Offset).
		Order("created_at desc").
		Find(&assignments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, total, nil
}

func (r *assignmentRepository) GetGradedByUserAndSkill(ctx context.Context, tx *gorm.DB, userID string, skillID uint) ([]*models.Assignment, error) {
	db := useDB(r.db, tx)

	var assignments []*models.Assignment
	if err := db.WithContext(ctx).
		Where("user_id = ? AND skill_id = ? AND graded = ?", userID, skillID, true).
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to get graded assignments: %w", err)
	}
	return assignments, nil
}
