package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// SkillScoreRepository interface for the authoritative per-(user, skill)
// score snapshots.
type SkillScoreRepository interface {
	// Upsert keyed by (user_id, skill_id); overwrites every field.
	Upsert(ctx context.Context, tx *gorm.DB, score *models.SkillScore) error

	// Query operations
	GetByUserAndSkill(ctx context.Context, tx *gorm.DB, userID string, skillID uint) (*models.SkillScore, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.SkillScore, error)
	GetTopByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.SkillScore, error)
}

// LegacyScoreRepository maintains the old incremental running averages. Kept
// for backward compatibility with older display code only.
type LegacyScoreRepository interface {
	Get(ctx context.Context, tx *gorm.DB, userID string, skillID uint) (*models.UserSkillScore, error)
	Save(ctx context.Context, tx *gorm.DB, score *models.UserSkillScore) error
}
