package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/cache"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

type skillScoreRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSkillScorePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SkillScoreRepository {
	return &skillScoreRepository{db: db, cacheManager: cacheManager}
}

// Upsert writes the full snapshot for (user, skill), replacing any previous
// row. Recomputes are convergent, so last-writer-wins is safe here.
func (r *skillScoreRepository) Upsert(ctx context.Context, tx *gorm.DB, score *models.SkillScore) error {
	db := useDB(r.db, tx)

	score.UpdatedAt = time.Now()

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"skill_name", "assignment_avg", "feedback_avg",
				"session_count", "final_score", "updated_at",
			}),
		}).
		Create(score).Error; err != nil {
		return fmt.Errorf("failed to upsert skill score: %w", err)
	}

	r.invalidateCache(ctx, score.UserID)
	return nil
}

func (r *skillScoreRepository) GetByUserAndSkill(ctx context.Context, tx *gorm.DB, userID string, skillID uint) (*models.SkillScore, error) {
	db := useDB(r.db, tx)

	var score models.SkillScore
	if err := db.WithContext(ctx).
		First(&score, "user_id = ? AND skill_id = ?", userID, skillID).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &score, nil
}

func (r *skillScoreRepository) GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.SkillScore, error) {
	db := useDB(r.db, tx)

	cacheKey := fmt.Sprintf("user:%s:all", userID)
	if r.cacheManager != nil {
		var cached []*models.SkillScore
		if err := r.cacheManager.SkillScore.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var scores []*models.SkillScore
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("final_score desc").
		Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("failed to get skill scores: %w", err)
	}

	if r.cacheManager != nil {
		_ = r.cacheManager.SkillScore.Set(ctx, cacheKey, scores, cache.SkillScoreCacheConfig.TTL)
	}

	return scores, nil
}

func (r *skillScoreRepository) GetTopByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.SkillScore, error) {
	db := useDB(r.db, tx)

	if limit <= 0 {
		limit = 3
	}

	var scores []*models.SkillScore
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("final_score desc").
		Limit(limit).
		Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("failed to get top skill scores: %w", err)
	}
	return scores, nil
}

func (r *skillScoreRepository) invalidateCache(ctx context.Context, userID string) {
	if r.cacheManager == nil {
		return
	}
	cache.InvalidateScoreCache(ctx, r.cacheManager, userID)
}

// ===== LEGACY RUNNING AVERAGES =====

type legacyScoreRepository struct {
	db *gorm.DB
}

func NewLegacyScorePostgreSQL(db *gorm.DB) repositories.LegacyScoreRepository {
	return &legacyScoreRepository{db: db}
}

func (r *legacyScoreRepository) Get(ctx context.Context, tx *gorm.DB, userID string, skillID uint) (*models.UserSkillScore, error) {
	db := useDB(r.db, tx)

	var score models.UserSkillScore
	if err := db.WithContext(ctx).
		First(&score, "user_id = ? AND skill_id = ?", userID, skillID).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &score, nil
}

func (r *legacyScoreRepository) Save(ctx context.Context, tx *gorm.DB, score *models.UserSkillScore) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "sessions", "updated_at"}),
		}).
		Create(score).Error; err != nil {
		return fmt.Errorf("failed to save legacy score: %w", err)
	}
	return nil
}
