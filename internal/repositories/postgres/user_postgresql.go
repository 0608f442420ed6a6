package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/cache"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

type userRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &userRepository{db: db, cacheManager: cacheManager}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := useDB(r.db, tx)

	if user.CredibilityScore == 0 {
		user.CredibilityScore = models.DefaultCredibilityScore
	}

	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	db := useDB(r.db, tx)

	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	db := useDB(r.db, tx)

	var user models.User
	if err := db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	r.invalidateCache(ctx, user.ID)
	return nil
}

// EnsureExists inserts the user if absent; an existing row keeps its profile
// and credibility fields.
func (r *userRepository) EnsureExists(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := useDB(r.db, tx)

	if user.CredibilityScore == 0 {
		user.CredibilityScore = models.DefaultCredibilityScore
	}

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(user).Error; err != nil {
		return fmt.Errorf("failed to ensure user exists: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateCredibility(ctx context.Context, tx *gorm.DB, userID string, score int, stats models.CredibilityStats) error {
	db := useDB(r.db, tx)

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal credibility stats: %w", err)
	}

	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"credibility_score": score,
			"credibility_stats": statsJSON,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update credibility: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.invalidateCache(ctx, userID)
	return nil
}

func (r *userRepository) invalidateCache(ctx context.Context, userID string) {
	if r.cacheManager == nil {
		return
	}
	_ = r.cacheManager.InvalidateUser(ctx, userID)
}

func (r *userRepository) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	db := useDB(r.db, tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
