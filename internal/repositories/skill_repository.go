package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// SkillRepository interface for the skill catalog.
type SkillRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, skill *models.Skill) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Skill, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Skill, error)
	Update(ctx context.Context, tx *gorm.DB, skill *models.Skill) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SkillFilters) ([]*models.Skill, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters SkillFilters) ([]*models.Skill, int64, error)

	// Validation
	ExistsByName(ctx context.Context, tx *gorm.DB, name string) (bool, error)
}

// UserSkillRepository interface for teach/learn listings.
type UserSkillRepository interface {
	Add(ctx context.Context, tx *gorm.DB, userSkill *models.UserSkill) error
	Remove(ctx context.Context, tx *gorm.DB, userID string, skillID uint, mode models.SkillMode) error

	// Query operations
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.UserSkill, error)
	ListBySkill(ctx context.Context, tx *gorm.DB, skillID uint, mode models.SkillMode) ([]*models.UserSkill, error)
	Exists(ctx context.Context, tx *gorm.DB, userID string, skillID uint, mode models.SkillMode) (bool, error)
}
