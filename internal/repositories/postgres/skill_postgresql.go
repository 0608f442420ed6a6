package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

type skillRepository struct {
	db *gorm.DB
}

func NewSkillPostgreSQL(db *gorm.DB) repositories.SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, tx *gorm.DB, skill *models.Skill) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Create(skill).Error; err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Skill, error) {
	db := useDB(r.db, tx)

	var skill models.Skill
	if err := db.WithContext(ctx).First(&skill, id).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &skill, nil
}

func (r *skillRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Skill, error) {
	db := useDB(r.db, tx)

	var skill models.Skill
	if err := db.WithContext(ctx).First(&skill, "LOWER(name) = LOWER(?)", name).Error; err != nil {
		return nil, asRepoError(err)
	}
	return &skill, nil
}

func (r *skillRepository) Update(ctx context.Context, tx *gorm.DB, skill *models.Skill) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Save(skill).Error; err != nil {
		return fmt.Errorf("failed to update skill: %w", err)
	}
	return nil
}

func (r *skillRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := useDB(r.db, tx)

	result := db.WithContext(ctx).Delete(&models.Skill{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete skill: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *skillRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.SkillFilters) ([]*models.Skill, int64, error) {
	db := useDB(r.db, tx)

	query := db.WithContext(ctx).Model(&models.Skill{})

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Query != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count skills: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy != "name" && sortBy != "created_at" && sortBy != "category" {
		sortBy = "name"
	}
	order := "asc"
	if strings.EqualFold(filters.SortOrder, "desc") {
		order = "desc"
	}

	var skills []*models.Skill
	if err := applyPagination(query, filters.Limit, filters.Offset).
		Order(fmt.Sprintf("%s %s", sortBy, order)).
		Find(&skills).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list skills: %w", err)
	}

	return skills, total, nil
}

func (r *skillRepository) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.SkillFilters) ([]*models.Skill, int64, error) {
	filters.Query = query
	return r.List(ctx, tx, filters)
}

func (r *skillRepository) ExistsByName(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	db := useDB(r.db, tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Skill{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check skill existence: %w", err)
	}
	return count > 0, nil
}

// ===== USER SKILLS =====

type userSkillRepository struct {
	db *gorm.DB
}

func NewUserSkillPostgreSQL(db *gorm.DB) repositories.UserSkillRepository {
	return &userSkillRepository{db: db}
}

func (r *userSkillRepository) Add(ctx context.Context, tx *gorm.DB, userSkill *models.UserSkill) error {
	db := useDB(r.db, tx)

	if err := db.WithContext(ctx).Create(userSkill).Error; err != nil {
		return fmt.Errorf("failed to add user skill: %w", err)
	}
	return nil
}

func (r *userSkillRepository) Remove(ctx context.Context, tx *gorm.DB, userID string, skillID uint, mode models.SkillMode) error {
	db := useDB(r.db, tx)

	result := db.WithContext(ctx).
		Where("user_id = ? AND skill_id = ? AND mode = ?", userID, skillID, mode).
		Delete(&models.UserSkill{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove user skill: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *userSkillRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.UserSkill, error) {
	db := useDB(r.db, tx)

	var userSkills []*models.UserSkill
	if err := db.WithContext(ctx).
		Preload("Skill").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&userSkills).Error; err != nil {
		return nil, fmt.Errorf("failed to list user skills: %w", err)
	}
	return userSkills, nil
}

func (r *userSkillRepository) ListBySkill(ctx context.Context, tx *gorm.DB, skillID uint, mode models.SkillMode) ([]*models.UserSkill, error) {
	db := useDB(r.db, tx)

	var userSkills []*models.UserSkill
	if err := db.WithContext(ctx).
		Where("skill_id = ? AND mode = ?", skillID, mode).
		Find(&userSkills).Error; err != nil {
		return nil, fmt.Errorf("failed to list users for skill: %w", err)
	}
	return userSkills, nil
}

func (r *userSkillRepository) Exists(ctx context.Context, tx *gorm.DB, userID string, skillID uint, mode models.SkillMode) (bool, error) {
	db := useDB(r.db, tx)

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.UserSkill{}).
		Where("user_id = ? AND skill_id = ? AND mode = ?", userID, skillID, mode).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user skill: %w", err)
	}
	return count > 0, nil
}
