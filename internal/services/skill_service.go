package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

type skillService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSkillService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) SkillService {
	return &skillService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Create adds a skill to the shared catalog. Admin only; members list
// existing skills on their profile instead.
func (s *skillService) Create(ctx context.Context, req *CreateSkillRequest, creatorID string) (*models.Skill, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, toServiceValidationErrors(errs)
	}

	creator, err := s.repo.User().GetByID(ctx, nil, creatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator.Role != models.RoleAdmin {
		return nil, NewPermissionError(creatorID, 0, "skill", "create", "only admins can extend the skill catalog")
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.Skill().ExistsByName(ctx, nil, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check skill name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: skill %q already exists", ErrConflict, name)
	}

	skill := &models.Skill{
		Name:        name,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.repo.Skill().Create(ctx, nil, skill); err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}

	s.logger.Info("Skill created",
		"skill_id", skill.ID,
		"name", skill.Name,
		"created_by", creatorID)

	return skill, nil
}

func (s *skillService) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	skill, err := s.repo.Skill().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	return skill, nil
}

func (s *skillService) List(ctx context.Context, filters repositories.SkillFilters) (*SkillListResponse, error) {
	skills, total, err := s.repo.Skill().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return &SkillListResponse{
		Skills: skills,
		Total:  total,
		Page:   pageFromOffset(filters.Limit, filters.Offset),
		Size:   len(skills),
	}, nil
}

func (s *skillService) Search(ctx context.Context, query string, filters repositories.SkillFilters) (*SkillListResponse, error) {
	skills, total, err := s.repo.Skill().Search(ctx, nil, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search skills: %w", err)
	}
	return &SkillListResponse{
		Skills: skills,
		Total:  total,
		Page:   pageFromOffset(filters.Limit, filters.Offset),
		Size:   len(skills),
	}, nil
}

// AddUserSkill lists a catalog skill on the caller's profile as taught or
// learned. The (user, skill, mode) triple is unique.
func (s *skillService) AddUserSkill(ctx context.Context, req *UserSkillRequest, userID string) (*models.UserSkill, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, toServiceValidationErrors(errs)
	}

	skill, err := s.repo.Skill().GetByID(ctx, nil, req.SkillID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}

	exists, err := s.repo.UserSkill().Exists(ctx, nil, userID, req.SkillID, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to check skill listing: %w", err)
	}
	if exists {
		return nil, ErrSkillAlreadyListed
	}

	userSkill := &models.UserSkill{
		UserID:  userID,
		SkillID: req.SkillID,
		Mode:    req.Mode,
		Skill:   *skill,
	}
	if err := s.repo.UserSkill().Add(ctx, nil, userSkill); err != nil {
		return nil, fmt.Errorf("failed to add skill listing: %w", err)
	}

	s.logger.Info("User skill listed",
		"user_id", userID,
		"skill_id", req.SkillID,
		"mode", req.Mode)

	return userSkill, nil
}

func (s *skillService) RemoveUserSkill(ctx context.Context, skillID uint, mode models.SkillMode, userID string) error {
	if err := s.repo.UserSkill().Remove(ctx, nil, userID, skillID, mode); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSkillNotFound
		}
		return fmt.Errorf("failed to remove skill listing: %w", err)
	}

	s.logger.Info("User skill unlisted",
		"user_id", userID,
		"skill_id", skillID,
		"mode", mode)
	return nil
}

func (s *skillService) ListUserSkills(ctx context.Context, userID string) ([]*models.UserSkill, error) {
	userSkills, err := s.repo.UserSkill().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user skills: %w", err)
	}
	return userSkills, nil
}
