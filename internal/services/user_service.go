package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

// userService merges the two user stores: Casdoor owns identity (name,
// email, role), the local table owns credibility. Reads prefer the local
// row and fall back to identity; writes only ever touch the local row.
type userService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) UserService {
	return &userService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err == nil {
		return user, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Known to the identity provider but never seen here: materialize the
	// local row with the neutral default credibility.
	return s.EnsureUser(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, fullName *string, bio *string, avatarURL *string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if fullName != nil {
		if *fullName == "" {
			return nil, NewValidationError("full_name", "full name cannot be empty", *fullName)
		}
		user.FullName = *fullName
	}
	if bio != nil {
		user.Bio = bio
	}
	if avatarURL != nil {
		user.AvatarURL = avatarURL
	}

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User profile updated", "user_id", userID)
	return user, nil
}

// EnsureUser guarantees a local row exists for an authenticated identity.
// Called on first sight of a user (typically from the auth middleware); a
// new row starts at the neutral default credibility.
func (s *userService) EnsureUser(ctx context.Context, userID string) (*models.User, error) {
	identity, err := s.repo.Identity().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	user := &models.User{
		ID:               identity.ID,
		FullName:         identity.FullName,
		Email:            identity.Email,
		Role:             identity.Role,
		AvatarURL:        identity.AvatarURL,
		CredibilityScore: models.DefaultCredibilityScore,
		EmailVerified:    identity.EmailVerified,
	}
	if err := s.repo.User().EnsureExists(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to ensure user row: %w", err)
	}

	// Re-read so a pre-existing row keeps its stored credibility and profile
	// edits rather than the identity snapshot.
	stored, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	s.logger.Debug("User row ensured", "user_id", userID)
	return stored, nil
}

// Search queries the identity provider and overlays stored credibility
// scores where a local row exists.
func (s *userService) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	users, total, err := s.repo.Identity().Search(ctx, query, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}

	for _, user := range users {
		local, err := s.repo.User().GetByID(ctx, nil, user.ID)
		if err != nil {
			if !repositories.IsNotFoundError(err) {
				s.logger.Warn("Failed to overlay local user data", "user_id", user.ID, "error", err)
			}
			user.CredibilityScore = models.DefaultCredibilityScore
			continue
		}
		user.CredibilityScore = local.CredibilityScore
		user.CredibilityStats = local.CredibilityStats
		if local.Bio != nil {
			user.Bio = local.Bio
		}
	}

	return users, total, nil
}
