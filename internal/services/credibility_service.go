package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

// topSkillCount is how many of the user's best skill scores feed the
// credibility blend.
const topSkillCount = 3

type credibilityService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewCredibilityService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) CredibilityService {
	return &credibilityService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// RecomputeCredibilityScore rebuilds the user's overall trust score from the
// top skill scores, teaching feedback, and a session-count bonus, then
// overwrites the stored score and stats.
func (s *credibilityService) RecomputeCredibilityScore(ctx context.Context, userID string) (*CredibilityResult, error) {
	s.logger.Debug("Recomputing credibility score", "user_id", userID)

	// Top-N skill scores. Absent when the user has no skill scores at all.
	topScores, err := s.repo.SkillScore().GetTopByUser(ctx, nil, userID, topSkillCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get top skill scores: %w", err)
	}

	var avgSkillScore float64
	skillPresent := len(topScores) > 0
	if skillPresent {
		var sum float64
		for _, sc := range topScores {
			sum += float64(sc.FinalScore)
		}
		avgSkillScore = sum / float64(len(topScores))
	}

	// Teaching rating: feedback whose giver was the learner, i.e. ratings the
	// user earned while teaching. Absent when there is none.
	teachingFeedback, err := s.repo.Feedback().GetByRecipientAndGiverRole(ctx, nil, userID, models.SessionRoleLearner)
	if err != nil {
		return nil, fmt.Errorf("failed to get teaching feedback: %w", err)
	}

	var avgTeachingRating float64
	teachingPresent := len(teachingFeedback) > 0
	if teachingPresent {
		var sum float64
		for _, f := range teachingFeedback {
			sum += float64(f.Rating)
		}
		avgTeachingRating = (sum / float64(len(teachingFeedback))) / 5 * 100
	}

	// Completed sessions in both roles. A user never holds both roles in one
	// session (enforced at request creation), so the counts sum cleanly.
	asTeacher, err := s.repo.Session().CountCompletedByRole(ctx, nil, userID, models.SessionRoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions as teacher: %w", err)
	}
	asLearner, err := s.repo.Session().CountCompletedByRole(ctx, nil, userID, models.SessionRoleLearner)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions as learner: %w", err)
	}
	sessionCount := asTeacher + asLearner
	bonus := consistencyBonus(sessionCount)

	// Blend only the components that are present.
	var base float64
	switch {
	case skillPresent && teachingPresent:
		base = (avgSkillScore + avgTeachingRating) / 2
	case skillPresent:
		base = avgSkillScore
	case teachingPresent:
		base = avgTeachingRating
	}

	finalScore := clampScore(roundHalfUp(base + float64(bonus)))

	stats := models.CredibilityStats{
		AvgSkillScore:     avgSkillScore,
		AvgTeachingRating: avgTeachingRating,
		SessionCount:      int(sessionCount),
		ConsistencyBonus:  bonus,
		UpdatedAt:         time.Now(),
	}

	if err := s.repo.User().UpdateCredibility(ctx, nil, userID, finalScore, stats); err != nil {
		return nil, fmt.Errorf("failed to persist credibility score: %w", err)
	}

	s.logger.Info("Credibility score recomputed",
		"user_id", userID,
		"credibility_score", finalScore,
		"session_count", sessionCount,
		"bonus", bonus)

	return &CredibilityResult{
		CredibilityScore: finalScore,
		Stats:            stats,
	}, nil
}

// GetCredibility assembles the profile-facing aggregate. Contract: the view
// is always fully populated; any internal failure is logged and the affected
// fields fall back to zeros/empty collections. Callers never see nil fields
// or an error.
func (s *credibilityService) GetCredibility(ctx context.Context, userID string) *CredibilityView {
	view := newZeroCredibilityView(userID)

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		s.logger.Error("Failed to load user for credibility view, serving defaults",
			"user_id", userID,
			"error", err)
		return view
	}
	view.CredibilityScore = user.CredibilityScore
	if len(user.CredibilityStats) > 0 {
		if stats, err := decodeCredibilityStats(user.CredibilityStats); err == nil {
			view.Stats = stats
		} else {
			s.logger.Warn("Failed to decode stored credibility stats",
				"user_id", userID,
				"error", err)
		}
	}

	if scores, err := s.repo.SkillScore().GetByUser(ctx, nil, userID); err == nil {
		view.SkillScores = scores
	} else {
		s.logger.Error("Failed to load skill scores for credibility view",
			"user_id", userID,
			"error", err)
	}

	if asTeacher, err := s.repo.Session().CountCompletedByRole(ctx, nil, userID, models.SessionRoleTeacher); err == nil {
		view.SessionsAsTeacher = asTeacher
	} else {
		s.logger.Error("Failed to count teaching sessions for credibility view",
			"user_id", userID,
			"error", err)
	}

	if asLearner, err := s.repo.Session().CountCompletedByRole(ctx, nil, userID, models.SessionRoleLearner); err == nil {
		view.SessionsAsLearner = asLearner
	} else {
		s.logger.Error("Failed to count learning sessions for credibility view",
			"user_id", userID,
			"error", err)
	}

	if learners, err := s.repo.Session().CountDistinctLearners(ctx, nil, userID); err == nil {
		view.UniqueLearners = learners
	} else {
		s.logger.Error("Failed to count unique learners for credibility view",
			"user_id", userID,
			"error", err)
	}

	if histogram, err := s.repo.Feedback().GetRatingHistogram(ctx, nil, userID); err == nil && histogram != nil {
		view.RatingHistogram = *histogram
	} else if err != nil {
		s.logger.Error("Failed to load rating histogram for credibility view",
			"user_id", userID,
			"error", err)
	}

	if upcoming, err := s.repo.Session().GetUpcomingByUser(ctx, nil, userID, time.Now(), 5); err == nil {
		view.UpcomingSessions = upcoming
	} else {
		s.logger.Error("Failed to load upcoming sessions for credibility view",
			"user_id", userID,
			"error", err)
	}

	return view
}

// newZeroCredibilityView is the fully-populated default shape.
func newZeroCredibilityView(userID string) *CredibilityView {
	return &CredibilityView{
		UserID:           userID,
		CredibilityScore: 0,
		Stats:            models.CredibilityStats{},
		SkillScores:      []*models.SkillScore{},
		UpcomingSessions: []*models.Session{},
	}
}
