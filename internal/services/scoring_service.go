package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

// Weighting of the skill score blend. Consistency is min(sessionCount*10, 100).
const (
	assignmentWeight  = 0.60
	feedbackWeight    = 0.30
	consistencyWeight = 0.10
)

type scoringService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewScoringService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ScoringService {
	return &scoringService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// RecomputeSkillScore rebuilds the (user, skill) snapshot from scratch.
//
// Concurrent recomputes for the same pair can race; the store is
// last-write-wins and every write is a full recompute from current data, so
// scores converge on the next trigger. No locking.
func (s *scoringService) RecomputeSkillScore(ctx context.Context, userID string, skillID uint, skillName string) (*models.SkillScore, error) {
	s.logger.Debug("Recomputing skill score",
		"user_id", userID,
		"skill_id", skillID)

	assignmentAvg, err := s.computeAssignmentAvg(ctx, userID, skillID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute assignment average: %w", err)
	}

	sessions, err := s.repo.Session().GetCompletedBySkillAndUser(ctx, nil, skillID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed sessions: %w", err)
	}
	sessionCount := len(sessions)
	consistency := consistencyTerm(sessionCount)

	feedbackAvg, err := s.computeFeedbackAvg(ctx, userID, sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to compute feedback average: %w", err)
	}

	finalScore := roundHalfUp(assignmentAvg*assignmentWeight + feedbackAvg*feedbackWeight + consistency*consistencyWeight)

	score := &models.SkillScore{
		UserID:        userID,
		SkillID:       skillID,
		SkillName:     skillName,
		AssignmentAvg: assignmentAvg,
		FeedbackAvg:   feedbackAvg,
		SessionCount:  sessionCount,
		FinalScore:    finalScore,
		UpdatedAt:     time.Now(),
	}

	if err := s.repo.SkillScore().Upsert(ctx, nil, score); err != nil {
		return nil, fmt.Errorf("failed to persist skill score: %w", err)
	}

	s.logger.Info("Skill score recomputed",
		"user_id", userID,
		"skill_id", skillID,
		"final_score", finalScore,
		"session_count", sessionCount)

	return score, nil
}

// computeAssignmentAvg averages the graded assignments for (user, skill),
// rescaling each 1-5 grade to 0-100. Zero graded assignments yields 0.
func (s *scoringService) computeAssignmentAvg(ctx context.Context, userID string, skillID uint) (float64, error) {
	assignments, err := s.repo.Assignment().GetGradedByUserAndSkill(ctx, nil, userID, skillID)
	if err != nil {
		return 0, err
	}

	var sum float64
	var count int
	for _, a := range assignments {
		if a.FinalScore == nil {
			continue
		}
		sum += rescaleGrade(*a.FinalScore)
		count++
	}

	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// computeFeedbackAvg averages the ratings the user received in the given
// completed sessions, rescaled to 0-100. Filtering by session ID ties the
// feedback to this skill rather than the user's feedback overall.
func (s *scoringService) computeFeedbackAvg(ctx context.Context, userID string, sessions []*models.Session) (float64, error) {
	if len(sessions) == 0 {
		return 0, nil
	}

	sessionIDs := make(map[uint]bool, len(sessions))
	for _, sess := range sessions {
		sessionIDs[sess.ID] = true
	}

	feedbacks, err := s.repo.Feedback().GetByRecipient(ctx, nil, userID)
	if err != nil {
		return 0, err
	}

	var sum float64
	var count int
	for _, f := range feedbacks {
		if !sessionIDs[f.SessionID] {
			continue
		}
		sum += float64(f.Rating) * 20
		count++
	}

	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// ===== READ OPERATIONS =====

func (s *scoringService) GetSkillScore(ctx context.Context, userID string, skillID uint) (*models.SkillScore, error) {
	score, err := s.repo.SkillScore().GetByUserAndSkill(ctx, nil, userID, skillID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to get skill score: %w", err)
	}
	return score, nil
}

func (s *scoringService) GetSkillScoresForUser(ctx context.Context, userID string) ([]*models.SkillScore, error) {
	scores, err := s.repo.SkillScore().GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill scores: %w", err)
	}
	return scores, nil
}

// ===== LEGACY RUNNING AVERAGE =====

// UpdateLegacySkillScore folds one sample into the old incremental average:
// newScore = (oldScore*sessions + sample) / (sessions + 1).
func (s *scoringService) UpdateLegacySkillScore(ctx context.Context, userID string, skillID uint, sample float64) (*models.UserSkillScore, error) {
	existing, err := s.repo.LegacyScore().Get(ctx, nil, userID, skillID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get legacy score: %w", err)
	}

	score := &models.UserSkillScore{
		UserID:  userID,
		SkillID: skillID,
	}
	if existing != nil {
		score.ID = existing.ID
		score.Score = (existing.Score*float64(existing.Sessions) + sample) / float64(existing.Sessions+1)
		score.Sessions = existing.Sessions + 1
	} else {
		score.Score = sample
		score.Sessions = 1
	}
	score.UpdatedAt = time.Now()

	if err := s.repo.LegacyScore().Save(ctx, nil, score); err != nil {
		return nil, fmt.Errorf("failed to save legacy score: %w", err)
	}

	return score, nil
}
