package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

type feedbackService struct {
	repo       repositories.Repository
	db         *gorm.DB
	logger     *slog.Logger
	validator  *validator.Validator
	dispatcher ScoringDispatcher
}

func NewFeedbackService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, dispatcher ScoringDispatcher) FeedbackService {
	return &feedbackService{
		repo:       repo,
		db:         db,
		logger:     logger,
		validator:  validator,
		dispatcher: dispatcher,
	}
}

// Submit records one participant's rating of the other for a completed
// session, then fires a scoring event for the recipient. The feedback write
// succeeds even when the recompute fails; the outcome reports the recompute
// separately.
func (s *feedbackService) Submit(ctx context.Context, req *SubmitFeedbackRequest, giverID string) (*SubmitFeedbackResponse, error) {
	if errs := s.validator.Business().ValidateFeedbackSubmit(req); len(errs) > 0 {
		return nil, toServiceValidationErrors(errs)
	}

	session, err := s.repo.Session().GetByID(ctx, nil, req.SessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	giverRole := session.RoleOf(giverID)
	if giverRole == "" {
		return nil, ErrNotSessionParty
	}
	if session.Status != models.SessionCompleted {
		return nil, ErrSessionNotCompleted
	}

	exists, err := s.repo.Feedback().ExistsBySessionAndGiver(ctx, nil, req.SessionID, giverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing feedback: %w", err)
	}
	if exists {
		return nil, ErrFeedbackAlreadyGiven
	}

	recipientID := session.CounterpartOf(giverID)
	feedback := &models.Feedback{
		SessionID:  req.SessionID,
		FromUserID: giverID,
		ToUserID:   recipientID,
		Rating:     req.Rating,
		Role:       giverRole,
		Comment:    req.Comment,
	}

	if err := s.repo.Feedback().Create(ctx, nil, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	s.logger.Info("Feedback submitted",
		"session_id", req.SessionID,
		"from", giverID,
		"to", recipientID,
		"rating", req.Rating,
		"giver_role", giverRole)

	outcome := s.dispatcher.OnScoringEvent(ctx, ScoringEvent{
		Type:      ScoringEventFeedbackSubmitted,
		SessionID: session.ID,
		SkillID:   session.SkillID,
		SkillName: session.Skill.Name,
		UserIDs:   []string{recipientID},
	})
	if !outcome.OK() {
		s.logger.Warn("Scoring recompute after feedback had failures",
			"session_id", req.SessionID,
			"failures", len(outcome.Failures))
	}

	return &SubmitFeedbackResponse{
		Feedback: feedback,
		Scoring:  outcome,
	}, nil
}

func (s *feedbackService) ListBySession(ctx context.Context, sessionID uint, userID string) ([]*models.Feedback, error) {
	session, err := s.repo.Session().GetByID(ctx, nil, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.RoleOf(userID) == "" {
		return nil, NewPermissionError(userID, sessionID, "session", "read_feedback", "not a participant of the session")
	}

	feedbacks, err := s.repo.Feedback().ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedbacks, nil
}

func (s *feedbackService) ListForUser(ctx context.Context, userID string) ([]*models.Feedback, error) {
	feedbacks, err := s.repo.Feedback().GetByRecipient(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received feedback: %w", err)
	}
	return feedbacks, nil
}
