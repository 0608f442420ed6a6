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

type sessionService struct {
	repo       repositories.Repository
	db         *gorm.DB
	logger     *slog.Logger
	validator  *validator.Validator
	dispatcher ScoringDispatcher
}

func NewSessionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, dispatcher ScoringDispatcher) SessionService {
	return &sessionService{
		repo:       repo,
		db:         db,
		logger:     logger,
		validator:  validator,
		dispatcher: dispatcher,
	}
}

// ===== REQUEST WORKFLOW =====

// CreateRequest opens a pending session request from a learner to a teacher.
// Teacher and learner must be different users; this is what keeps feedback
// giver roles unambiguous later.
func (s *sessionService) CreateRequest(ctx context.Context, req *CreateSessionRequestRequest, learnerID string) (*models.SessionRequest, error) {
	if errs := s.validator.Business().ValidateSessionRequestCreate(req, learnerID); len(errs) > 0 {
		return nil, toServiceValidationErrors(errs)
	}

	skill, err := s.repo.Skill().GetByID(ctx, nil, req.SkillID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}

	teacherExists, err := s.repo.User().ExistsByID(ctx, nil, req.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to check teacher: %w", err)
	}
	if !teacherExists {
		return nil, ErrUserNotFound
	}

	teaches, err := s.repo.UserSkill().Exists(ctx, nil, req.TeacherID, req.SkillID, models.SkillModeTeach)
	if err != nil {
		return nil, fmt.Errorf("failed to check teacher skill listing: %w", err)
	}
	if !teaches {
		return nil, NewValidationError("skill_id", "teacher does not list this skill", req.SkillID)
	}

	request := &models.SessionRequest{
		LearnerID:    learnerID,
		TeacherID:    req.TeacherID,
		SkillID:      req.SkillID,
		Message:      req.Message,
		ProposedMode: req.ProposedMode,
		ProposedAt:   req.ProposedAt,
		Status:       models.RequestPending,
	}

	if err := s.repo.SessionRequest().Create(ctx, nil, request); err != nil {
		return nil, fmt.Errorf("failed to create session request: %w", err)
	}

	s.logger.Info("Session request created",
		"request_id", request.ID,
		"learner_id", learnerID,
		"teacher_id", req.TeacherID,
		"skill", skill.Name)

	return request, nil
}

// RespondToRequest lets the teacher accept or decline a pending request.
// Accepting creates the scheduled session in the same transaction.
func (s *sessionService) RespondToRequest(ctx context.Context, requestID uint, req *RespondSessionRequestRequest, teacherID string) (*models.SessionRequest, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, toServiceValidationErrors(errs)
	}

	request, err := s.repo.SessionRequest().GetByID(ctx, nil, requestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get session request: %w", err)
	}

	if request.TeacherID != teacherID {
		return nil, NewPermissionError(teacherID, requestID, "session_request", "respond", "not the requested teacher")
	}
	if request.Status != models.RequestPending {
		return nil, ErrRequestNotPending
	}

	if !req.Accept {
		request.Status = models.RequestDeclined
		if err := s.repo.SessionRequest().Update(ctx, nil, request); err != nil {
			return nil, fmt.Errorf("failed to decline session request: %w", err)
		}
		s.logger.Info("Session request declined", "request_id", requestID, "teacher_id", teacherID)
		return request, nil
	}

	scheduledAt := request.ProposedAt
	if req.ScheduledAt != nil {
		scheduledAt = *req.ScheduledAt
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		request.Status = models.RequestAccepted
		if err := txRepo.SessionRequest().Update(ctx, nil, request); err != nil {
			return fmt.Errorf("failed to accept session request: %w", err)
		}

		session := &models.Session{
			RequestID:    &request.ID,
			TeacherID:    request.TeacherID,
			LearnerID:    request.LearnerID,
			SkillID:      request.SkillID,
			LearningMode: request.ProposedMode,
			ScheduledAt:  scheduledAt,
			MeetingLink:  req.MeetingLink,
			Status:       models.SessionScheduled,
		}
		if err := txRepo.Session().Create(ctx, nil, session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session request accepted",
		"request_id", requestID,
		"teacher_id", teacherID,
		"scheduled_at", scheduledAt)

	return request, nil
}

func (s *sessionService) ListRequestsForTeacher(ctx context.Context, teacherID string, filters repositories.RequestFilters) (*RequestListResponse, error) {
	requests, total, err := s.repo.SessionRequest().ListByTeacher(ctx, nil, teacherID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return newRequestListResponse(requests, total, filters.Limit, filters.Offset), nil
}

func (s *sessionService) ListRequestsForLearner(ctx context.Context, learnerID string, filters repositories.RequestFilters) (*RequestListResponse, error) {
	requests, total, err := s.repo.SessionRequest().ListByLearner(ctx, nil, learnerID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return newRequestListResponse(requests, total, filters.Limit, filters.Offset), nil
}

// ===== SESSION LIFECYCLE =====

func (s *sessionService) GetByID(ctx context.Context, id uint, userID string) (*SessionResponse, error) {
	session, err := s.repo.Session().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	role := session.RoleOf(userID)
	return &SessionResponse{
		Session:     session,
		Role:        role,
		CanComplete: role != "" && session.Status == models.SessionScheduled,
		CanCancel:   role != "" && session.Status == models.SessionScheduled,
	}, nil
}

func (s *sessionService) List(ctx context.Context, filters repositories.SessionFilters, userID string) (*SessionListResponse, error) {
	// Non-admin listings are scoped to the caller's own sessions.
	if filters.UserID == nil {
		filters.UserID = &userID
	}

	sessions, total, err := s.repo.Session().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]*SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		role := session.RoleOf(userID)
		responses = append(responses, &SessionResponse{
			Session:     session,
			Role:        role,
			CanComplete: role != "" && session.Status == models.SessionScheduled,
			CanCancel:   role != "" && session.Status == models.SessionScheduled,
		})
	}

	return &SessionListResponse{
		Sessions: responses,
		Total:    total,
		Page:     pageFromOffset(filters.Limit, filters.Offset),
		Size:     len(responses),
	}, nil
}

// Complete marks the session completed and fires one scoring event covering
// both participants. The scoring recompute is best-effort: its failures ride
// back in the response, they never fail the completion itself.
func (s *sessionService) Complete(ctx context.Context, sessionID uint, userID string) (*CompleteSessionResponse, error) {
	session, err := s.repo.Session().GetByID(ctx, nil, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.RoleOf(userID) == "" {
		return nil, ErrNotSessionParty
	}
	if errs := s.validator.Business().ValidateSessionTransition(session.Status, models.SessionCompleted); len(errs) > 0 {
		return nil, ErrSessionNotScheduled
	}

	session.Status = models.SessionCompleted
	session.CompletedAt = timePtr(time.Now())
	if err := s.repo.Session().Update(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	s.logger.Info("Session completed",
		"session_id", sessionID,
		"teacher_id", session.TeacherID,
		"learner_id", session.LearnerID)

	outcome := s.dispatcher.OnScoringEvent(ctx, ScoringEvent{
		Type:      ScoringEventSessionCompleted,
		SessionID: session.ID,
		SkillID:   session.SkillID,
		SkillName: session.Skill.Name,
		UserIDs:   []string{session.TeacherID, session.LearnerID},
	})
	if !outcome.OK() {
		s.logger.Warn("Scoring recompute after session completion had failures",
			"session_id", sessionID,
			"failures", len(outcome.Failures))
	}

	return &CompleteSessionResponse{
		Session: session,
		Scoring: outcome,
	}, nil
}

func (s *sessionService) Cancel(ctx context.Context, sessionID uint, userID string) error {
	session, err := s.repo.Session().GetByID(ctx, nil, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.RoleOf(userID) == "" {
		return ErrNotSessionParty
	}
	if errs := s.validator.Business().ValidateSessionTransition(session.Status, models.SessionCancelled); len(errs) > 0 {
		return ErrSessionNotScheduled
	}

	session.Status = models.SessionCancelled
	if err := s.repo.Session().Update(ctx, nil, session); err != nil {
		return fmt.Errorf("failed to cancel session: %w", err)
	}

	s.logger.Info("Session cancelled", "session_id", sessionID, "by", userID)
	return nil
}

// ===== HELPERS =====

func newRequestListResponse(requests []*models.SessionRequest, total int64, limit, offset int) *RequestListResponse {
	return &RequestListResponse{
		Requests: requests,
		Total:    total,
		Page:     pageFromOffset(limit, offset),
		Size:     len(requests),
	}
}

func pageFromOffset(limit, offset int) int {
	if limit <= 0 {
		limit = 20
	}
	return offset/limit + 1
}

// toServiceValidationErrors converts validator errors to the service error
// type so handlers can match with errors.Is.
func toServiceValidationErrors(errs validator.ValidationErrors) error {
	out := make(ValidationErrors, 0, len(errs))
	for _, e := range errs {
		out = append(out, ValidationError{
			Field:   e.Field,
			Message: e.Message,
			Value:   e.Value,
		})
	}
	return out
}
