package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/questiongen"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

type assignmentService struct {
	repo       repositories.Repository
	db         *gorm.DB
	logger     *slog.Logger
	validator  *validator.Validator
	generator  questiongen.Generator
	dispatcher ScoringDispatcher
}

func NewAssignmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, generator questiongen.Generator, dispatcher ScoringDispatcher) AssignmentService {
	return &assignmentService{
		repo:       repo,
		db:         db,
		logger:     logger,
		validator:  validator,
		generator:  generator,
		dispatcher: dispatcher,
	}
}

// Create lets the teacher of a completed session hand the learner an
// assignment. Questions come from the injected generator; generation
// failures fail the create since an empty assignment is useless.
func (s *assignmentService) Create(ctx context.Context, req *CreateAssignmentRequest, teacherID string) (*AssignmentResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, toServiceValidationErrors(errs)
	}

	session, err := s.repo.Session().GetByID(ctx, nil, req.SessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.TeacherID != teacherID {
		return nil, NewPermissionError(teacherID, req.SessionID, "session", "create_assignment", "only the session teacher can assign work")
	}
	if session.Status != models.SessionCompleted {
		return nil, ErrSessionNotCompleted
	}

	questions, err := s.generator.Generate(ctx, questiongen.Request{
		Topic:      req.Topic,
		SkillName:  session.Skill.Name,
		Difficulty: req.Difficulty,
		Count:      req.QuestionCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignment questions: %w", err)
	}

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}

	assignment := &models.Assignment{
		SessionID: session.ID,
		UserID:    session.LearnerID,
		SkillID:   session.SkillID,
		Questions: questionsJSON,
		DueAt:     req.DueAt,
	}

	if err := s.repo.Assignment().Create(ctx, nil, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info("Assignment created",
		"assignment_id", assignment.ID,
		"session_id", session.ID,
		"learner_id", session.LearnerID,
		"questions", len(questions))

	return s.toResponse(assignment, teacherID, session), nil
}

func (s *assignmentService) GetByID(ctx context.Context, id uint, userID string) (*AssignmentResponse, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	session, err := s.repo.Session().GetByID(ctx, nil, assignment.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment session: %w", err)
	}

	if session.RoleOf(userID) == "" {
		return nil, NewPermissionError(userID, id, "assignment", "read", "not a participant of the session")
	}

	return s.toResponse(assignment, userID, session), nil
}

func (s *assignmentService) ListByUser(ctx context.Context, userID string, filters repositories.AssignmentFilters) (*AssignmentListResponse, error) {
	assignments, total, err := s.repo.Assignment().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]*AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, &AssignmentResponse{
			Assignment: a,
			CanSubmit:  a.UserID == userID && !a.Graded,
		})
	}

	return &AssignmentListResponse{
		Assignments: responses,
		Total:       total,
		Page:        pageFromOffset(filters.Limit, filters.Offset),
		Size:        len(responses),
	}, nil
}

// Submit records the learner's answer text. Resubmission before grading
// overwrites the previous submission.
func (s *assignmentService) Submit(ctx context.Context, id uint, req *SubmitAssignmentRequest, userID string) (*AssignmentResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, toServiceValidationErrors(errs)
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if assignment.UserID != userID {
		return nil, NewPermissionError(userID, id, "assignment", "submit", "not the assignment owner")
	}
	if assignment.Graded {
		return nil, ErrAssignmentAlreadyGraded
	}

	assignment.Submission = &req.Submission
	if err := s.repo.Assignment().Update(ctx, nil, assignment); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.logger.Info("Assignment submitted", "assignment_id", id, "user_id", userID)

	return &AssignmentResponse{Assignment: assignment}, nil
}

// Grade stores the teacher's 1-5 grade and fires a scoring event for the
// assignment owner. The grade write is the primary action; the scoring
// recompute is best-effort and reported in the response.
func (s *assignmentService) Grade(ctx context.Context, id uint, req *GradeAssignmentRequest, graderID string) (*GradeAssignmentResponse, error) {
	if errs := s.validator.Business().ValidateAssignmentGrade(req); len(errs) > 0 {
		return nil, toServiceValidationErrors(errs)
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	session, err := s.repo.Session().GetByID(ctx, nil, assignment.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment session: %w", err)
	}

	if session.TeacherID != graderID {
		return nil, NewPermissionError(graderID, id, "assignment", "grade", "only the session teacher can grade")
	}
	if assignment.Graded {
		return nil, ErrAssignmentAlreadyGraded
	}
	if assignment.Submission == nil {
		return nil, ErrAssignmentNotSubmitted
	}

	score := req.Score
	assignment.Graded = true
	assignment.FinalScore = &score
	assignment.GradedBy = &graderID
	assignment.GradedAt = timePtr(time.Now())

	if err := s.repo.Assignment().Update(ctx, nil, assignment); err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	s.logger.Info("Assignment graded",
		"assignment_id", id,
		"score", score,
		"grader_id", graderID)

	outcome := s.dispatcher.OnScoringEvent(ctx, ScoringEvent{
		Type:      ScoringEventAssignmentGraded,
		SessionID: session.ID,
		SkillID:   assignment.SkillID,
		SkillName: session.Skill.Name,
		UserIDs:   []string{assignment.UserID},
	})
	if !outcome.OK() {
		s.logger.Warn("Scoring recompute after grading had failures",
			"assignment_id", id,
			"failures", len(outcome.Failures))
	}

	return &GradeAssignmentResponse{
		Assignment: assignment,
		Scoring:    outcome,
	}, nil
}

func (s *assignmentService) toResponse(assignment *models.Assignment, userID string, session *models.Session) *AssignmentResponse {
	return &AssignmentResponse{
		Assignment: assignment,
		CanSubmit:  assignment.UserID == userID && !assignment.Graded,
		CanGrade:   session.TeacherID == userID && !assignment.Graded && assignment.Submission != nil,
	}
}
