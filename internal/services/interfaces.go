package services

import (
	"context"
	"time"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateSessionRequestRequest = validator.SessionRequestCreateRequest
type RespondSessionRequestRequest = validator.SessionRequestRespondRequest
type CreateAssignmentRequest = validator.AssignmentCreateRequest
type SubmitAssignmentRequest = validator.AssignmentSubmitRequest
type GradeAssignmentRequest = validator.AssignmentGradeRequest
type SubmitFeedbackRequest = validator.FeedbackSubmitRequest
type CreateSkillRequest = validator.SkillCreateRequest
type UserSkillRequest = validator.UserSkillRequest

type SessionResponse struct {
	*models.Session
	Role        models.SessionRole `json:"role,omitempty"` // caller's role, if a participant
	CanComplete bool               `json:"can_complete"`
	CanCancel   bool               `json:"can_cancel"`
}

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
}

type RequestListResponse struct {
	Requests []*models.SessionRequest `json:"requests"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	Size     int                      `json:"size"`
}

type AssignmentResponse struct {
	*models.Assignment
	CanSubmit bool `json:"can_submit"`
	CanGrade  bool `json:"can_grade"`
}

type AssignmentListResponse struct {
	Assignments []*AssignmentResponse `json:"assignments"`
	Total       int64                 `json:"total"`
	Page        int                   `json:"page"`
	Size        int                   `json:"size"`
}

type SkillListResponse struct {
	Skills []*models.Skill `json:"skills"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Size   int             `json:"size"`
}

// ===== SCORING DTOs =====

// CredibilityResult is the outcome of a credibility recompute: the stored
// score plus the stats sub-object persisted alongside it.
type CredibilityResult struct {
	CredibilityScore int                     `json:"credibility_score"`
	Stats            models.CredibilityStats `json:"stats"`
}

// CredibilityView is the read-only aggregate served to profile/dashboard
// consumers. Every field is always populated; absent data renders as zeros
// and empty collections, never null.
type CredibilityView struct {
	UserID           string                  `json:"user_id"`
	CredibilityScore int                     `json:"credibility_score"`
	Stats            models.CredibilityStats `json:"stats"`

	SkillScores       []*models.SkillScore          `json:"skill_scores"`
	SessionsAsTeacher int64                         `json:"sessions_as_teacher"`
	SessionsAsLearner int64                         `json:"sessions_as_learner"`
	UniqueLearners    int64                         `json:"unique_learners"`
	RatingHistogram   repositories.RatingHistogram  `json:"rating_histogram"`
	UpcomingSessions  []*models.Session             `json:"upcoming_sessions"`
}

// ===== SCORING EVENT DISPATCH =====

type ScoringEventType string

const (
	ScoringEventFeedbackSubmitted ScoringEventType = "feedback_submitted"
	ScoringEventAssignmentGraded  ScoringEventType = "assignment_graded"
	ScoringEventSessionCompleted  ScoringEventType = "session_completed"
)

// ScoringEvent names the trigger and the users whose scores it touches.
type ScoringEvent struct {
	Type      ScoringEventType `json:"type"`
	SessionID uint             `json:"session_id,omitempty"`
	SkillID   uint             `json:"skill_id"`
	SkillName string           `json:"skill_name"`
	UserIDs   []string         `json:"user_ids"` // recipients of the recompute
}

// RecomputeFailure records one failed step of a scoring fan-out.
type RecomputeFailure struct {
	UserID string `json:"user_id"`
	Stage  string `json:"stage"` // "skill_score" or "credibility"
	Err    error  `json:"-"`
}

// ScoringOutcome reports the secondary (best-effort) scoring work attached to
// a primary action. Callers log failures but never propagate them as a
// failure of the primary write.
type ScoringOutcome struct {
	Event       ScoringEventType     `json:"event"`
	SkillScores []*models.SkillScore `json:"skill_scores"`
	Credibility map[string]int       `json:"credibility"` // userID -> new score
	Failures    []RecomputeFailure   `json:"failures,omitempty"`
}

// OK reports whether every recompute in the fan-out succeeded.
func (o *ScoringOutcome) OK() bool {
	return len(o.Failures) == 0
}

// ===== RESPONSES CARRYING A SCORING OUTCOME =====

type CompleteSessionResponse struct {
	Session *models.Session `json:"session"`
	Scoring *ScoringOutcome `json:"scoring"`
}

type GradeAssignmentResponse struct {
	Assignment *models.Assignment `json:"assignment"`
	Scoring    *ScoringOutcome    `json:"scoring"`
}

type SubmitFeedbackResponse struct {
	Feedback *models.Feedback `json:"feedback"`
	Scoring  *ScoringOutcome  `json:"scoring"`
}

// ===== SERVICE INTERFACES =====

// ScoringService owns the per-(user, skill) score snapshots.
type ScoringService interface {
	// RecomputeSkillScore rebuilds the full snapshot from current underlying
	// data and upserts it. Idempotent: with no new data, only UpdatedAt moves.
	RecomputeSkillScore(ctx context.Context, userID string, skillID uint, skillName string) (*models.SkillScore, error)

	// Read operations
	GetSkillScore(ctx context.Context, userID string, skillID uint) (*models.SkillScore, error)
	GetSkillScoresForUser(ctx context.Context, userID string) ([]*models.SkillScore, error)

	// Legacy running average, kept for older display code. Not authoritative.
	UpdateLegacySkillScore(ctx context.Context, userID string, skillID uint, sample float64) (*models.UserSkillScore, error)
}

// CredibilityService owns the per-user overall trust score.
type CredibilityService interface {
	// RecomputeCredibilityScore rebuilds the user's credibility from top skill
	// scores, teaching feedback, and session counts, then persists it.
	RecomputeCredibilityScore(ctx context.Context, userID string) (*CredibilityResult, error)

	// GetCredibility returns the aggregate profile view. On any internal
	// failure it returns a fully-populated zero-default view and logs the
	// error; it never returns a partial shape.
	GetCredibility(ctx context.Context, userID string) *CredibilityView
}

// ScoringDispatcher is the single fan-out point the three trigger workflows
// call after their primary write succeeds.
type ScoringDispatcher interface {
	// OnScoringEvent runs skill-score then credibility recomputes for every
	// user in the event, collecting failures instead of aborting. Best-effort
	// by contract: the returned outcome is informational.
	OnScoringEvent(ctx context.Context, event ScoringEvent) *ScoringOutcome
}

type SessionService interface {
	// Request workflow
	CreateRequest(ctx context.Context, req *CreateSessionRequestRequest, learnerID string) (*models.SessionRequest, error)
	RespondToRequest(ctx context.Context, requestID uint, req *RespondSessionRequestRequest, teacherID string) (*models.SessionRequest, error)
	ListRequestsForTeacher(ctx context.Context, teacherID string, filters repositories.RequestFilters) (*RequestListResponse, error)
	ListRequestsForLearner(ctx context.Context, learnerID string, filters repositories.RequestFilters) (*RequestListResponse, error)

	// Session lifecycle
	GetByID(ctx context.Context, id uint, userID string) (*SessionResponse, error)
	List(ctx context.Context, filters repositories.SessionFilters, userID string) (*SessionListResponse, error)
	Complete(ctx context.Context, sessionID uint, userID string) (*CompleteSessionResponse, error)
	Cancel(ctx context.Context, sessionID uint, userID string) error
}

type AssignmentService interface {
	Create(ctx context.Context, req *CreateAssignmentRequest, teacherID string) (*AssignmentResponse, error)
	GetByID(ctx context.Context, id uint, userID string) (*AssignmentResponse, error)
	ListByUser(ctx context.Context, userID string, filters repositories.AssignmentFilters) (*AssignmentListResponse, error)
	Submit(ctx context.Context, id uint, req *SubmitAssignmentRequest, userID string) (*AssignmentResponse, error)
	Grade(ctx context.Context, id uint, req *GradeAssignmentRequest, graderID string) (*GradeAssignmentResponse, error)
}

type FeedbackService interface {
	Submit(ctx context.Context, req *SubmitFeedbackRequest, giverID string) (*SubmitFeedbackResponse, error)
	ListBySession(ctx context.Context, sessionID uint, userID string) ([]*models.Feedback, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Feedback, error)
}

type SkillService interface {
	Create(ctx context.Context, req *CreateSkillRequest, creatorID string) (*models.Skill, error)
	GetByID(ctx context.Context, id uint) (*models.Skill, error)
	List(ctx context.Context, filters repositories.SkillFilters) (*SkillListResponse, error)
	Search(ctx context.Context, query string, filters repositories.SkillFilters) (*SkillListResponse, error)

	// User skill listings
	AddUserSkill(ctx context.Context, req *UserSkillRequest, userID string) (*models.UserSkill, error)
	RemoveUserSkill(ctx context.Context, skillID uint, mode models.SkillMode, userID string) error
	ListUserSkills(ctx context.Context, userID string) ([]*models.UserSkill, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, fullName *string, bio *string, avatarURL *string) (*models.User, error)
	EnsureUser(ctx context.Context, userID string) (*models.User, error)
	Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error)
}

// ExportService renders credibility reports as spreadsheets.
type ExportService interface {
	ExportCredibilityReport(ctx context.Context, userID string) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Scoring() ScoringService
	Credibility() CredibilityService
	Dispatcher() ScoringDispatcher
	Session() SessionService
	Assignment() AssignmentService
	Feedback() FeedbackService
	Skill() SkillService
	User() UserService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// timePtr is a small helper shared by the services
func timePtr(t time.Time) *time.Time {
	return &t
}
