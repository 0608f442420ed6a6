package validator

import (
	"time"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// SessionRequestCreateRequest is a learner asking a teacher for a session
type SessionRequestCreateRequest struct {
	TeacherID    string              `json:"teacher_id" validate:"required"`
	SkillID      uint                `json:"skill_id" validate:"required"`
	Message      *string             `json:"message" validate:"omitempty,max=1000"`
	ProposedMode models.LearningMode `json:"proposed_mode" validate:"required,learning_mode"`
	ProposedAt   time.Time           `json:"proposed_at" validate:"required,future_date"`
}

// SessionRequestRespondRequest accepts or declines a pending request
type SessionRequestRespondRequest struct {
	Accept      bool       `json:"accept"`
	ScheduledAt *time.Time `json:"scheduled_at" validate:"omitempty,future_date"`
	MeetingLink *string    `json:"meeting_link" validate:"omitempty,max=500,url"`
}

// AssignmentCreateRequest creates a post-session assignment for the learner
type AssignmentCreateRequest struct {
	SessionID     uint       `json:"session_id" validate:"required"`
	Topic         string     `json:"topic" validate:"required,min=1,max=200"`
	Difficulty    string     `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	QuestionCount int        `json:"question_count" validate:"omitempty,min=1,max=20"`
	DueAt         *time.Time `json:"due_at" validate:"omitempty,future_date"`
}

// AssignmentSubmitRequest is the learner's answer payload
type AssignmentSubmitRequest struct {
	Submission string `json:"submission" validate:"required,min=1,max=20000"`
}

// AssignmentGradeRequest grades a submitted assignment on the 1-5 scale
type AssignmentGradeRequest struct {
	Score   int     `json:"score" validate:"required,grade_range"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// FeedbackSubmitRequest rates the counterpart of a completed session
type FeedbackSubmitRequest struct {
	SessionID uint    `json:"session_id" validate:"required"`
	Rating    int     `json:"rating" validate:"required,rating_range"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
}

// SkillCreateRequest adds a skill to the catalog
type SkillCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Category    string  `json:"category" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// UserSkillRequest lists a skill on a user's profile as taught or learned
type UserSkillRequest struct {
	SkillID uint             `json:"skill_id" validate:"required"`
	Mode    models.SkillMode `json:"mode" validate:"required,oneof=teach learn"`
}
