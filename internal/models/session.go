package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// LearningMode is the negotiated delivery format for a session.
type LearningMode string

const (
	ModeVideo    LearningMode = "video"
	ModeChat     LearningMode = "chat"
	ModeInPerson LearningMode = "in_person"
)

// SessionRole identifies which side of a session a user occupied.
// A user never holds both roles in the same session; this is enforced
// when the session request is created.
type SessionRole string

const (
	SessionRoleTeacher SessionRole = "teacher"
	SessionRoleLearner SessionRole = "learner"
)

// SessionRequest is a learner asking a teacher for a session on a skill.
type SessionRequest struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	LearnerID    string        `json:"learner_id" gorm:"not null;size:255;index" validate:"required"`
	TeacherID    string        `json:"teacher_id" gorm:"not null;size:255;index" validate:"required"`
	SkillID      uint          `json:"skill_id" gorm:"not null;index" validate:"required"`
	Message      *string       `json:"message" gorm:"type:text" validate:"omitempty,max=1000"`
	ProposedMode LearningMode  `json:"proposed_mode" gorm:"not null;size:20" validate:"required,oneof=video chat in_person"`
	ProposedAt   time.Time     `json:"proposed_at" validate:"required"`
	Status       RequestStatus `json:"status" gorm:"not null;size:20;default:pending;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Skill Skill `json:"skill" gorm:"foreignKey:SkillID"`
}

// Session is a scheduled (or held) tutoring session between two users.
type Session struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	RequestID    *uint         `json:"request_id" gorm:"index"`
	TeacherID    string        `json:"teacher_id" gorm:"not null;size:255;index"`
	LearnerID    string        `json:"learner_id" gorm:"not null;size:255;index"`
	SkillID      uint          `json:"skill_id" gorm:"not null;index"`
	LearningMode LearningMode  `json:"learning_mode" gorm:"not null;size:20"`
	ScheduledAt  time.Time     `json:"scheduled_at" gorm:"not null;index"`
	MeetingLink  *string       `json:"meeting_link" gorm:"size:500"`
	Status       SessionStatus `json:"status" gorm:"not null;size:20;default:scheduled;index"`
	CompletedAt  *time.Time    `json:"completed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Skill Skill `json:"skill" gorm:"foreignKey:SkillID"`
}

// RoleOf returns the role the given user held in the session, or "" if the
// user did not participate.
func (s *Session) RoleOf(userID string) SessionRole {
	switch userID {
	case s.TeacherID:
		return SessionRoleTeacher
	case s.LearnerID:
		return SessionRoleLearner
	default:
		return ""
	}
}

// CounterpartOf returns the other participant's ID, or "" if the user did
// not participate.
func (s *Session) CounterpartOf(userID string) string {
	switch userID {
	case s.TeacherID:
		return s.LearnerID
	case s.LearnerID:
		return s.TeacherID
	default:
		return ""
	}
}

func (SessionRequest) TableName() string {
	return "session_requests"
}

func (Session) TableName() string {
	return "sessions"
}
