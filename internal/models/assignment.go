package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assignment is a post-session exercise for the learner, graded 1-5 by the
// teaching party.
type Assignment struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SessionID uint   `json:"session_id" gorm:"not null;index"`
	UserID    string `json:"user_id" gorm:"not null;size:255;index:idx_assignments_user_skill"` // assignment owner (learner)
	SkillID   uint   `json:"skill_id" gorm:"not null;index:idx_assignments_user_skill"`

	// Generated question payload and the learner's submission.
	Questions  datatypes.JSON `json:"questions"`
	Submission *string        `json:"submission" gorm:"type:text"`

	// Grading (1-5 scale). FinalScore is only set once Graded is true.
	Graded     bool       `json:"graded" gorm:"not null;default:false;index"`
	FinalScore *int       `json:"final_score" validate:"omitempty,min=1,max=5"`
	GradedBy   *string    `json:"graded_by" gorm:"size:255"`
	GradedAt   *time.Time `json:"graded_at"`

	DueAt *time.Time `json:"due_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Session Session `json:"-" gorm:"foreignKey:SessionID"`
	Skill   Skill   `json:"skill" gorm:"foreignKey:SkillID"`
}

func (Assignment) TableName() string {
	return "assignments"
}
