package models

import (
	"time"

	"gorm.io/gorm"
)

// Feedback is a 1-5 rating given by one session participant to the other.
// Role records the giver's role in that session, so feedback with
// Role == learner is feedback the recipient earned while teaching.
type Feedback struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	SessionID  uint        `json:"session_id" gorm:"not null;index;uniqueIndex:idx_feedback_session_giver"`
	FromUserID string      `json:"from_user_id" gorm:"not null;size:255;uniqueIndex:idx_feedback_session_giver"`
	ToUserID   string      `json:"to_user_id" gorm:"not null;size:255;index"`
	Rating     int         `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Role       SessionRole `json:"role" gorm:"not null;size:10" validate:"required,oneof=teacher learner"`
	Comment    *string     `json:"comment" gorm:"type:text" validate:"omitempty,max=2000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Session Session `json:"-" gorm:"foreignKey:SessionID"`
}

func (Feedback) TableName() string {
	return "feedback"
}
