package models

import (
	"time"
)

// SkillScore is the per-(user, skill) trust snapshot. Every recomputation
// overwrites the whole record from current underlying data; it is never an
// accumulator.
type SkillScore struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_skill_scores_user_skill"`
	SkillID   uint   `json:"skill_id" gorm:"not null;uniqueIndex:idx_skill_scores_user_skill"`
	SkillName string `json:"skill_name" gorm:"size:100"`

	// Components on a 0-100 scale.
	AssignmentAvg float64 `json:"assignment_avg" gorm:"not null;default:0"`
	FeedbackAvg   float64 `json:"feedback_avg" gorm:"not null;default:0"`
	SessionCount  int     `json:"session_count" gorm:"not null;default:0"`

	// Weighted blend, rounded to an integer in [0, 100].
	FinalScore int `json:"final_score" gorm:"not null;default:0;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSkillScore is the legacy incremental running average, kept only for
// backward compatibility with older display code. Not authoritative.
type UserSkillScore struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	UserID   string  `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_skill_scores_user_skill"`
	SkillID  uint    `json:"skill_id" gorm:"not null;uniqueIndex:idx_user_skill_scores_user_skill"`
	Score    float64 `json:"score" gorm:"not null;default:0"`
	Sessions int     `json:"sessions" gorm:"not null;default:0"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (SkillScore) TableName() string {
	return "skill_scores"
}

func (UserSkillScore) TableName() string {
	return "user_skill_scores"
}
