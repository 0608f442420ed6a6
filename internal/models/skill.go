package models

import (
	"time"

	"gorm.io/gorm"
)

// SkillMode says whether a user offers to teach a skill or wants to learn it.
type SkillMode string

const (
	SkillModeTeach SkillMode = "teach"
	SkillModeLearn SkillMode = "learn"
)

type Skill struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:100;uniqueIndex" validate:"required,min=1,max=100"`
	Category    string  `json:"category" gorm:"size:100;index"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserSkill links a user to a skill they teach or learn.
type UserSkill struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UserID  string    `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_skills_user_skill_mode"`
	SkillID uint      `json:"skill_id" gorm:"not null;uniqueIndex:idx_user_skills_user_skill_mode"`
	Mode    SkillMode `json:"mode" gorm:"not null;size:10;uniqueIndex:idx_user_skills_user_skill_mode" validate:"required,oneof=teach learn"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Skill Skill `json:"skill" gorm:"foreignKey:SkillID"`
	User  User  `json:"-" gorm:"foreignKey:UserID"`
}

func (Skill) TableName() string {
	return "skills"
}

func (UserSkill) TableName() string {
	return "user_skills"
}
