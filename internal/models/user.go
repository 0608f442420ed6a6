package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// DefaultCredibilityScore is the neutral score assigned at account creation.
const DefaultCredibilityScore = 50

// CredibilityStats is the display/debugging sub-object persisted alongside
// the overall credibility score.
type CredibilityStats struct {
	AvgSkillScore     float64   `json:"avg_skill_score"`
	AvgTeachingRating float64   `json:"avg_teaching_rating"`
	SessionCount      int       `json:"session_count"`
	ConsistencyBonus  int       `json:"consistency_bonus"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"size:20;default:member"`

	// Profile info
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`
	Bio       *string `json:"bio" gorm:"type:text"`

	// Composite trust metric, always kept in [0, 100].
	CredibilityScore int            `json:"credibility_score" gorm:"not null;default:50"`
	CredibilityStats datatypes.JSON `json:"credibility_stats"`

	// Status
	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
