package repositories

import (
	"time"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SessionFilters struct {
	Status    *models.SessionStatus `json:"status"`
	SkillID   *uint                 `json:"skill_id"`
	UserID    *string               `json:"user_id"` // either role
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`    // "scheduled_at", "created_at"
	SortOrder string                `json:"sort_order"` // "asc", "desc"
}

type RequestFilters struct {
	Status  *models.RequestStatus `json:"status"`
	SkillID *uint                 `json:"skill_id"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

type AssignmentFilters struct {
	Graded    *bool      `json:"graded"`
	Submitted *bool      `json:"submitted"`
	SkillID  *uint      `json:"skill_id"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

type FeedbackFilters struct {
	Role    *models.SessionRole `json:"role"` // giver's role
	SkillID *uint               `json:"skill_id"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
}

type SkillFilters struct {
	Category  *string `json:"category"`
	Query     string  `json:"query"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}

type UserFilters struct {
	Query  string // Search query for name or email
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// ===== SHARED STATISTICS STRUCTS =====

// SessionCounts breaks down a user's completed sessions by role.
type SessionCounts struct {
	AsTeacher int64 `json:"as_teacher"`
	AsLearner int64 `json:"as_learner"`
}

func (c SessionCounts) Total() int64 {
	return c.AsTeacher + c.AsLearner
}

// RatingHistogram counts feedback a user received, bucketed by rating value.
type RatingHistogram struct {
	Counts [5]int64 `json:"counts"` // index 0 holds rating 1, index 4 holds rating 5
	Total  int64    `json:"total"`
}
