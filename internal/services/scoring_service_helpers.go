package services

import (
	"encoding/json"
	"math"

	"gorm.io/datatypes"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// roundHalfUp rounds to the nearest integer, ties away from zero upward.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// clampScore keeps a score inside [0, 100].
func clampScore(x int) int {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

// rescaleGrade maps a 1-5 grade onto the 0-100 scale.
func rescaleGrade(grade int) float64 {
	return float64(grade) * 20
}

// consistencyTerm is the skill-score session component: 10 points per
// completed session, capped at 100.
func consistencyTerm(sessionCount int) float64 {
	v := float64(sessionCount) * 10
	if v > 100 {
		return 100
	}
	return v
}

// decodeCredibilityStats parses the stored JSON stats sub-object.
func decodeCredibilityStats(raw datatypes.JSON) (models.CredibilityStats, error) {
	var stats models.CredibilityStats
	err := json.Unmarshal(raw, &stats)
	return stats, err
}

// consistencyBonus is the credibility step bonus for total completed
// sessions.
func consistencyBonus(sessionCount int64) int {
	switch {
	case sessionCount >= 30:
		return 10
	case sessionCount >= 15:
		return 5
	case sessionCount >= 5:
		return 2
	default:
		return 0
	}
}
