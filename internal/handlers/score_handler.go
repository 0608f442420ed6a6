package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/services"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/utils"
)

// ScoreHandler serves skill-score snapshots and credibility views, plus the
// admin-only manual recompute endpoints.
type ScoreHandler struct {
	BaseHandler
	scoringService     services.ScoringService
	credibilityService services.CredibilityService
	dispatcher         services.ScoringDispatcher
}

func NewScoreHandler(
	scoringService services.ScoringService,
	credibilityService services.CredibilityService,
	dispatcher services.ScoringDispatcher,
	logger utils.Logger,
) *ScoreHandler {
	return &ScoreHandler{
		BaseHandler:        NewBaseHandler(logger),
		scoringService:     scoringService,
		credibilityService: credibilityService,
		dispatcher:         dispatcher,
	}
}

// GetSkillScores lists a user's skill score snapshots
// @Summary Get skill scores
// @Description Lists per-skill score snapshots for a user, highest first
// @Tags scores
// @Produce json
// @Param user_id path string true "User ID (or 'me')"
// @Success 200 {array} models.SkillScore
// @Failure 401 {object} ErrorResponse
// @Router /scores/skills/{user_id} [get]
func (h *ScoreHandler) GetSkillScores(c *gin.Context) {
	userID := h.resolveUserParam(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Getting skill scores", "user_id", userID)

	scores, err := h.scoringService.GetSkillScoresForUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, scores)
}

// GetSkillScore retrieves one (user, skill) score snapshot
// @Summary Get skill score
// @Tags scores
// @Produce json
// @Param user_id path string true "User ID (or 'me')"
// @Param skill_id path int true "Skill ID"
// @Success 200 {object} models.SkillScore
// @Failure 404 {object} ErrorResponse
// @Router /scores/skills/{user_id}/{skill_id} [get]
func (h *ScoreHandler) GetSkillScore(c *gin.Context) {
	userID := h.resolveUserParam(c)
	if userID == "" {
		return
	}

	skillID, err := strconv.ParseUint(c.Param("skill_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid skill_id parameter",
		})
		return
	}

	h.LogRequest(c, "Getting skill score", "user_id", userID, "skill_id", skillID)

	score, err := h.scoringService.GetSkillScore(c.Request.Context(), userID, uint(skillID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}

// GetCredibility serves the aggregate credibility view
// @Summary Get credibility
// @Description Returns the credibility score with its component stats and profile aggregates. Always a complete shape; missing data renders as zeros.
// @Tags scores
// @Produce json
// @Param user_id path string true "User ID (or 'me')"
// @Success 200 {object} services.CredibilityView
// @Failure 401 {object} ErrorResponse
// @Router /scores/credibility/{user_id} [get]
func (h *ScoreHandler) GetCredibility(c *gin.Context) {
	userID := h.resolveUserParam(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Getting credibility view", "user_id", userID)

	view := h.credibilityService.GetCredibility(c.Request.Context(), userID)

	c.JSON(http.StatusOK, view)
}

// RecomputeScores triggers a manual recompute for a user
// @Summary Recompute scores
// @Description Recomputes a user's skill score for one skill plus their credibility (admin only)
// @Tags scores
// @Produce json
// @Param user_id path string true "User ID"
// @Param skill_id query int true "Skill ID"
// @Param skill_name query string false "Skill name for the snapshot"
// @Success 200 {object} services.ScoringOutcome
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /scores/recompute/{user_id} [post]
func (h *ScoreHandler) RecomputeScores(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	skillID, err := strconv.ParseUint(c.Query("skill_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Query parameter 'skill_id' is required",
		})
		return
	}

	h.LogRequest(c, "Manual score recompute", "user_id", userID, "skill_id", skillID)

	outcome := h.dispatcher.OnScoringEvent(c.Request.Context(), services.ScoringEvent{
		Type:      services.ScoringEventSessionCompleted,
		SkillID:   uint(skillID),
		SkillName: c.Query("skill_name"),
		UserIDs:   []string{userID},
	})

	status := http.StatusOK
	if !outcome.OK() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, outcome)
}

// ===== HELPER METHODS =====

// resolveUserParam reads the user_id path parameter, translating "me" to the
// authenticated caller. Writes the error response itself on failure.
func (h *ScoreHandler) resolveUserParam(c *gin.Context) string {
	userID := c.Param("user_id")
	if userID == "me" {
		id, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return ""
		}
		return id.(string)
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
	}
	return userID
}
