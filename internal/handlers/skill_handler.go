package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/services"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/utils"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

type SkillHandler struct {
	BaseHandler
	skillService services.SkillService
	validator    *validator.Validator
}

func NewSkillHandler(
	skillService services.SkillService,
	validator *validator.Validator,
	logger utils.Logger,
) *SkillHandler {
	return &SkillHandler{
		BaseHandler:  NewBaseHandler(logger),
		skillService: skillService,
		validator:    validator,
	}
}

// CreateSkill adds a skill to the catalog
// @Summary Create skill
// @Description Adds a skill to the shared catalog (admin only)
// @Tags skills
// @Accept json
// @Produce json
// @Param skill body services.CreateSkillRequest true "Skill data"
// @Success 201 {object} models.Skill
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /skills [post]
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var req services.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Creating skill", "name", req.Name)

	skill, err := h.skillService.Create(c.Request.Context(), &req, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, skill)
}

// GetSkill retrieves a skill by ID
// @Summary Get skill
// @Tags skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {object} models.Skill
// @Failure 404 {object} ErrorResponse
// @Router /skills/{id} [get]
func (h *SkillHandler) GetSkill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id parameter",
		})
		return
	}

	h.LogRequest(c, "Getting skill", "skill_id", id)

	skill, err := h.skillService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, skill)
}

// ListSkills lists catalog skills
// @Summary List skills
// @Tags skills
// @Produce json
// @Param category query string false "Filter by category"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.SkillListResponse
// @Router /skills [get]
func (h *SkillHandler) ListSkills(c *gin.Context) {
	filters := h.parseSkillFilters(c)

	h.LogRequest(c, "Listing skills")

	response, err := h.skillService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SearchSkills searches catalog skills
// @Summary Search skills
// @Tags skills
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} services.SkillListResponse
// @Failure 400 {object} ErrorResponse
// @Router /skills/search [get]
func (h *SkillHandler) SearchSkills(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Search query parameter 'q' is required",
		})
		return
	}

	h.LogRequest(c, "Searching skills", "query", query)

	response, err := h.skillService.Search(c.Request.Context(), query, h.parseSkillFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AddUserSkill lists a skill on the caller's profile
// @Summary Add user skill
// @Description Lists a catalog skill on the caller's profile as taught or learned
// @Tags skills
// @Accept json
// @Produce json
// @Param listing body services.UserSkillRequest true "Listing data"
// @Success 201 {object} models.UserSkill
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /skills/me [post]
func (h *SkillHandler) AddUserSkill(c *gin.Context) {
	var req services.UserSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Adding user skill", "skill_id", req.SkillID, "mode", req.Mode)

	userSkill, err := h.skillService.AddUserSkill(c.Request.Context(), &req, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userSkill)
}

// RemoveUserSkill unlists a skill from the caller's profile
// @Summary Remove user skill
// @Tags skills
// @Produce json
// @Param skill_id path int true "Skill ID"
// @Param mode query string true "teach or learn"
// @Success 204 "No content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /skills/me/{skill_id} [delete]
func (h *SkillHandler) RemoveUserSkill(c *gin.Context) {
	skillID, err := strconv.ParseUint(c.Param("skill_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid skill_id parameter",
		})
		return
	}

	mode := models.SkillMode(c.Query("mode"))
	if mode != models.SkillModeTeach && mode != models.SkillModeLearn {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Query parameter 'mode' must be teach or learn",
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Removing user skill", "skill_id", skillID, "mode", mode)

	if err := h.skillService.RemoveUserSkill(c.Request.Context(), uint(skillID), mode, userID.(string)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUserSkills lists a user's skill listings
// @Summary List user skills
// @Tags skills
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} models.UserSkill
// @Router /skills/user/{user_id} [get]
func (h *SkillHandler) ListUserSkills(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "me" {
		if id, exists := c.Get("user_id"); exists {
			userID = id.(string)
		}
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	h.LogRequest(c, "Listing user skills", "user_id", userID)

	userSkills, err := h.skillService.ListUserSkills(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, userSkills)
}

// ===== HELPER METHODS =====

func (h *SkillHandler) parseSkillFilters(c *gin.Context) repositories.SkillFilters {
	filters := repositories.SkillFilters{
		Limit:     parsePageSize(c, 20),
		Offset:    parseOffset(c, 20),
		SortBy:    c.DefaultQuery("sort_by", "name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}

	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}

	return filters
}
