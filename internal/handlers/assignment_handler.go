package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/services"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/utils"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
	validator         *validator.Validator
}

func NewAssignmentHandler(
	assignmentService services.AssignmentService,
	validator *validator.Validator,
	logger utils.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
		validator:         validator,
	}
}

// CreateAssignment creates a post-session assignment
// @Summary Create assignment
// @Description The session teacher creates a practice assignment for the learner, with generated questions
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignment body services.CreateAssignmentRequest true "Assignment data"
// @Success 201 {object} services.AssignmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req services.CreateAssignmentRequest
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

	h.LogRequest(c, "Creating assignment", "session_id", req.SessionID, "topic", req.Topic)

	assignment, err := h.assignmentService.Create(c.Request.Context(), &req, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// GetAssignment retrieves an assignment by ID
// @Summary Get assignment
// @Description Retrieves an assignment; only session participants can read it
// @Tags assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} services.AssignmentResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, err := h.parseIDParam(c)
	if err != nil {
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Getting assignment", "assignment_id", id)

	assignment, err := h.assignmentService.GetByID(c.Request.Context(), id, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListAssignments lists the caller's assignments
// @Summary List assignments
// @Description Lists assignments assigned to the caller, with optional filters
// @Tags assignments
// @Produce json
// @Param graded query bool false "Filter by graded state"
// @Param submitted query bool false "Filter by submitted state"
// @Param skill_id query int false "Filter by skill"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.AssignmentListResponse
// @Failure 401 {object} ErrorResponse
// @Router /assignments [get]
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	filters := h.parseAssignmentFilters(c)

	h.LogRequest(c, "Listing assignments")

	response, err := h.assignmentService.ListByUser(c.Request.Context(), userID.(string), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SubmitAssignment records the learner's submission
// @Summary Submit assignment
// @Description The assignment owner submits answer text; resubmission before grading overwrites
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param submission body services.SubmitAssignmentRequest true "Submission data"
// @Success 200 {object} services.AssignmentResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /assignments/{id}/submit [post]
func (h *AssignmentHandler) SubmitAssignment(c *gin.Context) {
	id, err := h.parseIDParam(c)
	if err != nil {
		return
	}

	var req services.SubmitAssignmentRequest
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

	h.LogRequest(c, "Submitting assignment", "assignment_id", id)

	assignment, err := h.assignmentService.Submit(c.Request.Context(), id, &req, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// GradeAssignment grades a submitted assignment
// @Summary Grade assignment
// @Description The session teacher grades the submission (1-5) and the learner's skill score recomputes
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param grade body services.GradeAssignmentRequest true "Grade data"
// @Success 200 {object} services.GradeAssignmentResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /assignments/{id}/grade [post]
func (h *AssignmentHandler) GradeAssignment(c *gin.Context) {
	id, err := h.parseIDParam(c)
	if err != nil {
		return
	}

	var req services.GradeAssignmentRequest
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

	h.LogRequest(c, "Grading assignment", "assignment_id", id, "score", req.Score)

	response, err := h.assignmentService.Grade(c.Request.Context(), id, &req, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ===== HELPER METHODS =====

func (h *AssignmentHandler) parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id parameter",
		})
		return 0, err
	}
	return uint(id), nil
}

func (h *AssignmentHandler) parseAssignmentFilters(c *gin.Context) repositories.AssignmentFilters {
	filters := repositories.AssignmentFilters{
		Limit:  parsePageSize(c, 20),
		Offset: parseOffset(c, 20),
	}

	if gradedStr := c.Query("graded"); gradedStr != "" {
		if graded, err := strconv.ParseBool(gradedStr); err == nil {
			filters.Graded = &graded
		}
	}
	if submittedStr := c.Query("submitted"); submittedStr != "" {
		if submitted, err := strconv.ParseBool(submittedStr); err == nil {
			filters.Submitted = &submitted
		}
	}
	if skillIDStr := c.Query("skill_id"); skillIDStr != "" {
		if skillID, err := strconv.ParseUint(skillIDStr, 10, 32); err == nil {
			id := uint(skillID)
			filters.SkillID = &id
		}
	}

	return filters
}
