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

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// CreateRequest opens a session request toward a teacher
// @Summary Create session request
// @Description Creates a pending session request from the caller (learner) to a teacher
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body services.CreateSessionRequestRequest true "Request data"
// @Success 201 {object} models.SessionRequest
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/requests [post]
func (h *SessionHandler) CreateRequest(c *gin.Context) {
	var req services.CreateSessionRequestRequest
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

	h.LogRequest(c, "Creating session request", "teacher_id", req.TeacherID, "skill_id", req.SkillID)

	request, err := h.sessionService.CreateRequest(c.Request.Context(), &req, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// RespondToRequest accepts or declines a pending session request
// @Summary Respond to session request
// @Description The requested teacher accepts (scheduling a session) or declines the request
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param response body services.RespondSessionRequestRequest true "Response data"
// @Success 200 {object} models.SessionRequest
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/requests/{id}/respond [post]
func (h *SessionHandler) RespondToRequest(c *gin.Context) {
	requestID, err := h.parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req services.RespondSessionRequestRequest
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

	h.LogRequest(c, "Responding to session request", "request_id", requestID, "accept", req.Accept)

	request, err := h.sessionService.RespondToRequest(c.Request.Context(), requestID, &req, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListRequests lists session requests for the caller
// @Summary List session requests
// @Description Lists requests where the caller is the teacher (incoming) or learner (outgoing)
// @Tags sessions
// @Produce json
// @Param direction query string false "incoming (default) or outgoing"
// @Param status query string false "Filter by status (pending, accepted, declined)"
// @Success 200 {object} services.RequestListResponse
// @Failure 401 {object} ErrorResponse
// @Router /sessions/requests [get]
func (h *SessionHandler) ListRequests(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	filters := h.parseRequestFilters(c)

	h.LogRequest(c, "Listing session requests", "direction", c.DefaultQuery("direction", "incoming"))

	var response *services.RequestListResponse
	var err error
	if c.DefaultQuery("direction", "incoming") == "outgoing" {
		response, err = h.sessionService.ListRequestsForLearner(c.Request.Context(), userID.(string), filters)
	} else {
		response, err = h.sessionService.ListRequestsForTeacher(c.Request.Context(), userID.(string), filters)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetSession retrieves a session by ID
// @Summary Get session
// @Description Retrieves a session with the caller's role and allowed actions
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, err := h.parseIDParam(c, "id")
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

	h.LogRequest(c, "Getting session", "session_id", sessionID)

	session, err := h.sessionService.GetByID(c.Request.Context(), sessionID, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListSessions lists the caller's sessions
// @Summary List sessions
// @Description Lists sessions where the caller participates, with optional filters
// @Tags sessions
// @Produce json
// @Param status query string false "Filter by status (scheduled, completed, cancelled)"
// @Param skill_id query int false "Filter by skill"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.SessionListResponse
// @Failure 401 {object} ErrorResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	filters := h.parseSessionFilters(c)

	h.LogRequest(c, "Listing sessions")

	response, err := h.sessionService.List(c.Request.Context(), filters, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CompleteSession marks a session as completed
// @Summary Complete session
// @Description Marks a scheduled session as completed and recomputes both participants' scores
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.CompleteSessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	sessionID, err := h.parseIDParam(c, "id")
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

	h.LogRequest(c, "Completing session", "session_id", sessionID)

	response, err := h.sessionService.Complete(c.Request.Context(), sessionID, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CancelSession cancels a scheduled session
// @Summary Cancel session
// @Description Cancels a scheduled session; cancelled sessions never count toward scores
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 204 "No content"
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/cancel [post]
func (h *SessionHandler) CancelSession(c *gin.Context) {
	sessionID, err := h.parseIDParam(c, "id")
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

	h.LogRequest(c, "Cancelling session", "session_id", sessionID)

	if err := h.sessionService.Cancel(c.Request.Context(), sessionID, userID.(string)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== HELPER METHODS =====

func (h *SessionHandler) parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0, err
	}
	return uint(id), nil
}

func (h *SessionHandler) parseRequestFilters(c *gin.Context) repositories.RequestFilters {
	filters := repositories.RequestFilters{
		Limit:  parsePageSize(c, 20),
		Offset: parseOffset(c, 20),
	}

	if status := c.Query("status"); status != "" {
		s := models.RequestStatus(status)
		filters.Status = &s
	}
	if skillIDStr := c.Query("skill_id"); skillIDStr != "" {
		if skillID, err := strconv.ParseUint(skillIDStr, 10, 32); err == nil {
			id := uint(skillID)
			filters.SkillID = &id
		}
	}

	return filters
}

func (h *SessionHandler) parseSessionFilters(c *gin.Context) repositories.SessionFilters {
	filters := repositories.SessionFilters{
		Limit:     parsePageSize(c, 20),
		Offset:    parseOffset(c, 20),
		SortBy:    c.DefaultQuery("sort_by", "scheduled_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if status := c.Query("status"); status != "" {
		s := models.SessionStatus(status)
		filters.Status = &s
	}
	if skillIDStr := c.Query("skill_id"); skillIDStr != "" {
		if skillID, err := strconv.ParseUint(skillIDStr, 10, 32); err == nil {
			id := uint(skillID)
			filters.SkillID = &id
		}
	}

	return filters
}

// parsePageSize reads the "size" query parameter, capped at 100.
func parsePageSize(c *gin.Context, def int) int {
	size := def
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}
	return size
}

// parseOffset converts the "page" query parameter to an offset.
func parseOffset(c *gin.Context, def int) int {
	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	return (page - 1) * parsePageSize(c, def)
}
