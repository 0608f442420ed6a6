package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/services"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/utils"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

type FeedbackHandler struct {
	BaseHandler
	feedbackService services.FeedbackService
	validator       *validator.Validator
}

func NewFeedbackHandler(
	feedbackService services.FeedbackService,
	validator *validator.Validator,
	logger utils.Logger,
) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     NewBaseHandler(logger),
		feedbackService: feedbackService,
		validator:       validator,
	}
}

// SubmitFeedback rates the counterpart of a completed session
// @Summary Submit feedback
// @Description One participant rates the other (1-5) for a completed session; the recipient's scores recompute
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body services.SubmitFeedbackRequest true "Feedback data"
// @Success 201 {object} services.SubmitFeedbackResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req services.SubmitFeedbackRequest
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

	h.LogRequest(c, "Submitting feedback", "session_id", req.SessionID, "rating", req.Rating)

	response, err := h.feedbackService.Submit(c.Request.Context(), &req, userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListSessionFeedback lists feedback for a session
// @Summary List session feedback
// @Description Lists feedback entries for a session; participants only
// @Tags feedback
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {array} models.Feedback
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /feedback/session/{session_id} [get]
func (h *FeedbackHandler) ListSessionFeedback(c *gin.Context) {
	sessionID, err := strconv.ParseUint(c.Param("session_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid session_id parameter",
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

	h.LogRequest(c, "Listing session feedback", "session_id", sessionID)

	feedbacks, err := h.feedbackService.ListBySession(c.Request.Context(), uint(sessionID), userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedbacks)
}

// ListMyFeedback lists feedback the caller received
// @Summary List received feedback
// @Description Lists feedback entries where the caller is the recipient
// @Tags feedback
// @Produce json
// @Success 200 {array} models.Feedback
// @Failure 401 {object} ErrorResponse
// @Router /feedback/me [get]
func (h *FeedbackHandler) ListMyFeedback(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Listing received feedback")

	feedbacks, err := h.feedbackService.ListForUser(c.Request.Context(), userID.(string))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedbacks)
}
