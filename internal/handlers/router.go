package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/config"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/services"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/utils"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

type HandlerManager struct {
	sessionHandler    *SessionHandler
	assignmentHandler *AssignmentHandler
	feedbackHandler   *FeedbackHandler
	skillHandler      *SkillHandler
	scoreHandler      *ScoreHandler
	userHandler       *UserHandler
	exportHandler     *ExportHandler
	authMiddleware    *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		sessionHandler:    NewSessionHandler(serviceManager.Session(), validator, logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), validator, logger),
		feedbackHandler:   NewFeedbackHandler(serviceManager.Feedback(), validator, logger),
		skillHandler:      NewSkillHandler(serviceManager.Skill(), validator, logger),
		scoreHandler:      NewScoreHandler(serviceManager.Scoring(), serviceManager.Credibility(), serviceManager.Dispatcher(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		exportHandler:     NewExportHandler(serviceManager.Export(), logger),
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Skill catalog routes
		skills := v1.Group("/skills")
		{
			skills.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.skillHandler.CreateSkill)
			skills.GET("", hm.skillHandler.ListSkills)
			skills.GET("/search", hm.skillHandler.SearchSkills)
			skills.GET("/:id", hm.skillHandler.GetSkill)

			// Profile listings
			skills.POST("/me", hm.skillHandler.AddUserSkill)
			skills.DELETE("/me/:skill_id", hm.skillHandler.RemoveUserSkill)
			skills.GET("/user/:user_id", hm.skillHandler.ListUserSkills)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("/requests", hm.sessionHandler.CreateRequest)
			sessions.GET("/requests", hm.sessionHandler.ListRequests)
			sessions.POST("/requests/:id/respond", hm.sessionHandler.RespondToRequest)

			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/complete", hm.sessionHandler.CompleteSession)
			sessions.POST("/:id/cancel", hm.sessionHandler.CancelSession)
		}

		// Assignment routes
		assignments := v1.Group("/assignments")
		{
			assignments.POST("", hm.assignmentHandler.CreateAssignment)
			assignments.GET("", hm.assignmentHandler.ListAssignments)
			assignments.GET("/:id", hm.assignmentHandler.GetAssignment)
			assignments.POST("/:id/submit", hm.assignmentHandler.SubmitAssignment)
			assignments.POST("/:id/grade", hm.assignmentHandler.GradeAssignment)
		}

		// Feedback routes
		feedback := v1.Group("/feedback")
		{
			feedback.POST("", hm.feedbackHandler.SubmitFeedback)
			feedback.GET("/me", hm.feedbackHandler.ListMyFeedback)
			feedback.GET("/session/:session_id", hm.feedbackHandler.ListSessionFeedback)
		}

		// Score routes
		scores := v1.Group("/scores")
		{
			scores.GET("/skills/:user_id", hm.scoreHandler.GetSkillScores)
			scores.GET("/skills/:user_id/:skill_id", hm.scoreHandler.GetSkillScore)
			scores.GET("/credibility/:user_id", hm.scoreHandler.GetCredibility)

			// Manual recompute - Admins only
			scores.POST("/recompute/:user_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.scoreHandler.RecomputeScores)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetMe)
			users.PUT("/me", hm.userHandler.UpdateMe)
			users.GET("/search", hm.userHandler.SearchUsers)
			users.GET("/:id", hm.userHandler.GetUser)
		}

		// Export routes
		exports := v1.Group("/exports")
		{
			exports.GET("/credibility/:user_id", hm.exportHandler.ExportCredibilityReport)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "peergrade-service",
		})
	})
}
