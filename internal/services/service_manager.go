package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/events"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/questiongen"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Logging configuration
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Service-specific configurations
	Scoring    ServiceConfig
	Session    ServiceConfig
	Assignment ServiceConfig
	Feedback   ServiceConfig
	Skill      ServiceConfig

	// Global settings
	DefaultTimeout time.Duration
	MaxRetries     int
}

type ServiceConfig struct {
	Enabled      bool
	CacheEnabled bool
	CacheTTL     time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	generator questiongen.Generator
	publisher events.EventPublisher
	config    ServiceManagerConfig

	// Service instances
	scoringService     ScoringService
	credibilityService CredibilityService
	scoringDispatcher  ScoringDispatcher
	sessionService     SessionService
	assignmentService  AssignmentService
	feedbackService    FeedbackService
	skillService       SkillService
	userService        UserService
	exportService      ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, generator questiongen.Generator, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		generator: generator,
		publisher: publisher,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, generator questiongen.Generator, publisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,

		Scoring: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     10 * time.Minute,
		},
		Session: ServiceConfig{
			Enabled:      true,
			CacheEnabled: false,
			CacheTTL:     0,
		},
		Assignment: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     24 * time.Hour, // generated questions
		},
		Feedback: ServiceConfig{
			Enabled:      true,
			CacheEnabled: false,
			CacheTTL:     0,
		},
		Skill: ServiceConfig{
			Enabled:      true,
			CacheEnabled: false,
			CacheTTL:     0,
		},

		DefaultTimeout: 30 * time.Second,
		MaxRetries:     3,
	}

	return NewServiceManager(db, repo, logger, validator, generator, publisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.initializeServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices(ctx context.Context) error {
	// Scoring pipeline first: the dispatcher feeds the trigger workflows.
	sm.scoringService = NewScoringService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("Scoring service initialized")

	sm.credibilityService = NewCredibilityService(sm.repo, sm.db, sm.logger)
	sm.logger.Info("Credibility service initialized")

	sm.scoringDispatcher = NewScoringDispatcher(sm.scoringService, sm.credibilityService, sm.publisher, sm.logger)
	sm.logger.Info("Scoring dispatcher initialized")

	if sm.config.Session.Enabled {
		sm.sessionService = NewSessionService(sm.repo, sm.db, sm.logger, sm.validator, sm.scoringDispatcher)
		sm.logger.Info("Session service initialized")
	}

	if sm.config.Assignment.Enabled {
		sm.assignmentService = NewAssignmentService(sm.repo, sm.db, sm.logger, sm.validator, sm.generator, sm.scoringDispatcher)
		sm.logger.Info("Assignment service initialized")
	}

	if sm.config.Feedback.Enabled {
		sm.feedbackService = NewFeedbackService(sm.repo, sm.db, sm.logger, sm.validator, sm.scoringDispatcher)
		sm.logger.Info("Feedback service initialized")
	}

	if sm.config.Skill.Enabled {
		sm.skillService = NewSkillService(sm.repo, sm.db, sm.logger, sm.validator)
		sm.logger.Info("Skill service initialized")
	}

	sm.userService = NewUserService(sm.repo, sm.db, sm.logger)
	sm.logger.Info("User service initialized")

	sm.exportService = NewExportService(sm.repo, sm.credibilityService, sm.logger)
	sm.logger.Info("Export service initialized")

	return nil
}

// Service getters
func (sm *serviceManager) Scoring() ScoringService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.scoringService != nil {
		return sm.scoringService
	}

	panic("scoring service not initialized")
}

func (sm *serviceManager) Credibility() CredibilityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.credibilityService != nil {
		return sm.credibilityService
	}

	panic("credibility service not initialized")
}

func (sm *serviceManager) Dispatcher() ScoringDispatcher {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.scoringDispatcher != nil {
		return sm.scoringDispatcher
	}

	panic("scoring dispatcher not initialized")
}

func (sm *serviceManager) Session() SessionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Session.Enabled && sm.sessionService != nil {
		return sm.sessionService
	}

	panic("session service not enabled or not initialized")
}

func (sm *serviceManager) Assignment() AssignmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Assignment.Enabled && sm.assignmentService != nil {
		return sm.assignmentService
	}

	panic("assignment service not enabled or not initialized")
}

func (sm *serviceManager) Feedback() FeedbackService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Feedback.Enabled && sm.feedbackService != nil {
		return sm.feedbackService
	}

	panic("feedback service not enabled or not initialized")
}

func (sm *serviceManager) Skill() SkillService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Skill.Enabled && sm.skillService != nil {
		return sm.skillService
	}

	panic("skill service not enabled or not initialized")
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.userService != nil {
		return sm.userService
	}

	panic("user service not initialized")
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.exportService != nil {
		return sm.exportService
	}

	panic("export service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository connections", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// ===== UTILITY METHODS =====

// GetConfig returns the service manager configuration
func (sm *serviceManager) GetConfig() ServiceManagerConfig {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.config
}

// IsInitialized returns whether the service manager has been initialized
func (sm *serviceManager) IsInitialized() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.initialized
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}

// ===== CONFIGURATION VALIDATION =====

// Validate checks the service manager configuration for obvious mistakes.
func (config *ServiceManagerConfig) Validate() error {
	var errors []string

	if config.DefaultTimeout <= 0 {
		errors = append(errors, "default timeout must be positive")
	}

	if config.MaxRetries < 0 {
		errors = append(errors, "max retries cannot be negative")
	}

	for name, sc := range map[string]ServiceConfig{
		"scoring":    config.Scoring,
		"session":    config.Session,
		"assignment": config.Assignment,
		"feedback":   config.Feedback,
		"skill":      config.Skill,
	} {
		if sc.CacheTTL < 0 {
			errors = append(errors, fmt.Sprintf("%s: cache TTL cannot be negative", name))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}
