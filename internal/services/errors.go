package services

import (
	"errors"
	"fmt"
	"strings"
)

// ===== GENERIC ERRORS =====

var (
	ErrNotFound                = errors.New("resource not found")
	ErrValidationFailed        = errors.New("validation failed")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrBadRequest              = errors.New("bad request")
	ErrConflict                = errors.New("resource conflict")
	ErrUnexpected              = errors.New("unexpected internal error")
)

// ===== DOMAIN ERRORS =====

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSkillNotFound   = errors.New("skill not found")
	ErrScoreNotFound   = errors.New("skill score not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrRequestNotFound = errors.New("session request not found")

	ErrSelfSession          = errors.New("teacher and learner must be different users")
	ErrRequestNotPending    = errors.New("session request is not pending")
	ErrSessionNotScheduled  = errors.New("session is not in scheduled state")
	ErrSessionNotCompleted  = errors.New("session is not completed")
	ErrNotSessionParty      = errors.New("user is not a participant of this session")
	ErrFeedbackAlreadyGiven = errors.New("feedback already submitted for this session")

	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrAssignmentAlreadyGraded = errors.New("assignment already graded")
	ErrAssignmentNotSubmitted  = errors.New("assignment has no submission to grade")

	ErrSkillAlreadyListed = errors.New("skill already listed for this user and mode")
)

// ===== STRUCTURED ERRORS =====

// ValidationError describes a single invalid field. It unwraps to
// ErrValidationFailed so handlers can map it with errors.Is.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ValidationErrors aggregates several field errors into one.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

// PermissionError carries the who/what/why of a denied action. Unwraps to
// ErrForbidden.
type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}
