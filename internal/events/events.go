package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for everything published to the event bus.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Event types emitted by the scoring pipeline.
const (
	EventSessionCompleted   = "session.completed"
	EventAssignmentGraded   = "assignment.graded"
	EventFeedbackSubmitted  = "feedback.submitted"
	EventSkillScoreUpdated  = "score.skill_updated"
	EventCredibilityUpdated = "score.credibility_updated"
)

// SourceName identifies this service in event envelopes.
const SourceName = "peergrade-service"

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// NewEvent builds an envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    SourceName,
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ScoreUpdatedPayload is the Data body for skill score update events.
type ScoreUpdatedPayload struct {
	UserID     string `json:"user_id"`
	SkillID    uint   `json:"skill_id"`
	SkillName  string `json:"skill_name"`
	FinalScore int    `json:"final_score"`
}

// CredibilityUpdatedPayload is the Data body for credibility update events.
type CredibilityUpdatedPayload struct {
	UserID           string `json:"user_id"`
	CredibilityScore int    `json:"credibility_score"`
	SessionCount     int    `json:"session_count"`
}
