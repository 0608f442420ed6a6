package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/events"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// stubScoringService fails skill recomputes for the user IDs in failFor.
type stubScoringService struct {
	failFor map[string]error
	calls   []string
}

func (s *stubScoringService) RecomputeSkillScore(ctx context.Context, userID string, skillID uint, skillName string) (*models.SkillScore, error) {
	s.calls = append(s.calls, userID)
	if err, ok := s.failFor[userID]; ok {
		return nil, err
	}
	return &models.SkillScore{UserID: userID, SkillID: skillID, SkillName: skillName, FinalScore: 84}, nil
}

func (s *stubScoringService) GetSkillScore(ctx context.Context, userID string, skillID uint) (*models.SkillScore, error) {
	return nil, ErrScoreNotFound
}

func (s *stubScoringService) GetSkillScoresForUser(ctx context.Context, userID string) ([]*models.SkillScore, error) {
	return nil, nil
}

func (s *stubScoringService) UpdateLegacySkillScore(ctx context.Context, userID string, skillID uint, sample float64) (*models.UserSkillScore, error) {
	return nil, nil
}

// stubCredibilityService fails recomputes for the user IDs in failFor.
type stubCredibilityService struct {
	failFor map[string]error
	calls   []string
}

func (s *stubCredibilityService) RecomputeCredibilityScore(ctx context.Context, userID string) (*CredibilityResult, error) {
	s.calls = append(s.calls, userID)
	if err, ok := s.failFor[userID]; ok {
		return nil, err
	}
	return &CredibilityResult{
		CredibilityScore: 72,
		Stats:            models.CredibilityStats{SessionCount: 9},
	}, nil
}

func (s *stubCredibilityService) GetCredibility(ctx context.Context, userID string) *CredibilityView {
	return newZeroCredibilityView(userID)
}

func TestOnScoringEventHappyPath(t *testing.T) {
	scoring := &stubScoringService{}
	credibility := &stubCredibilityService{}
	publisher := events.NewMockEventPublisher(testLogger())

	d := NewScoringDispatcher(scoring, credibility, publisher, testLogger())

	outcome := d.OnScoringEvent(context.Background(), ScoringEvent{
		Type:      ScoringEventFeedbackSubmitted,
		SkillID:   3,
		SkillName: "Guitar",
		UserIDs:   []string{"alice", "bob"},
	})

	if !outcome.OK() {
		t.Fatalf("outcome has failures: %+v", outcome.Failures)
	}
	if len(outcome.SkillScores) != 2 {
		t.Errorf("len(SkillScores) = %d, want 2", len(outcome.SkillScores))
	}
	if outcome.Credibility["alice"] != 72 || outcome.Credibility["bob"] != 72 {
		t.Errorf("Credibility = %v, want both users at 72", outcome.Credibility)
	}

	// One skill-score event and one credibility event per user.
	published := publisher.GetPublishedEvents()
	if len(published) != 4 {
		t.Fatalf("published %d events, want 4", len(published))
	}
	var skillEvents, credEvents int
	for _, evt := range published {
		switch evt.Type {
		case events.EventSkillScoreUpdated:
			skillEvents++
			payload, ok := evt.Data.(events.ScoreUpdatedPayload)
			if !ok {
				t.Fatalf("event data has type %T", evt.Data)
			}
			if payload.SkillID != 3 || payload.FinalScore != 84 {
				t.Errorf("skill payload = %+v", payload)
			}
		case events.EventCredibilityUpdated:
			credEvents++
			payload, ok := evt.Data.(events.CredibilityUpdatedPayload)
			if !ok {
				t.Fatalf("event data has type %T", evt.Data)
			}
			if payload.CredibilityScore != 72 || payload.SessionCount != 9 {
				t.Errorf("credibility payload = %+v", payload)
			}
		default:
			t.Errorf("unexpected event type %q", evt.Type)
		}
	}
	if skillEvents != 2 || credEvents != 2 {
		t.Errorf("event counts = (%d skill, %d credibility), want (2, 2)", skillEvents, credEvents)
	}
}

func TestOnScoringEventSkillFailureStillRunsCredibility(t *testing.T) {
	scoring := &stubScoringService{
		failFor: map[string]error{"alice": errors.New("upsert failed")},
	}
	credibility := &stubCredibilityService{}
	publisher := events.NewMockEventPublisher(testLogger())

	d := NewScoringDispatcher(scoring, credibility, publisher, testLogger())

	outcome := d.OnScoringEvent(context.Background(), ScoringEvent{
		Type:    ScoringEventAssignmentGraded,
		SkillID: 3,
		UserIDs: []string{"alice"},
	})

	if outcome.OK() {
		t.Fatal("expected a recorded failure")
	}
	if len(outcome.Failures) != 1 || outcome.Failures[0].Stage != "skill_score" {
		t.Fatalf("Failures = %+v, want one skill_score failure", outcome.Failures)
	}
	if len(credibility.calls) != 1 {
		t.Errorf("credibility recompute ran %d times, want 1", len(credibility.calls))
	}
	if outcome.Credibility["alice"] != 72 {
		t.Errorf("Credibility[alice] = %d, want 72 despite skill failure", outcome.Credibility["alice"])
	}
}

func TestOnScoringEventCredibilityFailure(t *testing.T) {
	scoring := &stubScoringService{}
	credibility := &stubCredibilityService{
		failFor: map[string]error{"bob": errors.New("write failed")},
	}
	publisher := events.NewMockEventPublisher(testLogger())

	d := NewScoringDispatcher(scoring, credibility, publisher, testLogger())

	outcome := d.OnScoringEvent(context.Background(), ScoringEvent{
		Type:    ScoringEventSessionCompleted,
		SkillID: 3,
		UserIDs: []string{"alice", "bob"},
	})

	if len(outcome.Failures) != 1 || outcome.Failures[0].Stage != "credibility" {
		t.Fatalf("Failures = %+v, want one credibility failure", outcome.Failures)
	}
	if outcome.Failures[0].UserID != "bob" {
		t.Errorf("failed user = %q, want bob", outcome.Failures[0].UserID)
	}
	if _, ok := outcome.Credibility["bob"]; ok {
		t.Error("bob must not appear in the credibility map after a failed recompute")
	}
	// Skill events for both users, credibility only for alice.
	var credEvents int
	for _, evt := range publisher.GetPublishedEvents() {
		if evt.Type == events.EventCredibilityUpdated {
			credEvents++
		}
	}
	if credEvents != 1 {
		t.Errorf("published %d credibility events, want 1", credEvents)
	}
}

func TestOnScoringEventPublishFailureIsBestEffort(t *testing.T) {
	scoring := &stubScoringService{}
	credibility := &stubCredibilityService{}
	publisher := events.NewMockEventPublisher(testLogger())
	publisher.FailNext = errors.New("broker unavailable")

	d := NewScoringDispatcher(scoring, credibility, publisher, testLogger())

	outcome := d.OnScoringEvent(context.Background(), ScoringEvent{
		Type:    ScoringEventFeedbackSubmitted,
		SkillID: 3,
		UserIDs: []string{"alice"},
	})

	if !outcome.OK() {
		t.Fatalf("a publish failure must not fail the outcome: %+v", outcome.Failures)
	}
}

func TestOnScoringEventNilPublisher(t *testing.T) {
	d := NewScoringDispatcher(&stubScoringService{}, &stubCredibilityService{}, nil, testLogger())

	outcome := d.OnScoringEvent(context.Background(), ScoringEvent{
		Type:    ScoringEventFeedbackSubmitted,
		SkillID: 3,
		UserIDs: []string{"alice"},
	})

	if !outcome.OK() {
		t.Fatalf("dispatch without a publisher must still succeed: %+v", outcome.Failures)
	}
}
