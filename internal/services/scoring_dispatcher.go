package services

import (
	"context"
	"log/slog"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/events"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
)

// scoringTopic is the Kafka topic scoring events are published to.
const scoringTopic = "peergrade.scoring"

// scoringDispatcher centralizes the skill-then-credibility fan-out that every
// trigger workflow (feedback, grading, session completion) calls exactly once
// after its primary write. Keeping a single dispatch point stops the call
// sites from drifting apart.
type scoringDispatcher struct {
	scoring     ScoringService
	credibility CredibilityService
	publisher   events.EventPublisher
	logger      *slog.Logger
}

func NewScoringDispatcher(scoring ScoringService, credibility CredibilityService, publisher events.EventPublisher, logger *slog.Logger) ScoringDispatcher {
	return &scoringDispatcher{
		scoring:     scoring,
		credibility: credibility,
		publisher:   publisher,
		logger:      logger,
	}
}

// OnScoringEvent recomputes the skill score and then the credibility score
// for every user named by the event.
//
// The recomputes are best-effort relative to the primary action: failures are
// recorded in the outcome and logged, never returned as an error. Scores
// self-heal on the next trigger because every recompute is a full rebuild
// from current data.
func (d *scoringDispatcher) OnScoringEvent(ctx context.Context, event ScoringEvent) *ScoringOutcome {
	outcome := &ScoringOutcome{
		Event:       event.Type,
		SkillScores: make([]*models.SkillScore, 0, len(event.UserIDs)),
		Credibility: make(map[string]int, len(event.UserIDs)),
	}

	d.logger.Info("Dispatching scoring event",
		"event_type", event.Type,
		"skill_id", event.SkillID,
		"users", len(event.UserIDs))

	for _, userID := range event.UserIDs {
		score, err := d.scoring.RecomputeSkillScore(ctx, userID, event.SkillID, event.SkillName)
		if err != nil {
			d.logger.Error("Skill score recompute failed",
				"event_type", event.Type,
				"user_id", userID,
				"skill_id", event.SkillID,
				"error", err)
			outcome.Failures = append(outcome.Failures, RecomputeFailure{
				UserID: userID,
				Stage:  "skill_score",
				Err:    err,
			})
		} else {
			outcome.SkillScores = append(outcome.SkillScores, score)
			d.publishSkillScore(ctx, score, event)
		}

		// Credibility still runs when the skill recompute failed; it reads
		// whatever snapshots exist.
		result, err := d.credibility.RecomputeCredibilityScore(ctx, userID)
		if err != nil {
			d.logger.Error("Credibility recompute failed",
				"event_type", event.Type,
				"user_id", userID,
				"error", err)
			outcome.Failures = append(outcome.Failures, RecomputeFailure{
				UserID: userID,
				Stage:  "credibility",
				Err:    err,
			})
			continue
		}
		outcome.Credibility[userID] = result.CredibilityScore

		d.publishUpdate(ctx, userID, result, event)
	}

	return outcome
}

// publishSkillScore emits a skill-score-updated event. Best-effort: a broker
// failure is logged, not surfaced.
func (d *scoringDispatcher) publishSkillScore(ctx context.Context, score *models.SkillScore, trigger ScoringEvent) {
	if d.publisher == nil {
		return
	}

	evt := events.NewEvent(events.EventSkillScoreUpdated, events.ScoreUpdatedPayload{
		UserID:     score.UserID,
		SkillID:    score.SkillID,
		SkillName:  score.SkillName,
		FinalScore: score.FinalScore,
	})

	if err := d.publisher.Publish(ctx, scoringTopic, evt); err != nil {
		d.logger.Error("Failed to publish skill score update event",
			"user_id", score.UserID,
			"skill_id", score.SkillID,
			"trigger", trigger.Type,
			"error", err)
	}
}

// publishUpdate emits a credibility-updated event. Publishing shares the
// best-effort contract: a broker failure is logged, not surfaced.
func (d *scoringDispatcher) publishUpdate(ctx context.Context, userID string, result *CredibilityResult, trigger ScoringEvent) {
	if d.publisher == nil {
		return
	}

	evt := events.NewEvent(events.EventCredibilityUpdated, events.CredibilityUpdatedPayload{
		UserID:           userID,
		CredibilityScore: result.CredibilityScore,
		SessionCount:     result.Stats.SessionCount,
	})

	if err := d.publisher.Publish(ctx, scoringTopic, evt); err != nil {
		d.logger.Error("Failed to publish credibility update event",
			"user_id", userID,
			"trigger", trigger.Type,
			"error", err)
	}
}
