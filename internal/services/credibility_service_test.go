package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

func skillScores(finals ...int) []*models.SkillScore {
	out := make([]*models.SkillScore, 0, len(finals))
	for _, f := range finals {
		out = append(out, &models.SkillScore{FinalScore: f})
	}
	return out
}

func teachingFeedback(ratings ...int) []*models.Feedback {
	out := make([]*models.Feedback, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, &models.Feedback{Rating: r, Role: models.SessionRoleLearner})
	}
	return out
}

func TestRecomputeCredibilityScore(t *testing.T) {
	type args struct {
		topScores        []*models.SkillScore
		teachingRatings  []*models.Feedback
		sessionsTeacher  int64
		sessionsLearner  int64
	}
	tests := []struct {
		name      string
		args      args
		wantScore int
		wantBonus int
	}{
		{
			name: "skill scores only",
			args: args{
				topScores: skillScores(90, 80, 70),
			},
			wantScore: 80,
			wantBonus: 0,
		},
		{
			name: "teaching feedback only",
			args: args{
				teachingRatings: teachingFeedback(5, 4),
			},
			wantScore: 90, // (4.5/5)*100
			wantBonus: 0,
		},
		{
			name: "both components blend evenly",
			args: args{
				topScores:       skillScores(90, 80, 70),
				teachingRatings: teachingFeedback(5, 4),
			},
			wantScore: 85, // (80+90)/2
			wantBonus: 0,
		},
		{
			name:      "no data at all",
			args:      args{},
			wantScore: 0,
			wantBonus: 0,
		},
		{
			name: "bonus below first threshold",
			args: args{sessionsTeacher: 2, sessionsLearner: 2},
			wantScore: 0,
			wantBonus: 0,
		},
		{
			name: "bonus at five sessions",
			args: args{sessionsTeacher: 3, sessionsLearner: 2},
			wantScore: 2,
			wantBonus: 2,
		},
		{
			name: "bonus at fifteen sessions",
			args: args{sessionsTeacher: 15},
			wantScore: 5,
			wantBonus: 5,
		},
		{
			name: "bonus holds just below thirty",
			args: args{sessionsTeacher: 20, sessionsLearner: 9},
			wantScore: 5,
			wantBonus: 5,
		},
		{
			name: "bonus at thirty sessions",
			args: args{sessionsTeacher: 30},
			wantScore: 10,
			wantBonus: 10,
		},
		{
			name: "clamped at one hundred",
			args: args{
				topScores:       skillScores(100, 100, 100),
				teachingRatings: teachingFeedback(5, 5, 5),
				sessionsTeacher: 30,
			},
			wantScore: 100,
			wantBonus: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.skillScore.GetTopByUserFunc = func(ctx context.Context, userID string, limit int) ([]*models.SkillScore, error) {
				if limit != topSkillCount {
					t.Errorf("GetTopByUser limit = %d, want %d", limit, topSkillCount)
				}
				return tt.args.topScores, nil
			}
			repo.feedback.GetByRecipientAndGiverRoleFunc = func(ctx context.Context, toUserID string, role models.SessionRole) ([]*models.Feedback, error) {
				if role != models.SessionRoleLearner {
					t.Errorf("teaching feedback queried with giver role %q, want learner", role)
				}
				return tt.args.teachingRatings, nil
			}
			repo.session.CountCompletedByRoleFunc = func(ctx context.Context, userID string, role models.SessionRole) (int64, error) {
				if role == models.SessionRoleTeacher {
					return tt.args.sessionsTeacher, nil
				}
				return tt.args.sessionsLearner, nil
			}

			var storedScore int
			var storedStats models.CredibilityStats
			repo.user.UpdateCredibilityFunc = func(ctx context.Context, userID string, score int, stats models.CredibilityStats) error {
				storedScore = score
				storedStats = stats
				return nil
			}

			svc := NewCredibilityService(repo, nil, testLogger())

			got, err := svc.RecomputeCredibilityScore(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("RecomputeCredibilityScore() error = %v", err)
			}

			if got.CredibilityScore != tt.wantScore {
				t.Errorf("CredibilityScore = %d, want %d", got.CredibilityScore, tt.wantScore)
			}
			if got.Stats.ConsistencyBonus != tt.wantBonus {
				t.Errorf("ConsistencyBonus = %d, want %d", got.Stats.ConsistencyBonus, tt.wantBonus)
			}
			if storedScore != tt.wantScore {
				t.Errorf("persisted score = %d, want %d", storedScore, tt.wantScore)
			}
			wantSessions := int(tt.args.sessionsTeacher + tt.args.sessionsLearner)
			if storedStats.SessionCount != wantSessions {
				t.Errorf("persisted SessionCount = %d, want %d", storedStats.SessionCount, wantSessions)
			}
		})
	}
}

func TestRecomputeCredibilityScorePropagatesReadErrors(t *testing.T) {
	repo := newMockRepository()
	repo.skillScore.GetTopByUserFunc = func(ctx context.Context, userID string, limit int) ([]*models.SkillScore, error) {
		return nil, errors.New("db down")
	}

	svc := NewCredibilityService(repo, nil, testLogger())

	if _, err := svc.RecomputeCredibilityScore(context.Background(), "user-1"); err == nil {
		t.Fatal("expected an error when skill scores cannot be read")
	}
}

func TestGetCredibilityServesDefaultsOnFailure(t *testing.T) {
	repo := newMockRepository()
	repo.user.GetByIDFunc = func(ctx context.Context, id string) (*models.User, error) {
		return nil, errors.New("db down")
	}

	svc := NewCredibilityService(repo, nil, testLogger())

	view := svc.GetCredibility(context.Background(), "user-1")
	if view == nil {
		t.Fatal("GetCredibility() must never return nil")
	}
	if view.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", view.UserID)
	}
	if view.CredibilityScore != 0 {
		t.Errorf("CredibilityScore = %d, want 0", view.CredibilityScore)
	}
	if view.SkillScores == nil {
		t.Error("SkillScores must be an empty slice, not nil")
	}
	if view.UpcomingSessions == nil {
		t.Error("UpcomingSessions must be an empty slice, not nil")
	}
}

func TestGetCredibilityPopulatedView(t *testing.T) {
	statsJSON, err := json.Marshal(models.CredibilityStats{
		AvgSkillScore:     84,
		AvgTeachingRating: 90,
		SessionCount:      12,
		ConsistencyBonus:  2,
	})
	if err != nil {
		t.Fatal(err)
	}

	repo := newMockRepository()
	repo.user.GetByIDFunc = func(ctx context.Context, id string) (*models.User, error) {
		return &models.User{
			ID:               id,
			CredibilityScore: 89,
			CredibilityStats: datatypes.JSON(statsJSON),
		}, nil
	}
	repo.skillScore.GetByUserFunc = func(ctx context.Context, userID string) ([]*models.SkillScore, error) {
		return skillScores(84, 70), nil
	}
	repo.session.CountCompletedByRoleFunc = func(ctx context.Context, userID string, role models.SessionRole) (int64, error) {
		if role == models.SessionRoleTeacher {
			return 8, nil
		}
		return 4, nil
	}
	repo.session.CountDistinctLearnersFunc = func(ctx context.Context, teacherID string) (int64, error) {
		return 6, nil
	}
	repo.feedback.GetRatingHistogramFunc = func(ctx context.Context, toUserID string) (*repositories.RatingHistogram, error) {
		return &repositories.RatingHistogram{Counts: [5]int64{0, 1, 2, 5, 4}, Total: 12}, nil
	}

	svc := NewCredibilityService(repo, nil, testLogger())

	view := svc.GetCredibility(context.Background(), "user-1")

	if view.CredibilityScore != 89 {
		t.Errorf("CredibilityScore = %d, want 89", view.CredibilityScore)
	}
	if view.Stats.SessionCount != 12 {
		t.Errorf("Stats.SessionCount = %d, want 12", view.Stats.SessionCount)
	}
	if len(view.SkillScores) != 2 {
		t.Errorf("len(SkillScores) = %d, want 2", len(view.SkillScores))
	}
	if view.SessionsAsTeacher != 8 || view.SessionsAsLearner != 4 {
		t.Errorf("session counts = (%d, %d), want (8, 4)", view.SessionsAsTeacher, view.SessionsAsLearner)
	}
	if view.UniqueLearners != 6 {
		t.Errorf("UniqueLearners = %d, want 6", view.UniqueLearners)
	}
	if view.RatingHistogram.Total != 12 {
		t.Errorf("RatingHistogram.Total = %d, want 12", view.RatingHistogram.Total)
	}
}

func TestConsistencyBonusThresholds(t *testing.T) {
	tests := []struct {
		sessions int64
		want     int
	}{
		{0, 0}, {4, 0}, {5, 2}, {14, 2}, {15, 5}, {29, 5}, {30, 10}, {100, 10},
	}
	for _, tt := range tests {
		if got := consistencyBonus(tt.sessions); got != tt.want {
			t.Errorf("consistencyBonus(%d) = %d, want %d", tt.sessions, got, tt.want)
		}
	}
}
