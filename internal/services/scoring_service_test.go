package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int {
	return &v
}

func gradedAssignment(grade int) *models.Assignment {
	return &models.Assignment{
		Graded:     true,
		FinalScore: intPtr(grade),
	}
}

func TestRecomputeSkillScore(t *testing.T) {
	type args struct {
		grades       []int
		sessionIDs   []uint
		feedback     []*models.Feedback
	}
	tests := []struct {
		name              string
		args              args
		wantAssignmentAvg float64
		wantFeedbackAvg   float64
		wantSessionCount  int
		wantFinalScore    int
	}{
		{
			name: "all components present with capped consistency",
			args: args{
				grades:     []int{4, 4},
				sessionIDs: []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
				feedback: []*models.Feedback{
					{SessionID: 1, Rating: 5},
				},
			},
			wantAssignmentAvg: 80,
			wantFeedbackAvg:   100,
			wantSessionCount:  12,
			wantFinalScore:    88, // 80*0.6 + 100*0.3 + 100*0.1
		},
		{
			name: "guitar example",
			args: args{
				grades:     []int{4, 5},
				sessionIDs: []uint{10, 11, 12, 13, 14, 15},
				feedback: []*models.Feedback{
					{SessionID: 10, Rating: 4},
				},
			},
			wantAssignmentAvg: 90,
			wantFeedbackAvg:   80,
			wantSessionCount:  6,
			wantFinalScore:    84, // 90*0.6 + 80*0.3 + 60*0.1
		},
		{
			name:           "no data at all",
			args:           args{},
			wantFinalScore: 0,
		},
		{
			name: "feedback outside the skill's sessions is ignored",
			args: args{
				sessionIDs: []uint{7},
				feedback: []*models.Feedback{
					{SessionID: 7, Rating: 5},
					{SessionID: 99, Rating: 1}, // different skill's session
				},
			},
			wantFeedbackAvg:  100,
			wantSessionCount: 1,
			wantFinalScore:   31, // 0*0.6 + 100*0.3 + 10*0.1
		},
		{
			name: "sessions without feedback still count for consistency",
			args: args{
				grades:     []int{5},
				sessionIDs: []uint{1, 2, 3},
			},
			wantAssignmentAvg: 100,
			wantSessionCount:  3,
			wantFinalScore:    63, // 100*0.6 + 0*0.3 + 30*0.1
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()

			assignments := make([]*models.Assignment, 0, len(tt.args.grades))
			for _, g := range tt.args.grades {
				assignments = append(assignments, gradedAssignment(g))
			}
			repo.assignment.GetGradedByUserAndSkillFunc = func(ctx context.Context, userID string, skillID uint) ([]*models.Assignment, error) {
				return assignments, nil
			}

			sessions := make([]*models.Session, 0, len(tt.args.sessionIDs))
			for _, id := range tt.args.sessionIDs {
				sess := &models.Session{Status: models.SessionCompleted}
				sess.ID = id
				sessions = append(sessions, sess)
			}
			repo.session.GetCompletedBySkillAndUserFunc = func(ctx context.Context, skillID uint, userID string) ([]*models.Session, error) {
				return sessions, nil
			}

			repo.feedback.GetByRecipientFunc = func(ctx context.Context, toUserID string) ([]*models.Feedback, error) {
				return tt.args.feedback, nil
			}

			var upserted *models.SkillScore
			repo.skillScore.UpsertFunc = func(ctx context.Context, score *models.SkillScore) error {
				upserted = score
				return nil
			}

			svc := NewScoringService(repo, nil, testLogger(), validator.New())

			got, err := svc.RecomputeSkillScore(context.Background(), "user-1", 42, "Guitar")
			if err != nil {
				t.Fatalf("RecomputeSkillScore() error = %v", err)
			}

			if got.FinalScore != tt.wantFinalScore {
				t.Errorf("FinalScore = %d, want %d", got.FinalScore, tt.wantFinalScore)
			}
			if got.AssignmentAvg != tt.wantAssignmentAvg {
				t.Errorf("AssignmentAvg = %v, want %v", got.AssignmentAvg, tt.wantAssignmentAvg)
			}
			if got.FeedbackAvg != tt.wantFeedbackAvg {
				t.Errorf("FeedbackAvg = %v, want %v", got.FeedbackAvg, tt.wantFeedbackAvg)
			}
			if got.SessionCount != tt.wantSessionCount {
				t.Errorf("SessionCount = %d, want %d", got.SessionCount, tt.wantSessionCount)
			}
			if upserted == nil {
				t.Fatal("expected the snapshot to be upserted")
			}
			if upserted.UserID != "user-1" || upserted.SkillID != 42 || upserted.SkillName != "Guitar" {
				t.Errorf("upserted identity = (%s, %d, %s)", upserted.UserID, upserted.SkillID, upserted.SkillName)
			}
		})
	}
}

func TestRecomputeSkillScoreIdempotent(t *testing.T) {
	repo := newMockRepository()
	repo.assignment.GetGradedByUserAndSkillFunc = func(ctx context.Context, userID string, skillID uint) ([]*models.Assignment, error) {
		return []*models.Assignment{gradedAssignment(4), gradedAssignment(5)}, nil
	}
	sess := &models.Session{Status: models.SessionCompleted}
	sess.ID = 1
	repo.session.GetCompletedBySkillAndUserFunc = func(ctx context.Context, skillID uint, userID string) ([]*models.Session, error) {
		return []*models.Session{sess}, nil
	}

	svc := NewScoringService(repo, nil, testLogger(), validator.New())

	first, err := svc.RecomputeSkillScore(context.Background(), "user-1", 1, "Chess")
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	second, err := svc.RecomputeSkillScore(context.Background(), "user-1", 1, "Chess")
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}

	if first.FinalScore != second.FinalScore {
		t.Errorf("recompute is not idempotent: %d then %d", first.FinalScore, second.FinalScore)
	}
}

func TestRecomputeSkillScoreUngradedSkipped(t *testing.T) {
	repo := newMockRepository()
	repo.assignment.GetGradedByUserAndSkillFunc = func(ctx context.Context, userID string, skillID uint) ([]*models.Assignment, error) {
		return []*models.Assignment{
			gradedAssignment(5),
			{Graded: false, FinalScore: nil}, // defensive: repo should filter these already
		}, nil
	}

	svc := NewScoringService(repo, nil, testLogger(), validator.New())

	got, err := svc.RecomputeSkillScore(context.Background(), "user-1", 1, "Chess")
	if err != nil {
		t.Fatalf("RecomputeSkillScore() error = %v", err)
	}
	if got.AssignmentAvg != 100 {
		t.Errorf("AssignmentAvg = %v, want 100 (nil grades skipped)", got.AssignmentAvg)
	}
}

func TestGetSkillScoreNotFound(t *testing.T) {
	repo := newMockRepository()

	svc := NewScoringService(repo, nil, testLogger(), validator.New())

	_, err := svc.GetSkillScore(context.Background(), "user-1", 7)
	if !errors.Is(err, ErrScoreNotFound) {
		t.Errorf("GetSkillScore() error = %v, want ErrScoreNotFound", err)
	}
}

func TestUpdateLegacySkillScore(t *testing.T) {
	type args struct {
		existing *models.UserSkillScore
		sample   float64
	}
	tests := []struct {
		name         string
		args         args
		wantScore    float64
		wantSessions int
	}{
		{
			name:         "first sample",
			args:         args{existing: nil, sample: 80},
			wantScore:    80,
			wantSessions: 1,
		},
		{
			name: "running average folds in one sample",
			args: args{
				existing: &models.UserSkillScore{Score: 80, Sessions: 3},
				sample:   100,
			},
			wantScore:    85, // (80*3 + 100) / 4
			wantSessions: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			if tt.args.existing != nil {
				repo.legacyScore.GetFunc = func(ctx context.Context, userID string, skillID uint) (*models.UserSkillScore, error) {
					return tt.args.existing, nil
				}
			} else {
				repo.legacyScore.GetFunc = func(ctx context.Context, userID string, skillID uint) (*models.UserSkillScore, error) {
					return nil, repositories.ErrNotFound
				}
			}

			var saved *models.UserSkillScore
			repo.legacyScore.SaveFunc = func(ctx context.Context, score *models.UserSkillScore) error {
				saved = score
				return nil
			}

			svc := NewScoringService(repo, nil, testLogger(), validator.New())

			got, err := svc.UpdateLegacySkillScore(context.Background(), "user-1", 9, tt.args.sample)
			if err != nil {
				t.Fatalf("UpdateLegacySkillScore() error = %v", err)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Sessions != tt.wantSessions {
				t.Errorf("Sessions = %d, want %d", got.Sessions, tt.wantSessions)
			}
			if saved == nil {
				t.Fatal("expected the score to be saved")
			}
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{84.4, 84},
		{84.5, 85},
		{84.6, 85},
		{0, 0},
		{99.5, 100},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
