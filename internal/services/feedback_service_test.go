package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/models"
	"github.com/SathwikPrabhu-07/PEERGRADE/internal/validator"
)

// recordingDispatcher captures dispatched events and reports success.
type recordingDispatcher struct {
	events []ScoringEvent
}

func (d *recordingDispatcher) OnScoringEvent(ctx context.Context, event ScoringEvent) *ScoringOutcome {
	d.events = append(d.events, event)
	return &ScoringOutcome{
		Event:       event.Type,
		SkillScores: []*models.SkillScore{},
		Credibility: map[string]int{},
	}
}

func completedGuitarSession() *models.Session {
	sess := &models.Session{
		TeacherID: "teacher-1",
		LearnerID: "learner-1",
		SkillID:   3,
		Status:    models.SessionCompleted,
		Skill:     models.Skill{Name: "Guitar"},
	}
	sess.ID = 10
	return sess
}

func TestSubmitFeedback(t *testing.T) {
	type args struct {
		session       *models.Session
		giverID       string
		alreadyExists bool
		rating        int
	}
	tests := []struct {
		name          string
		args          args
		wantErr       error
		wantRole      models.SessionRole
		wantRecipient string
	}{
		{
			name:          "learner rates the teacher",
			args:          args{session: completedGuitarSession(), giverID: "learner-1", rating: 5},
			wantRole:      models.SessionRoleLearner,
			wantRecipient: "teacher-1",
		},
		{
			name:          "teacher rates the learner",
			args:          args{session: completedGuitarSession(), giverID: "teacher-1", rating: 4},
			wantRole:      models.SessionRoleTeacher,
			wantRecipient: "learner-1",
		},
		{
			name:    "outsider cannot give feedback",
			args:    args{session: completedGuitarSession(), giverID: "stranger", rating: 5},
			wantErr: ErrNotSessionParty,
		},
		{
			name: "session must be completed",
			args: args{
				session: func() *models.Session {
					s := completedGuitarSession()
					s.Status = models.SessionScheduled
					return s
				}(),
				giverID: "learner-1",
				rating:  5,
			},
			wantErr: ErrSessionNotCompleted,
		},
		{
			name:    "one feedback per giver per session",
			args:    args{session: completedGuitarSession(), giverID: "learner-1", alreadyExists: true, rating: 5},
			wantErr: ErrFeedbackAlreadyGiven,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.session.GetByIDFunc = func(ctx context.Context, id uint) (*models.Session, error) {
				return tt.args.session, nil
			}
			repo.feedback.ExistsBySessionAndGiverFunc = func(ctx context.Context, sessionID uint, fromUserID string) (bool, error) {
				return tt.args.alreadyExists, nil
			}

			var created *models.Feedback
			repo.feedback.CreateFunc = func(ctx context.Context, feedback *models.Feedback) error {
				created = feedback
				return nil
			}

			dispatcher := &recordingDispatcher{}
			svc := NewFeedbackService(repo, nil, testLogger(), validator.New(), dispatcher)

			resp, err := svc.Submit(context.Background(), &SubmitFeedbackRequest{
				SessionID: 10,
				Rating:    tt.args.rating,
			}, tt.args.giverID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
				}
				if created != nil {
					t.Error("no feedback row should be written on a rejected submit")
				}
				if len(dispatcher.events) != 0 {
					t.Error("no scoring event should fire on a rejected submit")
				}
				return
			}

			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if created == nil {
				t.Fatal("expected the feedback row to be written")
			}
			if created.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", created.Role, tt.wantRole)
			}
			if created.ToUserID != tt.wantRecipient {
				t.Errorf("ToUserID = %q, want %q", created.ToUserID, tt.wantRecipient)
			}
			if created.Rating != tt.args.rating {
				t.Errorf("Rating = %d, want %d", created.Rating, tt.args.rating)
			}

			if len(dispatcher.events) != 1 {
				t.Fatalf("dispatched %d scoring events, want 1", len(dispatcher.events))
			}
			evt := dispatcher.events[0]
			if evt.Type != ScoringEventFeedbackSubmitted {
				t.Errorf("event type = %q, want %q", evt.Type, ScoringEventFeedbackSubmitted)
			}
			if evt.SkillID != 3 || evt.SkillName != "Guitar" {
				t.Errorf("event skill = (%d, %q), want (3, Guitar)", evt.SkillID, evt.SkillName)
			}
			if len(evt.UserIDs) != 1 || evt.UserIDs[0] != tt.wantRecipient {
				t.Errorf("event UserIDs = %v, want [%s] (recipient only)", evt.UserIDs, tt.wantRecipient)
			}

			if resp.Scoring == nil {
				t.Error("response must carry the scoring outcome")
			}
		})
	}
}

func TestSubmitFeedbackRejectsInvalidRating(t *testing.T) {
	repo := newMockRepository()
	dispatcher := &recordingDispatcher{}
	svc := NewFeedbackService(repo, nil, testLogger(), validator.New(), dispatcher)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Submit(context.Background(), &SubmitFeedbackRequest{SessionID: 10, Rating: rating}, "learner-1"); err == nil {
			t.Errorf("Submit() with rating %d should fail validation", rating)
		}
	}
	if len(dispatcher.events) != 0 {
		t.Error("no scoring event should fire on invalid input")
	}
}

func TestListBySessionRequiresParticipant(t *testing.T) {
	repo := newMockRepository()
	repo.session.GetByIDFunc = func(ctx context.Context, id uint) (*models.Session, error) {
		return completedGuitarSession(), nil
	}

	svc := NewFeedbackService(repo, nil, testLogger(), validator.New(), &recordingDispatcher{})

	var permErr *PermissionError
	_, err := svc.ListBySession(context.Background(), 10, "stranger")
	if !errors.As(err, &permErr) {
		t.Fatalf("ListBySession() error = %v, want PermissionError", err)
	}

	if _, err := svc.ListBySession(context.Background(), 10, "teacher-1"); err != nil {
		t.Errorf("ListBySession() as participant error = %v", err)
	}
}
