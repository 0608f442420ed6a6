package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/repositories"
)

const (
	summarySheet = "Credibility"
	skillsSheet  = "Skill Scores"
)

// exportService renders a user's credibility view as an .xlsx workbook.
type exportService struct {
	repo        repositories.Repository
	credibility CredibilityService
	logger      *slog.Logger
}

func NewExportService(repo repositories.Repository, credibility CredibilityService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:        repo,
		credibility: credibility,
		logger:      logger,
	}
}

// ExportCredibilityReport builds a two-sheet workbook: the credibility
// summary with its component stats, and one row per skill score snapshot.
// Returns the file bytes and a suggested filename.
func (s *exportService) ExportCredibilityReport(ctx context.Context, userID string) ([]byte, string, error) {
	view := s.credibility.GetCredibility(ctx, userID)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	f.SetSheetName(f.GetSheetName(0), summarySheet)
	if err := s.writeSummarySheet(f, view); err != nil {
		return nil, "", fmt.Errorf("failed to write summary sheet: %w", err)
	}

	if _, err := f.NewSheet(skillsSheet); err != nil {
		return nil, "", fmt.Errorf("failed to create skills sheet: %w", err)
	}
	if err := s.writeSkillsSheet(f, view); err != nil {
		return nil, "", fmt.Errorf("failed to write skills sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("credibility-report-%s-%s.xlsx", userID, time.Now().Format("2006-01-02"))

	s.logger.Info("Credibility report exported",
		"user_id", userID,
		"skills", len(view.SkillScores),
		"bytes", buf.Len())

	return buf.Bytes(), filename, nil
}

func (s *exportService) writeSummarySheet(f *excelize.File, view *CredibilityView) error {
	rows := [][]interface{}{
		{"User ID", view.UserID},
		{"Credibility Score", view.CredibilityScore},
		{"Avg Skill Score (top 3)", view.Stats.AvgSkillScore},
		{"Avg Teaching Rating", view.Stats.AvgTeachingRating},
		{"Completed Sessions", view.Stats.SessionCount},
		{"Consistency Bonus", view.Stats.ConsistencyBonus},
		{"Sessions As Teacher", view.SessionsAsTeacher},
		{"Sessions As Learner", view.SessionsAsLearner},
		{"Unique Learners", view.UniqueLearners},
	}
	for i := 0; i < 5; i++ {
		rows = append(rows, []interface{}{
			fmt.Sprintf("Ratings Of %d", i+1),
			view.RatingHistogram.Counts[i],
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *exportService) writeSkillsSheet(f *excelize.File, view *CredibilityView) error {
	header := []interface{}{"Skill", "Final Score", "Assignment Avg", "Feedback Avg", "Sessions", "Updated At"}
	if err := f.SetSheetRow(skillsSheet, "A1", &header); err != nil {
		return err
	}

	for i, score := range view.SkillScores {
		row := []interface{}{
			score.SkillName,
			score.FinalScore,
			score.AssignmentAvg,
			score.FeedbackAvg,
			score.SessionCount,
			score.UpdatedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(skillsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
