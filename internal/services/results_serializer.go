package services

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/testtask-service/internal/models"
)

// FormatDuration renders whole seconds as HH:MM:SS. Hours are not capped.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSec := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", totalSec/3600, (totalSec%3600)/60, totalSec%60)
}

// ScoreTasks compares the first selected answer of each task's first
// question with its correct answer. Positions are 1-based; 0 means none.
func ScoreTasks(snapshot models.SessionSnapshot) []models.TaskResult {
	results := make([]models.TaskResult, 0, len(snapshot.Tasks))
	for _, task := range snapshot.Tasks {
		result := models.TaskResult{
			TaskID:   task.ID,
			Duration: FormatDuration(snapshot.Durations[task.ID]),
		}

		if selected := snapshot.Selections.Get(task.ID, 0); len(selected) > 0 {
			result.UserAnswer = selected[0] + 1
		}
		if len(task.Questions) > 0 {
			result.Correct = task.Questions[0].CorrectPosition()
		}
		if result.UserAnswer > 0 && result.UserAnswer == result.Correct {
			result.Score = 1
		}
		results = append(results, result)
	}
	return results
}

// Summarize builds the event/report summary of a finished session.
func Summarize(snapshot models.SessionSnapshot) models.SessionSummary {
	results := ScoreTasks(snapshot)
	total := snapshot.TotalDuration()

	score := 0
	for _, r := range results {
		score += r.Score
	}

	return models.SessionSummary{
		SessionID:     snapshot.SessionID,
		TaskCount:     len(snapshot.Tasks),
		TotalScore:    score,
		TotalDuration: FormatDuration(total),
		TotalMillis:   total.Milliseconds(),
		Results:       results,
	}
}

// BuildResultSheet lays out the results workbook: preamble, total time,
// a blank separator, the header and one row per task. The snapshot must be
// taken after the current task's time has been finalized.
func BuildResultSheet(snapshot models.SessionSnapshot, respondent models.Respondent, labels Labels) (*models.ResultSheet, error) {
	if !snapshot.Complete {
		return nil, ErrSessionIncomplete
	}

	values := [6]string{
		respondent.Name,
		respondent.Group,
		respondent.Role,
		respondent.Age,
		respondent.Sex,
		respondent.Difficulty,
	}

	rows := make([]models.ResultRow, 0, len(values)+3+len(snapshot.Tasks))
	for i, label := range labels.Preamble {
		row := models.ResultRow{label}
		if values[i] != "" {
			row = append(row, values[i])
		}
		rows = append(rows, row)
	}

	rows = append(rows,
		models.ResultRow{labels.TotalTime, FormatDuration(snapshot.TotalDuration())},
		models.ResultRow{},
		models.ResultRow{labels.Header[0], labels.Header[1], labels.Header[2], labels.Header[3]},
	)

	for _, r := range ScoreTasks(snapshot) {
		var answer interface{} = models.PlaceholderAnswerText
		if r.UserAnswer > 0 {
			answer = r.UserAnswer
		}
		rows = append(rows, models.ResultRow{labels.TaskTitle(r.TaskID), answer, r.Duration, r.Score})
	}

	return &models.ResultSheet{Name: labels.ResultsSheet, Rows: rows}, nil
}
