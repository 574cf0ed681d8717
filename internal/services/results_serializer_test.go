package services

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/testtask-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{999 * time.Millisecond, "00:00:00"},
		{65 * time.Second, "00:01:05"},
		{3661 * time.Second, "01:01:01"},
		{100 * time.Hour, "100:00:00"},
		{-time.Second, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

// completedSnapshot answers task 1 correctly, task 2 wrong and gives task 3
// no correct answer at all.
func completedSnapshot() models.SessionSnapshot {
	tasks := sampleTasks(3)
	tasks[2].Questions[0].Answers = []models.Answer{{ID: 1, Text: "x"}, {ID: 2, Text: "y"}}

	return models.SessionSnapshot{
		SessionID: "abc",
		Status:    models.SessionComplete,
		Tasks:     tasks,
		Selections: models.Selections{
			1: {0: {0}},
			2: {0: {2}},
			3: {0: {1}},
		},
		Durations: map[int]time.Duration{
			1: 5 * time.Second,
			2: 65 * time.Second,
			3: 1500 * time.Millisecond,
		},
		Complete: true,
	}
}

func TestScoreTasks(t *testing.T) {
	results := ScoreTasks(completedSnapshot())

	assert.Equal(t, []models.TaskResult{
		{TaskID: 1, UserAnswer: 1, Correct: 1, Duration: "00:00:05", Score: 1},
		{TaskID: 2, UserAnswer: 3, Correct: 1, Duration: "00:01:05", Score: 0},
		{TaskID: 3, UserAnswer: 2, Correct: 0, Duration: "00:00:01", Score: 0},
	}, results)
}

func TestScoreTasks_UnansweredNeverScores(t *testing.T) {
	snapshot := completedSnapshot()
	snapshot.Tasks[2].Questions[0].Answers = []models.Answer{{ID: 1, Text: models.PlaceholderAnswerText}}
	delete(snapshot.Selections, 3)

	results := ScoreTasks(snapshot)
	require.Len(t, results, 3)
	assert.Equal(t, 0, results[2].UserAnswer)
	assert.Equal(t, 0, results[2].Correct)
	assert.Equal(t, 0, results[2].Score)
}

func TestScoreTasks_UsesFirstSelection(t *testing.T) {
	snapshot := completedSnapshot()
	snapshot.Selections[2] = map[int][]int{0: {0, 2}}

	results := ScoreTasks(snapshot)
	assert.Equal(t, 1, results[1].UserAnswer)
	assert.Equal(t, 1, results[1].Score)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(completedSnapshot())

	assert.Equal(t, "abc", summary.SessionID)
	assert.Equal(t, 3, summary.TaskCount)
	assert.Equal(t, 1, summary.TotalScore)
	assert.Equal(t, "00:01:11", summary.TotalDuration)
	assert.Equal(t, int64(71500), summary.TotalMillis)
	assert.Len(t, summary.Results, 3)
}

func TestBuildResultSheet(t *testing.T) {
	t.Run("layout", func(t *testing.T) {
		respondent := models.Respondent{Name: "Иванов", Age: "21"}

		sheet, err := BuildResultSheet(completedSnapshot(), respondent, RussianLabels)
		require.NoError(t, err)

		assert.Equal(t, "Результаты", sheet.Name)
		assert.Equal(t, []models.ResultRow{
			{"ФИО", "Иванов"},
			{"Группа"},
			{"Роль"},
			{"Возраст", "21"},
			{"Пол"},
			{"Сложность"},
			{"Общее время", "00:01:11"},
			{},
			{"Задание", "Ответ", "Время прохождения", "Баллы"},
			{"Задание 1", 1, "00:00:05", 1},
			{"Задание 2", 3, "00:01:05", 0},
			{"Задание 3", 2, "00:00:01", 0},
		}, sheet.Rows)
	})

	t.Run("unanswered task shows placeholder", func(t *testing.T) {
		snapshot := completedSnapshot()
		delete(snapshot.Selections, 2)

		sheet, err := BuildResultSheet(snapshot, models.Respondent{}, EnglishLabels)
		require.NoError(t, err)
		assert.Equal(t, "Results", sheet.Name)
		assert.Equal(t, models.ResultRow{"Task 2", models.PlaceholderAnswerText, "00:01:05", 0}, sheet.Rows[10])
	})

	t.Run("incomplete session is refused", func(t *testing.T) {
		snapshot := completedSnapshot()
		snapshot.Complete = false

		sheet, err := BuildResultSheet(snapshot, models.Respondent{}, RussianLabels)
		assert.ErrorIs(t, err, ErrSessionIncomplete)
		assert.Nil(t, sheet)
	})
}
