package services

import (
	"math"
	"testing"

	"github.com/SAP-F-2025/testtask-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headerBlock returns the six reserved rows that precede task rows.
func headerBlock() [][]Cell {
	rows := make([][]Cell, taskHeaderRows)
	for i := range rows {
		rows[i] = []Cell{TextCell("header")}
	}
	return rows
}

func taskRow(question string, options [4]string, image string, indicator Cell) []Cell {
	return []Cell{
		TextCell(taskRowMarker),
		TextCell("meta"),
		TextCell(question),
		TextCell(options[0]),
		TextCell(options[1]),
		TextCell(options[2]),
		TextCell(options[3]),
		TextCell(image),
		indicator,
	}
}

func TestParseTaskRows(t *testing.T) {
	t.Run("single task row", func(t *testing.T) {
		rows := append(headerBlock(),
			taskRow("2+2?", [4]string{"3", "4", "5", ""}, "a.png", NumberCell(2)),
		)

		tasks := ParseTaskRows(rows, RussianLabels)
		require.Len(t, tasks, 1)

		task := tasks[0]
		assert.Equal(t, 1, task.ID)
		assert.Equal(t, []string{"/images/a.png"}, task.ImageSrcs)
		require.Len(t, task.Questions, 1)

		q := task.Questions[0]
		assert.Equal(t, 1, q.ID)
		assert.Equal(t, "2+2?", q.Text)
		assert.Equal(t, models.SingleSelect, q.Type)
		assert.Equal(t, RussianLabels.Instructions, q.Instructions)
		assert.Equal(t, []models.Answer{
			{ID: 1, Text: "3", IsCorrect: false},
			{ID: 2, Text: "4", IsCorrect: true},
			{ID: 3, Text: "5", IsCorrect: false},
		}, q.Answers)
	})

	t.Run("non task rows are skipped and ids stay consecutive", func(t *testing.T) {
		rows := append(headerBlock(),
			taskRow("first", [4]string{"a", "b", "", ""}, "", NumberCell(1)),
			[]Cell{TextCell("comment"), TextCell("x")},
			taskRow("second", [4]string{"a", "b", "", ""}, "", NumberCell(2)),
		)
		// Wrong marker with full width.
		other := taskRow("ignored", [4]string{"a", "", "", ""}, "", NumberCell(1))
		other[0] = TextCell("exampleTask")
		rows = append(rows, other)

		tasks := ParseTaskRows(rows, RussianLabels)
		require.Len(t, tasks, 2)
		assert.Equal(t, 1, tasks[0].ID)
		assert.Equal(t, "first", tasks[0].Questions[0].Text)
		assert.Equal(t, 2, tasks[1].ID)
		assert.Equal(t, "second", tasks[1].Questions[0].Text)
	})

	t.Run("marker inside header block is ignored", func(t *testing.T) {
		rows := headerBlock()
		rows[2] = taskRow("hidden", [4]string{"a", "", "", ""}, "", NumberCell(1))

		assert.Empty(t, ParseTaskRows(rows, RussianLabels))
	})

	t.Run("short rows are dropped", func(t *testing.T) {
		row := taskRow("q", [4]string{"a", "", "", ""}, "", NumberCell(1))[:taskRowMinLen-1]
		rows := append(headerBlock(), row)

		assert.Empty(t, ParseTaskRows(rows, RussianLabels))
	})

	t.Run("fewer rows than the header block", func(t *testing.T) {
		tasks := ParseTaskRows(headerBlock()[:3], RussianLabels)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("empty question text falls back to task title", func(t *testing.T) {
		rows := append(headerBlock(),
			taskRow("x", [4]string{"a", "", "", ""}, "", NumberCell(1)),
			taskRow("   ", [4]string{"a", "", "", ""}, "", NumberCell(1)),
		)

		tasks := ParseTaskRows(rows, RussianLabels)
		require.Len(t, tasks, 2)
		assert.Equal(t, "Задание 2", tasks[1].Questions[0].Text)

		tasks = ParseTaskRows(rows, EnglishLabels)
		assert.Equal(t, "Task 2", tasks[1].Questions[0].Text)
	})

	t.Run("no image gives an empty list", func(t *testing.T) {
		rows := append(headerBlock(), taskRow("q", [4]string{"a", "", "", ""}, "  ", NumberCell(1)))

		tasks := ParseTaskRows(rows, RussianLabels)
		require.Len(t, tasks, 1)
		assert.NotNil(t, tasks[0].ImageSrcs)
		assert.Empty(t, tasks[0].ImageSrcs)
	})

	t.Run("gaps in options renumber after filtering", func(t *testing.T) {
		rows := append(headerBlock(),
			taskRow("q", [4]string{"", "B", "", "D"}, "", NumberCell(2)),
		)

		answers := ParseTaskRows(rows, RussianLabels)[0].Questions[0].Answers
		assert.Equal(t, []models.Answer{
			{ID: 1, Text: "B", IsCorrect: false},
			{ID: 2, Text: "D", IsCorrect: true},
		}, answers)
	})

	t.Run("numeric options are rendered as text", func(t *testing.T) {
		row := taskRow("q", [4]string{"", "", "", ""}, "", NumberCell(1))
		row[3] = NumberCell(10)
		row[4] = NumberCell(2.5)
		rows := append(headerBlock(), row)

		answers := ParseTaskRows(rows, RussianLabels)[0].Questions[0].Answers
		require.Len(t, answers, 2)
		assert.Equal(t, "10", answers[0].Text)
		assert.True(t, answers[0].IsCorrect)
		assert.Equal(t, "2.5", answers[1].Text)
	})

	t.Run("no options yields placeholder", func(t *testing.T) {
		rows := append(headerBlock(), taskRow("q", [4]string{}, "", NumberCell(1)))

		answers := ParseTaskRows(rows, RussianLabels)[0].Questions[0].Answers
		assert.Equal(t, []models.Answer{{ID: 1, Text: models.PlaceholderAnswerText, IsCorrect: false}}, answers)
	})
}

func TestCorrectIndicator(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want float64
	}{
		{name: "number", cell: NumberCell(3), want: 3},
		{name: "numeric text", cell: TextCell(" 2 "), want: 2},
		{name: "fractional text", cell: TextCell("1.0"), want: 1},
		{name: "garbage text", cell: TextCell("two"), want: 0},
		{name: "empty", cell: Cell{}, want: 0},
		{name: "nan", cell: NumberCell(math.NaN()), want: 0},
		{name: "infinite text", cell: TextCell("Inf"), want: 0},
		{name: "out of range", cell: NumberCell(7), want: 7},
		{name: "boolean true", cell: BoolCell(true), want: 0},
		{name: "boolean false", cell: BoolCell(false), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, correctIndicator(tt.cell))
		})
	}
}

func TestParseTaskRows_IndicatorMatching(t *testing.T) {
	tests := []struct {
		name        string
		indicator   Cell
		wantCorrect int
	}{
		{name: "first", indicator: NumberCell(1), wantCorrect: 1},
		{name: "text second", indicator: TextCell("2"), wantCorrect: 2},
		{name: "fraction matches nothing", indicator: NumberCell(1.5), wantCorrect: 0},
		{name: "beyond options", indicator: NumberCell(4), wantCorrect: 0},
		{name: "zero", indicator: NumberCell(0), wantCorrect: 0},
		{name: "negative", indicator: NumberCell(-1), wantCorrect: 0},
		{name: "boolean", indicator: BoolCell(true), wantCorrect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := append(headerBlock(), taskRow("q", [4]string{"a", "b", "c", ""}, "", tt.indicator))

			q := ParseTaskRows(rows, RussianLabels)[0].Questions[0]
			assert.Equal(t, tt.wantCorrect, q.CorrectPosition())

			correct := 0
			for _, a := range q.Answers {
				if a.IsCorrect {
					correct++
				}
			}
			assert.LessOrEqual(t, correct, 1)
		})
	}
}

func TestCell_String(t *testing.T) {
	assert.Equal(t, "", Cell{}.String())
	assert.Equal(t, "abc", TextCell("abc").String())
	assert.Equal(t, CellEmpty, TextCell("").Kind)
	assert.Equal(t, "42", NumberCell(42).String())
	assert.Equal(t, "0.25", NumberCell(0.25).String())
	assert.Equal(t, "TRUE", BoolCell(true).String())
	assert.Equal(t, "FALSE", BoolCell(false).String())
}
