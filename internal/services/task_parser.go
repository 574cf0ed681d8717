package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/testtask-service/internal/models"
)

const (
	// Rows 0..5 of the source sheet are a reserved header block.
	taskHeaderRows = 6
	taskRowMarker  = "testTask"
	taskRowMinLen  = 9
	imageRoot      = "/images/"

	colQuestion  = 2
	colImage     = 7
	colIndicator = 8
)

// option slots V1..V4
var optionColumns = []int{3, 4, 5, 6}

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
)

// Cell is one typed value of the source grid.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

func TextCell(s string) Cell {
	if s == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

// BoolCell displays as TRUE or FALSE but never coerces to a number.
func BoolCell(b bool) Cell {
	if b {
		return Cell{Kind: CellBool, Text: "TRUE"}
	}
	return Cell{Kind: CellBool, Text: "FALSE"}
}

// String renders the cell the way it is displayed as text.
func (c Cell) String() string {
	switch c.Kind {
	case CellText, CellBool:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// ParseTaskRows converts the raw grid of the first sheet into tasks.
// Rows that are not task rows are dropped without error.
func ParseTaskRows(rows [][]Cell, labels Labels) []models.Task {
	if len(rows) <= taskHeaderRows {
		return []models.Task{}
	}

	tasks := make([]models.Task, 0, len(rows)-taskHeaderRows)
	for _, row := range rows[taskHeaderRows:] {
		if !isTaskRow(row) {
			continue
		}
		tasks = append(tasks, parseTaskRow(row, len(tasks)+1, labels))
	}
	return tasks
}

func isTaskRow(row []Cell) bool {
	return len(row) >= taskRowMinLen &&
		row[0].Kind == CellText &&
		row[0].Text == taskRowMarker
}

func parseTaskRow(row []Cell, id int, labels Labels) models.Task {
	questionText := strings.TrimSpace(row[colQuestion].String())
	if questionText == "" {
		questionText = labels.TaskTitle(id)
	}

	imageSrcs := []string{}
	if img := strings.TrimSpace(row[colImage].String()); img != "" {
		imageSrcs = append(imageSrcs, imageRoot+img)
	}

	return models.Task{
		ID:        id,
		ImageSrcs: imageSrcs,
		Questions: []models.Question{{
			ID:           id,
			Text:         questionText,
			Type:         models.SingleSelect,
			Instructions: labels.Instructions,
			Answers:      parseAnswers(row, correctIndicator(row[colIndicator])),
		}},
	}
}

// parseAnswers numbers the non-empty options 1..k after filtering; the
// correct indicator is compared against that position, not the slot.
func parseAnswers(row []Cell, correct float64) []models.Answer {
	answers := make([]models.Answer, 0, len(optionColumns))
	for _, col := range optionColumns {
		text := strings.TrimSpace(row[col].String())
		if text == "" {
			continue
		}
		id := len(answers) + 1
		answers = append(answers, models.Answer{
			ID:        id,
			Text:      text,
			IsCorrect: float64(id) == correct,
		})
	}

	if len(answers) == 0 {
		answers = append(answers, models.Answer{ID: 1, Text: models.PlaceholderAnswerText, IsCorrect: false})
	}
	return answers
}

// correctIndicator coerces the indicator cell to a number. Only number and
// text cells are considered; anything that is not a finite number yields 0,
// which matches no answer.
func correctIndicator(c Cell) float64 {
	var n float64
	switch c.Kind {
	case CellNumber:
		n = c.Number
	case CellText:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
