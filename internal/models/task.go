package models

type QuestionType string

const (
	SingleSelect QuestionType = "single_select"
	MultiSelect  QuestionType = "multi_select"
)

// PlaceholderAnswerText is shown when a task row has no non-empty option.
const PlaceholderAnswerText = "—"

// Answer is one option of a question. ID is the 1-based position among
// the non-empty options of the source row.
type Answer struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID           int          `json:"id"`
	Text         string       `json:"question"`
	Type         QuestionType `json:"type"`
	Instructions string       `json:"instructions"`
	Answers      []Answer     `json:"answers"`
}

// Task is one unit of work. ID equals the 1-based position of the task
// in the parsed list.
type Task struct {
	ID        int        `json:"id"`
	ImageSrcs []string   `json:"image_srcs"`
	Questions []Question `json:"questions"`
}

// CorrectPosition returns the 1-based position of the first answer flagged
// correct, or 0 when none is.
func (q Question) CorrectPosition() int {
	for i, a := range q.Answers {
		if a.IsCorrect {
			return i + 1
		}
	}
	return 0
}
