package models

// Respondent carries the optional values of the results preamble.
type Respondent struct {
	Name       string `json:"name" validate:"omitempty,max=200,cell_text"`
	Group      string `json:"group" validate:"omitempty,max=100,cell_text"`
	Role       string `json:"role" validate:"omitempty,max=100,cell_text"`
	Age        string `json:"age" validate:"omitempty,max=10,cell_text"`
	Sex        string `json:"sex" validate:"omitempty,max=20,cell_text"`
	Difficulty string `json:"difficulty" validate:"omitempty,max=50,cell_text"`
}

type ResultRow []interface{}

// ResultSheet is the row layout of the exported results workbook.
type ResultSheet struct {
	Name string      `json:"name"`
	Rows []ResultRow `json:"rows"`
}

type TaskResult struct {
	TaskID     int    `json:"task_id"`
	UserAnswer int    `json:"user_answer"`
	Correct    int    `json:"correct_answer"`
	Duration   string `json:"duration"`
	Score      int    `json:"score"`
}

// SessionSummary is what gets reported once a session is exported.
type SessionSummary struct {
	SessionID     string       `json:"session_id"`
	TaskCount     int          `json:"task_count"`
	TotalScore    int          `json:"total_score"`
	TotalDuration string       `json:"total_duration"`
	TotalMillis   int64        `json:"total_duration_ms"`
	Results       []TaskResult `json:"results"`
}
