package models

import "time"

type SessionStatus string

const (
	SessionLoading  SessionStatus = "loading"
	SessionReady    SessionStatus = "ready"
	SessionFailed   SessionStatus = "failed"
	SessionComplete SessionStatus = "complete"
)

type TaskCompletion struct {
	TaskID         int  `json:"task_id"`
	TotalQuestions int  `json:"total_questions"`
	AnsweredCount  int  `json:"answered_count"`
	IsComplete     bool `json:"is_complete"`
}

// Selections maps task ID -> question index -> selected 0-based answer
// indices in the order they were selected.
type Selections map[int]map[int][]int

// Get returns the selection for a (task, question) pair; absent entries are empty.
func (s Selections) Get(taskID, questionIndex int) []int {
	byQuestion, ok := s[taskID]
	if !ok {
		return []int{}
	}
	selected, ok := byQuestion[questionIndex]
	if !ok {
		return []int{}
	}
	return selected
}

// SessionSnapshot is a detached copy of the session state.
type SessionSnapshot struct {
	SessionID    string                `json:"session_id"`
	Status       SessionStatus         `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Tasks        []Task                `json:"tasks"`
	CurrentIndex int                   `json:"current_task_index"`
	Selections   Selections            `json:"-"`
	Durations    map[int]time.Duration `json:"-"`
	Completion   []TaskCompletion      `json:"completion"`
	Complete     bool                  `json:"is_complete"`
	CurrentDone  bool                  `json:"current_task_answered"`
}

// TotalDuration sums the accumulated time of every task.
func (s SessionSnapshot) TotalDuration() time.Duration {
	var total time.Duration
	for _, d := range s.Durations {
		total += d
	}
	return total
}
