package services

import (
	"slices"
	"sync"
	"time"

	"github.com/SAP-F-2025/testtask-service/internal/models"
)

// SessionStore holds the state of one quiz-taking visit: the loaded tasks,
// the current position, answer selections and per-task accumulated time.
// All methods are safe for concurrent use; operations are applied one at a time.
type SessionStore struct {
	mu  sync.Mutex
	now func() time.Time

	id           string
	status       models.SessionStatus
	errorMessage string

	tasks      []models.Task
	current    int
	selections models.Selections
	startTimes map[int]time.Time
	durations  map[int]time.Duration
}

// NewSessionStore creates a store in the loading state. A nil clock means time.Now.
func NewSessionStore(id string, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		now:        now,
		id:         id,
		status:     models.SessionLoading,
		tasks:      []models.Task{},
		selections: models.Selections{},
		startTimes: make(map[int]time.Time),
		durations:  make(map[int]time.Duration),
	}
}

func (s *SessionStore) ID() string {
	return s.id
}

// LoadTasks seeds the store once. Later calls are ignored.
func (s *SessionStore) LoadTasks(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionLoading {
		return
	}

	s.tasks = slices.Clone(tasks)
	s.current = 0
	s.status = models.SessionReady
	s.startCurrent()
}

// Fail moves a loading store to the failed state with a user-visible message.
func (s *SessionStore) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionLoading {
		return
	}
	s.status = models.SessionFailed
	s.errorMessage = message
}

func (s *SessionStore) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// ChangeTask makes the task at target current. Out of range targets are
// ignored and reported as false.
func (s *SessionStore) ChangeTask(target int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target < 0 || target >= len(s.tasks) {
		return false
	}

	s.finalizeCurrent()
	s.current = target
	s.startCurrent()
	return true
}

// ToggleAnswer applies a click on an answer. Single-select replaces the
// selection with the clicked answer, multi-select toggles its membership.
func (s *SessionStore) ToggleAnswer(taskID, questionIndex, answerIndex int, questionType models.QuestionType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byQuestion, ok := s.selections[taskID]
	if !ok {
		byQuestion = make(map[int][]int)
		s.selections[taskID] = byQuestion
	}

	current := byQuestion[questionIndex]
	if questionType == models.MultiSelect {
		if i := slices.Index(current, answerIndex); i >= 0 {
			byQuestion[questionIndex] = slices.Delete(slices.Clone(current), i, i+1)
		} else {
			byQuestion[questionIndex] = append(slices.Clone(current), answerIndex)
		}
		return
	}
	byQuestion[questionIndex] = []int{answerIndex}
}

// CurrentTaskID returns the ID of the active task, or 0 when nothing is loaded.
func (s *SessionStore) CurrentTaskID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < 0 || s.current >= len(s.tasks) {
		return 0
	}
	return s.tasks[s.current].ID
}

// Task looks up a loaded task by its ID.
func (s *SessionStore) Task(taskID int) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, task := range s.tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return models.Task{}, false
}

// SelectedFor returns a copy of the selected 0-based answer indices.
func (s *SessionStore) SelectedFor(taskID, questionIndex int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selections.Get(taskID, questionIndex))
}

func (s *SessionStore) CompletionStatus() []models.TaskCompletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completionLocked()
}

func (s *SessionStore) IsSessionComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completeLocked(s.completionLocked())
}

// IsCurrentTaskAnswered reports whether the first question of the current
// task has a selection.
func (s *SessionStore) IsCurrentTaskAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentAnsweredLocked()
}

// FinalizeCurrentTask books the time spent on the current task so far and
// restarts its timer.
func (s *SessionStore) FinalizeCurrentTask() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) == 0 {
		return
	}
	s.finalizeCurrent()
	s.startCurrent()
}

// Duration returns the accumulated time of a task.
func (s *SessionStore) Duration(taskID int) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durations[taskID]
}

func (s *SessionStore) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	selections := make(models.Selections, len(s.selections))
	for taskID, byQuestion := range s.selections {
		copied := make(map[int][]int, len(byQuestion))
		for q, selected := range byQuestion {
			copied[q] = slices.Clone(selected)
		}
		selections[taskID] = copied
	}

	durations := make(map[int]time.Duration, len(s.durations))
	for taskID, d := range s.durations {
		durations[taskID] = d
	}

	completion := s.completionLocked()
	return models.SessionSnapshot{
		SessionID:    s.id,
		Status:       s.statusLocked(),
		ErrorMessage: s.errorMessage,
		Tasks:        slices.Clone(s.tasks),
		CurrentIndex: s.current,
		Selections:   selections,
		Durations:    durations,
		Completion:   completion,
		Complete:     s.completeLocked(completion),
		CurrentDone:  s.currentAnsweredLocked(),
	}
}

// ===== LOCKED HELPERS =====

func (s *SessionStore) statusLocked() models.SessionStatus {
	if s.status == models.SessionReady && s.completeLocked(s.completionLocked()) {
		return models.SessionComplete
	}
	return s.status
}

func (s *SessionStore) startCurrent() {
	if s.current < 0 || s.current >= len(s.tasks) {
		return
	}
	s.startTimes[s.tasks[s.current].ID] = s.now()
}

func (s *SessionStore) finalizeCurrent() {
	if s.current < 0 || s.current >= len(s.tasks) {
		return
	}
	taskID := s.tasks[s.current].ID
	start, ok := s.startTimes[taskID]
	if !ok {
		return
	}
	elapsed := s.now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	s.durations[taskID] += elapsed
}

func (s *SessionStore) completionLocked() []models.TaskCompletion {
	completion := make([]models.TaskCompletion, 0, len(s.tasks))
	for _, task := range s.tasks {
		total := len(task.Questions)
		answered := 0
		for q := range task.Questions {
			if len(s.selections.Get(task.ID, q)) > 0 {
				answered++
			}
		}
		completion = append(completion, models.TaskCompletion{
			TaskID:         task.ID,
			TotalQuestions: total,
			AnsweredCount:  answered,
			IsComplete:     answered == total,
		})
	}
	return completion
}

func (s *SessionStore) completeLocked(completion []models.TaskCompletion) bool {
	if len(completion) == 0 {
		return false
	}
	for _, c := range completion {
		if !c.IsComplete {
			return false
		}
	}
	return true
}

func (s *SessionStore) currentAnsweredLocked() bool {
	if len(s.tasks) == 0 {
		return false
	}
	return len(s.selections.Get(s.tasks[s.current].ID, 0)) > 0
}
