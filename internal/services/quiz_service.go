package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/testtask-service/internal/cache"
	"github.com/SAP-F-2025/testtask-service/internal/events"
	"github.com/SAP-F-2025/testtask-service/internal/models"
	"github.com/google/uuid"
)

// QuizService drives the quiz-taking visit: it loads the task workbook,
// forwards user intents to the session store and produces the results file.
type QuizService interface {
	// Lifecycle
	Start(ctx context.Context)
	Reset(ctx context.Context, refresh bool) string
	WaitUntilLoaded(ctx context.Context) error

	// Queries
	Snapshot() models.SessionSnapshot
	SelectedFor(taskID, questionIndex int) ([]int, error)
	Completion() ([]models.TaskCompletion, bool, error)

	// Intents
	ChangeTask(index int) (bool, error)
	ToggleAnswer(taskID, questionIndex, answerIndex int) ([]int, error)
	Export(ctx context.Context, respondent models.Respondent) (*ExportResult, error)
}

type QuizServiceConfig struct {
	Source         TaskSource
	Cache          cache.CacheService
	CacheTTL       time.Duration
	Publisher      events.EventPublisher
	Locale         string
	ResultFileName string
	Logger         *slog.Logger
	Debug          bool
	Clock          func() time.Time
}

// ExportResult is the downloadable results workbook.
type ExportResult struct {
	FileName string                `json:"file_name"`
	Data     []byte                `json:"-"`
	Summary  models.SessionSummary `json:"summary"`
}

type quizService struct {
	mu      sync.RWMutex
	store   *SessionStore
	loaded  chan struct{}
	started bool // a load is running or done for the current visit

	source         TaskSource
	cache          cache.CacheService
	cacheTTL       time.Duration
	publisher      events.EventPublisher
	locale         string
	labels         Labels
	resultFileName string
	logger         *slog.Logger
	opLog          *ServiceLogger
	clock          func() time.Time
}

func NewQuizService(cfg QuizServiceConfig) QuizService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NewMockEventPublisher(logger)
	}
	resultFileName := cfg.ResultFileName
	if resultFileName == "" {
		resultFileName = "Result.xlsx"
	}

	s := &quizService{
		source:         cfg.Source,
		cache:          cfg.Cache,
		cacheTTL:       cfg.CacheTTL,
		publisher:      publisher,
		locale:         cfg.Locale,
		labels:         LabelsFor(cfg.Locale),
		resultFileName: resultFileName,
		logger:         logger,
		opLog: NewServiceLogger(logger, LogConfig{
			Service:     "testtask-service",
			Component:   "quiz",
			EnableDebug: cfg.Debug,
		}),
		clock: cfg.Clock,
	}
	s.store, s.loaded = s.newVisit()
	return s
}

// ===== LIFECYCLE =====

// Start loads tasks for the current visit in the background. It is a no-op
// when the visit's load has already been started, including by Reset.
func (s *quizService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	store, loaded := s.store, s.loaded
	s.mu.Unlock()

	go s.load(context.WithoutCancel(ctx), store, loaded)
}

// Reset begins a new visit with a fresh store and reloads the tasks.
// With refresh the cached task list is dropped so the source is fetched again.
func (s *quizService) Reset(ctx context.Context, refresh bool) string {
	if refresh && s.cache != nil {
		key := cache.TaskListKey(s.source.Location(), s.locale)
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Task cache invalidation failed", "key", key, "error", err)
		}
	}

	store, loaded := s.newVisit()

	s.mu.Lock()
	s.store, s.loaded, s.started = store, loaded, true
	s.mu.Unlock()

	s.logger.Info("Session reset", "session_id", store.ID(), "refresh", refresh)
	go s.load(context.WithoutCancel(ctx), store, loaded)
	return store.ID()
}

// WaitUntilLoaded blocks until the current visit left the loading state.
func (s *quizService) WaitUntilLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *quizService) newVisit() (*SessionStore, chan struct{}) {
	return NewSessionStore(uuid.NewString(), s.clock), make(chan struct{})
}

func (s *quizService) current() *SessionStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// load writes only into the store it was started for, so a load that
// finishes after a reset never touches the newer visit.
func (s *quizService) load(ctx context.Context, store *SessionStore, loaded chan struct{}) {
	defer close(loaded)

	logger := s.logger.With("session_id", store.ID(), "source", s.source.Location())
	logger.Info("Loading test tasks")

	tasks, fromCache, err := s.loadTasks(ctx)
	if err != nil {
		logger.Error("Failed to load test tasks", "error", err)
		store.Fail(s.labels.LoadError)
		s.publish(ctx, events.NewSessionFailedEvent(store.ID(), events.SessionFailedEvent{
			Source: s.source.Location(),
			Reason: err.Error(),
		}))
		return
	}

	store.LoadTasks(tasks)
	logger.Info("Test tasks loaded", "task_count", len(tasks), "from_cache", fromCache)
	s.publish(ctx, events.NewSessionLoadedEvent(store.ID(), events.SessionLoadedEvent{
		TaskCount: len(tasks),
		Source:    s.source.Location(),
		FromCache: fromCache,
	}))
}

func (s *quizService) loadTasks(ctx context.Context) ([]models.Task, bool, error) {
	key := cache.TaskListKey(s.source.Location(), s.locale)

	if s.cache != nil {
		var cached []models.Task
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			return cached, true, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			s.logger.Warn("Task cache read failed", "key", key, "error", err)
		}
	}

	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	grid, err := DecodeTaskWorkbook(data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode task workbook: %w", err)
	}
	tasks := ParseTaskRows(grid, s.labels)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, tasks, s.cacheTTL); err != nil {
			s.logger.Warn("Task cache write failed", "key", key, "error", err)
		}
	}
	return tasks, false, nil
}

func (s *quizService) publish(ctx context.Context, event *events.SessionEvent) {
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Warn("Session event not delivered", "event_type", event.Type, "error", err)
	}
}

// ===== QUERIES =====

func (s *quizService) Snapshot() models.SessionSnapshot {
	snapshot := s.current().Snapshot()
	if snapshot.Status == models.SessionReady && len(snapshot.Tasks) == 0 {
		snapshot.ErrorMessage = s.labels.NoTasks
	}
	return snapshot
}

func (s *quizService) SelectedFor(taskID, questionIndex int) ([]int, error) {
	store := s.current()
	if err := ensureReady(store); err != nil {
		return nil, err
	}
	if _, err := lookupQuestion(store, taskID, questionIndex); err != nil {
		return nil, err
	}
	return store.SelectedFor(taskID, questionIndex), nil
}

func (s *quizService) Completion() ([]models.TaskCompletion, bool, error) {
	store := s.current()
	if err := ensureReady(store); err != nil {
		return nil, false, err
	}
	return store.CompletionStatus(), store.IsSessionComplete(), nil
}

// ===== INTENTS =====

// ChangeTask reports false when the index is out of range; that is not an error.
func (s *quizService) ChangeTask(index int) (changed bool, err error) {
	store := s.current()
	start := time.Now()
	previous := store.CurrentTaskID()
	defer func() {
		s.opLog.LogOperation(context.Background(), "change_task", store.ID(), previous, time.Since(start), err)
	}()

	if err := ensureReady(store); err != nil {
		return false, err
	}
	if changed = store.ChangeTask(index); changed {
		s.opLog.LogTaskTiming(context.Background(), store.ID(), previous, store.Duration(previous))
	}
	return changed, nil
}

func (s *quizService) ToggleAnswer(taskID, questionIndex, answerIndex int) (selected []int, err error) {
	store := s.current()
	start := time.Now()
	defer func() {
		s.opLog.LogOperation(context.Background(), "toggle_answer", store.ID(), taskID, time.Since(start), err)
	}()

	if err := ensureReady(store); err != nil {
		return nil, err
	}

	question, err := lookupQuestion(store, taskID, questionIndex)
	if err != nil {
		return nil, err
	}
	if answerIndex < 0 || answerIndex >= len(question.Answers) {
		return nil, newAnswerRangeError(len(question.Answers), answerIndex)
	}

	store.ToggleAnswer(taskID, questionIndex, answerIndex, question.Type)
	return store.SelectedFor(taskID, questionIndex), nil
}

// Export books the current task's time, then serializes the results.
// It refuses while any task is unanswered.
func (s *quizService) Export(ctx context.Context, respondent models.Respondent) (result *ExportResult, err error) {
	store := s.current()
	start := time.Now()
	defer func() {
		s.opLog.LogOperation(ctx, "export", store.ID(), 0, time.Since(start), err)
	}()

	if err := ensureReady(store); err != nil {
		return nil, err
	}
	if !store.IsSessionComplete() {
		return nil, ErrSessionIncomplete
	}

	store.FinalizeCurrentTask()
	snapshot := store.Snapshot()

	sheet, err := BuildResultSheet(snapshot, respondent, s.labels)
	if err != nil {
		return nil, err
	}
	data, err := EncodeResultWorkbook(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to encode results: %w", err)
	}

	summary := Summarize(snapshot)
	s.logger.Info("Session exported",
		"session_id", summary.SessionID,
		"task_count", summary.TaskCount,
		"total_score", summary.TotalScore,
		"total_duration", summary.TotalDuration)
	s.publish(ctx, events.NewSessionCompletedEvent(summary))

	return &ExportResult{
		FileName: s.resultFileName,
		Data:     data,
		Summary:  summary,
	}, nil
}

// ===== HELPERS =====

func ensureReady(store *SessionStore) error {
	switch store.Status() {
	case models.SessionLoading:
		return ErrSessionLoading
	case models.SessionFailed:
		return ErrSessionFailed
	default:
		return nil
	}
}

func lookupQuestion(store *SessionStore, taskID, questionIndex int) (models.Question, error) {
	task, ok := store.Task(taskID)
	if !ok {
		return models.Question{}, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}
	if questionIndex < 0 || questionIndex >= len(task.Questions) {
		return models.Question{}, fmt.Errorf("%w: task %d question %d", ErrQuestionNotFound, taskID, questionIndex)
	}
	return task.Questions[questionIndex], nil
}
