package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/testtask-service/internal/models"
	"github.com/SAP-F-2025/testtask-service/internal/services"
	"github.com/SAP-F-2025/testtask-service/internal/utils"
	"github.com/SAP-F-2025/testtask-service/internal/validator"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ===== REQUEST STRUCTURES =====

type NavigateRequest struct {
	Index *int `json:"index" validate:"required"`
}

type ToggleAnswerRequest struct {
	TaskID        int  `json:"task_id" validate:"required,min=1"`
	QuestionIndex *int `json:"question_index" validate:"required,gte=0"`
	AnswerIndex   *int `json:"answer_index" validate:"required,gte=0"`
}

type ExportRequest struct {
	Respondent *models.Respondent `json:"respondent"`
}

// ===== RESPONSE STRUCTURES =====

// SessionView is everything the presentation layer needs to render a visit.
type SessionView struct {
	SessionID             string                  `json:"session_id"`
	Status                models.SessionStatus    `json:"status"`
	IsLoading             bool                    `json:"is_loading"`
	IsError               bool                    `json:"is_error"`
	Message               string                  `json:"message,omitempty"`
	Tasks                 []TaskView              `json:"tasks"`
	CurrentTaskIndex      int                     `json:"current_task_index"`
	Completion            []models.TaskCompletion `json:"completion"`
	IsAllTasksComplete    bool                    `json:"is_all_tasks_complete"`
	IsCurrentTaskAnswered bool                    `json:"is_current_task_answered"`
}

// TaskView is a task as shown to the respondent, without the answer key.
type TaskView struct {
	ID        int            `json:"id"`
	ImageSrcs []string       `json:"image_srcs"`
	Questions []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID           int                 `json:"id"`
	Text         string              `json:"question"`
	Type         models.QuestionType `json:"type"`
	Instructions string              `json:"instructions"`
	Answers      []AnswerView        `json:"answers"`
}

type AnswerView struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

func newTaskViews(tasks []models.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		questions := make([]QuestionView, 0, len(task.Questions))
		for _, q := range task.Questions {
			answers := make([]AnswerView, 0, len(q.Answers))
			for _, a := range q.Answers {
				answers = append(answers, AnswerView{ID: a.ID, Text: a.Text})
			}
			questions = append(questions, QuestionView{
				ID:           q.ID,
				Text:         q.Text,
				Type:         q.Type,
				Instructions: q.Instructions,
				Answers:      answers,
			})
		}
		views = append(views, TaskView{ID: task.ID, ImageSrcs: task.ImageSrcs, Questions: questions})
	}
	return views
}

type SelectionView struct {
	TaskID        int   `json:"task_id"`
	QuestionIndex int   `json:"question_index"`
	Selected      []int `json:"selected"`
}

type CompletionView struct {
	Completion         []models.TaskCompletion `json:"completion"`
	IsAllTasksComplete bool                    `json:"is_all_tasks_complete"`
}

func newSessionView(snapshot models.SessionSnapshot) SessionView {
	return SessionView{
		SessionID:             snapshot.SessionID,
		Status:                snapshot.Status,
		IsLoading:             snapshot.Status == models.SessionLoading,
		IsError:               snapshot.Status == models.SessionFailed,
		Message:               snapshot.ErrorMessage,
		Tasks:                 newTaskViews(snapshot.Tasks),
		CurrentTaskIndex:      snapshot.CurrentIndex,
		Completion:            snapshot.Completion,
		IsAllTasksComplete:    snapshot.Complete,
		IsCurrentTaskAnswered: snapshot.CurrentDone,
	}
}

type SessionHandler struct {
	BaseHandler
	quizService services.QuizService
	validator   *validator.Validator
}

func NewSessionHandler(
	quizService services.QuizService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
		validator:   validator,
	}
}

// GetSession returns the current visit's state
// @Router /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, newSessionView(h.quizService.Snapshot()))
}

// ResetSession starts a new visit and reloads the tasks.
// ?refresh=true bypasses the task cache.
// @Router /session/reset [post]
func (h *SessionHandler) ResetSession(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	sessionID := h.quizService.Reset(c.Request.Context(), refresh)
	h.LogInfo(c, "Session reset requested", "session_id", sessionID)
	h.RespondWithSuccess(c, http.StatusAccepted, "Session reset, tasks are loading", newSessionView(h.quizService.Snapshot()))
}

// Navigate changes the current task. Out of range indices leave the state unchanged.
// @Router /session/navigate [post]
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if !h.bind(c, &req) {
		return
	}

	changed, err := h.quizService.ChangeTask(*req.Index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !changed {
		h.LogInfo(c, "Navigation target out of range, ignored", "index", *req.Index)
	}

	c.JSON(http.StatusOK, newSessionView(h.quizService.Snapshot()))
}

// ToggleAnswer selects or deselects an answer of a task's question
// @Router /session/answers [post]
func (h *SessionHandler) ToggleAnswer(c *gin.Context) {
	var req ToggleAnswerRequest
	if !h.bind(c, &req) {
		return
	}

	selected, err := h.quizService.ToggleAnswer(req.TaskID, *req.QuestionIndex, *req.AnswerIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SelectionView{
		TaskID:        req.TaskID,
		QuestionIndex: *req.QuestionIndex,
		Selected:      selected,
	})
}

// GetSelection returns the selected answers of a task's question
// @Router /session/tasks/{task_id}/questions/{question_index}/selection [get]
func (h *SessionHandler) GetSelection(c *gin.Context) {
	taskID, ok := ParseIntParam(c, "task_id")
	if !ok {
		return
	}
	questionIndex, ok := ParseIntParam(c, "question_index")
	if !ok {
		return
	}

	selected, err := h.quizService.SelectedFor(taskID, questionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SelectionView{
		TaskID:        taskID,
		QuestionIndex: questionIndex,
		Selected:      selected,
	})
}

// GetCompletion returns per-task completion summaries
// @Router /session/completion [get]
func (h *SessionHandler) GetCompletion(c *gin.Context) {
	completion, complete, err := h.quizService.Completion()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, CompletionView{
		Completion:         completion,
		IsAllTasksComplete: complete,
	})
}

// Export downloads the results workbook once every task is answered
// @Router /session/export [post]
func (h *SessionHandler) Export(c *gin.Context) {
	// The body is optional; an empty one, chunked or not, binds nothing.
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	if !h.validate(c, &req) {
		return
	}

	respondent := models.Respondent{}
	if req.Respondent != nil {
		respondent = *req.Respondent
	}

	result, err := h.quizService.Export(c.Request.Context(), respondent)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Results exported",
		"session_id", result.Summary.SessionID,
		"total_score", result.Summary.TotalScore)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Data(http.StatusOK, xlsxContentType, result.Data)
}

// ===== HELPERS =====

func (h *SessionHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	return h.validate(c, req)
}

func (h *SessionHandler) validate(c *gin.Context, req interface{}) bool {
	if err := h.validator.ValidateStruct(req); err != nil {
		h.RespondWithErrorCode(c, http.StatusBadRequest, CodeValidationFailed, "Validation failed", err, err)
		return false
	}
	return true
}

func (h *SessionHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithErrorCode(c, http.StatusBadRequest, CodeValidationFailed, "Validation failed", err, validationErrors)
		return
	}

	switch {
	case errors.Is(err, services.ErrSessionLoading):
		h.RespondWithErrorCode(c, http.StatusConflict, CodeSessionLoading, "Tasks are still loading", err)
	case errors.Is(err, services.ErrSessionFailed):
		h.RespondWithErrorCode(c, http.StatusConflict, CodeSessionFailed, "Tasks failed to load", err)
	case errors.Is(err, services.ErrSessionIncomplete):
		h.RespondWithErrorCode(c, http.StatusConflict, CodeSessionIncomplete, "Not every task is answered", err)
	case services.IsNotFound(err):
		h.RespondWithErrorCode(c, http.StatusNotFound, CodeNotFound, "Task or question not found", err, err.Error())
	case services.IsValidation(err):
		h.RespondWithErrorCode(c, http.StatusBadRequest, CodeValidationFailed, "Invalid answer", err, err.Error())
	default:
		h.RespondWithErrorCode(c, http.StatusInternalServerError, CodeInternal, "Internal server error", err)
	}
}
