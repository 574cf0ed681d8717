package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/testtask-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Session lifecycle errors
	ErrSessionLoading    = errors.New("session is still loading tasks")
	ErrSessionFailed     = errors.New("session failed to load tasks")
	ErrSessionIncomplete = errors.New("session is not complete")

	// Task lookup errors
	ErrTaskNotFound     = errors.New("task not found")
	ErrQuestionNotFound = errors.New("question not found in task")
	ErrAnswerOutOfRange = errors.New("answer index out of range")

	// Source errors
	ErrSourceUnavailable = errors.New("task source unavailable")
	ErrSourceNoSheets    = errors.New("task workbook has no sheets")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// SourceStatusError reports a non-success HTTP status from the task source.
type SourceStatusError struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
}

func (e *SourceStatusError) Error() string {
	return fmt.Sprintf("task source %s returned HTTP %d", e.URL, e.StatusCode)
}

func (e *SourceStatusError) Unwrap() error {
	return ErrSourceUnavailable
}

// ===== ERROR HELPERS =====

// newAnswerRangeError reports an answer index outside the question's answers.
// It matches both ErrAnswerOutOfRange and ValidationErrors.
func newAnswerRangeError(answerCount, answerIndex int) error {
	message := fmt.Sprintf("must be less than %d", answerCount)
	return fmt.Errorf("%w: %w", ErrAnswerOutOfRange, ValidationErrors{
		*apperrors.NewValidationErrorWithRule("answer_index", message, "lt", answerIndex),
	})
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrQuestionNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrAnswerOutOfRange) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsNotReady checks if the session cannot serve the operation in its current state
func IsNotReady(err error) bool {
	return errors.Is(err, ErrSessionLoading) ||
		errors.Is(err, ErrSessionFailed) ||
		errors.Is(err, ErrSessionIncomplete)
}
