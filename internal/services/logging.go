package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for quiz operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// LogOperation records one user intent. Successful intents are debug-level
// noise; refused ones are warnings and unexpected failures are errors.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, sessionID string, taskID int, duration time.Duration, err error) {
	level := slog.LevelDebug
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		case IsNotReady(err):
			level = slog.LevelWarn
			status = "not_ready"
		}
	}

	if level == slog.LevelDebug && !l.config.EnableDebug {
		return
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if taskID > 0 {
		attrs = append(attrs, slog.Int("task_id", taskID))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// LogTaskTiming records the accumulated time of a task when the user leaves it.
func (l *ServiceLogger) LogTaskTiming(ctx context.Context, sessionID string, taskID int, accumulated time.Duration) {
	if !l.config.EnableDebug {
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelDebug, "Task time booked",
		slog.String("session_id", sessionID),
		slog.Int("task_id", taskID),
		slog.Duration("accumulated", accumulated),
		slog.String("formatted", FormatDuration(accumulated)),
	)
}
