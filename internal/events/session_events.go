package events

import (
	"time"

	"github.com/SAP-F-2025/testtask-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the kinds of session events
type EventType string

const (
	EventSessionLoaded    EventType = "session.loaded"
	EventSessionFailed    EventType = "session.failed"
	EventSessionCompleted EventType = "session.completed"
)

const (
	eventSource  = "testtask-service"
	eventVersion = "1.0"
)

// SessionEvent is the envelope of every published session event
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	SessionID string                 `json:"session_id"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionLoadedEvent struct {
	TaskCount int    `json:"task_count"`
	Source    string `json:"source"`
	FromCache bool   `json:"from_cache"`
}

type SessionFailedEvent struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

func newSessionEvent(eventType EventType, sessionID string, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		SessionID: sessionID,
		Data:      data,
	}
}

func NewSessionLoadedEvent(sessionID string, data SessionLoadedEvent) *SessionEvent {
	return newSessionEvent(EventSessionLoaded, sessionID, data)
}

func NewSessionFailedEvent(sessionID string, data SessionFailedEvent) *SessionEvent {
	return newSessionEvent(EventSessionFailed, sessionID, data)
}

func NewSessionCompletedEvent(summary models.SessionSummary) *SessionEvent {
	return newSessionEvent(EventSessionCompleted, summary.SessionID, summary)
}
