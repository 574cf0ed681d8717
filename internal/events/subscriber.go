package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// SessionEventHandler is called for every session event received from a topic.
type SessionEventHandler func(ctx context.Context, event SessionEvent) error

// ConsumeSessionEvents subscribes to topic and hands each decoded event to
// handler until ctx is cancelled or the subscriber is closed. Malformed
// messages are acked and dropped; handler errors nack the message.
func ConsumeSessionEvents(ctx context.Context, subscriber message.Subscriber, topic string, logger *slog.Logger, handler SessionEventHandler) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			var event SessionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logger.Warn("Dropping malformed session event",
					"message_uuid", msg.UUID,
					"error", err)
				msg.Ack()
				continue
			}

			if err := handler(msg.Context(), event); err != nil {
				logger.Error("Session event handler failed",
					"event_id", event.ID,
					"event_type", event.Type,
					"error", err)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

// LogSessionEvents is a SessionEventHandler that writes each event to the log.
func LogSessionEvents(logger *slog.Logger) SessionEventHandler {
	return func(ctx context.Context, event SessionEvent) error {
		logger.InfoContext(ctx, "Session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"session_id", event.SessionID,
			"timestamp", event.Timestamp)
		return nil
	}
}
