package events

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// NewLoggerSubscriber creates an event handler that logs all events
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		var sessionID, jobID string
		if payload, ok := event.Payload.(map[string]string); ok {
			sessionID = payload["session_id"]
			jobID = payload["job_id"]
		}

		logEvent := logger.Debug().
			Str("event_type", string(event.Type))

		if sessionID != "" {
			logEvent = logEvent.Str("session_id", sessionID)
		}
		if jobID != "" {
			logEvent = logEvent.Str("job_id", jobID)
		}

		logEvent.Msg("Event published")

		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	eventTypes := []interfaces.EventType{
		interfaces.EventSessionStarted,
		interfaces.EventSessionEnded,
		interfaces.EventQuestionReceived,
		interfaces.EventAnswerCompleted,
		interfaces.EventCycleFailed,
		interfaces.EventIngestionTriggered,
	}

	for _, eventType := range eventTypes {
		if err := eventService.Subscribe(eventType, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe logger to event type %s: %w", eventType, err)
		}
	}

	return nil
}
