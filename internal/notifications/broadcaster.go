package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"bulag/internal/middleware"
)

// Broadcaster turns service-layer content events into wire messages: it
// delivers to this instance's hub directly and publishes through Redis for
// every other instance. It satisfies the service layer's EventPublisher.
type Broadcaster struct {
	hub      *Hub
	notifier *Notifier
}

// NewBroadcaster returns a Broadcaster over the given hub and notifier.
// Either may be nil; delivery degrades to whatever is wired.
func NewBroadcaster(hub *Hub, notifier *Notifier) *Broadcaster {
	return &Broadcaster{hub: hub, notifier: notifier}
}

// Publish fans the event out to all subscribers. Failures are logged and
// swallowed; realtime delivery is best-effort and must never fail a mutation.
func (b *Broadcaster) Publish(ctx context.Context, event string, payload any) {
	message, err := json.Marshal(map[string]any{
		"type":    event,
		"payload": payload,
	})
	if err != nil {
		slog.Error("failed to marshal event", "event", event, "error", err)
		return
	}

	middleware.RealtimeEventsPublished.WithLabelValues(event).Inc()

	if b.hub != nil {
		b.hub.BroadcastAll(string(message))
	}
	if b.notifier != nil {
		if err := b.notifier.PublishBroadcast(ctx, string(message)); err != nil {
			slog.Error("failed to publish event", "event", event, "error", err)
		}
	}
}
