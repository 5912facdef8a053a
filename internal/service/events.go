package service

import "context"

// Realtime event types emitted when content changes. Subscribers use them to
// invalidate their local copies; payloads carry identifiers, never content.
const (
	EventPostUpdated    = "post.updated"
	EventCommentUpdated = "comment.updated"
	EventVoteChanged    = "vote.changed"
)

// EventPublisher broadcasts content-change events to realtime subscribers.
// Implementations must not block the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any)
}

// publish is a nil-safe helper so services can run without a publisher wired.
func publish(ctx context.Context, p EventPublisher, event string, payload any) {
	if p != nil {
		p.Publish(ctx, event, payload)
	}
}
