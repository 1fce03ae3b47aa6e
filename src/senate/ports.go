package senate

import (
	"context"
	"time"
)

// HistoryReader pages through a channel newest-first. before is the ID of
// the oldest message of the previous page, or empty for the latest page.
type HistoryReader interface {
	FetchPage(ctx context.Context, channelID string, limit int, before string) ([]Message, error)
}

// Publisher posts and edits messages.
type Publisher interface {
	Send(ctx context.Context, channelID, text string) (MessageRef, error)
	Reply(ctx context.Context, to MessageRef, text string) (MessageRef, error)
	Edit(ctx context.Context, msg MessageRef, text string) error
}

// Reactor manages the bot's reactions.
type Reactor interface {
	AddReaction(ctx context.Context, msg MessageRef, emoji string) error
	RemoveOwnReaction(ctx context.Context, msg MessageRef, emoji string) error
}

// Event describes a completed senate action for external consumers.
type Event struct {
	Type    string
	Bill    int
	ActorID string
	Status  Status
	Votes   string
	At      time.Time
}

// EventSink receives events. Publishing is best effort.
type EventSink interface {
	Publish(ctx context.Context, ev Event) error
}
