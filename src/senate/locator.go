package senate

import (
	"context"
	"fmt"
)

// DefaultPageSize is the number of messages requested per history page.
const DefaultPageSize = 100

// Locator resolves a bill number to the message that carries it by walking
// the voting channel from the newest message backwards.
type Locator struct {
	History       HistoryReader
	ChannelID     string
	SenatorRoleID string
	// PosterID, when set, limits matches to messages written by that
	// account. Bills are posted by the bot itself, so this trusts the bot's
	// own messages instead of skipping them, and hand-typed look-alikes are
	// ignored.
	PosterID string
	PageSize int
}

func (l *Locator) pageSize() int {
	if l.PageSize <= 0 {
		return DefaultPageSize
	}
	return l.PageSize
}

// Find returns the newest message in the voting channel carrying number.
// The cost grows with the number of messages posted since that bill.
func (l *Locator) Find(ctx context.Context, number int) (*Message, error) {
	size := l.pageSize()
	before := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := l.History.FetchPage(ctx, l.ChannelID, size, before)
		if err != nil {
			return nil, fmt.Errorf("senate: fetch history: %w", err)
		}
		for i := range page {
			if l.matches(&page[i], number) {
				msg := page[i]
				return &msg, nil
			}
		}
		if len(page) < size {
			return nil, ErrNotFound
		}
		before = page[len(page)-1].ID
	}
}

func (l *Locator) matches(msg *Message, number int) bool {
	if l.PosterID != "" && msg.AuthorID != l.PosterID {
		return false
	}
	if !msg.MentionsRole(l.SenatorRoleID) {
		return false
	}
	n, ok := leadingNumber(msg.Content)
	if !ok || n != number {
		return false
	}
	// Announcements ("Bill 4 is void.") share the number token and may ping
	// the senator role through a comment; only a full envelope is a bill.
	env, err := DecodeEnvelope(msg.Content)
	return err == nil && env.Index == number
}
