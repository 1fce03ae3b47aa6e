package moderation

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/logging"
)

// historyPage is the largest page Discord serves and the largest bulk delete.
const historyPage = 100

// channelStore is the part of *discordgo.Session the purge commands use.
type channelStore interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

var _ channelStore = (*discordgo.Session)(nil)

// scanBefore walks a channel newest first, starting below beforeID (empty
// for the latest message), and returns the messages keep accepts. It stops
// after limit kept messages, or at the end of the history when limit is 0.
func scanBefore(store channelStore, channelID, beforeID string, limit int, keep func(*discordgo.Message) bool) ([]*discordgo.Message, error) {
	var out []*discordgo.Message
	cursor := beforeID
	for {
		size := historyPage
		if keep == nil && limit > 0 && limit-len(out) < size {
			size = limit - len(out)
		}
		page, err := store.ChannelMessages(channelID, size, cursor, "", "")
		if err != nil {
			return out, fmt.Errorf("moderation: read history of %s: %w", channelID, err)
		}
		for _, m := range page {
			if keep != nil && !keep(m) {
				continue
			}
			out = append(out, m)
			if limit > 0 && len(out) == limit {
				return out, nil
			}
		}
		if len(page) < size {
			return out, nil
		}
		cursor = oldestID(page)
	}
}

// scanAfter walks a channel forward from afterID and returns up to limit
// messages (0 = all), oldest first.
func scanAfter(store channelStore, channelID, afterID string, limit int) ([]*discordgo.Message, error) {
	var out []*discordgo.Message
	cursor := afterID
	for {
		size := historyPage
		if limit > 0 && limit-len(out) < size {
			size = limit - len(out)
		}
		page, err := store.ChannelMessages(channelID, size, "", cursor, "")
		if err != nil {
			return out, fmt.Errorf("moderation: read history of %s: %w", channelID, err)
		}
		sort.Slice(page, func(a, b int) bool { return snowflakeLess(page[a].ID, page[b].ID) })
		out = append(out, page...)
		if len(page) < size || (limit > 0 && len(out) >= limit) {
			return out, nil
		}
		cursor = page[len(page)-1].ID
	}
}

func oldestID(msgs []*discordgo.Message) string {
	oldest := msgs[0].ID
	for _, m := range msgs[1:] {
		if snowflakeLess(m.ID, oldest) {
			oldest = m.ID
		}
	}
	return oldest
}

// snowflakeLess orders decimal snowflakes without parsing them.
func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func byAuthor(userID string) func(*discordgo.Message) bool {
	return func(m *discordgo.Message) bool {
		return m.Author != nil && m.Author.ID == userID
	}
}

// deleteMessages removes msgs from channelID, bulk deleting recent ones in
// batches and the rest one by one. It returns how many are gone.
func deleteMessages(store channelStore, channelID string, msgs []*discordgo.Message, now time.Time) int {
	bulk, single := bulkDeletable(msgs, now)
	deleted := 0
	for len(bulk) > 0 {
		n := len(bulk)
		if n > historyPage {
			n = historyPage
		}
		batch := bulk[:n]
		bulk = bulk[n:]
		if len(batch) == 1 {
			single = append(single, batch...)
			continue
		}
		if err := store.ChannelMessagesBulkDelete(channelID, batch); err != nil {
			log.Printf("moderation: bulk delete failed, falling back: %v", err)
			single = append(single, batch...)
			continue
		}
		deleted += len(batch)
	}
	for _, id := range single {
		if err := store.ChannelMessageDelete(channelID, id); err != nil && !logging.IsUnknownMessage(err) {
			log.Printf("moderation: delete %s failed: %v", id, err)
			continue
		}
		deleted++
	}
	return deleted
}

// textChannels keeps the guild channels that carry message history.
func textChannels(channels []*discordgo.Channel) []*discordgo.Channel {
	var out []*discordgo.Channel
	for _, ch := range channels {
		switch ch.Type {
		case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews, discordgo.ChannelTypeGuildVoice:
			out = append(out, ch)
		}
	}
	return out
}
