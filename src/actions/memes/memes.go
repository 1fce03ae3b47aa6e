package memes

import (
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/logging"
	"github.com/etbot-dev/etbot/src/senate"
)

const defaultNoiseDelay = time.Hour

// MemeReactions are added to every meme: upvote, downvote, repost, and
// "heard it before".
var MemeReactions = []string{senate.EmojiYes, senate.EmojiNo, "♻️", "🦻"}

// VoteReactions turn a message into a yes/no/abstain poll.
var VoteReactions = []string{senate.EmojiYes, senate.EmojiNo, senate.EmojiAbstain}

func hasEmbedOrAttachment(m *discordgo.Message) bool {
	return m != nil && (len(m.Attachments) > 0 || len(m.Embeds) > 0)
}

func validSnowflake(id string) bool {
	if id == "" || len(id) > 20 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// noiseSweeper deletes messages after a delay.
type noiseSweeper struct {
	delay   time.Duration
	del     func(channelID, messageID string) error
	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

func newNoiseSweeper(delay time.Duration, del func(channelID, messageID string) error) *noiseSweeper {
	if delay <= 0 {
		delay = defaultNoiseDelay
	}
	return &noiseSweeper{delay: delay, del: del, pending: make(map[string]*time.Timer)}
}

func (n *noiseSweeper) schedule(channelID, messageID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return
	}
	if _, ok := n.pending[messageID]; ok {
		return
	}
	n.pending[messageID] = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		delete(n.pending, messageID)
		n.mu.Unlock()

		if err := n.del(channelID, messageID); err != nil && !logging.IsUnknownMessage(err) {
			log.Printf("memes: failed to delete noise %s: %v", messageID, err)
		}
	})
}

func (n *noiseSweeper) size() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// stop cancels all pending deletions and returns how many were dropped.
func (n *noiseSweeper) stop() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	dropped := 0
	for id, t := range n.pending {
		if t.Stop() {
			dropped++
		}
		delete(n.pending, id)
	}
	return dropped
}
