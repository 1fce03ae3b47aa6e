package senate

import (
	"strings"
	"time"
)

// MessageRef addresses a single chat message.
type MessageRef struct {
	ChannelID string
	ID        string
}

// Reaction is one emoji bucket on a message. Me reports whether the bot
// itself is one of the reactors.
type Reaction struct {
	Emoji string
	Count int
	Me    bool
}

// Message is a snapshot of a chat message as returned by the history reader.
type Message struct {
	ID           string
	ChannelID    string
	AuthorID     string
	Content      string
	MentionRoles []string
	Reactions    []Reaction
	Timestamp    time.Time
}

// Ref returns the address of the message.
func (m Message) Ref() MessageRef {
	return MessageRef{ChannelID: m.ChannelID, ID: m.ID}
}

// MentionsRole reports whether roleID is among the message's role mentions.
func (m Message) MentionsRole(roleID string) bool {
	for _, id := range m.MentionRoles {
		if id == roleID {
			return true
		}
	}
	return false
}

// Actor is the user performing a senate action.
type Actor struct {
	ID      string
	Mention string
}

// Kind distinguishes the four bill variants.
type Kind int

const (
	KindOrdinary Kind = iota
	KindAmendment
	KindOption
	KindOptionAmendment
)

func (k Kind) String() string {
	switch k {
	case KindAmendment:
		return "amendment"
	case KindOption:
		return "option"
	case KindOptionAmendment:
		return "option-amendment"
	default:
		return "ordinary"
	}
}

// Bill is reconstructed from a message every time it is needed; nothing
// about it is stored outside the chat history.
type Bill struct {
	Envelope
	Status  Status
	Votes   string
	Message MessageRef
}

// sameMention compares two user mention tokens, treating the legacy
// nickname form <@!id> as equal to <@id>.
func sameMention(a, b string) bool {
	return normalizeMention(a) == normalizeMention(b)
}

func normalizeMention(m string) string {
	return strings.Replace(strings.TrimSpace(m), "<@!", "<@", 1)
}
