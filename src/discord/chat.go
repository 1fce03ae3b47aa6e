package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/senate"
)

// Chat adapts a discordgo session to the senate collaborator interfaces.
type Chat struct {
	Session *discordgo.Session
}

var (
	_ senate.HistoryReader = (*Chat)(nil)
	_ senate.Publisher     = (*Chat)(nil)
	_ senate.Reactor       = (*Chat)(nil)
)

// NewChat wraps s.
func NewChat(s *discordgo.Session) *Chat {
	return &Chat{Session: s}
}

// FetchPage returns up to limit messages older than before, newest first.
func (c *Chat) FetchPage(ctx context.Context, channelID string, limit int, before string) ([]senate.Message, error) {
	msgs, err := c.Session.ChannelMessages(channelID, limit, before, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]senate.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ConvertMessage(m))
	}
	return out, nil
}

func (c *Chat) Send(ctx context.Context, channelID, text string) (senate.MessageRef, error) {
	msg, err := c.Session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return senate.MessageRef{}, err
	}
	return senate.MessageRef{ChannelID: msg.ChannelID, ID: msg.ID}, nil
}

func (c *Chat) Reply(ctx context.Context, to senate.MessageRef, text string) (senate.MessageRef, error) {
	ref := &discordgo.MessageReference{MessageID: to.ID, ChannelID: to.ChannelID}
	msg, err := c.Session.ChannelMessageSendReply(to.ChannelID, text, ref, discordgo.WithContext(ctx))
	if err != nil {
		return senate.MessageRef{}, err
	}
	return senate.MessageRef{ChannelID: msg.ChannelID, ID: msg.ID}, nil
}

func (c *Chat) Edit(ctx context.Context, msg senate.MessageRef, text string) error {
	_, err := c.Session.ChannelMessageEdit(msg.ChannelID, msg.ID, text, discordgo.WithContext(ctx))
	return err
}

func (c *Chat) AddReaction(ctx context.Context, msg senate.MessageRef, emoji string) error {
	return c.Session.MessageReactionAdd(msg.ChannelID, msg.ID, emoji, discordgo.WithContext(ctx))
}

func (c *Chat) RemoveOwnReaction(ctx context.Context, msg senate.MessageRef, emoji string) error {
	return c.Session.MessageReactionRemove(msg.ChannelID, msg.ID, emoji, "@me", discordgo.WithContext(ctx))
}

// ConvertMessage copies the fields the senate engine reads out of a
// discordgo message.
func ConvertMessage(m *discordgo.Message) senate.Message {
	out := senate.Message{
		ID:           m.ID,
		ChannelID:    m.ChannelID,
		Content:      m.Content,
		MentionRoles: m.MentionRoles,
		Timestamp:    m.Timestamp,
	}
	if m.Author != nil {
		out.AuthorID = m.Author.ID
	}
	for _, r := range m.Reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		name := r.Emoji.Name
		if r.Emoji.ID != "" {
			name = r.Emoji.APIName()
		}
		out.Reactions = append(out.Reactions, senate.Reaction{Emoji: name, Count: r.Count, Me: r.Me})
	}
	return out
}
