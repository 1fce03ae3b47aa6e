package discord

import (
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	MaxDiscordMessageLen = 2000
	SafeChunkLen         = 1900
)

// SplitMessage breaks text into chunks that fit in one Discord message,
// preferring line boundaries.
func SplitMessage(text string) []string {
	if utf8.RuneCountInString(text) <= MaxDiscordMessageLen {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for utf8.RuneCountInString(line) > SafeChunkLen {
			flush()
			head, rest := splitRunes(line, SafeChunkLen)
			chunks = append(chunks, head)
			line = rest
		}
		n := utf8.RuneCountInString(line)
		if currentLen+n > SafeChunkLen {
			flush()
		}
		current.WriteString(line)
		currentLen += n
	}
	flush()
	return chunks
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

// DeferEphemeral acknowledges an interaction with a hidden "thinking" state.
func DeferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

// Defer acknowledges an interaction publicly.
func Defer(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// RespondEphemeral answers an interaction immediately with a hidden message.
func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// EditResponse replaces the deferred response. Content beyond one message
// is sent as follow-ups with the same visibility.
func EditResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	chunks := SplitMessage(content)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &chunks[0]}); err != nil {
		return err
	}
	for _, chunk := range chunks[1:] {
		params := &discordgo.WebhookParams{Content: chunk}
		if ephemeral {
			params.Flags = discordgo.MessageFlagsEphemeral
		}
		if _, err := s.FollowupMessageCreate(i.Interaction, true, params); err != nil {
			return err
		}
	}
	return nil
}

// InteractionUser returns the invoking user for guild and DM interactions.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
