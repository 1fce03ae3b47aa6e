package moderation

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bwmarrin/discordgo"
	shareddiscord "github.com/etbot-dev/etbot/src/discord"
	"github.com/etbot-dev/etbot/src/logging"
)

// HandlePurge deletes the newest messages of the channel after saving a
// transcript to the bot log.
func (h *Handler) HandlePurge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	amount, ok := h.amount(s, i, true, 100)
	if !ok {
		return
	}
	h.purgeWith(s, i, func() ([]transcriptSection, error) {
		msgs, err := scanBefore(s, i.ChannelID, "", amount, nil)
		return []transcriptSection{{ChannelID: i.ChannelID, Messages: msgs}}, err
	})
}

// HandlePurgeBefore deletes amount messages older than the given message.
func (h *Handler) HandlePurgeBefore(s *discordgo.Session, i *discordgo.InteractionCreate) {
	anchor, ok := h.anchor(s, i)
	if !ok {
		return
	}
	amount, ok := h.amount(s, i, true, 1000)
	if !ok {
		return
	}
	h.purgeWith(s, i, func() ([]transcriptSection, error) {
		msgs, err := scanBefore(s, i.ChannelID, anchor, amount, nil)
		return []transcriptSection{{ChannelID: i.ChannelID, Messages: msgs}}, err
	})
}

// HandlePurgeAfter deletes messages newer than the given message, all of
// them when no amount is given.
func (h *Handler) HandlePurgeAfter(s *discordgo.Session, i *discordgo.InteractionCreate) {
	anchor, ok := h.anchor(s, i)
	if !ok {
		return
	}
	amount, ok := h.amount(s, i, false, 1000)
	if !ok {
		return
	}
	h.purgeWith(s, i, func() ([]transcriptSection, error) {
		msgs, err := scanAfter(s, i.ChannelID, anchor, amount)
		return []transcriptSection{{ChannelID: i.ChannelID, Messages: msgs}}, err
	})
}

// HandlePurgeUserChannel deletes one user's messages in this channel.
func (h *Handler) HandlePurgeUserChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target, ok := h.target(s, i)
	if !ok {
		return
	}
	amount, ok := h.amount(s, i, false, 1000)
	if !ok {
		return
	}
	h.purgeWith(s, i, func() ([]transcriptSection, error) {
		msgs, err := scanBefore(s, i.ChannelID, "", amount, byAuthor(target.ID))
		return []transcriptSection{{ChannelID: i.ChannelID, Messages: msgs}}, err
	})
}

// HandlePurgeUserAll deletes one user's messages in every text channel.
// It reads each channel's full history.
func (h *Handler) HandlePurgeUserAll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target, ok := h.target(s, i)
	if !ok {
		return
	}
	h.purgeWith(s, i, func() ([]transcriptSection, error) {
		return userMessages(s, i.GuildID, target.ID)
	})
}

// HandleSave exports every message a user wrote in the guild to a
// transcript without deleting anything.
func (h *Handler) HandleSave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	moderator := shareddiscord.InteractionUser(i)
	target, ok := h.target(s, i)
	if !ok || moderator == nil {
		return
	}
	if err := shareddiscord.DeferEphemeral(s, i); err != nil {
		log.Printf("moderation: failed to acknowledge interaction: %v", err)
		return
	}

	now := h.Now()
	sections, err := userMessages(s, i.GuildID, target.ID)
	if err != nil {
		log.Printf("moderation: save: %v", err)
		h.finish(s, i, "Could not read the channel history.", true)
		return
	}
	heading := fmt.Sprintf("%s's messages as of %s", target.Username, transcriptHeading(now))
	path, err := saveSections(h.Config.TranscriptDir, heading, sections)
	if err != nil {
		log.Printf("moderation: %v", err)
		h.finish(s, i, "Could not write the transcript.", true)
		return
	}

	count := sectionCount(sections)
	logging.Action("moderation", moderator.ID, "saved %d messages of %s", count, target.ID)
	h.finish(s, i, fmt.Sprintf("Saved %d messages.", count), true)
	h.uploadTranscript(s, fmt.Sprintf("Saved %d messages from <@%s>.", count, target.ID), path)
}

// purgeWith collects messages, writes the transcript and only then deletes.
func (h *Handler) purgeWith(s *discordgo.Session, i *discordgo.InteractionCreate, collect func() ([]transcriptSection, error)) {
	moderator := shareddiscord.InteractionUser(i)
	if moderator == nil {
		return
	}
	if err := shareddiscord.DeferEphemeral(s, i); err != nil {
		log.Printf("moderation: failed to acknowledge interaction: %v", err)
		return
	}

	sections, err := collect()
	if err != nil {
		log.Printf("moderation: purge: %v", err)
		h.finish(s, i, "Could not read the channel history.", true)
		return
	}
	if sectionCount(sections) == 0 {
		h.finish(s, i, "Nothing to purge.", true)
		return
	}

	now := h.Now()
	path, err := saveSections(h.Config.TranscriptDir, transcriptHeading(now), sections)
	if err != nil {
		log.Printf("moderation: %v", err)
		h.finish(s, i, "Could not write the transcript; nothing was deleted.", true)
		return
	}

	deleted := 0
	for _, sec := range sections {
		deleted += deleteMessages(s, sec.ChannelID, sec.Messages, now)
	}
	scope := "<#" + i.ChannelID + ">"
	if len(sections) > 1 {
		scope = guildName(s, i.GuildID)
	}
	logging.Action("moderation", moderator.ID, "purged %d messages from %s", deleted, scope)
	h.finish(s, i, fmt.Sprintf("Purged %d messages.", deleted), true)
	h.uploadTranscript(s, fmt.Sprintf("Purged %d messages from %s.", deleted, scope), path)
}

// userMessages collects userID's messages from every text channel of the
// guild, one section per channel that has any.
func userMessages(s *discordgo.Session, guildID, userID string) ([]transcriptSection, error) {
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("moderation: list channels: %w", err)
	}
	var sections []transcriptSection
	for _, ch := range textChannels(channels) {
		msgs, err := scanBefore(s, ch.ID, "", 0, byAuthor(userID))
		if err != nil {
			// Channels the bot cannot read are skipped.
			log.Printf("moderation: %v", err)
			continue
		}
		if len(msgs) > 0 {
			sections = append(sections, transcriptSection{ChannelID: ch.ID, Channel: ch.Name, Messages: msgs})
		}
	}
	return sections, nil
}

// amount reads the optional or required amount option. Zero means no
// limit when the option is optional.
func (h *Handler) amount(s *discordgo.Session, i *discordgo.InteractionCreate, required bool, limit int) (int, bool) {
	opt, ok := optionMap(i)["amount"]
	if !ok {
		if required {
			shareddiscord.RespondEphemeral(s, i, "An amount is required.")
			return 0, false
		}
		return 0, true
	}
	amount := int(opt.IntValue())
	if amount < 1 || amount > limit {
		shareddiscord.RespondEphemeral(s, i, fmt.Sprintf("Amount must be between 1 and %d.", limit))
		return 0, false
	}
	return amount, true
}

func (h *Handler) anchor(s *discordgo.Session, i *discordgo.InteractionCreate) (string, bool) {
	opt, ok := optionMap(i)["message_id"]
	if !ok {
		shareddiscord.RespondEphemeral(s, i, "A message ID is required.")
		return "", false
	}
	id := opt.StringValue()
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		shareddiscord.RespondEphemeral(s, i, "Invalid message ID.")
		return "", false
	}
	return id, true
}

func (h *Handler) target(s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.User, bool) {
	opt, ok := optionMap(i)["user"]
	if !ok {
		shareddiscord.RespondEphemeral(s, i, "A user is required.")
		return nil, false
	}
	user := opt.UserValue(s)
	if user == nil {
		shareddiscord.RespondEphemeral(s, i, "User not found.")
		return nil, false
	}
	return user, true
}

func (h *Handler) uploadTranscript(s *discordgo.Session, content, path string) {
	if h.Config.BotLogChannelID == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		log.Printf("moderation: reopen transcript: %v", err)
		return
	}
	defer f.Close()

	_, err = s.ChannelMessageSendComplex(h.Config.BotLogChannelID, &discordgo.MessageSend{
		Content: content,
		Files: []*discordgo.File{{
			Name:        filepath.Base(path),
			ContentType: "text/plain",
			Reader:      f,
		}},
	})
	if err != nil {
		log.Printf("moderation: failed to upload transcript: %v", err)
	}
}
