package memes

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/actions/core"
	sharedconfig "github.com/etbot-dev/etbot/src/config"
	shareddiscord "github.com/etbot-dev/etbot/src/discord"
	"github.com/etbot-dev/etbot/src/logging"
)

var _ core.Module = (*Module)(nil)

// Module adds voting reactions to memes and clears chatter out of
// screenshot-only channels.
type Module struct {
	config  *sharedconfig.MemeConfig
	session *discordgo.Session
	handler *Handler
	noise   *noiseSweeper
	memes   map[string]bool
	noisy   map[string]bool
}

func NewModule(cfg *sharedconfig.MemeConfig, session *discordgo.Session) *Module {
	module := &Module{
		config:  cfg,
		session: session,
		handler: &Handler{},
		memes:   toSet(cfg.MemeChannelIDs),
		noisy:   toSet(cfg.NoiseChannelIDs),
	}
	module.noise = newNoiseSweeper(cfg.NoiseDelay, func(channelID, messageID string) error {
		return session.ChannelMessageDelete(channelID, messageID)
	})
	module.initHandlers()
	return module
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Name implements actions.Module.
func (b *Module) Name() string { return "memes" }

func (b *Module) initHandlers() {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteractionCreate)
	b.session.AddHandler(b.onMessageCreate)
}

func (b *Module) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := shareddiscord.RegisterSlashCommands(s, b.config.Base.GuildID, shareddiscord.MemeCommands...); err != nil {
		log.Printf("memes: failed to register slash commands: %v", err)
	}
}

func (b *Module) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	switch i.ApplicationCommandData().Name {
	case shareddiscord.CommandMeme, shareddiscord.CommandVote:
		b.handler.HandleSlash(s, i)
	}
}

func (b *Module) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if b.memes[m.ChannelID] && hasEmbedOrAttachment(m.Message) {
		if err := react(s, m.ChannelID, m.ID, MemeReactions); err != nil {
			log.Printf("memes: failed to react to %s: %v", m.ID, err)
		}
	}
	if b.noisy[m.ChannelID] && !hasEmbedOrAttachment(m.Message) {
		b.noise.schedule(m.ChannelID, m.ID)
	}
}

func (b *Module) Start(ctx context.Context) error {
	return nil
}

// Stop drops pending deletions; those messages stay.
func (b *Module) Stop(ctx context.Context) {
	if n := b.noise.stop(); n > 0 {
		log.Printf("memes: cancelled %d pending noise deletions", n)
	}
}

// Handler serves /meme and /vote.
type Handler struct{}

func (h *Handler) HandleSlash(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	messageID := ""
	for _, opt := range data.Options {
		if opt.Name == "message_id" {
			messageID = opt.StringValue()
		}
	}
	if !validSnowflake(messageID) {
		shareddiscord.RespondEphemeral(s, i, "That is not a valid message ID.")
		return
	}

	if err := shareddiscord.DeferEphemeral(s, i); err != nil {
		log.Printf("memes: failed to acknowledge interaction: %v", err)
		return
	}

	emojis := MemeReactions
	if data.Name == shareddiscord.CommandVote {
		emojis = VoteReactions
	}

	reply := "Reactions added."
	if _, err := s.ChannelMessage(i.ChannelID, messageID); err != nil {
		reply = "Message not found in this channel."
	} else if err := react(s, i.ChannelID, messageID, emojis); err != nil {
		log.Printf("memes: failed to react to %s: %v", messageID, err)
		reply = "Failed to add reactions."
		if logging.IsRateLimit(err) {
			reply = "Rate limited by Discord. Please try again in a moment."
		}
	}
	if user := shareddiscord.InteractionUser(i); user != nil && reply == "Reactions added." {
		logging.Action("memes", user.ID, "/%s %s", data.Name, messageID)
	}
	if err := shareddiscord.EditResponse(s, i, reply, true); err != nil {
		log.Printf("memes: failed to send response: %v", err)
	}
}

func react(s *discordgo.Session, channelID, messageID string, emojis []string) error {
	for _, emoji := range emojis {
		if err := s.MessageReactionAdd(channelID, messageID, emoji); err != nil {
			return err
		}
	}
	return nil
}
