package moderation

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/actions/moderation/data"
	sharedconfig "github.com/etbot-dev/etbot/src/config"
	shareddiscord "github.com/etbot-dev/etbot/src/discord"
	"github.com/etbot-dev/etbot/src/logging"
	"gorm.io/gorm"
)

// Handler executes the moderation slash commands.
type Handler struct {
	Config *sharedconfig.ModerationConfig
	DB     *gorm.DB
	Now    func() time.Time
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, opt := range i.ApplicationCommandData().Options {
		opts[opt.Name] = opt
	}
	return opts
}

func (h *Handler) finish(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	if err := shareddiscord.EditResponse(s, i, content, ephemeral); err != nil {
		log.Printf("moderation: failed to send response: %v", err)
	}
}

// HandleWarn records a warning, notifies the user and the moderation log.
func (h *Handler) HandleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	moderator := shareddiscord.InteractionUser(i)
	opts := optionMap(i)
	userOpt, reasonOpt := opts["user"], opts["reason"]
	if moderator == nil || userOpt == nil || reasonOpt == nil {
		shareddiscord.RespondEphemeral(s, i, "A user and a reason are required.")
		return
	}
	target := userOpt.UserValue(s)
	reason := reasonOpt.StringValue()

	if err := shareddiscord.Defer(s, i); err != nil {
		log.Printf("moderation: failed to acknowledge interaction: %v", err)
		return
	}

	w := data.NewWarning(target.ID, target.Username, reason, moderator.ID, h.Now(), h.Config.WarningTTL)
	count, err := data.AddWarning(h.DB, w)
	if err != nil {
		log.Printf("moderation: %v", err)
		h.finish(s, i, "Failed to store the warning. Please try again later.", false)
		return
	}
	logging.Action("moderation", moderator.ID, "warned %s (%s)", target.ID, w.ID)

	if dm, err := s.UserChannelCreate(target.ID); err == nil {
		text := fmt.Sprintf("You have been warned in %s for: \n%s", guildName(s, i.GuildID), reason)
		if _, err := s.ChannelMessageSend(dm.ID, text); err != nil {
			log.Printf("moderation: could not DM %s: %v", target.ID, err)
		}
	}

	h.finish(s, i, fmt.Sprintf("Warned %s.", target.Username), false)

	if h.Config.ModerationLogChannelID != "" {
		line := moderationLogLine(target.Username, reason, count, h.Config.PalatinePingAt, h.Config.Palatine)
		if _, err := s.ChannelMessageSend(h.Config.ModerationLogChannelID, line); err != nil {
			log.Printf("moderation: failed to write moderation log: %v", err)
		}
	}
}

// HandleDelWarn deletes a warning. Moderators cannot clear their own.
func (h *Handler) HandleDelWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	moderator := shareddiscord.InteractionUser(i)
	opt := optionMap(i)["warning_id"]
	if moderator == nil || opt == nil {
		shareddiscord.RespondEphemeral(s, i, "A warning ID is required.")
		return
	}
	id := opt.StringValue()

	if err := shareddiscord.Defer(s, i); err != nil {
		log.Printf("moderation: failed to acknowledge interaction: %v", err)
		return
	}

	w, err := data.GetWarning(h.DB, id, h.Now())
	switch {
	case errors.Is(err, data.ErrWarningNotFound):
		h.finish(s, i, fmt.Sprintf("Warning with ID %q not found.", id), false)
		return
	case err != nil:
		log.Printf("moderation: %v", err)
		h.finish(s, i, "Failed to load the warning. Please try again later.", false)
		return
	}
	if !mayDelete(w, moderator.ID) {
		h.finish(s, i, "You cannot delete your own warning.", false)
		return
	}
	if err := data.DeleteWarning(h.DB, w.ID); err != nil {
		log.Printf("moderation: delete warning %s: %v", w.ID, err)
		h.finish(s, i, "Failed to delete the warning. Please try again later.", false)
		return
	}
	logging.Action("moderation", moderator.ID, "deleted warning %s", w.ID)
	h.finish(s, i, "Warning deleted.", false)
}

func mayDelete(w *data.Warning, moderatorID string) bool {
	return w.UserID != moderatorID
}

// HandleWarnings lists warnings for a user (/warnings) or the invoker
// (/mywarnings, hidden from the channel).
func (h *Handler) HandleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	invoker := shareddiscord.InteractionUser(i)
	if invoker == nil {
		return
	}
	target := invoker
	own := i.ApplicationCommandData().Name == shareddiscord.CommandMyWarnings
	if !own {
		opt := optionMap(i)["user"]
		if opt == nil {
			shareddiscord.RespondEphemeral(s, i, "A user is required.")
			return
		}
		target = opt.UserValue(s)
	}

	var err error
	if own {
		err = shareddiscord.DeferEphemeral(s, i)
	} else {
		err = shareddiscord.Defer(s, i)
	}
	if err != nil {
		log.Printf("moderation: failed to acknowledge interaction: %v", err)
		return
	}

	warnings, err := data.WarningsForUser(h.DB, target.ID, h.Now())
	if err != nil {
		log.Printf("moderation: %v", err)
		h.finish(s, i, "Failed to load warnings. Please try again later.", own)
		return
	}
	h.finish(s, i, formatWarningList(target.Username, warnings), own)
}

// HandleAllWarnings lists every active warning in the guild.
func (h *Handler) HandleAllWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := shareddiscord.Defer(s, i); err != nil {
		log.Printf("moderation: failed to acknowledge interaction: %v", err)
		return
	}
	warnings, err := data.AllWarnings(h.DB, h.Now())
	if err != nil {
		log.Printf("moderation: %v", err)
		h.finish(s, i, "Failed to load warnings. Please try again later.", false)
		return
	}
	h.finish(s, i, formatAllWarnings(warnings), false)
}

func guildName(s *discordgo.Session, guildID string) string {
	if s.State != nil {
		if g, err := s.State.Guild(guildID); err == nil && g.Name != "" {
			return g.Name
		}
	}
	return "the server"
}
