package gameserver

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/actions/core"
	sharedconfig "github.com/etbot-dev/etbot/src/config"
	shareddiscord "github.com/etbot-dev/etbot/src/discord"
	"github.com/etbot-dev/etbot/src/logging"
)

var _ core.Module = (*Module)(nil)

// StatusChecker reports the game server status; nil Status with a nil
// error is never returned.
type StatusChecker interface {
	Ping(ctx context.Context, address string) (*Status, error)
}

// PowerController performs panel power actions.
type PowerController interface {
	Configured() bool
	Execute(ctx context.Context, action PanelAction) error
}

// Module serves the /mc command.
type Module struct {
	config  *sharedconfig.GameServerConfig
	session *discordgo.Session
	status  StatusChecker
	panel   PowerController
}

func NewModule(cfg *sharedconfig.GameServerConfig, session *discordgo.Session) (*Module, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("gameserver: minecraft address is not configured")
	}
	module := &Module{
		config:  cfg,
		session: session,
		status:  Pinger{},
		panel: &PanelClient{
			BaseURL:  cfg.PanelURL,
			Email:    cfg.PanelEmail,
			Password: cfg.PanelPassword,
			OrderID:  cfg.PanelOrderID,
		},
	}
	session.AddHandler(module.onReady)
	session.AddHandler(module.onInteractionCreate)
	return module, nil
}

// Name implements actions.Module.
func (b *Module) Name() string { return "gameserver" }

func (b *Module) Start(ctx context.Context) error { return nil }

func (b *Module) Stop(ctx context.Context) {}

func (b *Module) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := shareddiscord.RegisterSlashCommands(s, b.config.Base.GuildID, shareddiscord.GameServerCommands...); err != nil {
		log.Printf("gameserver: failed to register slash commands: %v", err)
	}
}

func (b *Module) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != shareddiscord.CommandMinecraft || len(data.Options) == 0 {
		return
	}
	sub := data.Options[0].Name
	user := shareddiscord.InteractionUser(i)

	staffOnly := sub == string(ActionStop) || sub == string(ActionRestart)
	if staffOnly && !shareddiscord.MemberHasAnyRole(i.Member, b.config.Staff()...) {
		shareddiscord.RespondEphemeral(s, i, "You don't have permission to use this command.")
		return
	}

	ephemeral := sub == string(ActionStop)
	var err error
	if ephemeral {
		err = shareddiscord.DeferEphemeral(s, i)
	} else {
		err = shareddiscord.Defer(s, i)
	}
	if err != nil {
		log.Printf("gameserver: failed to acknowledge interaction: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.config.StatusTimeout+panelBudget)
	defer cancel()

	reply := b.run(ctx, s, sub)
	if user != nil && (staffOnly || sub == string(ActionStart)) {
		logging.Action("gameserver", user.ID, "/mc %s", sub)
	}
	if err := shareddiscord.EditResponse(s, i, reply, ephemeral); err != nil {
		log.Printf("gameserver: failed to send response: %v", err)
	}
}

func (b *Module) run(ctx context.Context, s *discordgo.Session, sub string) string {
	switch sub {
	case "info":
		return b.info(s)
	case "status":
		status, err := b.ping(ctx)
		return statusMessage(status, err)
	case string(ActionStart), string(ActionStop), string(ActionRestart):
		return b.power(ctx, PanelAction(sub))
	default:
		return "Unknown subcommand."
	}
}

func (b *Module) info(s *discordgo.Session) string {
	if b.config.InfoChannelID == "" || b.config.InfoMessageID == "" {
		return "No Minecraft server information has been configured."
	}
	msg, err := s.ChannelMessage(b.config.InfoChannelID, b.config.InfoMessageID)
	if err != nil {
		log.Printf("gameserver: failed to fetch info message: %v", err)
		return "The Minecraft server information could not be loaded."
	}
	return msg.Content
}

func (b *Module) ping(ctx context.Context) (*Status, error) {
	pingCtx, cancel := context.WithTimeout(ctx, b.config.StatusTimeout)
	defer cancel()
	return b.status.Ping(pingCtx, b.config.Address)
}

func (b *Module) power(ctx context.Context, action PanelAction) string {
	if !b.panel.Configured() {
		return "The hosting panel is not configured."
	}

	if action != ActionRestart {
		_, err := b.ping(ctx)
		online := err == nil
		if action == ActionStart && online {
			return "The Minecraft server is already online."
		}
		if action == ActionStop && !online {
			return "The Minecraft server is already offline."
		}
	}

	if err := b.panel.Execute(ctx, action); err != nil {
		log.Printf("gameserver: %s failed: %v", action, err)
		return fmt.Sprintf("Failed to %s Minecraft server.", action)
	}
	return powerMessages[action]
}
