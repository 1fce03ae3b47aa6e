package senate

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/actions/core"
	sharedconfig "github.com/etbot-dev/etbot/src/config"
	shareddata "github.com/etbot-dev/etbot/src/data"
	shareddiscord "github.com/etbot-dev/etbot/src/discord"
	"github.com/etbot-dev/etbot/src/senate"
	"gorm.io/gorm"
)

var _ core.Module = (*Module)(nil)

// Module serves the bill slash commands.
type Module struct {
	config     *sharedconfig.SenateConfig
	session    *discordgo.Session
	controller *senate.Controller
	handler    *Handler
	commands   map[string]bool
}

// NewModule loads the persisted bill index and wires the controller to the
// shared session. events may be nil.
func NewModule(ctx context.Context, cfg *sharedconfig.SenateConfig, db *gorm.DB, session *discordgo.Session, events senate.EventSink) (*Module, error) {
	if cfg.VotingChannelID == "" {
		return nil, fmt.Errorf("senate: voting channel is not configured")
	}
	if cfg.Senator == "" {
		return nil, fmt.Errorf("senate: senator role is not configured")
	}

	var persister senate.Persister
	initial := 0
	if db != nil {
		store := shareddata.IndexStore{DB: db}
		n, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		initial = n
		persister = store
	}
	log.Printf("senate: bill index starts at %d", initial)

	chat := shareddiscord.NewChat(session)
	controller := &senate.Controller{
		Counter: senate.NewCounter(initial, persister),
		Formatter: senate.Formatter{
			SenatorRoleID: cfg.Senator,
			TribuneRoleID: cfg.Tribune,
		},
		Locator: &senate.Locator{
			History:       chat,
			ChannelID:     cfg.VotingChannelID,
			SenatorRoleID: cfg.Senator,
			PageSize:      cfg.PageSize,
		},
		Publisher: chat,
		Reactor:   chat,
		Channels: senate.Channels{
			Voting:  cfg.VotingChannelID,
			Senate:  cfg.SenateChannelID,
			Archive: cfg.PassedBillsChannelID,
			Log:     cfg.BotLogChannelID,
		},
		Events: events,
	}

	module := &Module{
		config:     cfg,
		session:    session,
		controller: controller,
		handler:    &Handler{Config: cfg, Controller: controller},
		commands:   make(map[string]bool),
	}
	for _, name := range shareddiscord.SenateCommands {
		module.commands[name] = true
	}

	module.initHandlers()
	return module, nil
}

// Name implements actions.Module.
func (b *Module) Name() string { return "senate" }

// Controller exposes the bill lifecycle for the admin API.
func (b *Module) Controller() *senate.Controller { return b.controller }

func (b *Module) initHandlers() {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteractionCreate)
}

func (b *Module) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := shareddiscord.RegisterSlashCommands(s, b.config.Base.GuildID, shareddiscord.SenateCommands...); err != nil {
		log.Printf("senate: failed to register slash commands: %v", err)
	} else {
		log.Printf("senate: slash commands registered")
	}
}

func (b *Module) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if !b.commands[i.ApplicationCommandData().Name] {
		return
	}
	b.handler.HandleSlash(s, i)
}

// Start resolves the bot's own user ID so only bot-posted bills are trusted.
// It runs before the gateway opens, so no handler sees a half-built locator.
func (b *Module) Start(ctx context.Context) error {
	me, err := b.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("senate: resolve bot user: %w", err)
	}
	b.controller.Locator.PosterID = me.ID
	return nil
}

func (b *Module) Stop(ctx context.Context) {
	if err := b.controller.Counter.Sync(ctx); err != nil {
		log.Printf("senate: failed to persist bill index on shutdown: %v", err)
	}
}
