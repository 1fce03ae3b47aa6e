package moderation

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/actions/core"
	"github.com/etbot-dev/etbot/src/actions/moderation/data"
	sharedconfig "github.com/etbot-dev/etbot/src/config"
	shareddiscord "github.com/etbot-dev/etbot/src/discord"
	"gorm.io/gorm"
)

var _ core.Module = (*Module)(nil)

const expirySweepInterval = time.Hour

// Module serves purge and warning commands.
type Module struct {
	config  *sharedconfig.ModerationConfig
	db      *gorm.DB
	session *discordgo.Session
	handler *Handler
	cancel  context.CancelFunc
}

func NewModule(cfg *sharedconfig.ModerationConfig, db *gorm.DB, session *discordgo.Session) *Module {
	module := &Module{
		config:  cfg,
		db:      db,
		session: session,
		handler: &Handler{Config: cfg, DB: db, Now: time.Now},
	}
	module.initHandlers()
	return module
}

// Models lists the tables this module owns.
func Models() []any {
	return []any{&data.Warning{}}
}

// Name implements actions.Module.
func (b *Module) Name() string { return "moderation" }

func (b *Module) initHandlers() {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteractionCreate)
}

func (b *Module) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := shareddiscord.RegisterSlashCommands(s, b.config.Base.GuildID, shareddiscord.ModerationCommands...); err != nil {
		log.Printf("moderation: failed to register slash commands: %v", err)
	}
}

func (b *Module) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	switch i.ApplicationCommandData().Name {
	case shareddiscord.CommandSave:
		b.handler.HandleSave(s, i)
	case shareddiscord.CommandPurge:
		b.handler.HandlePurge(s, i)
	case shareddiscord.CommandPurgeAfter:
		b.handler.HandlePurgeAfter(s, i)
	case shareddiscord.CommandPurgeBefore:
		b.handler.HandlePurgeBefore(s, i)
	case shareddiscord.CommandPurgeUserChannel:
		b.handler.HandlePurgeUserChannel(s, i)
	case shareddiscord.CommandPurgeUserAll:
		b.handler.HandlePurgeUserAll(s, i)
	case shareddiscord.CommandWarn:
		b.handler.HandleWarn(s, i)
	case shareddiscord.CommandDelWarn:
		b.handler.HandleDelWarn(s, i)
	case shareddiscord.CommandWarnings, shareddiscord.CommandMyWarnings:
		b.handler.HandleWarnings(s, i)
	case shareddiscord.CommandAllWarnings:
		b.handler.HandleAllWarnings(s, i)
	}
}

func (b *Module) Start(ctx context.Context) error {
	runtimeCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	go b.sweepExpired(runtimeCtx)
	return nil
}

func (b *Module) Stop(ctx context.Context) {
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Module) sweepExpired(ctx context.Context) {
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()

	for {
		if n, err := data.PurgeExpired(b.db.WithContext(ctx), time.Now()); err != nil {
			log.Printf("moderation: expired warning sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("moderation: removed %d expired warnings", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
