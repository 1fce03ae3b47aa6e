package actions

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/actions/core"
)

type (
	// Manager re-exports the core.Manager for consumers outside the actions package.
	Manager = core.Manager
	// Module re-exports the core.Module interface.
	Module = core.Module
)

// NewManager is a helper that forwards to core.NewManager.
func NewManager(mods ...Module) *Manager {
	return core.NewManager(mods...)
}

// NewSession creates the bot session shared by every module.
func NewSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("actions: discord token is not configured")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent
	session.StateEnabled = true
	return session, nil
}

// gateway opens the shared session. It is registered last so every module
// has added its handlers before events start flowing, and it is stopped
// first.
type gateway struct {
	session *discordgo.Session
}

var _ core.Module = (*gateway)(nil)

func (g *gateway) Name() string { return "gateway" }

func (g *gateway) Start(ctx context.Context) error {
	g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("actions: logged in as %s", s.State.User.String())
	})
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (g *gateway) Stop(ctx context.Context) {
	if err := g.session.Close(); err != nil {
		log.Printf("actions: closing Discord connection: %v", err)
	}
}

// closer releases a shared client when the manager stops.
type closer struct {
	name  string
	close func() error
}

func (c *closer) Name() string { return c.name }

func (c *closer) Start(ctx context.Context) error { return nil }

func (c *closer) Stop(ctx context.Context) {
	if err := c.close(); err != nil {
		log.Printf("actions: closing %s: %v", c.name, err)
	}
}
