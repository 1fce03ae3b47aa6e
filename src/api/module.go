package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/etbot-dev/etbot/src/actions/core"
	sharedconfig "github.com/etbot-dev/etbot/src/config"
)

var _ core.Module = (*Module)(nil)

const shutdownTimeout = 10 * time.Second

// Module runs the admin HTTP API alongside the bot.
type Module struct {
	config  *sharedconfig.APIConfig
	limiter *RateLimiter
	server  *http.Server
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewModule(cfg *sharedconfig.APIConfig, svc SenateService) (*Module, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("api: jwt secret is not configured")
	}
	limiter := NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	return &Module{
		config:  cfg,
		limiter: limiter,
		server: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      NewRouter(cfg, svc, limiter),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

func (m *Module) Name() string { return "api" }

func (m *Module) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.limiter.Run(runCtx)

	go func() {
		defer close(m.done)
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("api: http: %v", err)
		}
	}()
	log.Printf("api: listening on %s", m.config.ListenAddr)
	return nil
}

func (m *Module) Stop(ctx context.Context) {
	if m.cancel == nil {
		return
	}
	m.cancel()

	shutCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := m.server.Shutdown(shutCtx); err != nil {
		log.Printf("api: shutdown: %v", err)
	}
	<-m.done
}
