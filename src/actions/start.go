package actions

import (
	"context"
	"fmt"
	"log"

	gameservermodule "github.com/etbot-dev/etbot/src/actions/gameserver"
	memesmodule "github.com/etbot-dev/etbot/src/actions/memes"
	moderationmodule "github.com/etbot-dev/etbot/src/actions/moderation"
	senatemodule "github.com/etbot-dev/etbot/src/actions/senate"
	"github.com/etbot-dev/etbot/src/api"
	sharedconfig "github.com/etbot-dev/etbot/src/config"
	shareddata "github.com/etbot-dev/etbot/src/data"
	"github.com/etbot-dev/etbot/src/senate"
	"gorm.io/gorm"
)

// StartAll wires up enabled action modules on one shared session and starts
// the manager.
func StartAll(ctx context.Context, db *gorm.DB) (*Manager, error) {
	mgr := NewManager()

	base := sharedconfig.LoadBase(db)
	session, err := NewSession(base.Token)
	if err != nil {
		return nil, err
	}

	var events senate.EventSink
	if base.RedisURL != "" {
		rdb, err := shareddata.ConnectRedis(ctx, base.RedisURL)
		if err != nil {
			log.Printf("actions: redis unavailable, senate events will not be published: %v", err)
		} else {
			events = &shareddata.StreamSink{Client: rdb, Stream: shareddata.SenateEventStream}
			if err := mgr.Add(&closer{name: "redis", close: rdb.Close}); err != nil {
				return nil, err
			}
		}
	}

	var senateMod *senatemodule.Module
	senateCfg := sharedconfig.LoadSenateConfig(db)
	if senateCfg.Enabled {
		mod, err := senatemodule.NewModule(ctx, &senateCfg, db, session, events)
		if err != nil {
			return nil, fmt.Errorf("actions: init senate module: %w", err)
		}
		senateMod = mod
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add senate module: %w", err)
		}
	} else {
		log.Printf("actions: senate module disabled via configuration")
	}

	memeCfg := sharedconfig.LoadMemeConfig(db)
	if memeCfg.Enabled {
		if err := mgr.Add(memesmodule.NewModule(&memeCfg, session)); err != nil {
			return nil, fmt.Errorf("actions: add memes module: %w", err)
		}
	} else {
		log.Printf("actions: memes module disabled via configuration")
	}

	moderationCfg := sharedconfig.LoadModerationConfig(db)
	if moderationCfg.Enabled {
		if err := mgr.Add(moderationmodule.NewModule(&moderationCfg, db, session)); err != nil {
			return nil, fmt.Errorf("actions: add moderation module: %w", err)
		}
	} else {
		log.Printf("actions: moderation module disabled via configuration")
	}

	gameCfg := sharedconfig.LoadGameServerConfig(db)
	if gameCfg.Enabled {
		mod, err := gameservermodule.NewModule(&gameCfg, session)
		if err != nil {
			return nil, fmt.Errorf("actions: init gameserver module: %w", err)
		}
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add gameserver module: %w", err)
		}
	} else {
		log.Printf("actions: gameserver module disabled via configuration")
	}

	apiCfg := sharedconfig.LoadAPIConfig(db)
	switch {
	case !apiCfg.Enabled:
		log.Printf("actions: api module disabled via configuration")
	case senateMod == nil:
		log.Printf("actions: api module needs the senate module, skipping")
	default:
		mod, err := api.NewModule(&apiCfg, senateMod.Controller())
		if err != nil {
			return nil, fmt.Errorf("actions: init api module: %w", err)
		}
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add api module: %w", err)
		}
	}

	if err := mgr.Add(&gateway{session: session}); err != nil {
		return nil, fmt.Errorf("actions: add gateway: %w", err)
	}

	if err := mgr.Start(ctx); err != nil {
		return nil, err
	}

	return mgr, nil
}
