package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/etbot-dev/etbot/src/actions"
	moderationmodule "github.com/etbot-dev/etbot/src/actions/moderation"
	shareddata "github.com/etbot-dev/etbot/src/data"
)

func main() {
	// Use a single DB connection for all modules
	dsn, err := shareddata.GetMySQLDSN()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	db, err := shareddata.ConnectMySQL(dsn)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := db.AutoMigrate(shareddata.AllModels(moderationmodule.Models()...)...); err != nil {
		log.Fatalf("db: migrate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager, err := actions.StartAll(ctx, db)
	if err != nil {
		log.Fatalf("actions start: %v", err)
	}
	log.Printf("etbot: running modules %v", manager.Names())

	// Wait for termination
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	manager.Stop(ctx)
}
