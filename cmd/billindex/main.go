package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	shareddata "github.com/etbot-dev/etbot/src/data"
)

var (
	dsnFlag     = flag.String("dsn", "", "MySQL DSN (defaults to MYSQL_DSN)")
	setFlag     = flag.Int("set", -1, "Overwrite the persisted bill index (-1 only prints it)")
	timeoutFlag = flag.Duration("timeout", 10*time.Second, "Database timeout")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	dsn := *dsnFlag
	if dsn == "" {
		var err error
		if dsn, err = shareddata.GetMySQLDSN(); err != nil {
			log.Fatal(err)
		}
	}
	db, err := shareddata.ConnectMySQL(dsn)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := db.AutoMigrate(&shareddata.Setting{}); err != nil {
		log.Fatalf("db: migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	store := shareddata.IndexStore{DB: db}
	current, err := store.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	if *setFlag < 0 {
		fmt.Println(current)
		return
	}
	if err := store.SaveIndex(ctx, *setFlag); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("bill index %d -> %d\n", current, *setFlag)
	log.Printf("a running bot writes its own index back on shutdown; use /index there instead")
}
