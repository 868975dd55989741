package main

import (
	"context"
	"flag"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/migrate"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	log := logger.New(logger.Options{ServiceName: "storefront-migrate"})
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal("connect db", err)
	}
	defer pool.Close()

	if *down > 0 {
		if err := migrate.Rollback(ctx, pool, *down); err != nil {
			log.Fatal("roll back migrations", err)
		}
		log.Info(ctx, "migrations rolled back", "steps", *down)
		return
	}

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		log.Fatal("apply migrations", err)
	}
	log.Info(ctx, "migrations applied", "version", version)
}
