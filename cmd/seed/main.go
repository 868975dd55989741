package main

import (
	"context"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/seed"
)

func main() {
	log := logger.New(logger.Options{ServiceName: "storefront-seed"})
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

	if err := seed.Apply(ctx, productrepo.NewPostgres(pool, log)); err != nil {
		log.Fatal("seed apply", err)
	}

	log.Info(ctx, "seed applied", "products", len(seed.DemoProducts()))
}
