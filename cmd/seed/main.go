package main

import (
	"context"
	"flag"
	"log"
	"time"

	"job-tracker/internal/app"
	"job-tracker/internal/config"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/seeder"
)

func main() {
	email := flag.String("email", "demo@example.com", "demo account email")
	password := flag.String("password", "demo-password", "demo account password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build container", "error", err)
		return
	}
	defer func() { _ = c.Close() }()

	r := seeder.Runner{Name: "Demo User", Email: *email, Password: *password, Seeders: seeder.Defaults()}
	id, err := r.Run(ctx, seeder.Target{Auth: c.Auth, Jobs: c.Jobs, Profile: c.Profile})
	if err != nil {
		logger.Error("seed failed", "error", err)
		return
	}
	logger.Info("seed complete", "owner", id.Owner(), "storage", cfg.Storage.Backend)
}
