package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/storage"
	"github.com/dhima/event-trigger-service/pkg/config"
)

// migrate creates the users, events and logs tables if they do not exist.
func main() {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := storage.NewMySQLClient(db).Migrate(ctx); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("schema is up to date")
}
