package main

import (
	"context"
	"log"
	"os"

	"quiz-bank/internal/config"
	"quiz-bank/internal/database"
	"quiz-bank/internal/logger"

	"go.uber.org/zap"
)

// Usage: migrate [up|down]
// Only the SQL store drivers have migrations; mongo indexes are created at API startup.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	dir := database.Up
	if len(os.Args) > 1 {
		dir = database.Direction(os.Args[1])
	}
	if dir != database.Up && dir != database.Down {
		l.Fatal("Unknown migration direction, expected up or down", zap.String("arg", string(dir)))
	}

	if cfg.Store.Driver == "mongo" {
		l.Info("store.driver is mongo, nothing to migrate")
		return
	}
	if cfg.Store.SQLDSN == "" {
		l.Fatal("store.sql.dsn is required", zap.String("driver", cfg.Store.Driver))
	}

	if err := database.RunMigrations(context.Background(), cfg.Store.Driver, cfg.Store.SQLDSN, dir); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
	l.Info("Migrations finished", zap.String("driver", cfg.Store.Driver), zap.String("direction", string(dir)))
}
