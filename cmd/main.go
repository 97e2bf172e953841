package main

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/config"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/server"
	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/logger"
)

func main() {
	ctx := context.Background()

	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Server.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	server := server.NewServer(cfg, appLog)

	if err := server.Run(ctx); err != nil {
		appLog.Error("server stopped", logger.Error(err))
		_ = appLog.Sync()
		log.Fatalf("Failed to start server: %v", err)
	}
}
