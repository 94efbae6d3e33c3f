package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ebarrios/tgsearch/internal/api"
	"github.com/ebarrios/tgsearch/internal/config"
	"github.com/ebarrios/tgsearch/internal/database"
	"github.com/ebarrios/tgsearch/internal/logger"
	"github.com/ebarrios/tgsearch/internal/migrator"
	"github.com/ebarrios/tgsearch/internal/repository"
	"github.com/ebarrios/tgsearch/migrations"
)

func main() {
	if err := run(); err != nil {
		logger.Get().Error().Err(err).Msg("api server failed")
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := migrator.NewWithFS(migrations.FS)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	srv := api.NewServer(
		&api.Config{
			Port:        cfg.HTTPPort,
			Title:       "tgsearch API",
			Description: "Full-text search over ingested telegram messages",
			Version:     "dev",
		},
		&api.Dependencies{
			Messages: repository.NewMessagesRepository(db.Pool),
			Chats:    repository.NewChatsRepository(db.Pool),
			Stats:    repository.NewStatsRepository(db.Pool),
		},
	)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("starting api server")
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	}
}
