package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ebarrios/tgsearch/internal/config"
	"github.com/ebarrios/tgsearch/internal/database"
	"github.com/ebarrios/tgsearch/internal/ingest"
	"github.com/ebarrios/tgsearch/internal/logger"
	"github.com/ebarrios/tgsearch/internal/migrator"
	"github.com/ebarrios/tgsearch/internal/nats"
	"github.com/ebarrios/tgsearch/internal/publisher"
	"github.com/ebarrios/tgsearch/internal/repository"
	"github.com/ebarrios/tgsearch/internal/telegram"
	"github.com/ebarrios/tgsearch/migrations"
)

func main() {
	if err := run(); err != nil {
		logger.Get().Error().Err(err).Msg("ingester failed")
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()
	log.Info().Msg("starting ingester")

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

	rules, err := config.LoadCrawlRules(cfg.CrawlRulesPath)
	if err != nil {
		return fmt.Errorf("load crawl rules: %w", err)
	}

	proto, err := telegram.NewSessionClient(cfg)
	if err != nil {
		return fmt.Errorf("open telegram session: %w", err)
	}
	tgClient := telegram.NewClient(proto)
	defer tgClient.Close()

	var pub ingest.EventPublisher
	if cfg.NatsURL != "" {
		nc, err := nats.New(cfg.NatsURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to nats, publishing disabled")
		} else {
			defer nc.Close()
			pub = publisher.NewNATSPublisher(nc.Conn)
		}
	}

	store := repository.NewStore(db.Pool)
	svc := ingest.NewService(tgClient, store, pub, rules, ingest.Options{
		ChatListLimit: cfg.ChatListLimit,
		PageSize:      cfg.HistoryPageSize,
		MaxPages:      cfg.HistoryMaxPages,
	}, log)

	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("crawl run: %w", err)
	}

	log.Info().
		Str("run_id", result.RunID.String()).
		Int("chats", result.Chats).
		Int("skipped", result.Skipped).
		Int("messages", result.Messages).
		Int("rejected", result.Rejected).
		Int("users", result.Users).
		Int("errors", result.Errors).
		Msg("ingester finished")

	return nil
}
