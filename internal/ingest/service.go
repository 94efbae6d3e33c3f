// Package ingest implements the crawl pipeline: it walks the account's chat
// list, pages backward through each chat's history, normalizes raw messages
// into the canonical schema and persists them idempotently.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gotd/td/tg"

	"github.com/ebarrios/tgsearch/internal/config"
	"github.com/ebarrios/tgsearch/internal/logger"
	"github.com/ebarrios/tgsearch/internal/repository"
	"github.com/ebarrios/tgsearch/internal/telegram"
)

// TelegramClient defines the interface for telegram operations.
type TelegramClient interface {
	ListDialogs(ctx context.Context, limit int) ([]telegram.Dialog, error)
	HistoryPage(ctx context.Context, peer tg.InputPeerClass, offsetID, limit int) ([]tg.MessageClass, error)
	GetUser(ctx context.Context, userID int64) (*telegram.UserInfo, error)
}

// Gateway is the persistence boundary. All three writes are idempotent
// upserts keyed by natural identity.
type Gateway interface {
	UpsertChat(ctx context.Context, c repository.Chat) error
	UpsertUser(ctx context.Context, u repository.User) error
	UpsertMessage(ctx context.Context, m repository.Message) error
}

// EventPublisher publishes crawl progress events.
type EventPublisher interface {
	PublishChatIngested(ctx context.Context, event ChatIngestedEvent) error
	PublishRunCompleted(ctx context.Context, event RunCompletedEvent) error
}

// ChatIngestedEvent is emitted after each chat's crawl.
type ChatIngestedEvent struct {
	RunID     uuid.UUID `json:"run_id"`
	ChatID    int64     `json:"chat_id"`
	Title     string    `json:"title"`
	Persisted int       `json:"persisted"`
	Rejected  int       `json:"rejected"`
	Errors    int       `json:"errors"`
	At        time.Time `json:"at"`
}

// RunCompletedEvent is emitted once at the end of a run.
type RunCompletedEvent struct {
	RunID    uuid.UUID `json:"run_id"`
	Chats    int       `json:"chats"`
	Messages int       `json:"messages"`
	Users    int       `json:"users"`
	Errors   int       `json:"errors"`
	At       time.Time `json:"at"`
}

// Options bounds one crawl run.
type Options struct {
	ChatListLimit int // dialogs fetched per run, not resumed across runs
	PageSize      int // history page size, telegram caps at 100
	MaxPages      int // per-chat page budget, guarantees termination
}

// DefaultOptions mirror the production crawl bounds.
func DefaultOptions() Options {
	return Options{ChatListLimit: 200, PageSize: 100, MaxPages: 50}
}

// RunResult contains crawl statistics for one run.
type RunResult struct {
	RunID    uuid.UUID
	Chats    int // chats crawled
	Skipped  int // chats excluded by crawl rules
	Fetched  int // raw messages fetched
	Messages int // normalized rows persisted
	Rejected int // raw messages rejected by normalization
	Users    int // sender profiles persisted
	Errors   int // chat crawls ended early by an rpc failure
}

// ChatStats tracks one chat's crawl.
type ChatStats struct {
	Fetched   int
	Persisted int
	Rejected  int
	Users     int
	Errors    int
}

// runState carries the per-run transient caches. It never outlives the run.
type runState struct {
	id             uuid.UUID
	processedUsers map[int64]struct{}
}

func newRunState() *runState {
	return &runState{
		id:             uuid.New(),
		processedUsers: make(map[int64]struct{}),
	}
}

// Service orchestrates one crawl run end to end.
type Service struct {
	tg        TelegramClient
	gateway   Gateway
	publisher EventPublisher
	rules     *config.CrawlRules
	opts      Options
	log       *logger.Logger
}

// NewService creates a new ingestion service. publisher and rules may be nil.
func NewService(tgClient TelegramClient, gateway Gateway, publisher EventPublisher, rules *config.CrawlRules, opts Options, log *logger.Logger) *Service {
	if opts.ChatListLimit <= 0 {
		opts.ChatListLimit = DefaultOptions().ChatListLimit
	}
	if opts.PageSize <= 0 || opts.PageSize > 100 {
		opts.PageSize = DefaultOptions().PageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultOptions().MaxPages
	}
	return &Service{
		tg:        tgClient,
		gateway:   gateway,
		publisher: publisher,
		rules:     rules,
		opts:      opts,
		log:       log,
	}
}

// Run executes one full crawl: list dialogs, then crawl each chat in order.
// Store failures abort the run; per-chat rpc failures are counted and the run
// moves on to the next chat.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	run := newRunState()
	result := &RunResult{RunID: run.id}

	s.log.Info().Str("run_id", run.id.String()).Msg("starting crawl run")

	dialogs, err := s.tg.ListDialogs(ctx, s.opts.ChatListLimit)
	if err != nil {
		return result, fmt.Errorf("list dialogs: %w", err)
	}

	for _, dialog := range dialogs {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("crawl run cancelled")
			return result, ctx.Err()
		default:
		}

		if !s.rules.Allows(dialog.ChatID) {
			result.Skipped++
			s.log.Debug().Int64("chat_id", dialog.ChatID).Msg("chat excluded by crawl rules")
			continue
		}

		if err := s.gateway.UpsertChat(ctx, repository.Chat{
			ChatID:   dialog.ChatID,
			Type:     string(dialog.Type),
			Title:    dialog.Title,
			Username: optional(dialog.Username),
		}); err != nil {
			return result, fmt.Errorf("upsert chat %d: %w", dialog.ChatID, err)
		}

		stats, err := s.crawlChat(ctx, run, dialog)
		result.Chats++
		result.Fetched += stats.Fetched
		result.Messages += stats.Persisted
		result.Rejected += stats.Rejected
		result.Users += stats.Users
		result.Errors += stats.Errors
		if err != nil {
			return result, err
		}

		s.publishChat(ctx, run, dialog, stats)
	}

	s.publishRun(ctx, run, result)

	s.log.Info().
		Str("run_id", run.id.String()).
		Int("chats", result.Chats).
		Int("messages", result.Messages).
		Int("rejected", result.Rejected).
		Int("users", result.Users).
		Int("errors", result.Errors).
		Msg("crawl run completed")

	return result, nil
}

func (s *Service) publishChat(ctx context.Context, run *runState, dialog telegram.Dialog, stats *ChatStats) {
	if s.publisher == nil {
		return
	}
	event := ChatIngestedEvent{
		RunID:     run.id,
		ChatID:    dialog.ChatID,
		Title:     dialog.Title,
		Persisted: stats.Persisted,
		Rejected:  stats.Rejected,
		Errors:    stats.Errors,
		At:        time.Now().UTC(),
	}
	if err := s.publisher.PublishChatIngested(ctx, event); err != nil {
		s.log.Warn().Err(err).Int64("chat_id", dialog.ChatID).Msg("failed to publish chat event")
	}
}

func (s *Service) publishRun(ctx context.Context, run *runState, result *RunResult) {
	if s.publisher == nil {
		return
	}
	event := RunCompletedEvent{
		RunID:    run.id,
		Chats:    result.Chats,
		Messages: result.Messages,
		Users:    result.Users,
		Errors:   result.Errors,
		At:       time.Now().UTC(),
	}
	if err := s.publisher.PublishRunCompleted(ctx, event); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish run event")
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
