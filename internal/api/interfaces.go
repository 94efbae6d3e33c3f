package api

import (
	"context"

	"github.com/ebarrios/tgsearch/internal/repository"
)

// MessagesSearcher defines the interface for full-text message search.
type MessagesSearcher interface {
	Search(ctx context.Context, f repository.SearchFilter) ([]repository.SearchResult, error)
}

// ChatsLister defines the interface for chat catalog access.
type ChatsLister interface {
	List(ctx context.Context) ([]repository.Chat, error)
}

// StatsProvider defines the interface for index statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) (*repository.IndexStats, error)
}
