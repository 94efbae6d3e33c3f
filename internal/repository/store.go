package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the per-table repositories behind the three upsert operations
// the ingestion pipeline needs. It is the only writer of the index tables.
type Store struct {
	Chats    *ChatsRepository
	Users    *UsersRepository
	Messages *MessagesRepository
}

// NewStore creates repositories sharing one connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Chats:    NewChatsRepository(pool),
		Users:    NewUsersRepository(pool),
		Messages: NewMessagesRepository(pool),
	}
}

// UpsertChat writes chat metadata.
func (s *Store) UpsertChat(ctx context.Context, c Chat) error {
	return s.Chats.Upsert(ctx, c)
}

// UpsertUser writes a sender profile.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	return s.Users.Upsert(ctx, u)
}

// UpsertMessage writes one canonical message row.
func (s *Store) UpsertMessage(ctx context.Context, m Message) error {
	return s.Messages.Upsert(ctx, m)
}
