// Package repository provides data access over postgresql for chats, users
// and messages. All writes are idempotent upserts keyed by natural identity.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Chat represents one conversation container from the source account.
type Chat struct {
	ChatID   int64
	Type     string // private, group, supergroup, channel
	Title    string
	Username *string
}

// ChatsRepository handles tg_chats table operations.
type ChatsRepository struct {
	pool *pgxpool.Pool
}

// NewChatsRepository creates a new chats repository.
func NewChatsRepository(pool *pgxpool.Pool) *ChatsRepository {
	return &ChatsRepository{pool: pool}
}

// Upsert inserts or updates a chat row. All non-key columns are overwritten
// with the latest observed values.
func (r *ChatsRepository) Upsert(ctx context.Context, c Chat) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tg_chats (chat_id, type, title, username)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE SET
			type = EXCLUDED.type,
			title = EXCLUDED.title,
			username = EXCLUDED.username
	`, c.ChatID, c.Type, c.Title, c.Username)
	if err != nil {
		return fmt.Errorf("upsert chat %d: %w", c.ChatID, err)
	}
	return nil
}

// List returns all indexed chats ordered by title.
func (r *ChatsRepository) List(ctx context.Context) ([]Chat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT chat_id, type, title, username
		FROM tg_chats
		ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ChatID, &c.Type, &c.Title, &c.Username); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
