package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Media type values stored in tg_messages.media_type.
const (
	MediaNone      = "none"
	MediaPhoto     = "photo"
	MediaVideo     = "video"
	MediaDocument  = "document"
	MediaAudio     = "audio"
	MediaAnimation = "animation"
	MediaVoice     = "voice"
)

// Message is the canonical message record, keyed by (chat_id, message_id).
// Re-ingesting the same key overwrites all mutable fields (last-write-wins).
type Message struct {
	ChatID       int64
	MessageID    int64
	Date         time.Time
	FromUserID   *int64 // nil for system and anonymous senders
	TextPlain    string
	MediaType    string
	MediaCaption string
	ReplyTo      *int64
	HasLinks     bool
	MediaText    string // caption duplicated for the text-search index
}

// Key returns the natural identity of the message.
func (m *Message) Key() (chatID, messageID int64) {
	return m.ChatID, m.MessageID
}

// IsValidMediaType checks that the media type is one of the known values.
func (m *Message) IsValidMediaType() bool {
	switch m.MediaType {
	case MediaNone, MediaPhoto, MediaVideo, MediaDocument, MediaAudio, MediaAnimation, MediaVoice:
		return true
	}
	return false
}

// MessagesRepository handles tg_messages table operations.
type MessagesRepository struct {
	pool *pgxpool.Pool
}

// NewMessagesRepository creates a new messages repository.
func NewMessagesRepository(pool *pgxpool.Pool) *MessagesRepository {
	return &MessagesRepository{pool: pool}
}

// Upsert inserts or updates one message row. Rows are written one at a time,
// so a failure surfaces for the individual message, not a whole page.
func (r *MessagesRepository) Upsert(ctx context.Context, m Message) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tg_messages (chat_id, message_id, date, from_user_id,
		                         text_plain, media_type, media_caption,
		                         reply_to, has_links, media_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (chat_id, message_id) DO UPDATE SET
			date = EXCLUDED.date,
			from_user_id = EXCLUDED.from_user_id,
			text_plain = EXCLUDED.text_plain,
			media_type = EXCLUDED.media_type,
			media_caption = EXCLUDED.media_caption,
			reply_to = EXCLUDED.reply_to,
			has_links = EXCLUDED.has_links,
			media_text = EXCLUDED.media_text
	`, m.ChatID, m.MessageID, m.Date, m.FromUserID,
		m.TextPlain, m.MediaType, m.MediaCaption,
		m.ReplyTo, m.HasLinks, m.MediaText)
	if err != nil {
		return fmt.Errorf("upsert message %d/%d: %w", m.ChatID, m.MessageID, err)
	}
	return nil
}
