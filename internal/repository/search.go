package repository

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SearchFilter holds the parameters of one full-text search.
type SearchFilter struct {
	Query      string // required, websearch syntax
	ChatID     *int64
	FromUserID *int64
	DateFrom   *time.Time
	DateTo     *time.Time
	HasLink    bool
	HasMedia   bool
	MediaType  string
	Limit      int
	Offset     int
}

// SearchResult is one row of a search response. Text fields are truncated
// server-side to keep payloads bounded.
type SearchResult struct {
	ChatID       int64
	MessageID    int64
	Date         time.Time
	FromUserID   *int64
	Score        float32
	TextPlain    string
	MediaCaption string
	MediaType    string
	HasLinks     bool
}

// buildSearchQuery renders the filter into a parameterized query. Ranking and
// matching are delegated to the stored tsvector column; results are ordered by
// relevance, then recency.
func buildSearchQuery(f SearchFilter) (string, []any) {
	args := []any{f.Query}
	var conds []string

	if f.ChatID != nil {
		args = append(args, *f.ChatID)
		conds = append(conds, fmt.Sprintf("chat_id = $%d", len(args)))
	}
	if f.FromUserID != nil {
		args = append(args, *f.FromUserID)
		conds = append(conds, fmt.Sprintf("from_user_id = $%d", len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	if f.HasLink {
		conds = append(conds, "has_links")
	}
	if f.HasMedia {
		conds = append(conds, "media_type <> 'none'")
	}
	if f.MediaType != "" {
		args = append(args, f.MediaType)
		conds = append(conds, fmt.Sprintf("media_type = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " AND " + strings.Join(conds, " AND ")
	}

	args = append(args, f.Limit)
	args = append(args, f.Offset)

	sql := fmt.Sprintf(`
		WITH q AS (SELECT websearch_to_tsquery('spanish', $1) AS tsq)
		SELECT chat_id, message_id, date, from_user_id,
		       ts_rank_cd(text_fts, q.tsq) AS score,
		       left(text_plain, 500) AS text_plain,
		       left(media_caption, 300) AS media_caption,
		       media_type, has_links
		FROM tg_messages, q
		WHERE text_fts @@ q.tsq%s
		ORDER BY score DESC, date DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	return sql, args
}

// Search runs a full-text query over the messages table.
func (r *MessagesRepository) Search(ctx context.Context, f SearchFilter) ([]SearchResult, error) {
	sql, args := buildSearchQuery(f)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var res SearchResult
		if err := rows.Scan(
			&res.ChatID, &res.MessageID, &res.Date, &res.FromUserID,
			&res.Score, &res.TextPlain, &res.MediaCaption,
			&res.MediaType, &res.HasLinks,
		); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
