package repository

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSearchQuery_QueryOnly(t *testing.T) {
	sql, args := buildSearchQuery(SearchFilter{Query: "hola mundo", Limit: 50, Offset: 0})

	if len(args) != 3 {
		t.Fatalf("args = %d, want 3 (query, limit, offset)", len(args))
	}
	if args[0] != "hola mundo" {
		t.Errorf("args[0] = %v, want query text", args[0])
	}
	if !strings.Contains(sql, "websearch_to_tsquery('spanish', $1)") {
		t.Error("query should use the spanish websearch parser")
	}
	if !strings.Contains(sql, "LIMIT $2 OFFSET $3") {
		t.Errorf("limit/offset placeholders misplaced:\n%s", sql)
	}
	if strings.Contains(sql, " AND ") {
		t.Error("no filters should produce no AND conditions")
	}
}

func TestBuildSearchQuery_AllFilters(t *testing.T) {
	chatID := int64(-100123)
	fromUserID := int64(777)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)

	sql, args := buildSearchQuery(SearchFilter{
		Query:      "factura",
		ChatID:     &chatID,
		FromUserID: &fromUserID,
		DateFrom:   &from,
		DateTo:     &to,
		HasLink:    true,
		MediaType:  MediaDocument,
		Limit:      20,
		Offset:     40,
	})

	// query + 5 value filters + limit + offset
	if len(args) != 8 {
		t.Fatalf("args = %d, want 8", len(args))
	}

	for _, cond := range []string{
		"chat_id = $2",
		"from_user_id = $3",
		"date >= $4",
		"date <= $5",
		"has_links",
		"media_type = $6",
		"LIMIT $7 OFFSET $8",
	} {
		if !strings.Contains(sql, cond) {
			t.Errorf("missing condition %q in:\n%s", cond, sql)
		}
	}
}

func TestBuildSearchQuery_HasMedia(t *testing.T) {
	sql, args := buildSearchQuery(SearchFilter{Query: "q", HasMedia: true, Limit: 10})

	if !strings.Contains(sql, "media_type <> 'none'") {
		t.Error("has:media should filter out plain-text rows")
	}
	if len(args) != 3 {
		t.Errorf("args = %d, want 3 (flag filters add no args)", len(args))
	}
}

func TestMessage_IsValidMediaType(t *testing.T) {
	for _, mt := range []string{MediaNone, MediaPhoto, MediaVideo, MediaDocument, MediaAudio, MediaAnimation, MediaVoice} {
		m := Message{MediaType: mt}
		if !m.IsValidMediaType() {
			t.Errorf("media type %s should be valid", mt)
		}
	}

	invalid := Message{MediaType: "sticker"}
	if invalid.IsValidMediaType() {
		t.Error("unknown media type should not be valid")
	}
}
