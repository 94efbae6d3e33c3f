package api

import (
	"testing"
	"time"
)

func paramsOf(m map[string]string) func(string) string {
	return func(name string) string { return m[name] }
}

func TestParseSearchFilter_Defaults(t *testing.T) {
	filter, err := parseSearchFilter(paramsOf(map[string]string{"q": "alquiler"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filter.Query != "alquiler" {
		t.Errorf("Query = %q", filter.Query)
	}
	if filter.Limit != defaultSearchLimit {
		t.Errorf("Limit = %d, want %d", filter.Limit, defaultSearchLimit)
	}
	if filter.Offset != 0 {
		t.Errorf("Offset = %d, want 0", filter.Offset)
	}
	if filter.ChatID != nil || filter.FromUserID != nil || filter.DateFrom != nil || filter.DateTo != nil {
		t.Error("optional filters should be nil when absent")
	}
	if filter.HasLink || filter.HasMedia || filter.MediaType != "" {
		t.Error("property filters should be off by default")
	}
}

func TestParseSearchFilter_AllParams(t *testing.T) {
	filter, err := parseSearchFilter(paramsOf(map[string]string{
		"q":            "depto \"dos ambientes\"",
		"chat_id":      "-100123",
		"from_user_id": "777",
		"date_from":    "2024-01-01T00:00:00Z",
		"date_to":      "2024-06-30T23:59:59Z",
		"has":          "media",
		"media_type":   "photo",
		"limit":        "25",
		"offset":       "50",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filter.ChatID == nil || *filter.ChatID != -100123 {
		t.Errorf("ChatID = %v", filter.ChatID)
	}
	if filter.FromUserID == nil || *filter.FromUserID != 777 {
		t.Errorf("FromUserID = %v", filter.FromUserID)
	}
	wantFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if filter.DateFrom == nil || !filter.DateFrom.Equal(wantFrom) {
		t.Errorf("DateFrom = %v", filter.DateFrom)
	}
	if !filter.HasMedia {
		t.Error("has=media should set HasMedia")
	}
	if filter.MediaType != "photo" {
		t.Errorf("MediaType = %q", filter.MediaType)
	}
	if filter.Limit != 25 || filter.Offset != 50 {
		t.Errorf("paging = %d/%d", filter.Limit, filter.Offset)
	}
}

func TestParseSearchFilter_ClampsPaging(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
	}{
		{"above max", "9999", "0", maxSearchLimit, 0},
		{"zero limit", "0", "0", 1, 0},
		{"negative offset", "50", "-3", 50, 0},
		{"garbage falls back", "diez", "veinte", defaultSearchLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := parseSearchFilter(paramsOf(map[string]string{
				"q": "x", "limit": tt.limit, "offset": tt.offset,
			}))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Limit != tt.wantLimit || filter.Offset != tt.wantOffset {
				t.Errorf("paging = %d/%d, want %d/%d", filter.Limit, filter.Offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestParseSearchFilter_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"missing q", map[string]string{}},
		{"blank q", map[string]string{"q": "   "}},
		{"bad chat_id", map[string]string{"q": "x", "chat_id": "abc"}},
		{"bad from_user_id", map[string]string{"q": "x", "from_user_id": "1.5"}},
		{"bad date_from", map[string]string{"q": "x", "date_from": "01/02/2024"}},
		{"bad date_to", map[string]string{"q": "x", "date_to": "mañana"}},
		{"unknown has", map[string]string{"q": "x", "has": "poll"}},
		{"unknown media_type", map[string]string{"q": "x", "media_type": "sticker"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSearchFilter(paramsOf(tt.params)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
