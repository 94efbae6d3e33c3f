// Package api provides the HTTP search surface over the message index.
package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-fuego/fuego"

	"github.com/ebarrios/tgsearch/internal/repository"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

func (s *Server) healthCheck(c fuego.ContextNoBody) (HealthResponse, error) {
	return HealthResponse{
		Status:  "ok",
		Version: "dev",
	}, nil
}

func (s *Server) search(c fuego.ContextNoBody) (SearchResponse, error) {
	filter, err := parseSearchFilter(c.QueryParam)
	if err != nil {
		return SearchResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	results, err := s.deps.Messages.Search(c.Context(), filter)
	if err != nil {
		return SearchResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	items := make([]SearchItem, 0, len(results))
	for _, r := range results {
		items = append(items, SearchItemFromRepo(r))
	}

	return SearchResponse{
		Results: items,
		Count:   len(items),
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

func (s *Server) listChats(c fuego.ContextNoBody) (ChatsResponse, error) {
	chats, err := s.deps.Chats.List(c.Context())
	if err != nil {
		return ChatsResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	items := make([]ChatItem, 0, len(chats))
	for _, ch := range chats {
		items = append(items, ChatItem{
			ChatID:   ch.ChatID,
			Type:     ch.Type,
			Title:    ch.Title,
			Username: ch.Username,
		})
	}

	return ChatsResponse{Chats: items, Count: len(items)}, nil
}

func (s *Server) getStats(c fuego.ContextNoBody) (StatsResponse, error) {
	stats, err := s.deps.Stats.GetStats(c.Context())
	if err != nil {
		return StatsResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return StatsResponse{
		TotalChats:    stats.TotalChats,
		TotalUsers:    stats.TotalUsers,
		TotalMessages: stats.TotalMessages,
		TodayMessages: stats.TodayMessages,
	}, nil
}

// parseSearchFilter validates the search query parameters. Out-of-range
// paging values are clamped, everything else invalid is rejected.
func parseSearchFilter(param func(string) string) (repository.SearchFilter, error) {
	var filter repository.SearchFilter

	filter.Query = strings.TrimSpace(param("q"))
	if filter.Query == "" {
		return filter, fmt.Errorf("query parameter q is required")
	}

	var err error
	if filter.ChatID, err = parseOptionalInt64(param("chat_id")); err != nil {
		return filter, fmt.Errorf("invalid chat_id")
	}
	if filter.FromUserID, err = parseOptionalInt64(param("from_user_id")); err != nil {
		return filter, fmt.Errorf("invalid from_user_id")
	}
	if filter.DateFrom, err = parseOptionalTime(param("date_from")); err != nil {
		return filter, fmt.Errorf("invalid date_from, expected RFC 3339")
	}
	if filter.DateTo, err = parseOptionalTime(param("date_to")); err != nil {
		return filter, fmt.Errorf("invalid date_to, expected RFC 3339")
	}

	switch param("has") {
	case "":
	case "link":
		filter.HasLink = true
	case "media":
		filter.HasMedia = true
	default:
		return filter, fmt.Errorf("invalid has filter, expected link or media")
	}

	if mt := param("media_type"); mt != "" {
		probe := repository.Message{MediaType: mt}
		if !probe.IsValidMediaType() {
			return filter, fmt.Errorf("invalid media_type")
		}
		filter.MediaType = mt
	}

	filter.Limit = parseIntWithDefault(param("limit"), defaultSearchLimit)
	if filter.Limit < 1 {
		filter.Limit = 1
	}
	if filter.Limit > maxSearchLimit {
		filter.Limit = maxSearchLimit
	}

	filter.Offset = parseIntWithDefault(param("offset"), 0)
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}

func parseOptionalInt64(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseIntWithDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
