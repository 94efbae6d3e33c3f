package api

import (
	"time"

	"github.com/ebarrios/tgsearch/internal/repository"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok" description:"Health status"`
	Version string `json:"version" example:"dev" description:"Application version"`
}

// SearchItem represents one search hit.
type SearchItem struct {
	ChatID       int64     `json:"chat_id" description:"Chat the message belongs to"`
	MessageID    int64     `json:"message_id" description:"Message id within the chat"`
	Date         time.Time `json:"date" description:"Message timestamp (UTC)"`
	FromUserID   *int64    `json:"from_user_id,omitempty" description:"Sender user id, absent for system senders"`
	Score        float32   `json:"score" description:"Full-text relevance score"`
	TextPlain    string    `json:"text_plain" description:"Message text, truncated to 500 characters"`
	MediaCaption string    `json:"media_caption,omitempty" description:"Media caption, truncated to 300 characters"`
	MediaType    string    `json:"media_type" description:"Media type: none, photo, video, document, audio, animation, voice"`
	HasLinks     bool      `json:"has_links" description:"Whether the message contains an http(s) link"`
}

// SearchResponse contains the results of one search request.
type SearchResponse struct {
	Results []SearchItem `json:"results" description:"Matching messages, best match first"`
	Count   int          `json:"count" description:"Number of results in this page"`
	Limit   int          `json:"limit" description:"Applied page size"`
	Offset  int          `json:"offset" description:"Applied page offset"`
}

// ChatItem represents one indexed chat.
type ChatItem struct {
	ChatID   int64   `json:"chat_id" description:"Chat identifier"`
	Type     string  `json:"type" description:"Chat type: private, group, supergroup, channel"`
	Title    string  `json:"title" description:"Chat title"`
	Username *string `json:"username,omitempty" description:"Public username, if any"`
}

// ChatsResponse contains the list of indexed chats.
type ChatsResponse struct {
	Chats []ChatItem `json:"chats" description:"Indexed chats ordered by title"`
	Count int        `json:"count" description:"Number of chats"`
}

// StatsResponse contains index statistics.
type StatsResponse struct {
	TotalChats    int `json:"total_chats" description:"Number of indexed chats"`
	TotalUsers    int `json:"total_users" description:"Number of indexed users"`
	TotalMessages int `json:"total_messages" description:"Number of indexed messages"`
	TodayMessages int `json:"today_messages" description:"Messages dated today"`
}

// SearchItemFromRepo converts a repository search result to its API shape.
func SearchItemFromRepo(r repository.SearchResult) SearchItem {
	return SearchItem{
		ChatID:       r.ChatID,
		MessageID:    r.MessageID,
		Date:         r.Date,
		FromUserID:   r.FromUserID,
		Score:        r.Score,
		TextPlain:    r.TextPlain,
		MediaCaption: r.MediaCaption,
		MediaType:    r.MediaType,
		HasLinks:     r.HasLinks,
	}
}
