package api

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-fuego/fuego"
	"github.com/go-fuego/fuego/option"
)

// Server represents the Fuego API server.
type Server struct {
	fuego *fuego.Server
	deps  *Dependencies
	port  int
}

// Dependencies contains all service dependencies.
type Dependencies struct {
	Messages MessagesSearcher
	Chats    ChatsLister
	Stats    StatsProvider
}

// Config holds API server configuration.
type Config struct {
	Port        int
	Title       string
	Description string
	Version     string
}

// NewServer creates a new Fuego API server.
func NewServer(cfg *Config, deps *Dependencies) *Server {
	s := fuego.NewServer(
		fuego.WithAddr(fmt.Sprintf(":%d", cfg.Port)),
		fuego.WithEngineOptions(
			fuego.WithOpenAPIConfig(fuego.OpenAPIConfig{
				PrettyFormatJSON: true,
				JSONFilePath:     "openapi.json",
				SwaggerURL:       "/docs",
				SpecURL:          "/openapi.json",
			}),
		),
	)

	s.OpenAPI.Description().Info.Title = cfg.Title
	s.OpenAPI.Description().Info.Description = cfg.Description
	s.OpenAPI.Description().Info.Version = cfg.Version

	// Chi middleware (Fuego is net/http compatible)
	fuego.Use(s, middleware.RequestID)
	fuego.Use(s, middleware.RealIP)
	fuego.Use(s, middleware.Logger)
	fuego.Use(s, middleware.Recoverer)

	// basic cors
	fuego.Use(s, cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	srv := &Server{
		fuego: s,
		deps:  deps,
		port:  cfg.Port,
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) registerRoutes() {
	fuego.Get(s.fuego, "/health", s.healthCheck,
		option.Summary("Health Check"),
		option.Description("Returns the health status of the API"),
		option.Tags("System"),
	)

	fuego.Get(s.fuego, "/api/v1/search", s.search,
		option.Summary("Search Messages"),
		option.Description("Full-text search over indexed messages, ordered by relevance then recency"),
		option.Tags("Search"),
		option.Query("q", "Search query in websearch syntax (required)"),
		option.Query("chat_id", "Restrict to one chat"),
		option.Query("from_user_id", "Restrict to one sender"),
		option.Query("date_from", "Only messages at or after this RFC 3339 timestamp"),
		option.Query("date_to", "Only messages at or before this RFC 3339 timestamp"),
		option.Query("has", "Require a property: link or media"),
		option.Query("media_type", "Filter by media type (photo, video, document, audio, animation, voice)"),
		option.Query("limit", "Results per page (default: 50, max: 200)"),
		option.Query("offset", "Results to skip (default: 0)"),
	)

	fuego.Get(s.fuego, "/api/v1/chats", s.listChats,
		option.Summary("List Chats"),
		option.Description("Returns all indexed chats"),
		option.Tags("Catalog"),
	)

	fuego.Get(s.fuego, "/api/v1/stats", s.getStats,
		option.Summary("Get Statistics"),
		option.Description("Returns index size statistics"),
		option.Tags("Catalog"),
	)
}

// Start starts the API server.
func (s *Server) Start() error {
	return s.fuego.Run()
}

// Stop gracefully stops the server, draining in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	return s.fuego.Server.Shutdown(ctx)
}
