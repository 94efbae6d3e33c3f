package config

import (
	"os"
	"testing"
)

func TestConfig_Defaults(t *testing.T) {
	os.Unsetenv("CHAT_LIST_LIMIT")
	os.Unsetenv("HISTORY_PAGE_SIZE")
	os.Unsetenv("HISTORY_MAX_PAGES")
	os.Unsetenv("SESSION_NAMESPACE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChatListLimit != 200 {
		t.Errorf("ChatListLimit = %d, want 200", cfg.ChatListLimit)
	}
	if cfg.HistoryPageSize != 100 {
		t.Errorf("HistoryPageSize = %d, want 100", cfg.HistoryPageSize)
	}
	if cfg.HistoryMaxPages != 50 {
		t.Errorf("HistoryMaxPages = %d, want 50", cfg.HistoryMaxPages)
	}
	if cfg.SessionNamespace != "default" {
		t.Errorf("SessionNamespace = %q, want %q", cfg.SessionNamespace, "default")
	}
	if cfg.SessionStorage != "sqlite" {
		t.Errorf("SessionStorage = %q, want %q", cfg.SessionStorage, "sqlite")
	}
}

func TestConfig_FromEnv(t *testing.T) {
	os.Setenv("SESSION_NAMESPACE", "alt-account")
	defer os.Unsetenv("SESSION_NAMESPACE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SessionNamespace != "alt-account" {
		t.Errorf("SessionNamespace = %q, want %q", cfg.SessionNamespace, "alt-account")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		DatabaseURL:     "postgres://localhost/tgsearch",
		TGApiID:         12345,
		TGApiHash:       "hash",
		SessionStorage:  "sqlite",
		HistoryPageSize: 100,
		HistoryMaxPages: 50,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid config: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }},
		{"missing api id", func(c *Config) { c.TGApiID = 0 }},
		{"missing api hash", func(c *Config) { c.TGApiHash = "" }},
		{"unknown session storage", func(c *Config) { c.SessionStorage = "redis" }},
		{"page size too large", func(c *Config) { c.HistoryPageSize = 500 }},
		{"zero page budget", func(c *Config) { c.HistoryMaxPages = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}
