package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCrawlRules_EmptyPath(t *testing.T) {
	rules, err := LoadCrawlRules("")
	if err != nil {
		t.Fatalf("LoadCrawlRules() error = %v", err)
	}
	if rules != nil {
		t.Error("empty path should return nil rules")
	}
}

func TestLoadCrawlRules_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "include:\n  - 100\n  - 200\nexclude:\n  - 200\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadCrawlRules(path)
	if err != nil {
		t.Fatalf("LoadCrawlRules() error = %v", err)
	}

	if len(rules.Include) != 2 || len(rules.Exclude) != 1 {
		t.Fatalf("rules = %+v, want 2 included and 1 excluded", rules)
	}
}

func TestCrawlRules_Allows(t *testing.T) {
	tests := []struct {
		name   string
		rules  *CrawlRules
		chatID int64
		want   bool
	}{
		{"nil rules allow everything", nil, 42, true},
		{"empty include allows", &CrawlRules{}, 42, true},
		{"include lists the chat", &CrawlRules{Include: []int64{42}}, 42, true},
		{"include omits the chat", &CrawlRules{Include: []int64{1}}, 42, false},
		{"exclude wins over include", &CrawlRules{Include: []int64{42}, Exclude: []int64{42}}, 42, false},
		{"exclude with open include", &CrawlRules{Exclude: []int64{42}}, 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rules.Allows(tt.chatID); got != tt.want {
				t.Errorf("Allows(%d) = %v, want %v", tt.chatID, got, tt.want)
			}
		})
	}
}
