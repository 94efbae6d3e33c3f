package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CrawlRules restricts which chats a crawl run visits. Loaded from an optional
// YAML file; a nil *CrawlRules allows every chat.
type CrawlRules struct {
	// Include, when non-empty, is an allowlist of chat ids.
	Include []int64 `yaml:"include"`
	// Exclude lists chat ids to skip. Exclude wins over Include.
	Exclude []int64 `yaml:"exclude"`
}

// LoadCrawlRules reads crawl rules from a YAML file.
// An empty path means no rules (returns nil, nil).
func LoadCrawlRules(path string) (*CrawlRules, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read crawl rules: %w", err)
	}

	var rules CrawlRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse crawl rules: %w", err)
	}

	return &rules, nil
}

// Allows reports whether a chat id should be crawled.
func (r *CrawlRules) Allows(chatID int64) bool {
	if r == nil {
		return true
	}

	for _, id := range r.Exclude {
		if id == chatID {
			return false
		}
	}

	if len(r.Include) == 0 {
		return true
	}
	for _, id := range r.Include {
		if id == chatID {
			return true
		}
	}
	return false
}
