package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/pfrederiksen/palmares/internal/award"
	"github.com/pfrederiksen/palmares/internal/logger"
)

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if strings.TrimSpace(c.RulesFile) == "" {
		return errors.New("rules_file is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache_ttl must be >= 0")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	switch award.DedupKey(c.DedupKey) {
	case award.DedupByName, award.DedupByID:
	default:
		return fmt.Errorf("dedup_key must be %q or %q", award.DedupByName, award.DedupByID)
	}

	if c.Report.PageLines < 10 {
		return errors.New("report.page_lines must be >= 10")
	}
	if c.Report.Width < 20 {
		return errors.New("report.width must be >= 20")
	}
	if _, err := language.Parse(c.Report.Language); err != nil {
		return fmt.Errorf("report.language: %w", err)
	}

	seen := make(map[string]bool)
	for i, t := range c.Tournaments {
		u, err := url.Parse(strings.TrimSpace(t.URL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("tournaments[%d].url must be an http(s) URL", i)
		}
		if seen[t.ID()] {
			return fmt.Errorf("tournaments[%d].url is listed twice", i)
		}
		seen[t.ID()] = true
	}
	return nil
}
