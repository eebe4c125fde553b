// Package config loads palmares settings from a YAML file overlaid by
// PALMARES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/palmares/internal/award"
	"github.com/pfrederiksen/palmares/internal/participant"
)

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = "~/.palmares/config.yaml"

// Config holds every palmares setting, read from YAML over Default.
type Config struct {
	DataDir   string        `yaml:"data_dir"`
	RulesFile string        `yaml:"rules_file"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	LogLevel  string        `yaml:"log_level"`

	Report      ReportConfig       `yaml:"report"`
	DedupKey    string             `yaml:"dedup_key"`
	Tournaments []TournamentConfig `yaml:"tournaments"`
}

// ReportConfig controls the text layout of the prize list.
type ReportConfig struct {
	Title     string `yaml:"title"`
	PageLines int    `yaml:"page_lines"`
	Width     int    `yaml:"width"`
	Language  string `yaml:"language"`
}

// TournamentConfig lists one standings page to award prizes for.
// AllowMultipleWinners is nil when the file leaves it out.
type TournamentConfig struct {
	URL                  string `yaml:"url"`
	AllowMultipleWinners *bool  `yaml:"allow_multiple_winners,omitempty"`
}

// ID is the stable tournament id derived from the URL.
func (t TournamentConfig) ID() string {
	return participant.GenerateTournamentID(t.URL)
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:   "~/.palmares",
		RulesFile: "~/.palmares/rules.yaml",
		Timeout:   30 * time.Second,
		CacheTTL:  time.Hour,
		LogLevel:  "info",
		DedupKey:  string(award.DedupByName),
		Report: ReportConfig{
			Title:     "Palmarès des Récompenses",
			PageLines: 45,
			Width:     80,
			Language:  "fr",
		},
	}
}

// LoadFile reads path over the defaults. A missing file is an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads path like LoadFile but falls back to the defaults when the
// file does not exist, then applies the environment and validates.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	return finish(cfg)
}

// LoadRequired is Load for an explicitly given file, which must exist.
func LoadRequired(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envOverrides holds the settings that may come from the environment.
// Unset variables leave the prefilled value alone.
type envOverrides struct {
	DataDir   string        `env:"PALMARES_DATA_DIR"`
	RulesFile string        `env:"PALMARES_RULES_FILE"`
	UserAgent string        `env:"PALMARES_USER_AGENT"`
	Timeout   time.Duration `env:"PALMARES_TIMEOUT"`
	CacheTTL  time.Duration `env:"PALMARES_CACHE_TTL"`
	LogLevel  string        `env:"PALMARES_LOG_LEVEL"`
	DedupKey  string        `env:"PALMARES_DEDUP_KEY"`
	Language  string        `env:"PALMARES_LANGUAGE"`
}

// ApplyEnv overrides fields whose PALMARES_* variable is set.
func (c *Config) ApplyEnv() error {
	o := envOverrides{
		DataDir:   c.DataDir,
		RulesFile: c.RulesFile,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
		CacheTTL:  c.CacheTTL,
		LogLevel:  c.LogLevel,
		DedupKey:  c.DedupKey,
		Language:  c.Report.Language,
	}
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	c.DataDir = o.DataDir
	c.RulesFile = o.RulesFile
	c.UserAgent = o.UserAgent
	c.Timeout = o.Timeout
	c.CacheTTL = o.CacheTTL
	c.LogLevel = o.LogLevel
	c.DedupKey = o.DedupKey
	c.Report.Language = o.Language
	return nil
}

// Language returns the report language tag.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Report.Language)
	if err != nil {
		return language.French
	}
	return tag
}

// Policy maps each configured tournament to its multiple-winners setting.
// Tournaments without the setting are left out and so allow multiple winners.
func (c Config) Policy() award.Policy {
	p := award.Policy{}
	for _, t := range c.Tournaments {
		if t.AllowMultipleWinners != nil {
			p[t.ID()] = *t.AllowMultipleWinners
		}
	}
	return p
}

// URLs returns the configured standings URLs in order.
func (c Config) URLs() []string {
	urls := make([]string, 0, len(c.Tournaments))
	for _, t := range c.Tournaments {
		urls = append(urls, t.URL)
	}
	return urls
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}
