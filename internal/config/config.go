package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingToken is returned when no GitHub token is configured. The
// search index rejects unauthenticated code search, so this is fatal
// before any network activity.
var ErrMissingToken = errors.New("config: GITHUB_TOKEN is required")

// FileConfig is the on-disk YAML configuration shape. Pointer fields
// distinguish "unset" from zero values so later layers only override
// what the file actually sets.
type FileConfig struct {
	MaxPagesPerQuery *int    `yaml:"max_pages_per_query"`
	DelayRequests    *string `yaml:"delay_between_requests"`
	DelayKeyTests    *string `yaml:"delay_between_key_tests"`
	FlushEvery       *int    `yaml:"flush_every"`
	RecentDays       *int    `yaml:"recent_days"`
	IncludeRecent    *bool   `yaml:"include_recent"`
	HTTPTimeout      *string `yaml:"http_timeout"`
	ResultsDir       *string `yaml:"results_dir"`
	CacheFile        *string `yaml:"cache_file"`
	LogLevel         *string `yaml:"log_level"`
	GitHubToken      *string `yaml:"github_token"`
}

// Config is the resolved runtime configuration.
type Config struct {
	GitHubToken      string
	MaxPagesPerQuery int
	DelayRequests    time.Duration
	DelayKeyTests    time.Duration
	FlushEvery       int
	RecentDays       int
	IncludeRecent    bool
	HTTPTimeout      time.Duration
	ResultsDir       string
	CacheFile        string
	LogLevel         string
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		MaxPagesPerQuery: 3,
		DelayRequests:    1 * time.Second,
		DelayKeyTests:    2 * time.Second,
		FlushEvery:       10,
		RecentDays:       30,
		IncludeRecent:    true,
		HTTPTimeout:      30 * time.Second,
		ResultsDir:       "results",
		CacheFile:        "scanner_cache.json",
		LogLevel:         "info",
	}
}

// LoadFile reads a YAML config file from path.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// LoadLocal searches the working directory for a config file. Absence
// is not an error.
func LoadLocal() (FileConfig, error) {
	for _, name := range []string{".scankey.yml", ".scankey.yaml", "scankey.yml", "scankey.yaml"} {
		if _, err := os.Stat(name); err == nil {
			return LoadFile(name)
		}
	}
	return FileConfig{}, nil
}

// Resolve layers configuration: defaults, then the file, then SCANKEY_*
// environment variables and GITHUB_TOKEN.
func Resolve(fc FileConfig) Config {
	cfg := Default()

	if fc.MaxPagesPerQuery != nil {
		cfg.MaxPagesPerQuery = *fc.MaxPagesPerQuery
	}
	if fc.DelayRequests != nil {
		if d, err := time.ParseDuration(*fc.DelayRequests); err == nil {
			cfg.DelayRequests = d
		}
	}
	if fc.DelayKeyTests != nil {
		if d, err := time.ParseDuration(*fc.DelayKeyTests); err == nil {
			cfg.DelayKeyTests = d
		}
	}
	if fc.FlushEvery != nil {
		cfg.FlushEvery = *fc.FlushEvery
	}
	if fc.RecentDays != nil {
		cfg.RecentDays = *fc.RecentDays
	}
	if fc.IncludeRecent != nil {
		cfg.IncludeRecent = *fc.IncludeRecent
	}
	if fc.HTTPTimeout != nil {
		if d, err := time.ParseDuration(*fc.HTTPTimeout); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if fc.ResultsDir != nil {
		cfg.ResultsDir = *fc.ResultsDir
	}
	if fc.CacheFile != nil {
		cfg.CacheFile = *fc.CacheFile
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.GitHubToken != nil {
		cfg.GitHubToken = *fc.GitHubToken
	}

	if v := os.Getenv("SCANKEY_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxPagesPerQuery = n
		}
	}
	if v := os.Getenv("SCANKEY_DELAY_REQUESTS"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DelayRequests = d
		}
	}
	if v := os.Getenv("SCANKEY_DELAY_KEY_TESTS"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DelayKeyTests = d
		}
	}
	if v := os.Getenv("SCANKEY_RESULTS_DIR"); v != "" {
		cfg.ResultsDir = v
	}
	if v := os.Getenv("SCANKEY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.GitHubToken = v
	}
	return cfg
}

// Validate checks that the configuration can support a scan at all.
func (c Config) Validate() error {
	if c.GitHubToken == "" {
		return ErrMissingToken
	}
	return nil
}
