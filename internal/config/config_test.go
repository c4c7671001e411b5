package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.MaxPagesPerQuery)
	assert.Equal(t, time.Second, cfg.DelayRequests)
	assert.Equal(t, 2*time.Second, cfg.DelayKeyTests)
	assert.Equal(t, 10, cfg.FlushEvery)
	assert.Equal(t, 30, cfg.RecentDays)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "results", cfg.ResultsDir)
	assert.Equal(t, "scanner_cache.json", cfg.CacheFile)
}

func TestResolveFileOverrides(t *testing.T) {
	pages := 5
	delay := "500ms"
	dir := "out"
	fc := FileConfig{
		MaxPagesPerQuery: &pages,
		DelayRequests:    &delay,
		ResultsDir:       &dir,
	}
	cfg := Resolve(fc)
	assert.Equal(t, 5, cfg.MaxPagesPerQuery)
	assert.Equal(t, 500*time.Millisecond, cfg.DelayRequests)
	assert.Equal(t, "out", cfg.ResultsDir)
	// Untouched fields keep their defaults.
	assert.Equal(t, 2*time.Second, cfg.DelayKeyTests)
}

func TestResolveBadDurationKeepsDefault(t *testing.T) {
	bad := "not-a-duration"
	cfg := Resolve(FileConfig{DelayRequests: &bad})
	assert.Equal(t, time.Second, cfg.DelayRequests)
}

func TestResolveEnvOverridesFile(t *testing.T) {
	pages := 5
	t.Setenv("SCANKEY_MAX_PAGES", "7")
	t.Setenv("GITHUB_TOKEN", "ghp_fromenv")
	cfg := Resolve(FileConfig{MaxPagesPerQuery: &pages})
	assert.Equal(t, 7, cfg.MaxPagesPerQuery)
	assert.Equal(t, "ghp_fromenv", cfg.GitHubToken)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scankey.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"max_pages_per_query: 2\ndelay_between_key_tests: 3s\nresults_dir: findings\n"), 0600))

	fc, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, fc.MaxPagesPerQuery)
	assert.Equal(t, 2, *fc.MaxPagesPerQuery)

	cfg := Resolve(fc)
	assert.Equal(t, 3*time.Second, cfg.DelayKeyTests)
	assert.Equal(t, "findings", cfg.ResultsDir)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scankey.yml")
	require.NoError(t, os.WriteFile(path, []byte("max_pages_per_query: [nope"), 0600))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	assert.True(t, errors.Is(err, ErrMissingToken))

	cfg.GitHubToken = "ghp_x"
	assert.NoError(t, cfg.Validate())
}
