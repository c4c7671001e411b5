package core

import (
	"context"

	"github.com/AdvikSudM12/scan-key/internal/cache"
	"github.com/AdvikSudM12/scan-key/internal/config"
	"github.com/AdvikSudM12/scan-key/internal/gh"
	"github.com/AdvikSudM12/scan-key/internal/logging"
	"github.com/AdvikSudM12/scan-key/internal/pipeline"
	"github.com/AdvikSudM12/scan-key/internal/results"
	"github.com/AdvikSudM12/scan-key/internal/types"
	"github.com/AdvikSudM12/scan-key/internal/validate"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = config.Config
type Finding = types.Finding
type Provider = types.Provider
type Result = pipeline.Result

const (
	ProviderOpenAI    = types.ProviderOpenAI
	ProviderAnthropic = types.ProviderAnthropic
	ProviderGemini    = types.ProviderGemini
)

// DefaultConfig returns the built-in defaults; callers typically set
// GitHubToken and go.
func DefaultConfig() Config { return config.Default() }

// Scan is the stable entrypoint for other programs: it runs a full
// search-extract-validate session with the given configuration and
// returns the session summary. Live findings are persisted to the
// configured results directory as a side effect.
func Scan(ctx context.Context, cfg Config, providers ...Provider) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	log := logging.New("scankey", cfg.LogLevel)

	store, err := results.NewStore(cfg.ResultsDir)
	if err != nil {
		return Result{}, err
	}
	sc := cache.Load(cfg.CacheFile)

	client := gh.NewClient(ctx, cfg.GitHubToken, log)
	prober := validate.NewHTTPProber(cfg.HTTPTimeout, log)
	engine := validate.NewEngine(prober, sc, store, cfg.DelayKeyTests, validate.DefaultPolicy(), log)

	pl := pipeline.New(client, engine, sc, pipeline.Config{
		Providers:     providers,
		MaxPages:      cfg.MaxPagesPerQuery,
		DelayRequests: cfg.DelayRequests,
		FlushEvery:    cfg.FlushEvery,
		IncludeRecent: cfg.IncludeRecent,
		RecentDays:    cfg.RecentDays,
	}, log)
	return pl.Run(ctx)
}

// Findings returns the recorded live keys for one provider.
func Findings(cfg Config, p Provider) ([]Finding, error) {
	store, err := results.NewStore(cfg.ResultsDir)
	if err != nil {
		return nil, err
	}
	return store.Load(p).ValidKeys, nil
}
