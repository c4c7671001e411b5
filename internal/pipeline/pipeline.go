package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/AdvikSudM12/scan-key/internal/cache"
	"github.com/AdvikSudM12/scan-key/internal/extract"
	"github.com/AdvikSudM12/scan-key/internal/gh"
	"github.com/AdvikSudM12/scan-key/internal/types"
	"github.com/AdvikSudM12/scan-key/internal/validate"
)

// Searcher is the slice of the GitHub client the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, query string, maxPages int) ([]gh.File, error)
	FileContent(ctx context.Context, f gh.File) (string, error)
	RateBudget(ctx context.Context) (gh.Budget, error)
}

// Validator decides liveness for a candidate. The bool reports whether
// a network probe was actually spent on it.
type Validator interface {
	Validate(ctx context.Context, c types.Candidate) (types.Validation, bool, error)
}

// Config controls one scan session.
type Config struct {
	Providers     []types.Provider
	MaxPages      int
	DelayRequests time.Duration
	FlushEvery    int
	IncludeRecent bool
	RecentDays    int
	// Backoff governs retries when the search index rate-limits a
	// query. Zero value means DefaultPolicy.
	Backoff validate.Policy
}

// Result summarizes a scan session.
type Result struct {
	QueriesRun     int
	FilesSeen      int
	FilesProcessed int
	Candidates     int
	KeysTested     int
	LiveKeys       int
	ProviderLive   map[types.Provider]int
	Interrupted    bool
	Started        time.Time
	Finished       time.Time
}

// Pipeline wires search, extraction, validation and the crash-safe
// cache into one sequential scan loop.
type Pipeline struct {
	searcher Searcher
	valid    Validator
	cache    *cache.ScanCache
	cfg      Config
	log      hclog.Logger
	pacer    *rate.Limiter
}

func New(searcher Searcher, valid Validator, sc *cache.ScanCache, cfg Config, log hclog.Logger) *Pipeline {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = 10
	}
	if cfg.Backoff.MaxAttempts == 0 {
		cfg.Backoff = validate.DefaultPolicy()
	}
	pacer := rate.NewLimiter(rate.Inf, 1)
	if cfg.DelayRequests > 0 {
		pacer = rate.NewLimiter(rate.Every(cfg.DelayRequests), 1)
	}
	return &Pipeline{
		searcher: searcher,
		valid:    valid,
		cache:    sc,
		cfg:      cfg,
		log:      log,
		pacer:    pacer,
	}
}

// Run executes the full session: plan queries, walk their result files,
// extract candidates, validate them, and checkpoint the cache as it
// goes. Cancellation stops between files, never mid-ledger-write; the
// cache is flushed on every exit path.
func (p *Pipeline) Run(ctx context.Context) (res Result, err error) {
	res = Result{
		ProviderLive: map[types.Provider]int{},
		Started:      time.Now().UTC(),
	}
	defer func() {
		res.Finished = time.Now().UTC()
		if err := p.cache.Flush(); err != nil {
			p.log.Error("final cache flush failed", "error", err)
		}
	}()

	queries := gh.PlanQueries(gh.PlanOptions{
		Providers:     p.cfg.Providers,
		IncludeRecent: p.cfg.IncludeRecent,
		RecentDays:    p.cfg.RecentDays,
	})

	sinceFlush := 0
	for _, q := range queries {
		if ctx.Err() != nil {
			res.Interrupted = true
			return res, nil
		}
		if !p.budgetOk(ctx) {
			p.log.Warn("api budget exhausted, stopping early",
				"queries_run", res.QueriesRun)
			res.Interrupted = true
			return res, nil
		}
		if err := p.pacer.Wait(ctx); err != nil {
			res.Interrupted = true
			return res, nil
		}

		p.log.Info("searching", "provider", q.Provider, "query", q.Text)
		files, err := p.search(ctx, q.Text)
		if err != nil {
			if errors.Is(err, gh.ErrRateLimited) {
				p.log.Warn("search rate limited beyond backoff budget, stopping early")
				res.Interrupted = true
				return res, nil
			}
			if ctx.Err() != nil {
				res.Interrupted = true
				return res, nil
			}
			p.log.Error("search failed", "query", q.Text, "error", err)
			continue
		}
		res.QueriesRun++
		res.FilesSeen += len(files)

		for _, f := range files {
			if ctx.Err() != nil {
				res.Interrupted = true
				return res, nil
			}
			if p.cache.FileSeen(f.ID) {
				continue
			}
			tested, live := p.processFile(ctx, f, &res)
			res.KeysTested += tested
			res.LiveKeys += live
			if !p.cache.MarkFileProcessed(f.ID) {
				continue
			}
			res.FilesProcessed++
			sinceFlush++
			if sinceFlush >= p.cfg.FlushEvery {
				if err := p.cache.Flush(); err != nil {
					p.log.Error("cache flush failed", "error", err)
				}
				sinceFlush = 0
			}
		}
	}
	return res, nil
}

// search runs one query, retrying rate-limited responses under the
// backoff policy before giving up.
func (p *Pipeline) search(ctx context.Context, query string) ([]gh.File, error) {
	var files []gh.File
	err := p.cfg.Backoff.Retry(func() error {
		var err error
		files, err = p.searcher.Search(ctx, query, p.cfg.MaxPages)
		if errors.Is(err, gh.ErrRateLimited) && ctx.Err() == nil {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	})
	return files, err
}

// processFile fetches one file, extracts candidates and validates them.
// Fetch or probe failures degrade to logging; the file is still marked
// processed by the caller so a broken file is not refetched forever.
func (p *Pipeline) processFile(ctx context.Context, f gh.File, res *Result) (tested, live int) {
	content, err := p.searcher.FileContent(ctx, f)
	if err != nil {
		p.log.Warn("fetch failed", "file", f.FullName+"/"+f.Path, "error", err)
		return 0, 0
	}
	if content == "" {
		return 0, 0
	}

	candidates := extract.Extract(content, f.ID, f.FullName, f.Path)
	res.Candidates += len(candidates)
	for i := range candidates {
		c := candidates[i]
		c.DiscoveredAt = time.Now().UTC()
		c.RepoPushed = f.RepoPushed
		v, spent, err := p.valid.Validate(ctx, c)
		if err != nil {
			if ctx.Err() != nil {
				return tested, live
			}
			p.log.Warn("validation failed", "provider", c.Provider, "error", err)
			continue
		}
		if !spent {
			continue
		}
		tested++
		switch v.Outcome {
		case types.OutcomeLive:
			live++
			res.ProviderLive[c.Provider]++
			p.log.Info("live key found",
				"provider", c.Provider,
				"key", types.MaskKey(c.Raw),
				"repository", c.Repository,
				"path", c.FilePath)
		case types.OutcomeIndeterminate:
			p.log.Debug("indeterminate probe",
				"provider", c.Provider, "reason", v.Reason)
		}
	}
	return tested, live
}

func (p *Pipeline) budgetOk(ctx context.Context) bool {
	b, err := p.searcher.RateBudget(ctx)
	if err != nil {
		// Budget lookup failing is not itself a reason to stop.
		p.log.Debug("rate budget check failed", "error", err)
		return true
	}
	return b.Ok()
}
