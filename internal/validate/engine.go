package validate

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/AdvikSudM12/scan-key/internal/cache"
	"github.com/AdvikSudM12/scan-key/internal/results"
	"github.com/AdvikSudM12/scan-key/internal/types"
)

// Engine validates candidates against provider endpoints exactly once
// per fingerprint, under a global per-provider rate budget, and
// persists live findings write-through so partial progress survives a
// crash.
type Engine struct {
	prober   Prober
	cache    *cache.ScanCache
	store    *results.Store
	policy   Policy
	log      hclog.Logger
	limiters map[types.Provider]*rate.Limiter
}

// NewEngine wires the engine. testDelay is the minimum gap between key
// tests against one provider; the limiter enforces it across all
// callers, not per worker.
func NewEngine(prober Prober, sc *cache.ScanCache, store *results.Store, testDelay time.Duration, policy Policy, log hclog.Logger) *Engine {
	limiters := map[types.Provider]*rate.Limiter{}
	for _, p := range types.AllProviders() {
		limiters[p] = rate.NewLimiter(rate.Every(testDelay), 1)
	}
	return &Engine{
		prober:   prober,
		cache:    sc,
		store:    store,
		policy:   policy,
		log:      log,
		limiters: limiters,
	}
}

// Validate probes one candidate. The bool is false when the candidate
// was skipped because its fingerprint had already been tested in this
// or a previous run. Malformed candidates (unknown provider) are
// discarded without counting as tested.
func (e *Engine) Validate(ctx context.Context, c types.Candidate) (types.Validation, bool, error) {
	if !c.Provider.Known() {
		return types.Validation{Outcome: types.OutcomeIndeterminate, Reason: "unknown provider"}, false, nil
	}
	fp := Fingerprint(c.Raw)
	if e.cache.SeenOrMarkTested(fp) {
		e.log.Debug("fingerprint already tested", "key", types.MaskKey(c.Raw))
		return types.Validation{}, false, nil
	}

	if lim, ok := e.limiters[c.Provider]; ok {
		if err := lim.Wait(ctx); err != nil {
			return types.Validation{}, false, err
		}
	}

	v := e.probeWithRetry(ctx, c)
	e.log.Info("key tested",
		"provider", c.Provider.String(),
		"key", types.MaskKey(c.Raw),
		"outcome", string(v.Outcome),
	)

	if v.Outcome == types.OutcomeLive {
		f := types.Finding{
			Key:        c.Raw,
			Provider:   c.Provider.String(),
			Repository: c.Repository,
			FilePath:   c.FilePath,
			FileURL:    c.FileID,
			FoundAt:    c.DiscoveredAt.Format(time.RFC3339),
			Status:     string(types.OutcomeLive),
		}
		if !c.RepoPushed.IsZero() {
			f.UpdatedAt = c.RepoPushed.Format(time.RFC3339)
		}
		if err := e.store.Append(f, e.cache.TestedCount(), e.cache.ProcessedCount()); err != nil {
			// Persistence failure is non-fatal; the run continues and
			// the next flush retries.
			e.log.Error("ledger append failed", "provider", c.Provider.String(), "err", err)
		}
	}
	return v, true, nil
}

// probeWithRetry retries rate-limited probes under the backoff policy.
// Dead, live and indeterminate outcomes stop the retry loop.
func (e *Engine) probeWithRetry(ctx context.Context, c types.Candidate) types.Validation {
	var last types.Validation
	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		last = e.prober.Probe(ctx, c.Provider, c.Raw)
		if last.Outcome == types.OutcomeRateLimited {
			e.log.Warn("provider rate limited, backing off",
				"provider", c.Provider.String(), "key", types.MaskKey(c.Raw))
			return errRetry
		}
		return nil
	}
	_ = e.policy.Retry(op)
	return last
}

// errRetry is an internal marker for the backoff loop.
var errRetry = errors.New("rate limited")
