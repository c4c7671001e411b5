package gh

import (
	"fmt"
	"time"

	"github.com/AdvikSudM12/scan-key/internal/providers"
	"github.com/AdvikSudM12/scan-key/internal/types"
)

// Query is one planned search query with its provider attribution.
type Query struct {
	Provider types.Provider
	Text     string
}

// PlanOptions controls query generation.
type PlanOptions struct {
	// Providers restricts planning; empty means all registered.
	Providers []types.Provider
	// IncludeRecent adds date-bounded freshness queries.
	IncludeRecent bool
	// RecentDays bounds the freshness window (default 30).
	RecentDays int
	// Now is injectable for tests; zero means time.Now.
	Now time.Time
}

// PlanQueries produces the ordered search queries for each provider,
// built from the registry marker vocabulary plus, optionally, queries
// restricted to recently-pushed repositories. Order within a provider
// follows the registry marker order so the highest-signal markers run
// first under a tight rate budget.
func PlanQueries(opts PlanOptions) []Query {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	days := opts.RecentDays
	if days <= 0 {
		days = 30
	}
	recentDate := now.AddDate(0, 0, -days).Format("2006-01-02")

	want := map[types.Provider]bool{}
	for _, p := range opts.Providers {
		want[p] = true
	}

	var out []Query
	for _, info := range providers.All() {
		if len(want) > 0 && !want[info.Provider] {
			continue
		}
		for _, marker := range info.Markers {
			out = append(out, Query{Provider: info.Provider, Text: marker})
		}
		if opts.IncludeRecent {
			out = append(out,
				Query{Provider: info.Provider, Text: fmt.Sprintf("%s pushed:>%s", info.Prefix, recentDate)},
				Query{Provider: info.Provider, Text: fmt.Sprintf("%s created:>%s", primaryMarker(info), recentDate)},
			)
		}
	}
	return out
}

// primaryMarker is the first marker, by convention the canonical
// environment-variable name.
func primaryMarker(info providers.Info) string {
	if len(info.Markers) > 0 {
		return info.Markers[0]
	}
	return info.Prefix
}
