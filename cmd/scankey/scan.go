package scankey

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/AdvikSudM12/scan-key/internal/audit"
	"github.com/AdvikSudM12/scan-key/internal/cache"
	"github.com/AdvikSudM12/scan-key/internal/config"
	"github.com/AdvikSudM12/scan-key/internal/gh"
	"github.com/AdvikSudM12/scan-key/internal/logging"
	"github.com/AdvikSudM12/scan-key/internal/pipeline"
	"github.com/AdvikSudM12/scan-key/internal/results"
	"github.com/AdvikSudM12/scan-key/internal/types"
	"github.com/AdvikSudM12/scan-key/internal/validate"
)

var (
	flagProviders  string
	flagMaxPages   int
	flagClearCache bool
	flagNoRecent   bool
	flagRecentDays int
	flagPlanOnly   bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Search GitHub and validate discovered keys",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagProviders, "providers", "", "comma-separated providers to scan (default: all)")
	cmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "search result pages per query (0 = config default)")
	cmd.Flags().BoolVar(&flagClearCache, "clear-cache", false, "discard the incremental scan cache before starting")
	cmd.Flags().BoolVar(&flagNoRecent, "no-recent", false, "skip date-bounded freshness queries")
	cmd.Flags().IntVar(&flagRecentDays, "recent-days", 0, "freshness window in days (0 = config default)")
	cmd.Flags().BoolVar(&flagPlanOnly, "plan", false, "print the planned queries and exit without searching")
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if flagMaxPages > 0 {
		cfg.MaxPagesPerQuery = flagMaxPages
	}
	if flagRecentDays > 0 {
		cfg.RecentDays = flagRecentDays
	}
	log := logging.New("scankey", cfg.LogLevel)

	provs, err := parseProviders(flagProviders)
	if err != nil {
		return err
	}

	if flagPlanOnly {
		for _, q := range gh.PlanQueries(gh.PlanOptions{
			Providers:     provs,
			IncludeRecent: !flagNoRecent,
			RecentDays:    cfg.RecentDays,
		}) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", q.Provider, q.Text)
		}
		return nil
	}

	// Token check happens before any network or filesystem work.
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := results.NewStore(cfg.ResultsDir)
	if err != nil {
		return err
	}
	sc := cache.Load(cachePath(cfg))
	if flagClearCache {
		if err := sc.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		log.Info("cache cleared")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := gh.NewClient(ctx, cfg.GitHubToken, log)
	prober := validate.NewHTTPProber(cfg.HTTPTimeout, log)
	engine := validate.NewEngine(prober, sc, store, cfg.DelayKeyTests, validate.DefaultPolicy(), log)

	pl := pipeline.New(client, engine, sc, pipeline.Config{
		Providers:     provs,
		MaxPages:      cfg.MaxPagesPerQuery,
		DelayRequests: cfg.DelayRequests,
		FlushEvery:    cfg.FlushEvery,
		IncludeRecent: !flagNoRecent,
		RecentDays:    cfg.RecentDays,
	}, log)

	res, err := pl.Run(ctx)
	if err != nil {
		return err
	}
	if res.Interrupted {
		log.Warn("scan stopped early, progress saved")
	}

	logSession(log, cfg, provs, res)

	fmt.Fprintln(cmd.OutOrStdout())
	return store.RenderSummary(cmd.OutOrStdout())
}

func logSession(log hclog.Logger, cfg config.Config, provs []types.Provider, res pipeline.Result) {
	names := make([]string, 0, len(provs))
	for _, p := range provs {
		names = append(names, p.String())
	}
	if len(names) == 0 {
		for _, p := range types.AllProviders() {
			names = append(names, p.String())
		}
	}
	counts := map[string]int{}
	for p, n := range res.ProviderLive {
		counts[p.String()] = n
	}
	rec := audit.SessionRecord{
		Timestamp:      res.Started,
		Providers:      names,
		QueriesRun:     res.QueriesRun,
		FilesProcessed: res.FilesProcessed,
		KeysTested:     res.KeysTested,
		LiveKeys:       res.LiveKeys,
		ProviderCounts: counts,
		Duration:       res.Finished.Sub(res.Started).Round(time.Millisecond).String(),
		Interrupted:    res.Interrupted,
	}
	if err := audit.NewAuditLog(cfg.ResultsDir).LogSession(rec); err != nil {
		log.Error("audit log write failed", "error", err)
	}
}

func parseProviders(s string) ([]types.Provider, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []types.Provider
	for _, part := range strings.Split(s, ",") {
		p := types.ParseProvider(strings.TrimSpace(part))
		if !p.Known() {
			return nil, fmt.Errorf("unknown provider %q", part)
		}
		out = append(out, p)
	}
	return out, nil
}

func cachePath(cfg config.Config) string {
	if strings.ContainsRune(cfg.CacheFile, filepath.Separator) {
		return cfg.CacheFile
	}
	return filepath.Join(cfg.ResultsDir, cfg.CacheFile)
}
