package scankey

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AdvikSudM12/scan-key/internal/results"
	"github.com/AdvikSudM12/scan-key/internal/types"
)

var (
	flagResultsProvider string
	flagResultsJSON     bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show recorded live keys",
		RunE:  runResults,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagResultsProvider, "provider", "", "show a single provider's ledger")
	cmd.Flags().BoolVar(&flagResultsJSON, "json", false, "emit the raw ledger JSON")
}

func runResults(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	store, err := results.NewStore(cfg.ResultsDir)
	if err != nil {
		return err
	}

	if flagResultsProvider == "" {
		return store.RenderSummary(cmd.OutOrStdout())
	}

	p := types.ParseProvider(flagResultsProvider)
	if !p.Known() {
		return fmt.Errorf("unknown provider %q", flagResultsProvider)
	}
	if flagResultsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(store.Load(p))
	}
	return store.RenderFindings(cmd.OutOrStdout(), p)
}
