package scankey

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AdvikSudM12/scan-key/internal/audit"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past scan sessions from the audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			records, err := audit.NewAuditLog(cfg.ResultsDir).LoadHistory()
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no scan history yet")
				return nil
			}
			if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
				records = records[:flagHistoryLimit]
			}
			for _, r := range records {
				status := ""
				if r.Interrupted {
					status = " (interrupted)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  queries=%d files=%d tested=%d live=%d duration=%s%s\n",
					r.Timestamp.Format("2006-01-02 15:04:05"),
					r.QueriesRun, r.FilesProcessed, r.KeysTested, r.LiveKeys, r.Duration, status)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "most recent sessions to show (0 = all)")
}
