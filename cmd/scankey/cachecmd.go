package scankey

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AdvikSudM12/scan-key/internal/cache"
)

func init() {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the incremental scan cache",
	}
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			st := cache.Load(cachePath(cfg)).Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "cache file:          %s\n", cachePath(cfg))
			fmt.Fprintf(cmd.OutOrStdout(), "processed files:     %d\n", st.ProcessedFiles)
			fmt.Fprintf(cmd.OutOrStdout(), "tested fingerprints: %d\n", st.TestedFingerprints)
			if st.FileExists {
				fmt.Fprintf(cmd.OutOrStdout(), "file size:           %d bytes\n", st.FileSize)
			}
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all cached progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			if err := cache.Load(cachePath(cfg)).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	})
}
