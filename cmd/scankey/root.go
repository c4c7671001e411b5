package scankey

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AdvikSudM12/scan-key/internal/config"
)

var (
	flagConfig     string
	flagLogLevel   string
	flagResultsDir string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the scankey CLI.
var rootCmd = &cobra.Command{
	Use:           "scankey",
	Short:         "Find leaked AI provider API keys on GitHub",
	Long:          "Scankey searches public GitHub code for OpenAI, Anthropic and Google Gemini API keys, validates them against provider endpoints, and records confirmed-live keys in per-provider ledgers.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the scankey CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default: .scankey.yml in cwd)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: trace|debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagResultsDir, "results-dir", "", "directory for ledgers and the cache")
}

// loadConfig resolves the layered configuration for a command run.
func loadConfig() config.Config {
	var fc config.FileConfig
	if flagConfig != "" {
		if c, err := config.LoadFile(flagConfig); err == nil {
			fc = c
		} else {
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
	} else if c, err := config.LoadLocal(); err == nil {
		fc = c
	}
	cfg := config.Resolve(fc)
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagResultsDir != "" {
		cfg.ResultsDir = flagResultsDir
	}
	return cfg
}
