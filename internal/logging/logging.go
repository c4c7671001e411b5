package logging

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// New builds the process logger. An explicit level wins, then the
// SCANKEY_LOG_LEVEL environment variable, then info.
func New(name, level string) hclog.Logger {
	if level == "" {
		level = os.Getenv("SCANKEY_LOG_LEVEL")
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stderr,
		Level:       parseLevel(strings.ToUpper(level)),
	})
}

func parseLevel(s string) hclog.Level {
	switch s {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
