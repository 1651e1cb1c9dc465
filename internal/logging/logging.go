// internal/logging/logging.go
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a stderr-style logger at the named level. quiet raises the
// level to errors only. An unknown level falls back to info with a warning.
func New(w io.Writer, level string, quiet bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "acekit"})
	if quiet {
		logger.SetLevel(log.ErrorLevel)
		return logger
	}
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info", "":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
		logger.Warn("unknown log level, defaulting to info", "provided", level)
	}
	return logger
}
