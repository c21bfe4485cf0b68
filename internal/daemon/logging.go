package daemon

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// setupLogging installs the daemon's slog handler on stderr. Debug mode
// lowers the level; everything the clients see still travels through the
// status record, logging is operator-facing only.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	})

	slog.SetDefault(slog.New(handler))
}
