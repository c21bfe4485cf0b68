package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/core"
	"wakeful.dev/wakeful/internal/daemon"
)

func NewStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the wakeful daemon",
		Long: `Stop the wakeful daemon, releasing all held inhibition grants.

This will gracefully shut down the daemon, cleaning up its pid file and
status record on the way out.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			pid, err := daemon.RequestStop()
			if err != nil {
				slog.Warn("Daemon is not running")
				return
			}
			slog.Info(fmt.Sprintf("Stop requested for daemon with PID %d", pid))

			// Poll for up to 5 seconds to confirm the daemon is gone
			maxWait := 5 * time.Second
			pollInterval := 100 * time.Millisecond
			elapsed := time.Duration(0)

			for elapsed < maxWait {
				time.Sleep(pollInterval)
				elapsed += pollInterval

				if _, running := daemon.InstanceRunning(core.GetPIDFilePath()); !running {
					slog.Info("Daemon stopped")
					return
				}
			}

			slog.Warn("Daemon did not shut down within timeout, but stop signal was sent")
		},
	}
}
