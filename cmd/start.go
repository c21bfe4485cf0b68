package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/core"
	"wakeful.dev/wakeful/internal/daemon"
)

func NewStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the wakeful daemon",
		Long: `Start the wakeful daemon in the background.

The daemon acquires the screen-saver, idle and sleep inhibitors and holds
them until released or stopped. It keeps running until 'wakeful stop'.

If the daemon is already running, this command will report its status.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if pid, running := daemon.InstanceRunning(core.GetPIDFilePath()); running {
				slog.Info(fmt.Sprintf("Daemon is already running with PID %d", pid))
				return
			}

			slog.Info("Starting wakeful daemon...")
			if err := daemon.StartDaemon(); err != nil {
				slog.Error(fmt.Sprintf("Failed to start daemon: %v", err))
				return
			}

			if err := daemon.WaitForDaemon(); err != nil {
				slog.Error(fmt.Sprintf("Daemon failed to start: %v", err))
				return
			}

			slog.Info("Daemon started successfully")
		},
	}
}
