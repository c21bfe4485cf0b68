package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/core"
	"wakeful.dev/wakeful/internal/daemon"
)

func NewToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the inhibitors on or off",
		Long: `Toggle the inhibitors: requests a release when the status record shows
them active, an acquisition otherwise.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			record, err := daemon.ReadRecord(core.GetStatusPath())
			if err != nil {
				slog.Error("Daemon is not running (no status record)")
				os.Exit(1)
			}

			var pid int
			if record.Active {
				pid, err = daemon.RequestRelease()
			} else {
				pid, err = daemon.RequestAcquire()
			}
			if err != nil {
				slog.Error(fmt.Sprintf("Could not toggle inhibitors: %v", err))
				os.Exit(1)
			}

			if record.Active {
				slog.Info(fmt.Sprintf("Toggle requested: release inhibitors (signalled PID %d)", pid))
			} else {
				slog.Info(fmt.Sprintf("Toggle requested: acquire inhibitors (signalled PID %d)", pid))
			}
		},
	}
}
