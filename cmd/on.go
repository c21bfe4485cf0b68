package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/daemon"
)

func NewOnCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "on",
		Aliases: []string{"acquire"},
		Short:   "Ask the daemon to acquire the inhibitors",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			pid, err := daemon.RequestAcquire()
			if err != nil {
				slog.Error(fmt.Sprintf("Could not request acquisition: %v", err))
				os.Exit(1)
			}
			slog.Info(fmt.Sprintf("Acquire requested (signalled PID %d)", pid))
		},
	}
}
