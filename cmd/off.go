package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/daemon"
)

func NewOffCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "off",
		Aliases: []string{"release"},
		Short:   "Ask the daemon to release the inhibitors",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			pid, err := daemon.RequestRelease()
			if err != nil {
				slog.Error(fmt.Sprintf("Could not request release: %v", err))
				os.Exit(1)
			}
			slog.Info(fmt.Sprintf("Release requested (signalled PID %d)", pid))
		},
	}
}
