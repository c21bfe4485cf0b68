package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/core"
	"wakeful.dev/wakeful/internal/daemon"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Long:  `Show version of the client and the PID of the running daemon (if any)`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "Client version: %s\n", core.FormatVersion(core.Version))

			if pid, running := daemon.InstanceRunning(core.GetPIDFilePath()); running {
				fmt.Fprintf(os.Stderr, "Daemon: running (PID %d)\n", pid)
			} else {
				fmt.Fprintln(os.Stderr, "Daemon: not running")
			}
		},
	}
}
