package cmd

import (
	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/daemon"
)

func NewDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "daemon",
		Hidden: true,
		Run: func(cmd *cobra.Command, args []string) {
			d := daemon.New()
			d.Run()
		},
	}
}
