package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/core"
)

func NewRootCommand() *cobra.Command {
	var configPath string
	var debug bool

	homeDir, _ := os.UserHomeDir()

	rootCmd := &cobra.Command{
		Use:   "wakeful",
		Short: "Wakeful - keep the desktop awake",
		Long: `Wakeful keeps a workstation awake by holding screen-saver and power
management inhibition grants while its daemon runs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize config and bind global flags to the config
			messages, err := core.InitializeConfig(cmd)
			for _, message := range messages {
				fmt.Println(message)
			}
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config-path", fmt.Sprintf("%s/%s", homeDir, core.BaseDirName),
		"config path",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		NewStartCommand(),
		NewStopCommand(),
		NewStatusCommand(),
		NewOnCommand(),
		NewOffCommand(),
		NewToggleCommand(),
		NewWatchCommand(),
		NewHistoryCommand(),
		NewVersionCommand(),
		NewDaemonCommand(),
	)

	return rootCmd
}
