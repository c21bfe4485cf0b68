package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/core"
	"wakeful.dev/wakeful/internal/db"
)

func NewHistoryCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "history",
		Short: "Show recent inhibitor events",
		Long: `Show recent inhibitor events recorded by the daemon, newest first.
Use --lifecycle to show daemon start/stop events instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			lifecycle, _ := cmd.Flags().GetBool("lifecycle")

			dbPath := core.GetHistoryDBPath()
			if _, err := os.Stat(dbPath); err != nil {
				slog.Info("No history recorded yet", "path", dbPath)
				return nil
			}

			database, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer database.Close()

			var events []db.Event
			if lifecycle {
				events, err = database.GetRecentDaemonEvents(limit)
			} else {
				events, err = database.GetRecentInhibitorEvents(limit)
			}
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			if len(events) == 0 {
				fmt.Println("No events recorded.")
				return nil
			}

			for _, event := range events {
				line := fmt.Sprintf("%s  %-8s", event.Timestamp.Local().Format("2006-01-02 15:04:05"), event.EventType)
				if event.Details != "" {
					line += "  " + event.Details
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	command.Flags().IntP("limit", "n", 20, "Maximum number of events to show")
	command.Flags().Bool("lifecycle", false, "Show daemon start/stop events instead of inhibitor events")

	return command
}
