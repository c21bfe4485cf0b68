package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/core"
	"wakeful.dev/wakeful/internal/daemon"
)

func NewStatusCommand() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's inhibitor status",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			record, err := daemon.ReadRecord(core.GetStatusPath())
			if err != nil {
				slog.Warn("Daemon is not running (no status record)")
				return
			}

			_, running := daemon.InstanceRunning(core.GetPIDFilePath())

			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "text":
				fmt.Print(formatStatusText(record, running))
			case "json":
				output, err := formatStatusJSON(record)
				if err != nil {
					slog.Error(fmt.Sprintf("Unable to render status record: %v", err))
					os.Exit(1)
				}
				fmt.Println(output)
			default:
				slog.Error("unknown format")
				os.Exit(1)
			}
		},
	}
	statusCmd.Flags().StringP("format", "F", "text", "Format to use (text/json)")

	return statusCmd
}

// formatStatusJSON renders the status record for machine consumption.
func formatStatusJSON(record daemon.Record) (string, error) {
	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal status record: %w", err)
	}
	return string(jsonBytes), nil
}

// formatStatusText renders the status record for terminal output.
func formatStatusText(record daemon.Record, running bool) string {
	state := "inactive"
	if record.Active {
		state = "ACTIVE"
	}
	debug := "disabled"
	if record.Debug {
		debug = "enabled"
	}

	var b strings.Builder
	b.WriteString("wakeful daemon\n")
	if running {
		fmt.Fprintf(&b, "  PID:        %d\n", record.PID)
	} else {
		fmt.Fprintf(&b, "  PID:        %d (not running, stale record)\n", record.PID)
	}
	fmt.Fprintf(&b, "  Inhibitors: %s\n", state)
	fmt.Fprintf(&b, "  Debug:      %s\n", debug)
	fmt.Fprintf(&b, "  Status:     %s\n", record.Message)
	return b.String()
}
