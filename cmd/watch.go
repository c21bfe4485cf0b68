package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"wakeful.dev/wakeful/internal/core"
	"wakeful.dev/wakeful/internal/daemon"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the daemon's status record",
		Long: `Follow the daemon's status record and print every change until
interrupted. The record is watched with inotify; the watch survives the
daemon's truncate-and-rewrite publishes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statusPath := core.GetStatusPath()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create status file watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(statusPath); err != nil {
				return fmt.Errorf("watch %s: %w (is the daemon running?)", statusPath, err)
			}

			printRecord(statusPath)

			done := make(chan os.Signal, 1)
			signal.Notify(done, os.Interrupt, syscall.SIGTERM)

			for {
				select {
				case <-done:
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}

					// The daemon rewrites the record in place, but editors or a
					// restarting daemon may replace it. Re-add the watch after
					// RENAME/REMOVE/CREATE so we keep following the path.
					if event.Op&(fsnotify.Rename|fsnotify.Remove|fsnotify.Create) != 0 {
						rearmWatch(watcher, statusPath)
					}

					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					printRecord(statusPath)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					slog.Error("Status file watcher error", "error", err)
				}
			}
		},
	}
}

// rearmWatch re-adds the watch with a short backoff, since the file may be
// briefly absent during a replace.
func rearmWatch(watcher *fsnotify.Watcher, path string) {
	for attempt := 0; attempt < 5; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(10<<uint(attempt-1)) * time.Millisecond)
		}
		watcher.Remove(path)
		if err := watcher.Add(path); err == nil {
			return
		} else if attempt == 4 {
			slog.Error("Failed to re-add watch after multiple attempts", "error", err, "path", path)
		}
	}
}

func printRecord(path string) {
	record, err := daemon.ReadRecord(path)
	if err != nil {
		return
	}
	state := "inactive"
	if record.Active {
		state = "ACTIVE"
	}
	fmt.Printf("%s  pid=%d  %-8s  %s\n", time.Now().Format(time.DateTime), record.PID, state, record.Message)
}
