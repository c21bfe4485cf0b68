// Package daemon runs the wakeful control loop: a single-threaded,
// signal-driven scheduler that owns the inhibitor state and publishes every
// transition to the status record.
package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"wakeful.dev/wakeful/internal/core"
	"wakeful.dev/wakeful/internal/db"
	"wakeful.dev/wakeful/internal/inhibit"
)

// Status messages published on control transitions.
const (
	msgAlreadyActive   = "Inhibitors already active."
	msgAlreadyInactive = "Inhibitors already inactive."
	msgReleasedByUser  = "Inhibitors released by user request."
	msgReleasedOnExit  = "Inhibitors released (process exiting)."
)

// inhibitController is what the loop needs from the inhibit package. Tests
// substitute a fake.
type inhibitController interface {
	AcquireAll() error
	ReleaseAll()
	Active() bool
}

// Daemon owns all mutable daemon state. The control loop goroutine is the
// only reader and writer of the controller and publisher; the signal
// goroutine only sets the three request flags.
type Daemon struct {
	controller   inhibitController
	publisher    *Publisher
	database     *db.DB
	pidPath      string
	pollInterval time.Duration
	debug        bool

	terminateRequested atomic.Bool
	acquireRequested   atomic.Bool
	releaseRequested   atomic.Bool
}

// New builds a daemon from the loaded configuration.
func New() *Daemon {
	return &Daemon{
		controller: inhibit.NewController(
			core.GetInhibitAppName(),
			core.GetLockReason(),
			core.GetSleepReason(),
		),
		publisher:    NewPublisher(core.GetStatusPath()),
		pidPath:      core.GetPIDFilePath(),
		pollInterval: core.GetPollInterval(),
		debug:        core.GetDebug(),
	}
}

// Run executes the control loop until termination is requested. It never
// returns early because of inhibitor failures: availability of the daemon
// outranks the success of any single acquisition.
func (d *Daemon) Run() {
	setupLogging(d.debug)

	if pid, running := InstanceRunning(d.pidPath); running {
		slog.Error(fmt.Sprintf("Fatal: wakeful is already running with PID %d", pid))
		os.Exit(1)
	}

	if err := WritePIDFile(d.pidPath, os.Getpid()); err != nil {
		slog.Error(fmt.Sprintf("Fatal: %v", err))
		os.Exit(1)
	}
	defer RemovePIDFile(d.pidPath)

	if core.GetHistoryEnabled() {
		database, err := db.Open(core.GetHistoryDBPath())
		if err != nil {
			slog.Error("Failed to open history database", "error", err, "path", core.GetHistoryDBPath())
		} else {
			d.database = database
			defer d.database.Close()
			d.logDaemonEvent("start", fmt.Sprintf("daemon started - version: %s, PID: %d",
				core.FormatVersion(core.Version), os.Getpid()))
		}
	}

	// The handler context only flags intent; the loop below is the sole
	// consumer of the flags. A same-signal burst before the next poll
	// coalesces into one pending flag.
	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(signals)
	go func() {
		for sig := range signals {
			switch sig {
			case syscall.SIGTERM, syscall.SIGINT:
				d.terminateRequested.Store(true)
			case syscall.SIGUSR1:
				d.acquireRequested.Store(true)
			case syscall.SIGUSR2:
				d.releaseRequested.Store(true)
			}
		}
	}()

	slog.Info("wakeful daemon started", "pid", os.Getpid(), "poll_interval", d.pollInterval)

	// Initial acquisition. Failure is not fatal: the daemon keeps running
	// and waits for a later acquire request.
	if err := d.controller.AcquireAll(); err != nil {
		slog.Info(fmt.Sprintf("Initial inhibitor acquisition failed: %v", err))
		d.publish(err.Error())
		d.logInhibitorEvent("acquire_failed", err.Error())
	} else {
		d.publish(inhibit.ActiveMessage)
		d.logInhibitorEvent("acquire", "initial acquisition")
	}

	for !d.terminateRequested.Load() {
		d.step()
		time.Sleep(d.pollInterval)
	}

	slog.Info("Termination requested, releasing inhibitors")
	d.shutdown()
}

// step processes the pending control requests. Each flag is cleared exactly
// when it is consumed, so requests delivered during processing survive until
// the next iteration.
func (d *Daemon) step() {
	if d.acquireRequested.Swap(false) {
		if d.controller.Active() {
			slog.Info("Acquire request ignored; inhibitors already active")
			d.publish(msgAlreadyActive)
		} else if err := d.controller.AcquireAll(); err != nil {
			slog.Info(fmt.Sprintf("Acquire request failed: %v", err))
			d.publish(err.Error())
			d.logInhibitorEvent("acquire_failed", err.Error())
		} else {
			d.publish(inhibit.ActiveMessage)
			d.logInhibitorEvent("acquire", "user request")
		}
	}

	if d.releaseRequested.Swap(false) {
		if d.controller.Active() {
			d.controller.ReleaseAll()
			d.publish(msgReleasedByUser)
			d.logInhibitorEvent("release", "user request")
		} else {
			slog.Info("Release request ignored; inhibitors already inactive")
			d.publish(msgAlreadyInactive)
		}
	}
}

// shutdown releases unconditionally. Per the lifecycle contract the release
// path is safe from any state; the final status message is only published
// when the set was actually active right before exit.
func (d *Daemon) shutdown() {
	wasActive := d.controller.Active()
	d.controller.ReleaseAll()
	if wasActive {
		d.publish(msgReleasedOnExit)
		d.logInhibitorEvent("release", "process exiting")
	}
	d.logDaemonEvent("stop", fmt.Sprintf("daemon stopped - PID: %d", os.Getpid()))
}

// publish rewrites the status record with the current aggregate state and
// the given message.
func (d *Daemon) publish(message string) {
	slog.Debug(message)
	d.publisher.Publish(Record{
		PID:     os.Getpid(),
		Active:  d.controller.Active(),
		Debug:   d.debug,
		Message: message,
	})
}

func (d *Daemon) logDaemonEvent(eventType, details string) {
	if d.database == nil {
		return
	}
	if err := d.database.LogDaemonEvent(eventType, details); err != nil {
		slog.Debug(fmt.Sprintf("Failed to log daemon event: %v", err))
	}
}

func (d *Daemon) logInhibitorEvent(eventType, details string) {
	if d.database == nil {
		return
	}
	if err := d.database.LogInhibitorEvent(eventType, details); err != nil {
		slog.Debug(fmt.Sprintf("Failed to log inhibitor event: %v", err))
	}
}
