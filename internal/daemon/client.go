package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"wakeful.dev/wakeful/internal/core"
)

// SignalDaemon delivers a control signal to the running daemon instance.
// Returns the signalled pid.
func SignalDaemon(sig syscall.Signal) (int, error) {
	pid, running := InstanceRunning(core.GetPIDFilePath())
	if !running {
		return 0, fmt.Errorf("wakeful daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, fmt.Errorf("find daemon process %d: %w", pid, err)
	}
	if err := proc.Signal(sig); err != nil {
		return 0, fmt.Errorf("signal daemon process %d: %w", pid, err)
	}
	return pid, nil
}

// RequestAcquire asks the daemon to acquire the inhibitors.
func RequestAcquire() (int, error) {
	return SignalDaemon(syscall.SIGUSR1)
}

// RequestRelease asks the daemon to release the inhibitors.
func RequestRelease() (int, error) {
	return SignalDaemon(syscall.SIGUSR2)
}

// RequestStop asks the daemon to terminate gracefully.
func RequestStop() (int, error) {
	return SignalDaemon(syscall.SIGTERM)
}

// daemonArgs rebuilds the command line for the spawned daemon process. The
// daemon parses flags and loads configuration on its own, so the caller's
// effective config path and debug setting must travel as flags or the two
// processes end up on different config.
func daemonArgs(configPath string, debug bool) []string {
	args := []string{"daemon"}
	if configPath != "" {
		args = append(args, "--config-path", configPath)
	}
	if debug {
		args = append(args, "--debug")
	}
	return args
}

// StartDaemon spawns the hidden daemon command as a detached background
// process in its own session, so closing the terminal does not take the
// daemon with it.
func StartDaemon() error {
	cmd := exec.Command(os.Args[0], daemonArgs(core.GetConfigPath(), core.GetDebug())...)
	cmd.Env = os.Environ()
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not fork daemon process: %w", err)
	}
	// Detach: the daemon is tracked through its pid file, not as a child.
	return cmd.Process.Release()
}

// WaitForDaemon polls until the new daemon has written its pid file and
// published a first status record.
func WaitForDaemon() error {
	for i := 0; i < 20; i++ {
		time.Sleep(100 * time.Millisecond)
		if _, running := InstanceRunning(core.GetPIDFilePath()); !running {
			continue
		}
		if _, err := os.Stat(core.GetStatusPath()); err == nil {
			return nil
		}
	}
	return fmt.Errorf("daemon process was launched but did not become ready in time")
}
