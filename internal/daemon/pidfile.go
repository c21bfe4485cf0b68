package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"wakeful.dev/wakeful/internal/core"
)

// WritePIDFile records pid as decimal text at path, overwriting any previous
// marker.
func WritePIDFile(path string, pid int) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

// ReadPIDFile returns the pid recorded at path.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed pid file %s: %w", path, err)
	}
	return pid, nil
}

// RemovePIDFile deletes the marker. A missing marker is not an error.
func RemovePIDFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Debug(fmt.Sprintf("Unable to remove pid file %s: %v", path, err))
	}
}

// InstanceRunning reports whether the pid recorded at path belongs to a live
// daemon process. The process name is checked as well, so a recycled pid
// from a stale marker does not count as a running instance.
func InstanceRunning(path string) (int, bool) {
	pid, err := ReadPIDFile(path)
	if err != nil {
		return 0, false
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return pid, false
	}

	running, err := proc.IsRunning()
	if err != nil || !running {
		return pid, false
	}

	name, err := proc.Name()
	if err != nil {
		// Can't inspect the process (permissions); trust the marker.
		return pid, true
	}
	if !strings.Contains(name, core.AppName) {
		slog.Debug("Pid from marker belongs to another process", "pid", pid, "name", name)
		return pid, false
	}

	return pid, true
}
