package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPIDFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.pid")

	if err := WritePIDFile(path, 12345); err != nil {
		t.Fatalf("WritePIDFile() error = %v", err)
	}

	pid, err := ReadPIDFile(path)
	if err != nil {
		t.Fatalf("ReadPIDFile() error = %v", err)
	}
	if pid != 12345 {
		t.Errorf("ReadPIDFile() = %d, want 12345", pid)
	}
}

func TestReadPIDFileTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.pid")
	if err := os.WriteFile(path, []byte("  678\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	pid, err := ReadPIDFile(path)
	if err != nil {
		t.Fatalf("ReadPIDFile() error = %v", err)
	}
	if pid != 678 {
		t.Errorf("ReadPIDFile() = %d, want 678", pid)
	}
}

func TestReadPIDFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.pid")
	if err := os.WriteFile(path, []byte("not-a-pid"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadPIDFile(path); err == nil {
		t.Fatal("ReadPIDFile() error = nil, want parse failure")
	}
}

func TestRemovePIDFileMissing(t *testing.T) {
	// Removing a marker that never existed must be silent.
	RemovePIDFile(filepath.Join(t.TempDir(), "absent.pid"))
}

func TestInstanceRunningNoFile(t *testing.T) {
	pid, running := InstanceRunning(filepath.Join(t.TempDir(), "absent.pid"))
	if running {
		t.Error("InstanceRunning() = true without a pid file")
	}
	if pid != 0 {
		t.Errorf("pid = %d, want 0", pid)
	}
}

func TestInstanceRunningStalePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.pid")

	// Pids are capped well below this on Linux, so it cannot be a live process.
	if err := WritePIDFile(path, 99999999); err != nil {
		t.Fatal(err)
	}

	if _, running := InstanceRunning(path); running {
		t.Error("InstanceRunning() = true for a stale pid")
	}
}

func TestInstanceRunningOtherProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.pid")

	// PID 1 is alive but is never a wakeful daemon.
	if err := WritePIDFile(path, 1); err != nil {
		t.Fatal(err)
	}

	pid, running := InstanceRunning(path)
	if running {
		t.Error("InstanceRunning() = true for pid 1")
	}
	if pid != 1 {
		t.Errorf("pid = %d, want 1", pid)
	}
}
