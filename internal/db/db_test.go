package db

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "history", "wakeful.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	// The path nests below a directory that does not exist yet.
	openTestDB(t)
}

func TestDaemonEventRoundtrip(t *testing.T) {
	database := openTestDB(t)

	if err := database.LogDaemonEvent("start", "daemon started - version: 1.0.0, PID: 42"); err != nil {
		t.Fatalf("LogDaemonEvent() error = %v", err)
	}
	if err := database.LogDaemonEvent("stop", "daemon stopped - PID: 42"); err != nil {
		t.Fatalf("LogDaemonEvent() error = %v", err)
	}

	events, err := database.GetRecentDaemonEvents(10)
	if err != nil {
		t.Fatalf("GetRecentDaemonEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	// Newest first.
	if events[0].EventType != "stop" || events[1].EventType != "start" {
		t.Errorf("event order = %s, %s; want stop, start", events[0].EventType, events[1].EventType)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("event timestamp is zero")
	}
}

func TestInhibitorEventRoundtrip(t *testing.T) {
	database := openTestDB(t)

	for _, eventType := range []string{"acquire", "release", "acquire_failed"} {
		if err := database.LogInhibitorEvent(eventType, "user request"); err != nil {
			t.Fatalf("LogInhibitorEvent(%s) error = %v", eventType, err)
		}
	}

	events, err := database.GetRecentInhibitorEvents(10)
	if err != nil {
		t.Fatalf("GetRecentInhibitorEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[0].EventType != "acquire_failed" {
		t.Errorf("newest event = %s, want acquire_failed", events[0].EventType)
	}
	if events[0].Details != "user request" {
		t.Errorf("Details = %q, want %q", events[0].Details, "user request")
	}
}

func TestGetRecentEventsLimit(t *testing.T) {
	database := openTestDB(t)

	for i := 0; i < 5; i++ {
		if err := database.LogInhibitorEvent("acquire", ""); err != nil {
			t.Fatalf("LogInhibitorEvent() error = %v", err)
		}
	}

	events, err := database.GetRecentInhibitorEvents(3)
	if err != nil {
		t.Fatalf("GetRecentInhibitorEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Errorf("len(events) = %d, want 3", len(events))
	}
}

func TestGetRecentEventsEmpty(t *testing.T) {
	database := openTestDB(t)

	events, err := database.GetRecentDaemonEvents(10)
	if err != nil {
		t.Fatalf("GetRecentDaemonEvents() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestCloseIsIdempotentOnNilConn(t *testing.T) {
	database := &DB{}
	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := database.LogDaemonEvent("start", ""); err != nil {
		t.Fatalf("LogDaemonEvent() error = %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	database, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer database.Close()

	events, err := database.GetRecentDaemonEvents(10)
	if err != nil {
		t.Fatalf("GetRecentDaemonEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Errorf("len(events) = %d after reopen, want 1", len(events))
	}
}
