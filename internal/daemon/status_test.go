package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPublishReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.status")
	publisher := NewPublisher(path)

	want := Record{
		PID:     4321,
		Active:  true,
		Debug:   false,
		Message: "Inhibitors active (screen saver, idle, sleep).",
	}
	publisher.Publish(want)

	got, err := ReadRecord(path)
	if err != nil {
		t.Fatalf("ReadRecord() error = %v", err)
	}
	if got != want {
		t.Errorf("ReadRecord() = %+v, want %+v", got, want)
	}
}

func TestPublishOverwritesInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.status")
	publisher := NewPublisher(path)

	publisher.Publish(Record{PID: 1, Active: true, Message: "first"})
	publisher.Publish(Record{PID: 1, Active: false, Message: "second"})

	got, err := ReadRecord(path)
	if err != nil {
		t.Fatalf("ReadRecord() error = %v", err)
	}
	if got.Active {
		t.Error("Active = true, want the second publish to win")
	}
	if got.Message != "second" {
		t.Errorf("Message = %q, want %q", got.Message, "second")
	}
}

func TestPublishSanitizesMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.status")
	publisher := NewPublisher(path)

	publisher.Publish(Record{PID: 1, Message: "line one\nline two\r\nline three"})

	got, err := ReadRecord(path)
	if err != nil {
		t.Fatalf("ReadRecord() error = %v", err)
	}
	if got.Message != "line one line two  line three" {
		t.Errorf("Message = %q, newlines not flattened", got.Message)
	}
}

func TestReadRecordMissingFile(t *testing.T) {
	_, err := ReadRecord(filepath.Join(t.TempDir(), "absent.status"))
	if err == nil {
		t.Fatal("ReadRecord() error = nil, want an error for a missing file")
	}
}

func TestReadRecordTolerantParsing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeful.status")
	content := "pid=77\n" +
		"garbage line\n" +
		"active=true\n" +
		"future_key=whatever\n" +
		"debug=0\n" +
		"message=still parsed\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRecord(path)
	if err != nil {
		t.Fatalf("ReadRecord() error = %v", err)
	}
	want := Record{PID: 77, Active: true, Debug: false, Message: "still parsed"}
	if got != want {
		t.Errorf("ReadRecord() = %+v, want %+v", got, want)
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"yes", false},
	}

	for _, tt := range tests {
		if got := parseFlag(tt.value); got != tt.want {
			t.Errorf("parseFlag(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
