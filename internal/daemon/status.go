package daemon

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Record is the daemon's externally visible state. It is written by the
// daemon only and read by the status, toggle and watch commands (and any
// other external viewer).
type Record struct {
	PID     int    `json:"pid"`
	Active  bool   `json:"active"`
	Debug   bool   `json:"debug"`
	Message string `json:"message"`
}

// Publisher rewrites the status record file in place on every publish. The
// format is line-oriented key=value pairs, so publishing is best-effort and
// must never fail the control loop.
type Publisher struct {
	path string
}

func NewPublisher(path string) *Publisher {
	return &Publisher{path: path}
}

// Publish overwrites the status record. Failures are logged on the debug
// channel and otherwise swallowed.
func (p *Publisher) Publish(record Record) {
	var b strings.Builder
	fmt.Fprintf(&b, "pid=%d\n", record.PID)
	fmt.Fprintf(&b, "active=%d\n", boolToInt(record.Active))
	fmt.Fprintf(&b, "debug=%d\n", boolToInt(record.Debug))
	fmt.Fprintf(&b, "message=%s\n", sanitizeMessage(record.Message))

	if err := os.WriteFile(p.path, []byte(b.String()), 0o644); err != nil {
		slog.Debug(fmt.Sprintf("Unable to write status record %s: %v", p.path, err))
	}
}

// sanitizeMessage keeps the message on a single line; the record format is
// line-oriented.
func sanitizeMessage(message string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(message)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ReadRecord parses a status record previously written by Publish. Lines
// without a key=value shape are skipped; unknown keys are ignored so the
// format can grow without breaking old readers.
func ReadRecord(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	var record Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		switch key {
		case "pid":
			if pid, err := strconv.Atoi(value); err == nil {
				record.PID = pid
			}
		case "active":
			record.Active = parseFlag(value)
		case "debug":
			record.Debug = parseFlag(value)
		case "message":
			record.Message = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Record{}, err
	}
	return record, nil
}

func parseFlag(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}
