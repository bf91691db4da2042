// Package logging provides leveled logging and election tracing for leach.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A DecisionLogger for per-node election decisions (~/.leach/decisions.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug. At this level every
// node-round decision is also echoed to the operational log.
const LevelTrace = slog.LevelDebug - 4

// DecisionsFile is the name of the JSONL decision trace.
const DecisionsFile = "decisions.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled text slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: labelTrace,
	}))
}

// labelTrace prints LevelTrace as "TRACE" instead of "DEBUG-4".
func labelTrace(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// DecisionLogger appends one JSON object per line to a decision trace.
// It is safe for concurrent use. A nil DecisionLogger is valid and
// discards everything.
type DecisionLogger struct {
	mu    sync.Mutex
	file  *os.File
	runID string
	now   func() time.Time
}

// NewDecisionLogger opens dir/decisions.jsonl for append when level is
// debug or trace. At info level, or if the file cannot be opened, it
// returns nil.
func NewDecisionLogger(dir, level, runID string) *DecisionLogger {
	if ParseLevel(level) >= slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, DecisionsFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &DecisionLogger{file: f, runID: runID, now: time.Now}
}

// Log writes one decision event. "time" and "run_id" are added; the
// caller's map is not modified.
func (dl *DecisionLogger) Log(event map[string]any) {
	if dl == nil {
		return
	}

	entry := make(map[string]any, len(event)+2)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = dl.now().UTC().Format(time.RFC3339Nano)
	if dl.runID != "" {
		entry["run_id"] = dl.runID
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file == nil {
		return
	}
	_, _ = dl.file.Write(data)
}

// Close closes the trace file. Safe on a nil receiver and idempotent.
func (dl *DecisionLogger) Close() error {
	if dl == nil {
		return nil
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file == nil {
		return nil
	}
	err := dl.file.Close()
	dl.file = nil
	return err
}
