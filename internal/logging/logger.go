// Package logging sets up worldbox's two output channels: a leveled
// operational logger for stderr and an append-only JSONL trace of
// sandbox activity for offline inspection.
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

// LevelTrace sits below slog's Debug. At this level the trace file
// records full program text and captured output, not just outcomes.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a configured level name ("info", "debug", "trace",
// case-insensitive) to its slog.Level. Anything unrecognized is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewLogger builds the operational logger writing to w at the named
// level, labelling the custom trace level as TRACE.
func NewLogger(level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if v, ok := a.Value.Any().(slog.Level); ok && v == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TraceLogger appends one JSON object per sandbox event to
// dir/traces.jsonl. A nil *TraceLogger is valid and discards everything,
// so call sites log unconditionally and verbosity is decided once, at
// construction.
type TraceLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewTraceLogger opens the trace file when the level enables tracing
// ("debug" or "trace") and returns nil otherwise. Setup failures also
// yield nil rather than an error: tracing is never worth failing a run
// over.
func NewTraceLogger(dir, level string) *TraceLogger {
	if ParseLevel(level) >= slog.LevelInfo {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "traces.jsonl"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil
	}
	return &TraceLogger{file: f, enc: json.NewEncoder(f)}
}

// Log records one event, stamping it with the current UTC time. The
// caller's map is left unmodified.
func (l *TraceLogger) Log(event map[string]any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	_ = l.enc.Encode(entry)
}

// Close flushes and releases the trace file. Later Log calls become
// no-ops.
func (l *TraceLogger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	l.file.Close()
	l.file = nil
	l.enc = nil
}
