// Package applog provides the slog handlers behind the operator-facing app log.
//
// Lines are written as "[2006-01-02 15:04:05] [LEVEL] message key=value ...",
// the format operators already grep for. Write failures are dropped so that a
// full disk or a locked file never interrupts document processing.
package applog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TimeLayout is the timestamp layout used by the app, success and error logs.
const TimeLayout = "2006-01-02 15:04:05"

// FileHandler formats records in the app log line format.
type FileHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	prefix string
	attrs  string
}

// NewFileHandler creates a handler writing to w at the given minimum level.
func NewFileHandler(w io.Writer, level slog.Leveler) *FileHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &FileHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *FileHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *FileHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", ts.Format(TimeLayout), r.Level.String(), r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = io.WriteString(h.w, b.String())
	return nil
}

func (h *FileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}
	clone := *h
	clone.attrs = b.String()
	return &clone
}

func (h *FileHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, prefix+a.Key+".", ga)
		}
		return
	}

	value := a.Value.String()
	if strings.ContainsAny(value, " \t\n\"") {
		value = fmt.Sprintf("%q", value)
	}
	fmt.Fprintf(b, " %s%s=%s", prefix, a.Key, value)
}

// Fanout sends each record to every handler that accepts its level.
type Fanout []slog.Handler

func (f Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f Fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(Fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f Fanout) WithGroup(name string) slog.Handler {
	out := make(Fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Open creates a logger writing to both the console and the app log file.
// The returned close function releases the file handle.
func Open(path string, console io.Writer, debug bool) (*slog.Logger, func() error, error) {
	consoleLevel := slog.LevelInfo
	if debug {
		consoleLevel = slog.LevelDebug
	}
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: consoleLevel})

	if path == "" {
		return slog.New(consoleHandler), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open app log: %w", err)
	}

	logger := slog.New(Fanout{consoleHandler, NewFileHandler(f, slog.LevelInfo)})
	return logger, f.Close, nil
}
