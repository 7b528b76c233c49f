// Package sessionlog tees warning-level slog records to the frontend log
// panel while keeping normal output on the base handler.
package sessionlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"
)

// Entry is one log line as shown in the frontend.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	// Source is the dot-joined slog group, or empty.
	Source string `json:"source,omitempty"`
}

// EntryCallback receives records at or above the tee threshold.
type EntryCallback func(Entry)

// TeeHandler forwards every record to base and additionally hands records at
// or above minLevel to callback.
type TeeHandler struct {
	base     slog.Handler
	callback EntryCallback
	minLevel slog.Leveler
	group    string
}

// NewTeeHandler wraps base. A nil callback makes the handler a pass-through.
func NewTeeHandler(base slog.Handler, minLevel slog.Leveler, callback EntryCallback) *TeeHandler {
	if minLevel == nil {
		minLevel = slog.LevelWarn
	}
	return &TeeHandler{
		base:     base,
		callback: callback,
		minLevel: minLevel,
	}
}

// Enabled defers to base; the tee threshold does not widen visibility.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle writes to base, then tees. The callback runs even when base fails.
func (h *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.base.Handle(ctx, record)

	if h.callback != nil && record.Level >= h.minLevel.Level() {
		entry := Entry{
			Time:    record.Time,
			Level:   strings.ToLower(record.Level.String()),
			Message: record.Message,
			Source:  h.group,
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					// stderr, not slog: logging here would re-enter the tee.
					fmt.Fprintf(os.Stderr, "[sessionlog] callback panicked: %v\n%s\n", r, debug.Stack())
				}
			}()
			h.callback(entry)
		}()
	}
	return err
}

func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &TeeHandler{
		base:     h.base.WithAttrs(attrs),
		callback: h.callback,
		minLevel: h.minLevel,
		group:    h.group,
	}
}

func (h *TeeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &TeeHandler{
		base:     h.base.WithGroup(name),
		callback: h.callback,
		minLevel: h.minLevel,
		group:    group,
	}
}
