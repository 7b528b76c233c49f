package sessionlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// newTestCallback returns a callback that collects entries and a getter.
func newTestCallback() (EntryCallback, func() []Entry) {
	var mu sync.Mutex
	var entries []Entry

	cb := func(e Entry) {
		mu.Lock()
		defer mu.Unlock()
		entries = append(entries, e)
	}
	get := func() []Entry {
		mu.Lock()
		defer mu.Unlock()
		return append([]Entry(nil), entries...)
	}
	return cb, get
}

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("base write failed")
}

func TestTeeHandlerThreshold(t *testing.T) {
	tests := []struct {
		name      string
		log       func(l *slog.Logger)
		wantLevel string
		wantTee   bool
	}{
		{name: "debug not teed", log: func(l *slog.Logger) { l.Debug("[DEBUG-HOTKEY] pressed") }},
		{name: "info not teed", log: func(l *slog.Logger) { l.Info("settings loaded") }},
		{name: "warn teed", log: func(l *slog.Logger) { l.Warn("[WARN-SETTINGS] bad key") }, wantLevel: "warn", wantTee: true},
		{name: "error teed", log: func(l *slog.Logger) { l.Error("hook failed") }, wantLevel: "error", wantTee: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			cb, get := newTestCallback()
			tt.log(slog.New(NewTeeHandler(base, slog.LevelWarn, cb)))

			if buf.Len() == 0 {
				t.Fatal("base handler received nothing")
			}
			entries := get()
			if !tt.wantTee {
				if len(entries) != 0 {
					t.Fatalf("entries = %v, want none", entries)
				}
				return
			}
			if len(entries) != 1 {
				t.Fatalf("entries = %v, want one", entries)
			}
			if entries[0].Level != tt.wantLevel {
				t.Fatalf("Level = %q, want %q", entries[0].Level, tt.wantLevel)
			}
			if entries[0].Time.IsZero() {
				t.Fatal("entry time is zero")
			}
		})
	}
}

func TestTeeHandlerFollowsLevelVar(t *testing.T) {
	var level slog.LevelVar
	level.Set(slog.LevelError)
	cb, get := newTestCallback()
	logger := slog.New(NewTeeHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), &level, cb))

	logger.Warn("hidden")
	level.Set(slog.LevelWarn)
	logger.Warn("shown")

	entries := get()
	if len(entries) != 1 || entries[0].Message != "shown" {
		t.Fatalf("entries = %v, want only the post-change warning", entries)
	}
}

func TestTeeHandlerNilCallbackAndLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewTeeHandler(slog.NewTextHandler(&buf, nil), nil, nil)
	slog.New(h).Error("still written")
	if !strings.Contains(buf.String(), "still written") {
		t.Fatalf("base output = %q", buf.String())
	}
}

func TestTeeHandlerCallbackRunsWhenBaseFails(t *testing.T) {
	cb, get := newTestCallback()
	h := NewTeeHandler(failingHandler{slog.NewTextHandler(&bytes.Buffer{}, nil)}, slog.LevelWarn, cb)

	record := slog.NewRecord(time.Now(), slog.LevelError, "disk full", 0)
	if err := h.Handle(context.Background(), record); err == nil {
		t.Fatal("Handle() error = nil, want base error")
	}
	if len(get()) != 1 {
		t.Fatal("callback not invoked when base failed")
	}
}

func TestTeeHandlerRecoversCallbackPanic(t *testing.T) {
	var buf bytes.Buffer
	h := NewTeeHandler(slog.NewTextHandler(&buf, nil), slog.LevelWarn, func(Entry) {
		panic("frontend gone")
	})
	slog.New(h).Warn("survives")
	if !strings.Contains(buf.String(), "survives") {
		t.Fatalf("base output = %q", buf.String())
	}
}

func TestTeeHandlerGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	cb, get := newTestCallback()
	var h slog.Handler = NewTeeHandler(slog.NewTextHandler(&buf, nil), slog.LevelWarn, cb)

	if same := h.WithGroup(""); same != h {
		t.Fatal("WithGroup(\"\") should return the receiver")
	}
	if same := h.WithAttrs(nil); same != h {
		t.Fatal("WithAttrs(nil) should return the receiver")
	}

	logger := slog.New(h.WithGroup("app").WithGroup("hotkeys").WithAttrs([]slog.Attr{slog.String("component", "engine")}))
	logger.Warn("conflict")

	entries := get()
	if len(entries) != 1 {
		t.Fatalf("entries = %v, want one", entries)
	}
	if entries[0].Source != "app.hotkeys" {
		t.Fatalf("Source = %q, want app.hotkeys", entries[0].Source)
	}
	if !strings.Contains(buf.String(), "app.hotkeys.component=engine") {
		t.Fatalf("base output = %q, want grouped attr", buf.String())
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	if got := h.Entries(); len(got) != 0 {
		t.Fatalf("empty Entries() = %v", got)
	}

	for _, msg := range []string{"a", "b"} {
		h.Add(Entry{Message: msg})
	}
	assertMessages(t, h.Entries(), "a", "b")

	for _, msg := range []string{"c", "d", "e"} {
		h.Add(Entry{Message: msg})
	}
	assertMessages(t, h.Entries(), "c", "d", "e")
}

func TestHistoryDefaultSize(t *testing.T) {
	h := NewHistory(0)
	for range DefaultHistorySize + 5 {
		h.Add(Entry{Message: "x"})
	}
	if got := len(h.Entries()); got != DefaultHistorySize {
		t.Fatalf("len(Entries()) = %d, want %d", got, DefaultHistorySize)
	}
}

func assertMessages(t *testing.T, entries []Entry, want ...string) {
	t.Helper()
	if len(entries) != len(want) {
		t.Fatalf("entries = %v, want messages %v", entries, want)
	}
	for i, e := range entries {
		if e.Message != want[i] {
			t.Fatalf("entries[%d].Message = %q, want %q", i, e.Message, want[i])
		}
	}
}
