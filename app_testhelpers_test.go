package main

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"streamcounter/internal/notify"
	"streamcounter/internal/settings"
)

// NOTE: Tests in package main replace package-level function variables
// (runtimeEventsEmitFn, saveSettingsFn, ...). Do not use t.Parallel() here.

type emittedEvent struct {
	name    string
	payload any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []emittedEvent
}

// captureRuntimeEvents replaces runtimeEventsEmitFn for the duration of the test.
func captureRuntimeEvents(t *testing.T) *eventRecorder {
	t.Helper()
	rec := &eventRecorder{}
	origEmit := runtimeEventsEmitFn
	t.Cleanup(func() {
		runtimeEventsEmitFn = origEmit
	})
	runtimeEventsEmitFn = func(_ context.Context, name string, data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		rec.mu.Lock()
		rec.events = append(rec.events, emittedEvent{name: name, payload: payload})
		rec.mu.Unlock()
	}
	return rec
}

func (r *eventRecorder) named(name string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, ev := range r.events {
		if ev.name == name {
			out = append(out, ev.payload)
		}
	}
	return out
}

func (r *eventRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// newTestApp returns an app with a live runtime context, silent notifier and
// file paths inside t.TempDir.
func newTestApp(t *testing.T) *App {
	t.Helper()
	app := NewApp()
	app.notifier = notify.New(appTitle, false, false)
	dir := t.TempDir()
	app.configPath = filepath.Join(dir, "config.yaml")
	app.settingsPath = filepath.Join(dir, settings.DefaultFileName)
	app.setRuntimeContext(context.Background())
	return app
}

// drainEngine runs queued engine messages on the test goroutine.
func drainEngine(app *App) int {
	return app.uiQueue.Drain(app.handleEngineMessage)
}
