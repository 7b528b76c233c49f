package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"streamcounter/internal/config"
	"streamcounter/internal/counter"
	"streamcounter/internal/keysource"
	"streamcounter/internal/settings"
	"streamcounter/internal/testutil"
)

type lifecycleTestLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *lifecycleTestLogger) record(level, message string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, level+" "+fmt.Sprintf(message, args...))
}

func (l *lifecycleTestLogger) Warningf(_ context.Context, message string, args ...any) {
	l.record("WARN", message, args...)
}

func (l *lifecycleTestLogger) Infof(_ context.Context, message string, args ...any) {
	l.record("INFO", message, args...)
}

func (l *lifecycleTestLogger) Errorf(_ context.Context, message string, args ...any) {
	l.record("ERROR", message, args...)
}

func (l *lifecycleTestLogger) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.messages, "\n")
}

// stubLifecycleHooks replaces the OS-facing seams used by startup.
func stubLifecycleHooks(t *testing.T, listener func(context.Context, keysource.Handler) error) *lifecycleTestLogger {
	t.Helper()
	origLogger := runtimeLogger
	origListener := runKeyListenerFn
	origWatch := watchConfigFn
	origAlwaysOnTop := runtimeWindowSetAlwaysOnTopFn
	t.Cleanup(func() {
		runtimeLogger = origLogger
		runKeyListenerFn = origListener
		watchConfigFn = origWatch
		runtimeWindowSetAlwaysOnTopFn = origAlwaysOnTop
	})

	logger := &lifecycleTestLogger{}
	runtimeLogger = logger
	runKeyListenerFn = func(ctx context.Context, _ *keysource.Listener, h keysource.Handler) error {
		return listener(ctx, h)
	}
	watchConfigFn = func(ctx context.Context, _ string, _ time.Duration, _ func(config.Config, error)) error {
		<-ctx.Done()
		return nil
	}
	runtimeWindowSetAlwaysOnTopFn = func(context.Context, bool) {}
	return logger
}

func newLifecycleTestApp(t *testing.T, globalHotkeys bool) *App {
	t.Helper()
	app := newTestApp(t)
	cfg := config.DefaultConfig()
	cfg.GlobalHotkeys = globalHotkeys
	cfg.AutosaveSeconds = 0
	app.setConfigSnapshot(cfg)
	return app
}

func TestStartupRunsHotkeysAndShutdownSaves(t *testing.T) {
	rec := captureRuntimeEvents(t)
	handlers := make(chan keysource.Handler, 1)
	stubLifecycleHooks(t, func(ctx context.Context, h keysource.Handler) error {
		handlers <- h
		<-ctx.Done()
		return nil
	})

	app := newLifecycleTestApp(t, true)
	app.startup(context.Background())

	var handler keysource.Handler
	select {
	case handler = <-handlers:
	case <-time.After(2 * time.Second):
		t.Fatal("key listener was not started")
	}
	testutil.WaitFor(t, 2*time.Second, "hook running", app.hookRunning.Load)

	handler.OnKeyPress(keyCtrlL)
	handler.OnKeyPress(keyShiftL)
	handler.OnKeyPress(keyF1)
	handler.OnKeyRelease(keyF1)
	handler.OnKeyPress(keyF1)

	testutil.WaitFor(t, 2*time.Second, "two increments applied", func() bool {
		return app.store.Counter(counter.Left).Value == 2
	})

	app.shutdown(context.Background())

	if app.hookRunning.Load() {
		t.Fatal("hook still marked running after shutdown")
	}
	saved, err := settings.Load(app.settingsPath)
	if err != nil {
		t.Fatalf("settings.Load() error = %v", err)
	}
	if saved.Counters.Left.Value != 2 {
		t.Fatalf("saved left value = %d, want 2", saved.Counters.Left.Value)
	}
	if got := len(rec.named(eventStateUpdated)); got != 1 {
		t.Fatalf("state:updated events = %d, want 1", got)
	}
	status := rec.named(eventHotkeyStatus)
	if len(status) != 2 {
		t.Fatalf("hotkey:status events = %d, want 2", len(status))
	}
	if !status[0].(hotkeyStatusPayload).Enabled || status[1].(hotkeyStatusPayload).Enabled {
		t.Fatalf("hotkey:status payloads = %+v, want enabled then disabled", status)
	}
}

func TestStartupSkipsListenerWhenGlobalHotkeysDisabled(t *testing.T) {
	captureRuntimeEvents(t)
	called := false
	logger := stubLifecycleHooks(t, func(context.Context, keysource.Handler) error {
		called = true
		return nil
	})

	app := newLifecycleTestApp(t, false)
	app.startup(context.Background())
	app.shutdown(context.Background())

	if called {
		t.Fatal("key listener started although global hotkeys are disabled")
	}
	if !strings.Contains(logger.joined(), "global hotkeys disabled") {
		t.Fatalf("runtime log = %q, want disabled message", logger.joined())
	}
}

func TestKeyListenerFailureDisablesHotkeys(t *testing.T) {
	rec := captureRuntimeEvents(t)
	logger := stubLifecycleHooks(t, func(context.Context, keysource.Handler) error {
		return keysource.ErrHookStopped
	})

	app := newLifecycleTestApp(t, true)
	app.startup(context.Background())
	t.Cleanup(func() { app.shutdown(context.Background()) })

	testutil.WaitFor(t, 2*time.Second, "hook failure reported", func() bool {
		return strings.Contains(logger.joined(), "keyboard hook stopped")
	})
	testutil.WaitFor(t, 2*time.Second, "hotkey status disabled", func() bool {
		return len(rec.named(eventHotkeyStatus)) == 2
	})
	if app.hookRunning.Load() {
		t.Fatal("hook marked running after failure")
	}

	// Buttons keep working without the hook.
	if _, err := app.Increment("right"); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
}

func TestShutdownDrainsQueuedHotkeys(t *testing.T) {
	captureRuntimeEvents(t)
	app := newTestApp(t)

	app.engine.OnKeyPress(keyCtrlL)
	app.engine.OnKeyPress(keyShiftL)
	app.engine.OnKeyPress(keyF4)

	app.shutdown(context.Background())

	if got := app.store.Counter(counter.Right).Value; got != 1 {
		t.Fatalf("right value = %d, want queued increment applied", got)
	}
	saved, err := settings.Load(app.settingsPath)
	if err != nil {
		t.Fatalf("settings.Load() error = %v", err)
	}
	if saved.Counters.Right.Value != 1 {
		t.Fatalf("saved right value = %d, want 1", saved.Counters.Right.Value)
	}
}

func TestShutdownCancelsRecording(t *testing.T) {
	captureRuntimeEvents(t)
	app := newTestApp(t)
	if _, err := app.StartRecording("left_reset"); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}

	app.shutdown(context.Background())

	if _, _, active := app.engine.Recording(); active {
		t.Fatal("recording still active after shutdown")
	}
}

func TestShutdownLogsSaveFailure(t *testing.T) {
	captureRuntimeEvents(t)
	logger := stubLifecycleHooks(t, func(context.Context, keysource.Handler) error { return nil })
	restoreSettingsHooks(t)
	saveSettingsFn = func(string, settings.Snapshot) error {
		return errors.New("disk full")
	}

	app := newTestApp(t)
	app.shutdown(context.Background())

	if !strings.Contains(logger.joined(), "failed to save settings on exit: disk full") {
		t.Fatalf("runtime log = %q, want save failure", logger.joined())
	}
}

func TestDefaultRecoveryOptions(t *testing.T) {
	t.Run("OnPanic emits app:worker-panic event", func(t *testing.T) {
		rec := captureRuntimeEvents(t)
		app := NewApp()
		app.setRuntimeContext(context.Background())

		app.defaultRecoveryOptions().OnPanic("test-worker", 3)

		events := rec.named(eventWorkerPanic)
		if len(events) != 1 {
			t.Fatalf("app:worker-panic events = %d, want 1", len(events))
		}
		payload := events[0].(map[string]any)
		if payload["worker"] != "test-worker" || payload["attempt"] != 3 {
			t.Fatalf("payload = %v", payload)
		}
	})

	t.Run("OnFatal emits app:worker-fatal event", func(t *testing.T) {
		rec := captureRuntimeEvents(t)
		app := NewApp()
		app.setRuntimeContext(context.Background())

		app.defaultRecoveryOptions().OnFatal("test-worker", 10)

		events := rec.named(eventWorkerFatal)
		if len(events) != 1 {
			t.Fatalf("app:worker-fatal events = %d, want 1", len(events))
		}
		if payload := events[0].(map[string]any); payload["maxRetries"] != 10 {
			t.Fatalf("payload = %v", payload)
		}
	})

	t.Run("callbacks skip emit when runtimeContext is nil", func(t *testing.T) {
		rec := captureRuntimeEvents(t)
		app := NewApp()
		opts := app.defaultRecoveryOptions()

		opts.OnPanic("test-worker", 1)
		opts.OnFatal("test-worker", 1)

		if rec.count() != 0 {
			t.Fatalf("events = %d, want 0", rec.count())
		}
	})

	t.Run("IsShutdown follows the shutdown flag", func(t *testing.T) {
		app := NewApp()
		opts := app.defaultRecoveryOptions()
		if opts.IsShutdown() {
			t.Fatal("IsShutdown() = true before shutdown")
		}
		app.shuttingDown.Store(true)
		if !opts.IsShutdown() {
			t.Fatal("IsShutdown() = false after shutdown started")
		}
	})
}

func TestWailsRuntimeLoggerFallsBackOnNilContext(t *testing.T) {
	logBuf := testutil.CaptureLogBuffer(t, slog.LevelDebug)

	logger := wailsRuntimeLogger{}
	logger.Warningf(nil, "warn %d", 1)
	logger.Infof(nil, "info %d", 2)
	logger.Errorf(nil, "error %d", 3)

	output := logBuf.String()
	for _, want := range []string{"warn 1", "info 2", "error 3"} {
		if !strings.Contains(output, want) {
			t.Fatalf("log output = %q, want %q", output, want)
		}
	}
}
