package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"streamcounter/internal/config"
	"streamcounter/internal/keysource"
	"streamcounter/internal/settings"
	"streamcounter/internal/workerutil"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	appTitle            = "Stream Counter"
	shutdownWaitTimeout = 5 * time.Second
)

type appRuntimeLogger interface {
	Warningf(context.Context, string, ...any)
	Infof(context.Context, string, ...any)
	Errorf(context.Context, string, ...any)
}

// wailsRuntimeLogger writes to the Wails log when the runtime context is
// ready and to slog before that.
type wailsRuntimeLogger struct{}

func formatRuntimeLogMessage(message string, args ...any) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (wailsRuntimeLogger) Warningf(ctx context.Context, message string, args ...any) {
	if ctx == nil {
		slog.Warn(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogWarningf(ctx, message, args...)
}

func (wailsRuntimeLogger) Infof(ctx context.Context, message string, args ...any) {
	if ctx == nil {
		slog.Info(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogInfof(ctx, message, args...)
}

func (wailsRuntimeLogger) Errorf(ctx context.Context, message string, args ...any) {
	if ctx == nil {
		slog.Error(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogErrorf(ctx, message, args...)
}

// Test seams. Tests replace these; do not use t.Parallel() in package main.
var (
	runtimeEventsEmitFn                            = runtime.EventsEmit
	runtimeLogger                 appRuntimeLogger = wailsRuntimeLogger{}
	runtimeWindowSetAlwaysOnTopFn                  = runtime.WindowSetAlwaysOnTop
	runtimeOpenFileDialogFn                        = runtime.OpenFileDialog
	runKeyListenerFn                               = func(ctx context.Context, l *keysource.Listener, h keysource.Handler) error {
		return l.Run(ctx, h)
	}
	watchConfigFn    = config.Watch
	saveConfigFn     = config.Save
	loadConfigFileFn = config.LoadFile
	loadSettingsFn   = settings.Load
	saveSettingsFn   = settings.Save
)

func (a *App) addPendingConfigLoadWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	a.startupWarnMu.Lock()
	a.configLoadWarnings = append(a.configLoadWarnings, trimmed)
	a.startupWarnMu.Unlock()
}

func (a *App) consumePendingConfigLoadWarning() string {
	a.startupWarnMu.Lock()
	defer a.startupWarnMu.Unlock()
	if len(a.configLoadWarnings) == 0 {
		return ""
	}
	message := strings.Join(a.configLoadWarnings, "\n")
	a.configLoadWarnings = nil
	return message
}

func (a *App) flushPendingConfigLoadWarnings() {
	message := a.consumePendingConfigLoadWarning()
	if message == "" {
		return
	}
	a.emitRuntimeEvent(eventConfigLoadFailed, map[string]string{"message": message})
}

// loadConfig reads the app config at path and resolves derived paths. It
// runs before the window exists so that size and always-on-top apply at
// creation. Failures fall back to defaults and queue a frontend warning.
func (a *App) loadConfig(path string) config.Config {
	a.configPath = path
	for _, message := range config.ConsumeDefaultPathWarnings() {
		a.addPendingConfigLoadWarning(message)
	}

	cfg, err := config.EnsureFile(path)
	if err != nil {
		// Config problems are never fatal; the counter still works on defaults.
		cfg = config.DefaultConfig()
		a.addPendingConfigLoadWarning(
			"Failed to load config file at startup. Running with defaults. Error: " + err.Error(),
		)
		runtimeLogger.Warningf(nil, "failed to load config from %s: %v", path, err)
	}
	a.setConfigSnapshot(cfg)
	a.settingsPath = config.ResolveSettingsPath(cfg, path)
	a.applyAmbientConfig(cfg)
	return cfg
}

func (a *App) startup(ctx context.Context) {
	a.setRuntimeContext(ctx)
	if a.configPath == "" {
		a.loadConfig(config.DefaultPath())
	}
	cfg := a.getConfigSnapshot()

	a.loadSettings(cfg)

	a.workers = workerutil.NewGroup(ctx, a.defaultRecoveryOptions())
	a.startDispatchWorkers()
	if cfg.GlobalHotkeys {
		a.startKeyListener()
	} else {
		runtimeLogger.Infof(ctx, "global hotkeys disabled by config")
	}
	if cfg.AutosaveSeconds > 0 {
		interval := time.Duration(cfg.AutosaveSeconds) * time.Second
		a.workers.Go("settings-autosave", func(ctx context.Context) {
			workerutil.Every(ctx, interval, a.autosave)
		})
	}
	configPath := a.configPath
	a.workers.Go("config-watcher", func(ctx context.Context) {
		if err := watchConfigFn(ctx, configPath, 0, a.applyConfigChange); err != nil {
			slog.Warn("[WARN-CONFIG] config watcher unavailable, edits apply after restart", "error", err)
		}
	})

	a.emitFullState()
	a.flushPendingConfigLoadWarnings()
}

// startDispatchWorkers consumes engine messages and notifier calls on
// separate workers. A blocked beep must not hold up counter updates.
func (a *App) startDispatchWorkers() {
	a.workers.Go("ui-dispatch", func(ctx context.Context) {
		a.uiQueue.Run(ctx, a.handleEngineMessage)
	})
	a.workers.Go("alerts", func(ctx context.Context) {
		a.alerts.Run(ctx, func(fn func()) { fn() })
	})
}

// startKeyListener runs the OS keyboard hook. When the hook dies the buttons
// keep working and the user is told that hotkeys are off.
func (a *App) startKeyListener() {
	a.workers.Go("key-listener", func(ctx context.Context) {
		a.setHookRunning(true)
		defer a.setHookRunning(false)

		err := runKeyListenerFn(ctx, a.listener, a.engine)
		if err == nil || ctx.Err() != nil {
			return
		}
		runtimeLogger.Warningf(a.runtimeContext(), "keyboard hook stopped, hotkeys disabled: %v", err)
		a.notifier.Notify(appTitle+": hotkeys disabled",
			"The global keyboard hook stopped. Use the on-screen buttons or restart the app.")
	})
}

func (a *App) setHookRunning(running bool) {
	if a.hookRunning.Swap(running) == running {
		return
	}
	a.emitRuntimeEvent(eventHotkeyStatus, hotkeyStatusPayload{Enabled: running})
}

func (a *App) shutdown(_ context.Context) {
	logCtx := a.runtimeContext()
	a.shuttingDown.Store(true)
	a.engine.CancelRecording()

	if a.workers != nil && !a.workers.Stop(shutdownWaitTimeout) {
		runtimeLogger.Warningf(logCtx, "timed out waiting for background workers during shutdown")
	}
	// Hotkey presses still queued are applied so that no count is lost.
	if n := a.uiQueue.Drain(a.handleEngineMessage); n > 0 {
		slog.Debug("[DEBUG-SHUTDOWN] drained pending engine messages", "count", n)
	}

	if err := a.saveSettings(); err != nil {
		runtimeLogger.Errorf(logCtx, "failed to save settings on exit: %v", err)
	}
}

// defaultRecoveryOptions surfaces worker panics to the frontend.
func (a *App) defaultRecoveryOptions() workerutil.RecoveryOptions {
	return workerutil.RecoveryOptions{
		OnPanic: func(worker string, attempt int) {
			ctx := a.runtimeContext()
			if ctx == nil {
				return
			}
			runtimeEventsEmitFn(ctx, eventWorkerPanic, map[string]any{
				"worker":  worker,
				"attempt": attempt,
			})
		},
		OnFatal: func(worker string, maxRetries int) {
			ctx := a.runtimeContext()
			if ctx == nil {
				return
			}
			runtimeEventsEmitFn(ctx, eventWorkerFatal, map[string]any{
				"worker":     worker,
				"maxRetries": maxRetries,
			})
		},
		IsShutdown: a.shuttingDown.Load,
	}
}
