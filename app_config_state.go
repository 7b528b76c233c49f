package main

import (
	"log/slog"
	"maps"

	"streamcounter/internal/config"
)

// getConfigSnapshot returns a deep-copied config protected by cfgMu.
// All read access to App.cfg should go through this helper.
func (a *App) getConfigSnapshot() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return config.Clone(a.cfg)
}

// setConfigSnapshot stores a deep-copied config protected by cfgMu.
// All write access to App.cfg should go through this helper.
func (a *App) setConfigSnapshot(cfg config.Config) {
	a.cfgMu.Lock()
	a.cfg = config.Clone(cfg)
	a.cfgMu.Unlock()
}

// applyAmbientConfig applies the settings that can change without restart:
// log level, notifications and the hotkey beep.
func (a *App) applyAmbientConfig(cfg config.Config) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		slog.Warn("[WARN-CONFIG] invalid log level, keeping current", "logLevel", cfg.LogLevel)
	} else {
		logLevel.Set(level)
	}
	a.notifier.SetEnabled(cfg.Notifications)
	a.notifier.SetBeep(cfg.HotkeyBeep)
}

// applyConfigChange is the config watcher callback. Settings that need a
// restart (see restartRequiredChanges) are stored but take effect on the
// next launch.
func (a *App) applyConfigChange(cfg config.Config, err error) {
	if err != nil {
		slog.Warn("[WARN-CONFIG] config reload failed, keeping current config", "path", a.configPath, "error", err)
		a.emitRuntimeEvent(eventConfigLoadFailed, map[string]string{
			"message": "Config file could not be reloaded. Keeping the current settings. Error: " + err.Error(),
		})
		return
	}

	previous := a.getConfigSnapshot()
	a.setConfigSnapshot(cfg)
	a.applyAmbientConfig(cfg)

	if previous.AlwaysOnTop != cfg.AlwaysOnTop {
		if ctx := a.runtimeContext(); ctx != nil {
			runtimeWindowSetAlwaysOnTopFn(ctx, cfg.AlwaysOnTop)
		}
	}
	if fields := restartRequiredChanges(previous, cfg); len(fields) > 0 {
		slog.Info("[DEBUG-CONFIG] change takes effect after restart", "fields", fields)
	}
	slog.Debug("[DEBUG-CONFIG] config reloaded", "path", a.configPath)
	a.emitRuntimeEvent(eventConfigUpdated, a.newConfigUpdatedEvent(cfg))
}

// restartRequiredChanges names the changed config fields that are only read
// at startup.
func restartRequiredChanges(previous, next config.Config) []string {
	var fields []string
	if previous.SettingsPath != next.SettingsPath {
		fields = append(fields, "settings_path")
	}
	if previous.GlobalHotkeys != next.GlobalHotkeys {
		fields = append(fields, "global_hotkeys")
	}
	if previous.Window != next.Window {
		fields = append(fields, "window")
	}
	if !maps.Equal(previous.DefaultHotkeys, next.DefaultHotkeys) {
		fields = append(fields, "default_hotkeys")
	}
	if previous.AutosaveSeconds != next.AutosaveSeconds {
		fields = append(fields, "autosave_seconds")
	}
	return fields
}
