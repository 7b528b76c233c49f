package main

import (
	"errors"
	"log/slog"
	"os"

	"streamcounter/internal/config"
	"streamcounter/internal/settings"
)

// loadSettings restores counters and bindings from the settings file. On the
// very first run the bindings come from the config's default_hotkeys.
func (a *App) loadSettings(cfg config.Config) {
	_, statErr := os.Stat(a.settingsPath)
	firstRun := errors.Is(statErr, os.ErrNotExist)

	snap, err := loadSettingsFn(a.settingsPath)
	if err != nil {
		// Unreadable settings never block startup; the file is rewritten on exit.
		slog.Warn("[WARN-SETTINGS] using default settings", "path", a.settingsPath, "error", err)
	}

	a.store.Replace(snap.Counters)
	bindings := snap.Bindings
	if firstRun {
		bindings = config.ResolveDefaultBindings(cfg)
	}
	a.engine.SetBindings(bindings)
	a.settingsDirty.Store(false)
	slog.Debug("[DEBUG-SETTINGS] settings applied", "path", a.settingsPath, "firstRun", firstRun)
}

func (a *App) snapshotSettings() settings.Snapshot {
	return settings.Snapshot{
		Counters: a.store.Snapshot(),
		Bindings: a.engine.Bindings(),
	}
}

func (a *App) markSettingsDirty() {
	a.settingsDirty.Store(true)
}

// saveSettings writes the current state. The dirty flag is cleared before the
// snapshot is taken so that a concurrent change is never lost.
func (a *App) saveSettings() error {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()

	a.settingsDirty.Store(false)
	if err := saveSettingsFn(a.settingsPath, a.snapshotSettings()); err != nil {
		a.settingsDirty.Store(true)
		return err
	}
	return nil
}

func (a *App) autosave() {
	if !a.settingsDirty.Load() {
		return
	}
	if err := a.saveSettings(); err != nil {
		slog.Warn("[WARN-SETTINGS] autosave failed", "path", a.settingsPath, "error", err)
	}
}

// SaveSettings writes the settings file now.
func (a *App) SaveSettings() error {
	return a.saveSettings()
}
