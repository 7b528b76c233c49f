package main

import (
	"fmt"
	"log/slog"
	"time"

	"streamcounter/internal/config"
)

type configUpdatedEvent struct {
	Config             config.Config `json:"config"`
	Version            uint64        `json:"version"`
	UpdatedAtUnixMilli int64         `json:"updated_at_unix_milli"`
}

// GetConfig returns loaded config.
func (a *App) GetConfig() config.Config {
	return a.getConfigSnapshot()
}

// GetConfigAndFlushWarnings returns loaded config and emits any pending startup warnings.
func (a *App) GetConfigAndFlushWarnings() config.Config {
	a.flushPendingConfigLoadWarnings()
	return a.getConfigSnapshot()
}

// SetAlwaysOnTop pins or unpins the window and persists the choice to the
// config file. An ALWAYS_ON_TOP environment override still wins for the
// running window.
func (a *App) SetAlwaysOnTop(enabled bool) error {
	event, err := a.saveConfigWithLock(func(cfg *config.Config) {
		cfg.AlwaysOnTop = enabled
	})
	if err != nil {
		return err
	}
	if ctx := a.runtimeContext(); ctx != nil {
		runtimeWindowSetAlwaysOnTopFn(ctx, event.Config.AlwaysOnTop)
	}
	a.emitRuntimeEvent(eventConfigUpdated, event)
	return nil
}

// saveConfigWithLock applies update to the file-level config, persists it,
// refreshes the effective snapshot, and bumps event version under cfgSaveMu.
// Environment overrides are layered on after the save and never written.
func (a *App) saveConfigWithLock(update func(*config.Config)) (configUpdatedEvent, error) {
	a.cfgSaveMu.Lock()
	defer a.cfgSaveMu.Unlock()

	fileCfg, err := loadConfigFileFn(a.configPath)
	if err != nil {
		// Saving now would replace a file the user has to fix by hand.
		return configUpdatedEvent{}, fmt.Errorf("read config before save: %w", err)
	}
	update(&fileCfg)
	saved, err := saveConfigFn(a.configPath, fileCfg)
	if err != nil {
		return configUpdatedEvent{}, err
	}
	effective, err := config.WithEnvOverrides(saved, a.configPath)
	if err != nil {
		slog.Warn("[WARN-CONFIG] ignoring invalid environment overrides", "error", err)
		effective = saved
	}
	a.setConfigSnapshot(effective)
	return a.newConfigUpdatedEvent(effective), nil
}

func (a *App) newConfigUpdatedEvent(cfg config.Config) configUpdatedEvent {
	return configUpdatedEvent{
		Config:             config.Clone(cfg),
		Version:            a.configEventVersion.Add(1),
		UpdatedAtUnixMilli: time.Now().UnixMilli(),
	}
}
