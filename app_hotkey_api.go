package main

import (
	"errors"
	"log/slog"

	"streamcounter/internal/config"
	"streamcounter/internal/hotkeys"
)

// GetHotkeys returns the display text of every binding keyed by action name.
func (a *App) GetHotkeys() map[string]string {
	return a.engine.Bindings().Labels()
}

// StartRecording starts capturing a new binding for action and returns the
// recording session id. While another recording is active it fails and the
// frontend is told via hotkey:already-recording.
func (a *App) StartRecording(action string) (string, error) {
	target, err := hotkeys.ParseAction(action)
	if err != nil {
		return "", err
	}
	id, err := a.engine.StartRecording(target)
	if errors.Is(err, hotkeys.ErrAlreadyRecording) {
		active, _, _ := a.engine.Recording()
		a.emitRuntimeEvent(eventHotkeyAlreadyRecording, alreadyRecordingPayload{
			Requested: target.String(),
			Active:    active.String(),
			Message:   hotkeys.ErrAlreadyRecording.Error(),
		})
		return "", err
	}
	if err != nil {
		return "", err
	}
	if !a.hookRunning.Load() {
		slog.Warn("[WARN-HOTKEY] recording started while the keyboard hook is not running", "action", target.String())
	}
	return id, nil
}

// CancelRecording behaves like pressing Esc. It reports whether a recording
// was active.
func (a *App) CancelRecording() bool {
	return a.engine.CancelRecording()
}

// ResetHotkeys restores the default bindings, including any default_hotkeys
// overrides from the app config, and cancels an active recording.
func (a *App) ResetHotkeys() map[string]string {
	a.engine.CancelRecording()
	a.engine.SetBindings(config.ResolveDefaultBindings(a.getConfigSnapshot()))
	a.markSettingsDirty()

	labels := a.engine.Bindings().Labels()
	for _, action := range hotkeys.Actions() {
		a.emitRuntimeEvent(eventHotkeyUpdated, bindingPayload{
			Action:  action.String(),
			Binding: labels[action.String()],
		})
	}
	return labels
}
