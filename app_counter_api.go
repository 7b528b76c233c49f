package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"streamcounter/internal/counter"
	"streamcounter/internal/hotkeys"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// AppState is everything the frontend needs to render from scratch.
type AppState struct {
	Left           counter.State     `json:"left"`
	Right          counter.State     `json:"right"`
	Viewer         counter.Viewer    `json:"viewer"`
	Hotkeys        map[string]string `json:"hotkeys"`
	Recording      *recordingPayload `json:"recording,omitempty"`
	HotkeysEnabled bool              `json:"hotkeysEnabled"`
	AlwaysOnTop    bool              `json:"alwaysOnTop"`
}

// GetState returns a full snapshot of counters, viewer and hotkeys.
func (a *App) GetState() AppState {
	snap := a.store.Snapshot()
	state := AppState{
		Left:           snap.Left,
		Right:          snap.Right,
		Viewer:         snap.Viewer,
		Hotkeys:        a.engine.Bindings().Labels(),
		HotkeysEnabled: a.hookRunning.Load(),
		AlwaysOnTop:    a.getConfigSnapshot().AlwaysOnTop,
	}
	if action, id, ok := a.engine.Recording(); ok {
		state.Recording = &recordingPayload{
			Action:    action.String(),
			SessionID: id,
			Prompt:    hotkeys.RecordingPrompt,
			Previous:  hotkeys.Format(a.engine.Binding(action)),
		}
	}
	return state
}

// Increment adds one to the counter on side ("left" or "right").
func (a *App) Increment(side string) (counter.State, error) {
	return a.applyCounterOpNamed(side, counter.OpIncrement)
}

// Decrement subtracts one, stopping at zero.
func (a *App) Decrement(side string) (counter.State, error) {
	return a.applyCounterOpNamed(side, counter.OpDecrement)
}

// Reset sets the counter to zero.
func (a *App) Reset(side string) (counter.State, error) {
	return a.applyCounterOpNamed(side, counter.OpReset)
}

func (a *App) applyCounterOpNamed(sideName string, op counter.Op) (counter.State, error) {
	side, err := counter.ParseSide(sideName)
	if err != nil {
		return counter.State{}, err
	}
	return a.applyCounterOp(side, op)
}

// applyCounterOp is shared by buttons and hotkeys.
func (a *App) applyCounterOp(side counter.Side, op counter.Op) (counter.State, error) {
	state, err := a.store.Apply(side, op)
	if err != nil {
		return state, err
	}
	slog.Debug("[DEBUG-COUNTER] counter changed", "side", side.String(), "op", op.String(), "value", state.Value)
	a.markSettingsDirty()
	a.emitCounter(side, state)
	return state, nil
}

// SetCount sets the counter from text typed by the user. Invalid text keeps
// the last valid value, which is returned and re-emitted so the field reverts.
func (a *App) SetCount(side string, text string) (counter.State, error) {
	s, err := counter.ParseSide(side)
	if err != nil {
		return counter.State{}, err
	}
	state, err := a.store.SetCount(s, text)
	if err != nil {
		slog.Debug("[DEBUG-COUNTER] rejected count entry", "side", side, "text", text)
		a.emitCounter(s, state)
		return state, err
	}
	a.markSettingsDirty()
	a.emitCounter(s, state)
	return state, nil
}

// SetLabel sets the label text shown before the value.
func (a *App) SetLabel(side string, text string) (counter.State, error) {
	return a.updateCounterStyle(side, func(s counter.Side) (counter.State, error) {
		return a.store.SetLabel(s, text)
	})
}

// SetFontColor accepts #rgb or #rrggbb.
func (a *App) SetFontColor(side string, color string) (counter.State, error) {
	return a.updateCounterStyle(side, func(s counter.Side) (counter.State, error) {
		return a.store.SetFontColor(s, color)
	})
}

func (a *App) SetFontSize(side string, size int) (counter.State, error) {
	return a.updateCounterStyle(side, func(s counter.Side) (counter.State, error) {
		return a.store.SetFontSize(s, size)
	})
}

func (a *App) SetFontFamily(side string, family string) (counter.State, error) {
	return a.updateCounterStyle(side, func(s counter.Side) (counter.State, error) {
		return a.store.SetFontFamily(s, family)
	})
}

func (a *App) updateCounterStyle(sideName string, update func(counter.Side) (counter.State, error)) (counter.State, error) {
	side, err := counter.ParseSide(sideName)
	if err != nil {
		return counter.State{}, err
	}
	state, err := update(side)
	if err != nil {
		return state, err
	}
	a.markSettingsDirty()
	a.emitCounter(side, state)
	return state, nil
}

// CopySettings copies the left counter's font styling to the right counter.
func (a *App) CopySettings() counter.State {
	state := a.store.CopyStyleLeftToRight()
	a.markSettingsDirty()
	a.emitCounter(counter.Right, state)
	return state
}

// SetBackgroundColor sets the viewer background and removes any image.
func (a *App) SetBackgroundColor(color string) (counter.Viewer, error) {
	viewer, err := a.store.SetBackgroundColor(color)
	if err != nil {
		return viewer, err
	}
	a.viewerChanged(viewer)
	return viewer, nil
}

// PickBackgroundImage opens a file dialog and uses the chosen image as the
// viewer background. Cancelling the dialog leaves the viewer unchanged.
func (a *App) PickBackgroundImage() (counter.Viewer, error) {
	ctx := a.runtimeContext()
	if ctx == nil {
		return a.store.Viewer(), errors.New("app context is not ready")
	}
	path, err := runtimeOpenFileDialogFn(ctx, backgroundImageDialogOptions())
	if err != nil {
		return a.store.Viewer(), fmt.Errorf("pick background image: %w", err)
	}
	if strings.TrimSpace(path) == "" {
		return a.store.Viewer(), nil
	}
	viewer, err := a.store.SetBackgroundImage(path)
	if err != nil {
		return viewer, err
	}
	a.viewerChanged(viewer)
	return viewer, nil
}

func (a *App) RemoveBackgroundImage() counter.Viewer {
	viewer := a.store.RemoveBackgroundImage()
	a.viewerChanged(viewer)
	return viewer
}

// SetIncludeInViewer toggles whether the right counter is shown.
func (a *App) SetIncludeInViewer(include bool) counter.Viewer {
	viewer := a.store.SetIncludeRight(include)
	a.viewerChanged(viewer)
	return viewer
}

// SetViewerSpacing sets the gap between the two counters (clamped 0-100).
func (a *App) SetViewerSpacing(spacing int) counter.Viewer {
	viewer := a.store.SetSpacing(spacing)
	a.viewerChanged(viewer)
	return viewer
}

func (a *App) viewerChanged(viewer counter.Viewer) {
	a.markSettingsDirty()
	a.emitViewer(viewer)
}

func backgroundImageDialogOptions() runtime.OpenDialogOptions {
	return runtime.OpenDialogOptions{
		Title: "Select Background Image",
		Filters: []runtime.FileFilter{
			{DisplayName: "Images (*.png;*.jpg;*.jpeg;*.gif;*.bmp)", Pattern: "*.png;*.jpg;*.jpeg;*.gif;*.bmp"},
		},
	}
}
