package main

import (
	"context"
	"log/slog"

	"streamcounter/internal/counter"
	"streamcounter/internal/hotkeys"
)

// Runtime event names consumed by the frontend.
const (
	eventStateUpdated           = "state:updated"
	eventCounterUpdated         = "counter:updated"
	eventViewerUpdated          = "viewer:updated"
	eventHotkeyRecording        = "hotkey:recording"
	eventHotkeyUpdated          = "hotkey:updated"
	eventHotkeyConflict         = "hotkey:conflict"
	eventHotkeyAlreadyRecording = "hotkey:already-recording"
	eventHotkeyStatus           = "hotkey:status"
	eventConfigLoadFailed       = "config:load-failed"
	eventConfigUpdated          = "config:updated"
	eventAppLog                 = "app:log"
	eventWorkerPanic            = "app:worker-panic"
	eventWorkerFatal            = "app:worker-fatal"
)

type counterPayload struct {
	Side  string        `json:"side"`
	State counter.State `json:"state"`
}

type recordingPayload struct {
	Action    string `json:"action"`
	SessionID string `json:"sessionId"`
	Prompt    string `json:"prompt"`
	Previous  string `json:"previous"`
}

type bindingPayload struct {
	Action    string `json:"action"`
	Binding   string `json:"binding"`
	SessionID string `json:"sessionId,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

type conflictPayload struct {
	Action        string `json:"action"`
	Candidate     string `json:"candidate"`
	ConflictsWith string `json:"conflictsWith"`
	Binding       string `json:"binding"`
	SessionID     string `json:"sessionId"`
	Message       string `json:"message"`
}

type alreadyRecordingPayload struct {
	Requested string `json:"requested"`
	Active    string `json:"active"`
	Message   string `json:"message"`
}

type hotkeyStatusPayload struct {
	Enabled bool `json:"enabled"`
}

// emitRuntimeEvent emits via the app context and delegates to emitRuntimeEventWithContext.
func (a *App) emitRuntimeEvent(name string, payload any) {
	a.emitRuntimeEventWithContext(a.runtimeContext(), name, payload)
}

// emitRuntimeEventWithContext emits a runtime event only when ctx is non-nil.
func (a *App) emitRuntimeEventWithContext(ctx context.Context, name string, payload any) {
	if ctx == nil {
		slog.Debug("[EVENT] runtime event dropped because app context is nil", "event", name)
		return
	}
	runtimeEventsEmitFn(ctx, name, payload)
}

func (a *App) emitCounter(side counter.Side, state counter.State) {
	a.emitRuntimeEvent(eventCounterUpdated, counterPayload{Side: side.String(), State: state})
}

func (a *App) emitViewer(viewer counter.Viewer) {
	a.emitRuntimeEvent(eventViewerUpdated, viewer)
}

func (a *App) emitFullState() {
	a.emitRuntimeEvent(eventStateUpdated, a.GetState())
}

// handleEngineMessage is the UI-side consumer of engine output. It runs on
// the ui-dispatch worker, or on the shutdown goroutine while draining.
func (a *App) handleEngineMessage(msg hotkeys.Message) {
	slog.Debug("[DEBUG-HOTKEY] engine message", "kind", msg.Kind.String(), "action", msg.Action.String())

	switch msg.Kind {
	case hotkeys.MessageActionFired:
		side, op := counterTarget(msg.Action)
		if _, err := a.applyCounterOp(side, op); err != nil {
			slog.Warn("[WARN-HOTKEY] hotkey action failed", "action", msg.Action.String(), "error", err)
			return
		}
		a.postAlert(func() { a.notifier.Cue(op) })

	case hotkeys.MessageRecordingStarted:
		a.emitRuntimeEvent(eventHotkeyRecording, recordingPayload{
			Action:    msg.Action.String(),
			SessionID: msg.SessionID,
			Prompt:    hotkeys.RecordingPrompt,
			Previous:  hotkeys.Format(msg.Binding),
		})

	case hotkeys.MessageRecordingCancelled:
		a.emitRuntimeEvent(eventHotkeyUpdated, bindingPayload{
			Action:    msg.Action.String(),
			Binding:   hotkeys.Format(msg.Binding),
			SessionID: msg.SessionID,
			Cancelled: true,
		})

	case hotkeys.MessageBindingCommitted:
		a.markSettingsDirty()
		a.emitRuntimeEvent(eventHotkeyUpdated, bindingPayload{
			Action:    msg.Action.String(),
			Binding:   hotkeys.Format(msg.Binding),
			SessionID: msg.SessionID,
		})

	case hotkeys.MessageBindingConflict:
		message := hotkeys.ErrDuplicateBinding.Error()
		if msg.Err != nil {
			message = msg.Err.Error()
		}
		a.emitRuntimeEvent(eventHotkeyConflict, conflictPayload{
			Action:        msg.Action.String(),
			Candidate:     hotkeys.Format(msg.Candidate),
			ConflictsWith: msg.ConflictsWith.String(),
			Binding:       hotkeys.Format(msg.Binding),
			SessionID:     msg.SessionID,
			Message:       message,
		})
		title := appTitle + ": hotkey not saved"
		body := hotkeys.Format(msg.Candidate) + " is already used by " + msg.ConflictsWith.String()
		a.postAlert(func() { a.notifier.Notify(title, body) })

	default:
		slog.Debug("[DEBUG-HOTKEY] ignoring unknown engine message", "kind", msg.Kind.String())
	}
}

// counterTarget maps an action to the counter and operation it drives.
func counterTarget(action hotkeys.Action) (counter.Side, counter.Op) {
	side := counter.Left
	if action.CounterIndex() == 1 {
		side = counter.Right
	}
	switch action.Kind() {
	case hotkeys.KindDecrement:
		return side, counter.OpDecrement
	case hotkeys.KindReset:
		return side, counter.OpReset
	default:
		return side, counter.OpIncrement
	}
}
