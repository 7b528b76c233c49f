// Package keysource delivers system-wide key press and release events from
// the OS keyboard hook.
package keysource

import (
	"context"
	"errors"
	"log/slog"

	hook "github.com/robotn/gohook"

	"streamcounter/internal/hotkeys"
)

// ErrHookStopped is returned by Run when the hook event channel closes while
// the context is still live.
var ErrHookStopped = errors.New("keyboard hook stopped")

// Handler receives translated key transitions on the listener goroutine.
// *hotkeys.Engine satisfies it.
type Handler interface {
	OnKeyPress(hotkeys.KeySymbol)
	OnKeyRelease(hotkeys.KeySymbol)
}

// Test seams for the process-wide hook.
var (
	hookStartFn = hook.Start
	hookEndFn   = hook.End
)

// Listener owns the OS keyboard hook. Only one Listener may run at a time
// because the hook is process-wide.
type Listener struct {
	unknown uint64
}

// NewListener returns an idle listener.
func NewListener() *Listener {
	return &Listener{}
}

// Run starts the hook and forwards key events to h until ctx is cancelled.
// The hook is stopped before Run returns.
func (l *Listener) Run(ctx context.Context, h Handler) error {
	events := hookStartFn()
	defer hookEndFn()
	slog.Debug("[DEBUG-KEYSOURCE] keyboard hook started")

	for {
		select {
		case <-ctx.Done():
			slog.Debug("[DEBUG-KEYSOURCE] keyboard hook stopping")
			return nil
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrHookStopped
			}
			l.dispatch(ev, h)
		}
	}
}

func (l *Listener) dispatch(ev hook.Event, h Handler) {
	switch ev.Kind {
	case hook.KeyHold, hook.KeyUp:
	default:
		// KeyDown is libuiohook's "typed" event and duplicates KeyHold.
		return
	}

	key, ok := Translate(ev.Keycode, ev.Keychar)
	if !ok {
		l.unknown++
		slog.Debug("[DEBUG-KEYSOURCE] ignoring unknown key", "keycode", ev.Keycode, "rawcode", ev.Rawcode, "unknownTotal", l.unknown)
		return
	}
	if ev.Kind == hook.KeyHold {
		h.OnKeyPress(key)
	} else {
		h.OnKeyRelease(key)
	}
}
