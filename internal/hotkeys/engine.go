package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// newSessionIDFn is a test seam for deterministic recording session ids.
var newSessionIDFn = uuid.NewString

// RecordingPrompt is the label shown while a recording session is active.
const RecordingPrompt = "Press keys (Esc to cancel)..."

// Engine tracks held keys, fires actions whose bindings match, and records
// new bindings.
//
// OnKeyPress and OnKeyRelease are called from the key listener goroutine.
// StartRecording, CancelRecording and the binding setters are called from UI
// goroutines. Engine state is guarded by mu; the binding set is also published
// through an atomic pointer so Bindings never waits on the listener.
//
// The engine never touches counters or the display. Every effect is a
// Message posted to the sink while mu is held, so messages reach the sink in
// the order their state changes happened. Sink.Post must not block.
type Engine struct {
	sink     Sink
	bindings atomic.Pointer[BindingSet]

	mu      sync.Mutex
	pressed map[KeySymbol]struct{}
	// latched[a] is set when a fires and cleared when its trigger key is
	// released, so a held key (or OS auto-repeat) fires at most once.
	latched [actionCount]bool
	session *recordingSession
}

type recordingSession struct {
	id       string
	target   Action
	previous Binding
	// candidate is the binding captured at the press of the first non-modifier
	// key; it is committed when that key is released.
	candidate    Binding
	hasCandidate bool
}

// NewEngine creates an engine in matching mode with the given bindings.
// A nil sink discards messages.
func NewEngine(sink Sink, initial BindingSet) *Engine {
	if sink == nil {
		sink = discardSink{}
	}
	e := &Engine{
		sink:    sink,
		pressed: map[KeySymbol]struct{}{},
	}
	e.bindings.Store(&initial)
	return e
}

// Bindings returns a snapshot of the current mapping.
func (e *Engine) Bindings() BindingSet {
	return *e.bindings.Load()
}

// Binding returns the current binding of a.
func (e *Engine) Binding(a Action) Binding {
	return e.bindings.Load().Get(a)
}

// SetBindings replaces the whole mapping. Uniqueness is not re-validated.
func (e *Engine) SetBindings(set BindingSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindings.Store(&set)
	e.latched = [actionCount]bool{}
}

// ResetBindings restores DefaultBindings.
func (e *Engine) ResetBindings() {
	e.SetBindings(DefaultBindings())
}

// Recording reports the target action and session id of the active
// recording session.
func (e *Engine) Recording() (Action, string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return 0, "", false
	}
	return e.session.target, e.session.id, true
}

// StartRecording enters recording mode for a and returns the session id.
// It fails with ErrAlreadyRecording, without changing state, when a session
// is already active.
func (e *Engine) StartRecording(a Action) (string, error) {
	if !a.Valid() {
		return "", fmt.Errorf("start recording: unknown action %d", uint8(a))
	}

	e.mu.Lock()
	if e.session != nil {
		active := e.session.target
		e.mu.Unlock()
		return "", fmt.Errorf("start recording %s (active: %s): %w", a, active, ErrAlreadyRecording)
	}
	session := &recordingSession{
		id:       newSessionIDFn(),
		target:   a,
		previous: e.bindings.Load().Get(a),
	}
	e.session = session
	clear(e.pressed)
	e.latched = [actionCount]bool{}
	e.sink.Post(Message{
		Kind:      MessageRecordingStarted,
		Action:    a,
		Binding:   session.previous,
		SessionID: session.id,
	})
	e.mu.Unlock()

	slog.Debug("[DEBUG-HOTKEY] recording started", "action", a.String(), "session", session.id)
	return session.id, nil
}

// CancelRecording leaves recording mode without changing the mapping, the
// same as pressing Esc. It reports whether a session was active.
func (e *Engine) CancelRecording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	msg, ok := e.cancelLocked()
	if ok {
		e.sink.Post(msg)
	}
	return ok
}

// OnKeyPress handles a key-down notification. Invalid keys are ignored.
func (e *Engine) OnKeyPress(key KeySymbol) {
	if !key.Valid() {
		return
	}

	e.mu.Lock()
	var msgs []Message
	if e.session != nil {
		msgs = e.recordPressLocked(key)
	} else {
		e.pressed[key] = struct{}{}
		msgs = e.matchLocked()
	}
	e.postLocked(msgs)
	e.mu.Unlock()
}

// OnKeyRelease handles a key-up notification. Invalid keys are ignored.
func (e *Engine) OnKeyRelease(key KeySymbol) {
	if !key.Valid() {
		return
	}

	e.mu.Lock()
	delete(e.pressed, key)
	var msgs []Message
	if e.session != nil {
		msgs = e.recordReleaseLocked(key)
	} else {
		set := e.bindings.Load()
		for a := Counter1Increment; a < actionCount; a++ {
			if set[a].Key == key {
				e.latched[a] = false
			}
		}
	}
	e.postLocked(msgs)
	e.mu.Unlock()
}

func (e *Engine) postLocked(msgs []Message) {
	for _, msg := range msgs {
		e.sink.Post(msg)
	}
}

// observedLocked derives the ctrl/shift/alt flags from the held keys.
func (e *Engine) observedLocked() Modifier {
	var mods Modifier
	for key := range e.pressed {
		mods |= key.Modifier()
	}
	return mods
}

// matchLocked fires every unlatched action whose required flags exactly equal
// the observed flags and whose trigger key is held.
func (e *Engine) matchLocked() []Message {
	observed := e.observedLocked()
	set := e.bindings.Load()

	var msgs []Message
	for a := Counter1Increment; a < actionCount; a++ {
		b := set[a]
		if e.latched[a] || b.Modifiers() != observed {
			continue
		}
		if _, held := e.pressed[b.Key]; !held {
			continue
		}
		e.latched[a] = true
		slog.Debug("[DEBUG-HOTKEY] action fired", "action", a.String(), "binding", Format(b))
		msgs = append(msgs, Message{Kind: MessageActionFired, Action: a, Binding: b})
	}
	return msgs
}

func (e *Engine) recordPressLocked(key KeySymbol) []Message {
	if key == Named(KeyEsc) {
		msg, _ := e.cancelLocked()
		return []Message{msg}
	}

	e.pressed[key] = struct{}{}
	if !key.IsModifier() && !e.session.hasCandidate {
		e.session.candidate = NewBinding(e.observedLocked(), key)
		e.session.hasCandidate = true
	}
	return nil
}

func (e *Engine) recordReleaseLocked(key KeySymbol) []Message {
	s := e.session
	if !s.hasCandidate || key != s.candidate.Key {
		return nil
	}
	return []Message{e.commitLocked()}
}

func (e *Engine) cancelLocked() (Message, bool) {
	s := e.session
	if s == nil {
		return Message{}, false
	}
	e.session = nil
	slog.Debug("[DEBUG-HOTKEY] recording cancelled", "action", s.target.String(), "session", s.id)
	return Message{
		Kind:      MessageRecordingCancelled,
		Action:    s.target,
		Binding:   s.previous,
		SessionID: s.id,
	}, true
}

func (e *Engine) commitLocked() Message {
	s := e.session
	e.session = nil

	set := *e.bindings.Load()
	if other, dup := set.Conflict(s.target, s.candidate); dup {
		slog.Info("[DEBUG-HOTKEY] recorded binding rejected as duplicate",
			"action", s.target.String(), "binding", Format(s.candidate), "conflictsWith", other.String())
		return Message{
			Kind:          MessageBindingConflict,
			Action:        s.target,
			Binding:       s.previous,
			SessionID:     s.id,
			Candidate:     s.candidate,
			ConflictsWith: other,
			Err:           fmt.Errorf("%s is bound to %s: %w", Format(s.candidate), other, ErrDuplicateBinding),
		}
	}

	set[s.target] = s.candidate
	e.bindings.Store(&set)
	e.latched = [actionCount]bool{}
	slog.Info("[DEBUG-HOTKEY] binding recorded", "action", s.target.String(), "binding", Format(s.candidate))
	return Message{
		Kind:      MessageBindingCommitted,
		Action:    s.target,
		Binding:   s.candidate,
		SessionID: s.id,
	}
}
