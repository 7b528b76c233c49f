package hotkeys

import (
	"fmt"
	"strings"
)

// Action is one of the six counter operations a hotkey can trigger.
type Action uint8

const (
	Counter1Increment Action = iota
	Counter1Decrement
	Counter1Reset
	Counter2Increment
	Counter2Decrement
	Counter2Reset
	actionCount
)

// ActionKind is the counter operation an Action performs.
type ActionKind uint8

const (
	KindIncrement ActionKind = iota
	KindDecrement
	KindReset
)

// actionNames are the keys used in the settings file "hotkeys" object.
var actionNames = [actionCount]string{
	Counter1Increment: "left_increment",
	Counter1Decrement: "left_decrement",
	Counter1Reset:     "left_reset",
	Counter2Increment: "right_increment",
	Counter2Decrement: "right_decrement",
	Counter2Reset:     "right_reset",
}

// Actions returns all actions in their fixed evaluation order.
func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := Counter1Increment; a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

// Valid reports whether a is one of the defined actions.
func (a Action) Valid() bool {
	return a < actionCount
}

// String returns the settings name of the action, e.g. "left_increment".
func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("action(%d)", uint8(a))
	}
	return actionNames[a]
}

// CounterIndex returns 0 for counter 1 actions and 1 for counter 2 actions.
func (a Action) CounterIndex() int {
	return int(a) / 3
}

// Kind returns the counter operation performed by a.
func (a Action) Kind() ActionKind {
	return ActionKind(int(a) % 3)
}

// ParseAction resolves a settings action name. Matching is case-insensitive.
func ParseAction(name string) (Action, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for a := Counter1Increment; a < actionCount; a++ {
		if actionNames[a] == normalized {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown hotkey action %q", name)
}

// BindingSet is the total Action to Binding mapping. It is a value type;
// copies are independent.
type BindingSet [actionCount]Binding

// DefaultBindings returns Ctrl+Shift+F1 through Ctrl+Shift+F6 in action order.
func DefaultBindings() BindingSet {
	fkeys := [actionCount]NamedKey{KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6}
	var set BindingSet
	for a := Counter1Increment; a < actionCount; a++ {
		set[a] = NewBinding(ModCtrl|ModShift, Named(fkeys[a]))
	}
	return set
}

// Get returns the binding for a. Unknown actions yield the zero Binding.
func (s BindingSet) Get(a Action) Binding {
	if !a.Valid() {
		return Binding{}
	}
	return s[a]
}

// With returns a copy of s with a rebound to b.
func (s BindingSet) With(a Action, b Binding) BindingSet {
	if a.Valid() {
		s[a] = b
	}
	return s
}

// Conflict returns the first action other than a whose binding equals b.
func (s BindingSet) Conflict(a Action, b Binding) (Action, bool) {
	for other := Counter1Increment; other < actionCount; other++ {
		if other != a && s[other] == b {
			return other, true
		}
	}
	return 0, false
}

// Labels returns the display label of every binding keyed by action name.
func (s BindingSet) Labels() map[string]string {
	out := make(map[string]string, actionCount)
	for a := Counter1Increment; a < actionCount; a++ {
		out[a.String()] = Format(s[a])
	}
	return out
}
