package hotkeys

import (
	"fmt"
	"strings"
)

// Modifier is a bitmask of the modifier flags a binding requires.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
)

// bindingSeparator joins modifiers and the trigger key in display labels.
const bindingSeparator = " + "

var modifierByName = map[string]Modifier{
	"CTRL":    ModCtrl,
	"CONTROL": ModCtrl,
	"SHIFT":   ModShift,
	"ALT":     ModAlt,
}

// Binding is a set of required modifier flags plus one trigger key.
// Two bindings are equal iff all four fields are equal, so == is the
// equality used for duplicate detection.
type Binding struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Key   KeySymbol
}

// NewBinding builds a binding from a modifier mask and a trigger key.
func NewBinding(mods Modifier, key KeySymbol) Binding {
	return Binding{
		Ctrl:  mods&ModCtrl != 0,
		Shift: mods&ModShift != 0,
		Alt:   mods&ModAlt != 0,
		Key:   key,
	}
}

// Modifiers returns the required modifier flags as a mask.
func (b Binding) Modifiers() Modifier {
	var mods Modifier
	if b.Ctrl {
		mods |= ModCtrl
	}
	if b.Shift {
		mods |= ModShift
	}
	if b.Alt {
		mods |= ModAlt
	}
	return mods
}

// Valid reports whether the trigger key is a real, non-modifier key.
func (b Binding) Valid() bool {
	return b.Key.Valid() && !b.Key.IsModifier()
}

// String implements fmt.Stringer using Format.
func (b Binding) String() string {
	return Format(b)
}

// Format renders b as "Ctrl + Shift + Alt + Key", listing only the required
// modifiers in that fixed order. A binding without modifiers renders as the
// key name alone.
func Format(b Binding) string {
	parts := make([]string, 0, 4)
	if b.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if b.Shift {
		parts = append(parts, "Shift")
	}
	if b.Alt {
		parts = append(parts, "Alt")
	}
	parts = append(parts, b.Key.String())
	return strings.Join(parts, bindingSeparator)
}

// ParseBinding parses a binding like "Ctrl+Shift+F1" or "Ctrl + Shift + F1".
// Modifier names are case-insensitive; duplicates are ignored.
func ParseBinding(spec string) (Binding, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Binding{}, fmt.Errorf("hotkey spec is empty")
	}

	parts := strings.Split(raw, "+")
	var mods Modifier
	for _, token := range parts[:len(parts)-1] {
		name := strings.ToUpper(strings.TrimSpace(token))
		mod, ok := modifierByName[name]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q in hotkey %q", token, raw)
		}
		mods |= mod
	}

	keyToken := strings.TrimSpace(parts[len(parts)-1])
	if keyToken == "" {
		return Binding{}, fmt.Errorf("missing hotkey key token in %q", raw)
	}
	key, err := ParseKey(keyToken)
	if err != nil {
		return Binding{}, fmt.Errorf("hotkey %q: %w", raw, err)
	}
	if key.IsModifier() {
		return Binding{}, fmt.Errorf("hotkey %q: trigger key must not be a modifier", raw)
	}
	if key == Named(KeyEsc) {
		return Binding{}, fmt.Errorf("hotkey %q: Esc is reserved for cancelling a recording", raw)
	}
	return NewBinding(mods, key), nil
}
