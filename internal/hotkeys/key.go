package hotkeys

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NamedKey identifies a non-printable key.
type NamedKey uint8

const (
	namedKeyNone NamedKey = iota
	KeyCtrlL
	KeyCtrlR
	KeyShiftL
	KeyShiftR
	KeyAltL
	KeyAltR
	KeyEsc
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24
	KeySpace
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyPrintScreen
	KeyPause
	KeyMenu
	KeyCmdL
	KeyCmdR
	namedKeyCount
)

// namedKeyInfo holds the settings token (pynput-compatible, written as
// "Key.<token>") and the display label of a named key.
type namedKeyInfo struct {
	token string
	label string
}

var namedKeys = [namedKeyCount]namedKeyInfo{
	KeyCtrlL:       {"ctrl_l", "Ctrl"},
	KeyCtrlR:       {"ctrl_r", "Right Ctrl"},
	KeyShiftL:      {"shift", "Shift"},
	KeyShiftR:      {"shift_r", "Right Shift"},
	KeyAltL:        {"alt_l", "Alt"},
	KeyAltR:        {"alt_r", "Right Alt"},
	KeyEsc:         {"esc", "Esc"},
	KeyF1:          {"f1", "F1"},
	KeyF2:          {"f2", "F2"},
	KeyF3:          {"f3", "F3"},
	KeyF4:          {"f4", "F4"},
	KeyF5:          {"f5", "F5"},
	KeyF6:          {"f6", "F6"},
	KeyF7:          {"f7", "F7"},
	KeyF8:          {"f8", "F8"},
	KeyF9:          {"f9", "F9"},
	KeyF10:         {"f10", "F10"},
	KeyF11:         {"f11", "F11"},
	KeyF12:         {"f12", "F12"},
	KeyF13:         {"f13", "F13"},
	KeyF14:         {"f14", "F14"},
	KeyF15:         {"f15", "F15"},
	KeyF16:         {"f16", "F16"},
	KeyF17:         {"f17", "F17"},
	KeyF18:         {"f18", "F18"},
	KeyF19:         {"f19", "F19"},
	KeyF20:         {"f20", "F20"},
	KeyF21:         {"f21", "F21"},
	KeyF22:         {"f22", "F22"},
	KeyF23:         {"f23", "F23"},
	KeyF24:         {"f24", "F24"},
	KeySpace:       {"space", "Space"},
	KeyEnter:       {"enter", "Enter"},
	KeyTab:         {"tab", "Tab"},
	KeyBackspace:   {"backspace", "Backspace"},
	KeyDelete:      {"delete", "Delete"},
	KeyInsert:      {"insert", "Insert"},
	KeyHome:        {"home", "Home"},
	KeyEnd:         {"end", "End"},
	KeyPageUp:      {"page_up", "Page Up"},
	KeyPageDown:    {"page_down", "Page Down"},
	KeyUp:          {"up", "Up"},
	KeyDown:        {"down", "Down"},
	KeyLeft:        {"left", "Left"},
	KeyRight:       {"right", "Right"},
	KeyCapsLock:    {"caps_lock", "Caps Lock"},
	KeyNumLock:     {"num_lock", "Num Lock"},
	KeyScrollLock:  {"scroll_lock", "Scroll Lock"},
	KeyPrintScreen: {"print_screen", "Print Screen"},
	KeyPause:       {"pause", "Pause"},
	KeyMenu:        {"menu", "Menu"},
	KeyCmdL:        {"cmd", "Cmd"},
	KeyCmdR:        {"cmd_r", "Right Cmd"},
}

// namedKeyAliases maps additional lower-case spellings accepted by ParseKey.
var namedKeyAliases = map[string]NamedKey{
	"ctrl":        KeyCtrlL,
	"control":     KeyCtrlL,
	"shift_l":     KeyShiftL,
	"alt":         KeyAltL,
	"alt_gr":      KeyAltR,
	"escape":      KeyEsc,
	"return":      KeyEnter,
	"del":         KeyDelete,
	"ins":         KeyInsert,
	"pageup":      KeyPageUp,
	"pgup":        KeyPageUp,
	"pagedown":    KeyPageDown,
	"pgdn":        KeyPageDown,
	"capslock":    KeyCapsLock,
	"numlock":     KeyNumLock,
	"scrolllock":  KeyScrollLock,
	"printscreen": KeyPrintScreen,
	"prtsc":       KeyPrintScreen,
	"cmd_l":       KeyCmdL,
	"super":       KeyCmdL,
	"win":         KeyCmdL,
}

var namedKeyByToken = func() map[string]NamedKey {
	out := make(map[string]NamedKey, int(namedKeyCount)+len(namedKeyAliases))
	for k := KeyCtrlL; k < namedKeyCount; k++ {
		out[namedKeys[k].token] = k
		out[normalizeKeyName(namedKeys[k].label)] = k
	}
	for alias, k := range namedKeyAliases {
		out[alias] = k
	}
	return out
}()

// KeySymbol is a closed variant: either a named key or a printable character.
// The zero value is not a valid key. KeySymbol is comparable and safe to use
// as a map key.
type KeySymbol struct {
	named NamedKey
	char  rune
}

// Named returns the KeySymbol for a named key. Out-of-range values yield the
// invalid zero KeySymbol.
func Named(k NamedKey) KeySymbol {
	if k <= namedKeyNone || k >= namedKeyCount {
		return KeySymbol{}
	}
	return KeySymbol{named: k}
}

// Character returns the KeySymbol for a printable character. Letters are
// folded to lower case so that Shift does not change the key identity.
// Whitespace and control characters yield the invalid zero KeySymbol.
func Character(c rune) KeySymbol {
	if c == utf8.RuneError || !unicode.IsPrint(c) || unicode.IsSpace(c) {
		return KeySymbol{}
	}
	return KeySymbol{char: unicode.ToLower(c)}
}

// Valid reports whether k identifies a real key.
func (k KeySymbol) Valid() bool {
	return k.named != namedKeyNone || k.char != 0
}

// NamedKey returns the named key and true, or false for characters.
func (k KeySymbol) NamedKey() (NamedKey, bool) {
	return k.named, k.named != namedKeyNone
}

// Char returns the character and true, or false for named keys.
func (k KeySymbol) Char() (rune, bool) {
	return k.char, k.char != 0
}

// Modifier returns the modifier flag that k contributes while held.
func (k KeySymbol) Modifier() Modifier {
	switch k.named {
	case KeyCtrlL, KeyCtrlR:
		return ModCtrl
	case KeyShiftL, KeyShiftR:
		return ModShift
	case KeyAltL, KeyAltR:
		return ModAlt
	default:
		return 0
	}
}

// IsModifier reports whether k is a left or right Ctrl, Shift or Alt.
func (k KeySymbol) IsModifier() bool {
	return k.Modifier() != 0
}

// String returns the human-readable key name used in binding labels.
func (k KeySymbol) String() string {
	switch {
	case k.named != namedKeyNone:
		return namedKeys[k.named].label
	case k.char != 0:
		return string(unicode.ToUpper(k.char))
	default:
		return "?"
	}
}

// Token returns the settings-file representation of k: "Key.<name>" for
// named keys and the bare character otherwise. ParseKey accepts every token.
func (k KeySymbol) Token() string {
	switch {
	case k.named != namedKeyNone:
		return "Key." + namedKeys[k.named].token
	case k.char != 0:
		return string(k.char)
	default:
		return ""
	}
}

// ParseKey parses a key token. Accepted forms are "Key.f1", "f1", "F1",
// display labels such as "Page Up", a single character "a", and a quoted
// character "'a'".
func ParseKey(raw string) (KeySymbol, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return KeySymbol{}, fmt.Errorf("missing key token")
	}

	if utf8.RuneCountInString(token) == 1 {
		r, _ := utf8.DecodeRuneInString(token)
		if key := Character(r); key.Valid() {
			return key, nil
		}
		return KeySymbol{}, fmt.Errorf("unsupported key character %q", token)
	}

	if utf8.RuneCountInString(token) == 3 && strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") {
		r, _ := utf8.DecodeRuneInString(token[1:])
		if key := Character(r); key.Valid() {
			return key, nil
		}
	}

	name := normalizeKeyName(strings.TrimPrefix(token, "Key."))
	if named, ok := namedKeyByToken[name]; ok {
		return Named(named), nil
	}
	return KeySymbol{}, fmt.Errorf("unknown key %q", raw)
}

func normalizeKeyName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
