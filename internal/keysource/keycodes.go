package keysource

import (
	"unicode"

	"streamcounter/internal/hotkeys"
)

// uiohook virtual key codes as delivered in hook.Event.Keycode.
const (
	vcEscape = 0x0001

	vcF1  = 0x003B
	vcF2  = 0x003C
	vcF3  = 0x003D
	vcF4  = 0x003E
	vcF5  = 0x003F
	vcF6  = 0x0040
	vcF7  = 0x0041
	vcF8  = 0x0042
	vcF9  = 0x0043
	vcF10 = 0x0044
	vcF11 = 0x0057
	vcF12 = 0x0058
	vcF13 = 0x005B
	vcF14 = 0x005C
	vcF15 = 0x005D
	vcF16 = 0x0063
	vcF17 = 0x0064
	vcF18 = 0x0065
	vcF19 = 0x0066
	vcF20 = 0x0067
	vcF21 = 0x0068
	vcF22 = 0x0069
	vcF23 = 0x006A
	vcF24 = 0x006B

	vcBackquote    = 0x0029
	vcMinus        = 0x000C
	vcEquals       = 0x000D
	vcBackspace    = 0x000E
	vcTab          = 0x000F
	vcCapsLock     = 0x003A
	vcOpenBracket  = 0x001A
	vcCloseBracket = 0x001B
	vcBackSlash    = 0x002B
	vcSemicolon    = 0x0027
	vcQuote        = 0x0028
	vcEnter        = 0x001C
	vcComma        = 0x0033
	vcPeriod       = 0x0034
	vcSlash        = 0x0035
	vcSpace        = 0x0039

	vcPrintScreen = 0x0E37
	vcScrollLock  = 0x0046
	vcPause       = 0x0E45
	vcInsert      = 0x0E52
	vcDelete      = 0x0E53
	vcHome        = 0x0E47
	vcEnd         = 0x0E4F
	vcPageUp      = 0x0E49
	vcPageDown    = 0x0E51
	vcUp          = 0xE048
	vcLeft        = 0xE04B
	vcRight       = 0xE04D
	vcDown        = 0xE050
	vcNumLock     = 0x0045

	vcShiftL   = 0x002A
	vcShiftR   = 0x0036
	vcControlL = 0x001D
	vcControlR = 0x0E1D
	vcAltL     = 0x0038
	vcAltR     = 0x0E38
	vcMetaL    = 0x0E5B
	vcMetaR    = 0x0E5C
	vcContext  = 0x0E5D

	// charUndefined is libuiohook's CHAR_UNDEFINED.
	charUndefined = 0xFFFF
)

var namedByCode = map[uint16]hotkeys.NamedKey{
	vcEscape: hotkeys.KeyEsc,
	vcF1:     hotkeys.KeyF1, vcF2: hotkeys.KeyF2, vcF3: hotkeys.KeyF3, vcF4: hotkeys.KeyF4,
	vcF5: hotkeys.KeyF5, vcF6: hotkeys.KeyF6, vcF7: hotkeys.KeyF7, vcF8: hotkeys.KeyF8,
	vcF9: hotkeys.KeyF9, vcF10: hotkeys.KeyF10, vcF11: hotkeys.KeyF11, vcF12: hotkeys.KeyF12,
	vcF13: hotkeys.KeyF13, vcF14: hotkeys.KeyF14, vcF15: hotkeys.KeyF15, vcF16: hotkeys.KeyF16,
	vcF17: hotkeys.KeyF17, vcF18: hotkeys.KeyF18, vcF19: hotkeys.KeyF19, vcF20: hotkeys.KeyF20,
	vcF21: hotkeys.KeyF21, vcF22: hotkeys.KeyF22, vcF23: hotkeys.KeyF23, vcF24: hotkeys.KeyF24,

	vcBackspace: hotkeys.KeyBackspace,
	vcTab:       hotkeys.KeyTab,
	vcCapsLock:  hotkeys.KeyCapsLock,
	vcEnter:     hotkeys.KeyEnter,
	vcSpace:     hotkeys.KeySpace,

	vcPrintScreen: hotkeys.KeyPrintScreen,
	vcScrollLock:  hotkeys.KeyScrollLock,
	vcPause:       hotkeys.KeyPause,
	vcInsert:      hotkeys.KeyInsert,
	vcDelete:      hotkeys.KeyDelete,
	vcHome:        hotkeys.KeyHome,
	vcEnd:         hotkeys.KeyEnd,
	vcPageUp:      hotkeys.KeyPageUp,
	vcPageDown:    hotkeys.KeyPageDown,
	vcUp:          hotkeys.KeyUp,
	vcLeft:        hotkeys.KeyLeft,
	vcRight:       hotkeys.KeyRight,
	vcDown:        hotkeys.KeyDown,
	vcNumLock:     hotkeys.KeyNumLock,

	vcShiftL:   hotkeys.KeyShiftL,
	vcShiftR:   hotkeys.KeyShiftR,
	vcControlL: hotkeys.KeyCtrlL,
	vcControlR: hotkeys.KeyCtrlR,
	vcAltL:     hotkeys.KeyAltL,
	vcAltR:     hotkeys.KeyAltR,
	vcMetaL:    hotkeys.KeyCmdL,
	vcMetaR:    hotkeys.KeyCmdR,
	vcContext:  hotkeys.KeyMenu,
}

// charByCode maps printable keys by their US-layout base character, so that
// Shift+1 is reported as '1' and not '!'.
var charByCode = map[uint16]rune{
	vcBackquote: '`', vcMinus: '-', vcEquals: '=',
	vcOpenBracket: '[', vcCloseBracket: ']', vcBackSlash: '\\',
	vcSemicolon: ';', vcQuote: '\'',
	vcComma: ',', vcPeriod: '.', vcSlash: '/',

	0x0002: '1', 0x0003: '2', 0x0004: '3', 0x0005: '4', 0x0006: '5',
	0x0007: '6', 0x0008: '7', 0x0009: '8', 0x000A: '9', 0x000B: '0',

	0x001E: 'a', 0x0030: 'b', 0x002E: 'c', 0x0020: 'd', 0x0012: 'e',
	0x0021: 'f', 0x0022: 'g', 0x0023: 'h', 0x0017: 'i', 0x0024: 'j',
	0x0025: 'k', 0x0026: 'l', 0x0032: 'm', 0x0031: 'n', 0x0018: 'o',
	0x0019: 'p', 0x0010: 'q', 0x0013: 'r', 0x001F: 's', 0x0014: 't',
	0x0016: 'u', 0x002F: 'v', 0x0011: 'w', 0x002D: 'x', 0x0015: 'y',
	0x002C: 'z',
}

// Translate maps a uiohook key code to a KeySymbol. Codes outside the table
// fall back to keychar when it is a printable character. The second result
// is false when neither yields a key.
func Translate(keycode uint16, keychar rune) (hotkeys.KeySymbol, bool) {
	if named, ok := namedByCode[keycode]; ok {
		return hotkeys.Named(named), true
	}
	if c, ok := charByCode[keycode]; ok {
		return hotkeys.Character(c), true
	}
	if keychar != 0 && keychar != charUndefined && unicode.IsPrint(keychar) {
		key := hotkeys.Character(keychar)
		return key, key.Valid()
	}
	return hotkeys.KeySymbol{}, false
}
