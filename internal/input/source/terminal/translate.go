package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/input/key"
)

// Stroke is a terminal key event decomposed into physical keys: the
// modifiers that were held and the key that was struck.
type Stroke struct {
	Modifiers []key.Code
	Code      key.Code
}

// Codes returns the modifiers followed by the struck key.
func (s Stroke) Codes() []key.Code {
	out := make([]key.Code, 0, len(s.Modifiers)+1)
	out = append(out, s.Modifiers...)
	return append(out, s.Code)
}

var specialKeys = map[tcell.Key]key.Code{
	tcell.KeyEnter:      key.CodeEnter,
	tcell.KeyTab:        key.CodeTab,
	tcell.KeyBacktab:    key.CodeTab,
	tcell.KeyEscape:     key.CodeEscape,
	tcell.KeyBackspace:  key.CodeBackspace,
	tcell.KeyBackspace2: key.CodeBackspace,
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// punctuation maps unshifted and shifted US layout characters to the key
// that produces them.
var punctuation = map[rune]struct {
	code    key.Code
	shifted bool
}{
	' ': {key.CodeSpace, false},
	'-': {"Minus", false}, '_': {"Minus", true},
	'=': {"Equal", false}, '+': {"Equal", true},
	'[': {"BracketLeft", false}, '{': {"BracketLeft", true},
	']': {"BracketRight", false}, '}': {"BracketRight", true},
	'\\': {"Backslash", false}, '|': {"Backslash", true},
	';': {"Semicolon", false}, ':': {"Semicolon", true},
	'\'': {"Quote", false}, '"': {"Quote", true},
	'`': {"Backquote", false}, '~': {"Backquote", true},
	',': {"Comma", false}, '<': {"Comma", true},
	'.': {"Period", false}, '>': {"Period", true},
	'/': {"Slash", false}, '?': {"Slash", true},
	'!': {"Digit1", true}, '@': {"Digit2", true}, '#': {"Digit3", true},
	'$': {"Digit4", true}, '%': {"Digit5", true}, '^': {"Digit6", true},
	'&': {"Digit7", true}, '*': {"Digit8", true}, '(': {"Digit9", true},
	')': {"Digit0", true},
}

// Translate converts a tcell key event to the physical keys that most
// likely produced it. Terminals report characters, not keys, so the
// mapping assumes a US layout.
func Translate(ev *tcell.EventKey) (Stroke, bool) {
	mods := ev.Modifiers()
	shifted := mods&tcell.ModShift != 0
	ctrl := mods&tcell.ModCtrl != 0

	var code key.Code
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		r := ev.Rune()
		switch {
		case unicode.IsUpper(r):
			shifted = true
			code = key.LetterCode(r)
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			code = key.LetterCode(r)
		case unicode.IsDigit(r):
			code = key.DigitCode(r)
		default:
			p, ok := punctuation[r]
			if !ok {
				return Stroke{}, false
			}
			code = p.code
			shifted = shifted || p.shifted
		}

	case specialKeys[k] != "":
		code = specialKeys[k]
		if k == tcell.KeyBacktab {
			shifted = true
		}

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		ctrl = true
		code = key.LetterCode(rune('a' + (k - tcell.KeyCtrlA)))

	case k == tcell.KeyCtrlSpace:
		ctrl = true
		code = key.CodeSpace

	default:
		return Stroke{}, false
	}

	if code == key.CodeNone {
		return Stroke{}, false
	}

	var s Stroke
	if ctrl {
		s.Modifiers = append(s.Modifiers, key.CodeControlLeft)
	}
	if mods&tcell.ModAlt != 0 {
		s.Modifiers = append(s.Modifiers, key.CodeAltLeft)
	}
	if mods&tcell.ModMeta != 0 {
		s.Modifiers = append(s.Modifiers, key.CodeMetaLeft)
	}
	if shifted {
		s.Modifiers = append(s.Modifiers, key.CodeShiftLeft)
	}
	s.Code = code
	return s, true
}
