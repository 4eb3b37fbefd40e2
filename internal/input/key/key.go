package key

import "strings"

// Code identifies a physical key, independent of keyboard layout.
// Values follow the W3C UI Events "code" naming, e.g. "KeyA", "Digit1",
// "ShiftLeft", "NumpadEnter".
type Code string

// Frequently used key codes.
const (
	CodeNone Code = ""

	CodeShiftLeft    Code = "ShiftLeft"
	CodeShiftRight   Code = "ShiftRight"
	CodeControlLeft  Code = "ControlLeft"
	CodeControlRight Code = "ControlRight"
	CodeAltLeft      Code = "AltLeft"
	CodeAltRight     Code = "AltRight"
	CodeMetaLeft     Code = "MetaLeft"
	CodeMetaRight    Code = "MetaRight"
	CodeOSLeft       Code = "OSLeft"
	CodeOSRight      Code = "OSRight"

	CodeEnter       Code = "Enter"
	CodeNumpadEnter Code = "NumpadEnter"
	CodeEscape      Code = "Escape"
	CodeTab         Code = "Tab"
	CodeSpace       Code = "Space"
	CodeBackspace   Code = "Backspace"
)

// String returns the code as a string.
func (c Code) String() string {
	return string(c)
}

// IsLetter returns true for the "KeyA".."KeyZ" codes.
func (c Code) IsLetter() bool {
	s := string(c)
	return len(s) == 4 && strings.HasPrefix(s, "Key") && s[3] >= 'A' && s[3] <= 'Z'
}

// IsDigit returns true for the "Digit0".."Digit9" codes.
func (c Code) IsDigit() bool {
	s := string(c)
	return len(s) == 6 && strings.HasPrefix(s, "Digit") && s[5] >= '0' && s[5] <= '9'
}

// IsModifier returns true if the code is a modifier-class key.
func (c Code) IsModifier() bool {
	return IsModifier(c)
}

// LetterCode returns the code for an ASCII letter, or CodeNone.
func LetterCode(r rune) Code {
	switch {
	case r >= 'a' && r <= 'z':
		return Code("Key" + string(r-'a'+'A'))
	case r >= 'A' && r <= 'Z':
		return Code("Key" + string(r))
	}
	return CodeNone
}

// DigitCode returns the code for an ASCII digit, or CodeNone.
func DigitCode(r rune) Code {
	if r >= '0' && r <= '9' {
		return Code("Digit" + string(r))
	}
	return CodeNone
}

// indexOf returns the index of c in codes at or after from, or -1.
func indexOf(codes []Code, c Code, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(codes); i++ {
		if codes[i] == c {
			return i
		}
	}
	return -1
}

// IndexFrom returns the position of c in the press history at or after
// from, or -1 if it does not occur there.
func IndexFrom(pressed []Code, c Code, from int) int {
	return indexOf(pressed, c, from)
}

// Contains reports whether c is in codes.
func Contains(codes []Code, c Code) bool {
	return indexOf(codes, c, 0) >= 0
}
