package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptyCombo = errors.New("combo needs to have at least a single key in it")
)

// ParseChord parses a combo string into a Chord.
//
// Notes are separated by whitespace and the keys of a note by "+". Empty
// tokens are dropped, so "Ctrl++KeyA" and "  KeyA  " are accepted.
//
// Examples:
//   - "KeyA"
//   - "Shift+KeyA"
//   - "Control+KeyK Control+KeyC"
func ParseChord(combo string) (Chord, error) {
	var chord Chord
	for _, field := range strings.Fields(combo) {
		var note Note
		for _, token := range strings.Split(field, "+") {
			if token != "" {
				note = append(note, token)
			}
		}
		chord = append(chord, note)
	}

	if chord.IsEmpty() {
		return nil, fmt.Errorf("%w: %q", ErrEmptyCombo, combo)
	}
	return chord, nil
}

// MustParseChord parses a combo and panics on error.
// Use only for known-valid combos in initialization code.
func MustParseChord(combo string) Chord {
	chord, err := ParseChord(combo)
	if err != nil {
		panic("invalid combo: " + combo + ": " + err.Error())
	}
	return chord
}

// Normalize returns the canonical serialization of a combo. Unparseable
// combos normalize to the empty string.
func Normalize(combo string) string {
	chord, err := ParseChord(combo)
	if err != nil {
		return ""
	}
	return chord.String()
}
