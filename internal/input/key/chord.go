package key

import "strings"

// Note is a set of key tokens that must be held down at the same time.
// Tokens are either key codes or virtual key aliases. Token order matters
// only for ordered matching.
type Note []string

// Len returns the number of tokens in the note.
func (n Note) Len() int {
	return len(n)
}

// Has returns true if the note contains token.
func (n Note) Has(token string) bool {
	for _, t := range n {
		if t == token {
			return true
		}
	}
	return false
}

// String returns the tokens joined with "+".
func (n Note) String() string {
	return strings.Join(n, "+")
}

// Equals returns true if both notes have the same tokens in the same order.
func (n Note) Equals(other Note) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if n[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the note.
func (n Note) Clone() Note {
	if n == nil {
		return nil
	}
	out := make(Note, len(n))
	copy(out, n)
	return out
}

// Chord is an ordered series of notes. A chord of length one is a plain
// combo; longer chords require each note in a separate key-activity window.
type Chord []Note

// Len returns the number of notes in the chord.
func (c Chord) Len() int {
	return len(c)
}

// IsEmpty returns true if the chord has no notes or an empty first note.
func (c Chord) IsEmpty() bool {
	return len(c) == 0 || len(c[0]) == 0
}

// At returns the note at index i, or nil if out of range.
func (c Chord) At(i int) Note {
	if i < 0 || i >= len(c) {
		return nil
	}
	return c[i]
}

// First returns the first note, or nil.
func (c Chord) First() Note {
	return c.At(0)
}

// String serializes the chord: notes joined by a single space.
// Two combos are the same binding target iff their serializations match.
func (c Chord) String() string {
	parts := make([]string, len(c))
	for i, n := range c {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// Equals returns true if two chords are identical.
func (c Chord) Equals(other Chord) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].Equals(other[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the chord.
func (c Chord) Clone() Chord {
	if c == nil {
		return nil
	}
	out := make(Chord, len(c))
	for i, n := range c {
		out[i] = n.Clone()
	}
	return out
}
