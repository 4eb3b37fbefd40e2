package layout

import (
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dshills/keychord/internal/input/key"
)

// Table holds the active layout map and converts between codes and labels.
// It is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	m     Map
	codes []key.Code
}

// NewTable creates a table with no layout loaded.
func NewTable() *Table {
	return &Table{}
}

// Set replaces the layout. A nil map clears it.
func (t *Table) Set(m Map) {
	codes := make([]key.Code, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	slices.Sort(codes)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.m = m.Clone()
	t.codes = codes
}

// Loaded reports whether a layout map is present.
func (t *Table) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.m != nil
}

// Snapshot returns a copy of the layout map.
func (t *Table) Snapshot() Map {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.m.Clone()
}

// CodeForKey returns the physical key that produces label. Single
// characters are compared case-insensitively. Without a layout the
// letter and digit codes are derived from the label itself.
func (t *Table) CodeForKey(label string) (key.Code, bool) {
	if utf8.RuneCountInString(label) == 1 {
		label = strings.ToLower(label)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.m == nil {
		return fallbackCode(label)
	}
	for _, c := range t.codes {
		if t.m[c] == label {
			return c, true
		}
	}
	return key.CodeNone, false
}

// KeyForCode returns the label printed on the physical key c.
func (t *Table) KeyForCode(c key.Code) string {
	t.mu.RLock()
	label, ok := t.m[c]
	t.mu.RUnlock()

	if ok {
		return label
	}
	return FallbackLabel(c)
}

// FallbackLabel guesses the label for c: "KeyA" becomes "a", "Digit1"
// becomes "1" and other codes are returned unchanged.
func FallbackLabel(c key.Code) string {
	label := strings.TrimPrefix(string(c), "Key")
	if rest, ok := strings.CutPrefix(label, "Digit"); ok && rest != "" && isDigits(rest) {
		label = rest
	}
	if utf8.RuneCountInString(label) == 1 {
		label = strings.ToLower(label)
	}
	return label
}

func fallbackCode(label string) (key.Code, bool) {
	r, size := utf8.DecodeRuneInString(label)
	if size == 0 || size != len(label) {
		return key.CodeNone, false
	}
	if c := key.LetterCode(r); c != key.CodeNone {
		return c, true
	}
	if c := key.DigitCode(r); c != key.CodeNone {
		return c, true
	}
	return key.CodeNone, false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
