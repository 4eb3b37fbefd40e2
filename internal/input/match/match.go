// Package match decides whether a note is satisfied by the keys currently
// held down.
//
// A note is a list of tokens; each token is either a physical key code or
// a virtual key alias (see package key). Matching runs in one of three
// orderings:
//
//   - Unordered: every token must be down, press order is irrelevant.
//   - Ordered: tokens must have been pressed in the listed order.
//   - ModifiersFirst: modifier tokens may be pressed in any order among
//     themselves, but all of them must precede the non-modifier tokens.
//
// With exclusivity enabled the number of held keys must equal the number of
// tokens in the note.
package match

import (
	"fmt"

	"github.com/dshills/keychord/internal/input/key"
)

// Order selects how press order is taken into account.
type Order uint8

const (
	// Unordered accepts any press order.
	Unordered Order = iota
	// Ordered requires the listed token order.
	Ordered
	// ModifiersFirst requires modifiers before the other keys.
	ModifiersFirst
)

// String returns the configuration spelling of the order.
func (o Order) String() string {
	switch o {
	case Ordered:
		return "true"
	case ModifiersFirst:
		return "modifiersFirst"
	default:
		return "false"
	}
}

// ParseOrder parses the configuration spelling of an order.
// The empty string and "false" select Unordered.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "false":
		return Unordered, nil
	case "true", "ordered":
		return Ordered, nil
	case "modifiersFirst":
		return ModifiersFirst, nil
	}
	return Unordered, fmt.Errorf("unknown order %q", s)
}

// Result is the outcome of matching a single note.
type Result struct {
	// Matched is true if the note is satisfied.
	Matched bool

	// Consumed lists the held keys that satisfied note tokens, in token
	// order. It is populated for failed matches as well so callers can
	// track keys participating in partial matches.
	Consumed []key.Code
}

// Match tests note against pressed, which must be in press order.
func Match(note key.Note, pressed []key.Code, exclusive bool, order Order) Result {
	var res Result
	if order == Unordered {
		res = matchUnordered(note, pressed)
	} else {
		res = matchOrdered(note, pressed, order == ModifiersFirst)
	}

	if exclusive && len(pressed) != len(note) {
		res.Matched = false
	}
	return res
}

func matchUnordered(note key.Note, pressed []key.Code) Result {
	res := Result{Matched: true}
	for _, token := range note {
		if alts, ok := key.Alternatives(token); ok {
			found := false
			for _, alt := range alts {
				if key.Contains(pressed, alt) {
					res.Consumed = append(res.Consumed, alt)
					found = true
					break
				}
			}
			if !found {
				res.Matched = false
			}
			continue
		}

		c := key.Code(token)
		if key.Contains(pressed, c) {
			res.Consumed = append(res.Consumed, c)
		} else {
			res.Matched = false
		}
	}
	return res
}

// matchOrdered walks the press history with a single cursor. In
// modifiersFirst mode modifier keys move a separate cursor so they may
// appear in any order, and the note fails as soon as a modifier sits after
// an accepted non-modifier.
func matchOrdered(note key.Note, pressed []key.Code, modifiersFirst bool) Result {
	res := Result{Matched: true}
	lastFound := -1
	lastModifier := -1

	accept := func(c key.Code, idx int) {
		if modifiersFirst && key.IsModifier(c) {
			lastModifier = idx
		} else {
			lastFound = idx
		}
		res.Consumed = append(res.Consumed, c)
	}

	for _, token := range note {
		if alts, ok := key.Alternatives(token); ok {
			found := false
			for _, alt := range alts {
				if idx := key.IndexFrom(pressed, alt, lastFound+1); idx >= 0 {
					accept(alt, idx)
					found = true
					break
				}
			}
			if !found {
				res.Matched = false
			}
		} else {
			c := key.Code(token)
			idx := key.IndexFrom(pressed, c, lastFound+1)
			if idx < 0 {
				res.Matched = false
				break
			}
			accept(c, idx)
		}

		if modifiersFirst && lastFound >= 0 && lastModifier > lastFound {
			res.Matched = false
		}
	}
	return res
}
