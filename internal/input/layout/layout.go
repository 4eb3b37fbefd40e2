// Package layout maps physical key codes to the labels they produce under
// the active keyboard layout.
//
// The engine treats the layout service as an external collaborator: a
// Provider is asked for the whole table at startup and again when the host
// reports a layout change. When no table is available, conversions fall
// back to a heuristic that works for US-style layouts.
package layout

import (
	"context"
	"errors"
	"maps"

	"github.com/dshills/keychord/internal/input/key"
)

// ErrNoLayout is returned by providers that cannot supply a table.
var ErrNoLayout = errors.New("keyboard layout unavailable")

// Map associates physical keys with their labels.
type Map map[key.Code]string

// Clone returns a copy of m.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// Provider fetches the current layout table.
type Provider interface {
	Fetch(ctx context.Context) (Map, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Map, error)

// Fetch calls f(ctx).
func (f ProviderFunc) Fetch(ctx context.Context) (Map, error) {
	return f(ctx)
}

// Static is a Provider that always returns the same table. A nil Static
// reports ErrNoLayout.
type Static Map

// Fetch implements Provider.
func (s Static) Fetch(ctx context.Context) (Map, error) {
	if s == nil {
		return nil, ErrNoLayout
	}
	return Map(s).Clone(), nil
}

// None is a Provider with no layout table.
var None Provider = Static(nil)

// USQwerty returns the letter and digit rows of a US QWERTY layout.
func USQwerty() Map {
	m := make(Map, 48)
	for r := 'a'; r <= 'z'; r++ {
		m[key.LetterCode(r)] = string(r)
	}
	for r := '0'; r <= '9'; r++ {
		m[key.DigitCode(r)] = string(r)
	}
	extra := map[key.Code]string{
		"Minus": "-", "Equal": "=", "BracketLeft": "[", "BracketRight": "]",
		"Backslash": "\\", "Semicolon": ";", "Quote": "'", "Backquote": "`",
		"Comma": ",", "Period": ".", "Slash": "/",
	}
	maps.Copy(m, extra)
	return m
}
