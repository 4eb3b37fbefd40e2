// Package keychord recognizes keyboard combos and chords.
//
// A combo is a set of keys held together ("Control+KeyS"). A chord is a
// sequence of combos pressed one after another ("Control+KeyK Control+KeyC")
// with at most ChordTimeout of idle time between them. Keys are named by
// their physical code (KeyA, Digit1, ShiftLeft) or by an alias that stands
// for several codes (Shift, Control, Alt, Meta, Accel, AnyEnter).
//
// The package keeps one process-wide engine:
//
//	if err := keychord.Init(ctx, keychord.DefaultConfig()); err != nil {
//	    return err
//	}
//	defer keychord.Destroy()
//
//	keychord.BindFunc("Accel+KeyS", func(d *keychord.Dispatch) {
//	    save()
//	}, keychord.WithGlobal(true), keychord.WithPreventDefaultDown(true))
//
// Raw input reaches the engine through a Source set in the Config, or by
// calling the Handle methods of Default() directly.
package keychord

import (
	"context"
	"sync"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/layout"
	"github.com/dshills/keychord/internal/input/match"
)

type (
	Engine       = input.Engine
	Config       = input.Config
	Listener     = keymap.Listener
	ListenerFunc = keymap.ListenerFunc
	Dispatch     = keymap.Dispatch
	Binding      = keymap.Binding
	Option       = keymap.Option
	Code         = key.Code
	Event        = key.Event
	Order        = match.Order
	Source       = input.Source
	Sink         = input.Sink
	FocusOracle  = input.FocusOracle
)

// Press orders for WithOrder.
const (
	Unordered      = match.Unordered
	Ordered        = match.Ordered
	ModifiersFirst = match.ModifiersFirst
)

// Errors.
var (
	ErrAlreadyInitialized = input.ErrAlreadyInitialized
	ErrNotInitialized     = input.ErrNotInitialized
	ErrEmptyCombo         = key.ErrEmptyCombo
)

// Binding options.
var (
	WithExclusive              = keymap.WithExclusive
	WithGlobal                 = keymap.WithGlobal
	WithGlobalFunc             = keymap.WithGlobalFunc
	WithUp                     = keymap.WithUp
	WithOrder                  = keymap.WithOrder
	WithModifiersPoisonChord   = keymap.WithModifiersPoisonChord
	WithTag                    = keymap.WithTag
	WithPreventDefaultPartials = keymap.WithPreventDefaultPartials
	WithPreventDefaultDown     = keymap.WithPreventDefaultDown
	WithPrepend                = keymap.WithPrepend
)

var (
	mu     sync.Mutex
	engine *input.Engine
)

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return input.DefaultConfig()
}

// Init creates and initializes the process-wide engine.
func Init(ctx context.Context, config Config) error {
	mu.Lock()
	defer mu.Unlock()

	if engine != nil {
		return ErrAlreadyInitialized
	}
	e := input.New(config)
	if err := e.Init(ctx); err != nil {
		return err
	}
	engine = e
	return nil
}

// Destroy tears down the process-wide engine. Init may be called again
// afterwards.
func Destroy() error {
	mu.Lock()
	e := engine
	engine = nil
	mu.Unlock()

	if e == nil {
		return ErrNotInitialized
	}
	return e.Destroy()
}

// Default returns the process-wide engine, or nil before Init.
func Default() *Engine {
	mu.Lock()
	defer mu.Unlock()
	return engine
}

// Bind registers combo with l.
func Bind(combo string, l Listener, opts ...Option) (*Binding, error) {
	e := Default()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.Bind(combo, l, opts...)
}

// BindFunc registers combo with fn.
func BindFunc(combo string, fn func(*Dispatch), opts ...Option) (*Binding, error) {
	e := Default()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.BindFunc(combo, fn, opts...)
}

// BindAll registers every combo with l. Nothing is registered if any
// combo is invalid.
func BindAll(combos []string, l Listener, opts ...Option) ([]*Binding, error) {
	e := Default()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.BindAll(combos, l, opts...)
}

// Unbind removes the bindings of combo made with l and returns how many
// were removed.
func Unbind(combo string, l Listener) int {
	if e := Default(); e != nil {
		return e.Unbind(combo, l)
	}
	return 0
}

// UnbindTagged is Unbind restricted to bindings carrying tag.
func UnbindTagged(combo string, l Listener, tag any) int {
	if e := Default(); e != nil {
		return e.UnbindTagged(combo, l, tag)
	}
	return 0
}

// UnbindID removes the binding with the given ID.
func UnbindID(id string) bool {
	if e := Default(); e != nil {
		return e.UnbindID(id)
	}
	return false
}

// Poison stops the keys currently held from matching anything until they
// are all released.
func Poison() {
	if e := Default(); e != nil {
		e.Poison()
	}
}

// PressedKeys returns the held keys in press order.
func PressedKeys() []Code {
	if e := Default(); e != nil {
		return e.PressedKeys()
	}
	return nil
}

// noLayout answers label lookups before Init with the fallback heuristic.
var noLayout = layout.NewTable()

// CodeForKey returns the code that produces label on the current layout.
func CodeForKey(label string) (Code, bool) {
	if e := Default(); e != nil {
		return e.CodeForKey(label)
	}
	return noLayout.CodeForKey(label)
}

// KeyForCode returns the label code produces on the current layout.
func KeyForCode(c Code) string {
	if e := Default(); e != nil {
		return e.KeyForCode(c)
	}
	return layout.FallbackLabel(c)
}
