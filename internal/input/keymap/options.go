package keymap

import (
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/match"
)

// GlobalFunc decides whether a binding may fire for an event. It receives
// the raw event and the serialized combo of the binding.
type GlobalFunc func(ev *key.Event, combo string) bool

// Global controls whether a binding fires while a text-entry element holds
// focus. It is either a fixed flag or a predicate; a predicate is
// authoritative and the focus check is skipped.
type Global struct {
	always    bool
	predicate GlobalFunc
}

var (
	// GlobalNever blocks the binding while text entry has focus.
	GlobalNever = Global{}

	// GlobalAlways lets the binding fire regardless of focus.
	GlobalAlways = Global{always: true}
)

// GlobalPredicate returns a Global backed by fn. A nil fn is GlobalNever.
func GlobalPredicate(fn GlobalFunc) Global {
	return Global{predicate: fn}
}

// IsPredicate reports whether the value is backed by a function.
func (g Global) IsPredicate() bool {
	return g.predicate != nil
}

// Allows reports whether a binding with this setting may run for ev.
func (g Global) Allows(ev *key.Event, combo string, textFocused bool) bool {
	if g.predicate != nil {
		return g.predicate(ev, combo)
	}
	return g.always || !textFocused
}

// String returns "false", "true" or "func".
func (g Global) String() string {
	switch {
	case g.predicate != nil:
		return "func"
	case g.always:
		return "true"
	default:
		return "false"
	}
}

// Options control matching and dispatch of a binding.
type Options struct {
	// Exclusive requires that no keys other than the note's are held.
	// Non-exclusive bindings may also start while other chords are in
	// progress.
	Exclusive bool

	// Global permits firing while a text-entry element has focus.
	Global Global

	// Up fires on release of the final note instead of on press.
	Up bool

	// Order selects how press order is checked.
	Order match.Order

	// ModifiersPoisonChord makes unrelated modifier events abort a chord
	// in progress instead of being ignored.
	ModifiersPoisonChord bool

	// Tag is attached to dispatches and scopes UnbindTagged.
	Tag any

	// PreventDefaultPartials suppresses default actions of repeated keys
	// that took part in a partial match.
	PreventDefaultPartials bool

	// PreventDefaultDown suppresses the default action of the press that
	// completes a note.
	PreventDefaultDown bool

	// Prepend inserts the binding at the front of the registry.
	Prepend bool
}

// DefaultOptions returns the default binding options.
func DefaultOptions() Options {
	return Options{
		Exclusive:              true,
		Global:                 GlobalNever,
		Order:                  match.Unordered,
		PreventDefaultPartials: true,
	}
}

// Direction returns the event direction the binding reacts to.
func (o Options) Direction() key.Direction {
	if o.Up {
		return key.Up
	}
	return key.Down
}

// Option configures Options.
type Option func(*Options)

// Apply returns DefaultOptions with opts applied in order.
func Apply(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithExclusive sets the exclusive option.
func WithExclusive(exclusive bool) Option {
	return func(o *Options) { o.Exclusive = exclusive }
}

// WithGlobal sets global to a fixed flag.
func WithGlobal(global bool) Option {
	return func(o *Options) {
		if global {
			o.Global = GlobalAlways
		} else {
			o.Global = GlobalNever
		}
	}
}

// WithGlobalFunc sets global to a predicate.
func WithGlobalFunc(fn GlobalFunc) Option {
	return func(o *Options) { o.Global = GlobalPredicate(fn) }
}

// WithUp makes the binding fire on release.
func WithUp(up bool) Option {
	return func(o *Options) { o.Up = up }
}

// WithOrder sets the press-order requirement.
func WithOrder(order match.Order) Option {
	return func(o *Options) { o.Order = order }
}

// WithModifiersPoisonChord sets the modifiersPoisonChord option.
func WithModifiersPoisonChord(poison bool) Option {
	return func(o *Options) { o.ModifiersPoisonChord = poison }
}

// WithTag attaches a tag to the binding.
func WithTag(tag any) Option {
	return func(o *Options) { o.Tag = tag }
}

// WithPreventDefaultPartials sets the preventDefaultPartials option.
func WithPreventDefaultPartials(prevent bool) Option {
	return func(o *Options) { o.PreventDefaultPartials = prevent }
}

// WithPreventDefaultDown sets the preventDefaultDown option.
func WithPreventDefaultDown(prevent bool) Option {
	return func(o *Options) { o.PreventDefaultDown = prevent }
}

// WithPrepend inserts the binding ahead of existing ones.
func WithPrepend(prepend bool) Option {
	return func(o *Options) { o.Prepend = prepend }
}
