package keymap

import (
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/input/key"
)

// Listener receives fired bindings.
type Listener interface {
	Fire(d *Dispatch)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(d *Dispatch)

// Fire calls f(d).
func (f ListenerFunc) Fire(d *Dispatch) {
	f(d)
}

// SameListener reports whether a and b identify the same listener.
// Functions are compared by code pointer, other comparable values with ==.
// Non-comparable values are never the same.
func SameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	fa, aok := a.(ListenerFunc)
	fb, bok := b.(ListenerFunc)
	if aok || bok {
		if !aok || !bok || fa == nil || fb == nil {
			return false
		}
		return reflect.ValueOf(fa).Pointer() == reflect.ValueOf(fb).Pointer()
	}
	return strictEqual(a, b)
}

// strictEqual compares a and b with == when both dynamic types are the
// same comparable type.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() { _ = recover() }()
	return a == b
}

// Binding is an active registration of a chord.
type Binding struct {
	// ID uniquely identifies the binding.
	ID string

	// Chord is the parsed combo.
	Chord key.Chord

	// Listener is called when the chord completes.
	Listener Listener

	// Options control matching and dispatch.
	Options Options

	combo   string
	removed atomic.Bool
}

// NewBinding creates a binding with a fresh ID.
func NewBinding(chord key.Chord, l Listener, opts Options) *Binding {
	return &Binding{
		ID:       uuid.NewString(),
		Chord:    chord,
		Listener: l,
		Options:  opts,
		combo:    chord.String(),
	}
}

// Combo returns the serialized chord.
func (b *Binding) Combo() string {
	return b.combo
}

// Tag returns the binding's tag.
func (b *Binding) Tag() any {
	return b.Options.Tag
}

// Removed reports whether the binding has been taken out of its registry.
// Removed bindings never fire, even from a dispatch pass that started
// before the removal.
func (b *Binding) Removed() bool {
	return b.removed.Load()
}

// Direction returns the event direction the binding reacts to.
func (b *Binding) Direction() key.Direction {
	return b.Options.Direction()
}

// Allowed reports whether the binding may run for ev given the current
// focus context.
func (b *Binding) Allowed(ev *key.Event, textFocused bool) bool {
	return b.Options.Global.Allows(ev, b.combo, textFocused)
}

// Propagation is shared by every dispatch of a single raw event.
type Propagation struct {
	stopped bool
}

// Stop halts further dispatch of the event.
func (p *Propagation) Stop() {
	p.stopped = true
}

// Stopped reports whether Stop was called.
func (p *Propagation) Stopped() bool {
	return p != nil && p.stopped
}

// Dispatch is passed to a listener when its binding fires.
type Dispatch struct {
	// Event is the raw event that completed the chord.
	Event *key.Event

	// Chord is the full matched chord.
	Chord key.Chord

	// Note is the note that completed the match.
	Note key.Note

	// Tag is the binding's tag.
	Tag any

	// Binding is the fired binding.
	Binding *Binding

	prop *Propagation
}

// NewDispatch creates the dispatch context for b completing note.
func NewDispatch(ev *key.Event, b *Binding, note key.Note, prop *Propagation) *Dispatch {
	return &Dispatch{
		Event:   ev,
		Chord:   b.Chord,
		Note:    note,
		Tag:     b.Options.Tag,
		Binding: b,
		prop:    prop,
	}
}

// StopImmediatePropagation prevents any further bindings or chords from
// being evaluated for the same raw event.
func (d *Dispatch) StopImmediatePropagation() {
	if d.prop != nil {
		d.prop.Stop()
	}
}

// PreventDefault suppresses the raw event's default action.
func (d *Dispatch) PreventDefault() {
	if d.Event != nil {
		d.Event.PreventDefault()
	}
}
