package keymap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/keychord/internal/input/key"
)

// ErrNilListener is returned when binding without a listener.
var ErrNilListener = errors.New("listener must not be nil")

// Registry is the ordered collection of active bindings.
// Iteration order is insertion order, except that prepended bindings are
// inserted at the front.
type Registry struct {
	mu       sync.RWMutex
	bindings []*Binding
}

// Filter selects bindings for removal. Zero fields match everything.
type Filter struct {
	// Listener, if non-nil, must be the binding's listener.
	Listener Listener

	// Tag must strictly equal the binding's tag when MatchTag is set.
	Tag      any
	MatchTag bool
}

func (f Filter) matches(b *Binding) bool {
	if f.Listener != nil && !SameListener(f.Listener, b.Listener) {
		return false
	}
	if f.MatchTag && !strictEqual(f.Tag, b.Options.Tag) {
		return false
	}
	return true
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers chord with l and returns the new binding.
func (r *Registry) Add(chord key.Chord, l Listener, opts Options) (*Binding, error) {
	if chord.IsEmpty() {
		return nil, key.ErrEmptyCombo
	}
	if l == nil {
		return nil, fmt.Errorf("binding %q: %w", chord.String(), ErrNilListener)
	}

	b := NewBinding(chord, l, opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if opts.Prepend {
		r.bindings = append([]*Binding{b}, r.bindings...)
	} else {
		r.bindings = append(r.bindings, b)
	}
	return b, nil
}

// Remove removes every binding registered for combo that passes f and
// returns the number removed. combo is compared in normalized form.
func (r *Registry) Remove(combo string, f Filter) int {
	normalized := key.Normalize(combo)
	if normalized == "" {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.bindings[:0:0]
	removed := 0
	for _, b := range r.bindings {
		if b.combo == normalized && f.matches(b) {
			b.removed.Store(true)
			removed++
			continue
		}
		kept = append(kept, b)
	}
	r.bindings = kept
	return removed
}

// RemoveID removes the binding with the given ID.
func (r *Registry) RemoveID(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.bindings {
		if b.ID == id {
			b.removed.Store(true)
			r.bindings = append(r.bindings[:i:i], r.bindings[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the binding with the given ID, or nil.
func (r *Registry) Get(id string) *Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bindings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Snapshot returns the bindings in dispatch order. The slice is a copy and
// stays valid while the registry changes.
func (r *Registry) Snapshot() []*Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// Clear removes all bindings.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bindings {
		b.removed.Store(true)
	}
	r.bindings = nil
}
