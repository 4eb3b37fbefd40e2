package input

import "sync/atomic"

// FocusOracle reports whether the focused UI element accepts text entry.
// Non-global bindings do not fire while it returns true.
type FocusOracle interface {
	TextEntryFocused() bool
}

// FocusFunc adapts a function to FocusOracle.
type FocusFunc func() bool

// TextEntryFocused calls f.
func (f FocusFunc) TextEntryFocused() bool {
	return f()
}

// StaticFocus is a FocusOracle whose answer is set by the host.
type StaticFocus struct {
	focused atomic.Bool
}

// NewStaticFocus creates an oracle reporting focused.
func NewStaticFocus(focused bool) *StaticFocus {
	s := &StaticFocus{}
	s.focused.Store(focused)
	return s
}

// Set changes the reported focus state.
func (s *StaticFocus) Set(focused bool) {
	s.focused.Store(focused)
}

// TextEntryFocused implements FocusOracle.
func (s *StaticFocus) TextEntryFocused() bool {
	return s.focused.Load()
}

// noFocus never reports text entry.
type noFocus struct{}

func (noFocus) TextEntryFocused() bool { return false }
