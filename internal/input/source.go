package input

import (
	"sync"

	"github.com/dshills/keychord/internal/input/key"
)

// Sink receives raw input. The Engine implements it.
type Sink interface {
	HandleKeyDown(ev *key.Event)
	HandleKeyUp(ev *key.Event)
	HandleBlur()
	HandleVisibilityHidden()
	HandleLayoutChange()
}

// Source delivers raw key events and focus signals to a Sink.
// Attach is called from Init and Detach from Destroy. A source delivers
// from one goroutine at a time; sources sharing an engine go through a
// Gate.
type Source interface {
	Attach(s Sink) error
	Detach() error
}

// Gate serializes delivery from several sources into one sink, so a
// dispatch paused in a listener is never interleaved with an event from
// another source. The zero value is ready to use.
type Gate struct {
	mu sync.Mutex
}

// Sink returns s wrapped so every call holds the gate.
func (g *Gate) Sink(s Sink) Sink {
	return gatedSink{gate: g, next: s}
}

// Source returns src wrapped so it attaches to a gated sink.
func (g *Gate) Source(src Source) Source {
	return gatedSource{gate: g, next: src}
}

type gatedSink struct {
	gate *Gate
	next Sink
}

func (s gatedSink) HandleKeyDown(ev *key.Event) {
	s.gate.mu.Lock()
	defer s.gate.mu.Unlock()
	s.next.HandleKeyDown(ev)
}

func (s gatedSink) HandleKeyUp(ev *key.Event) {
	s.gate.mu.Lock()
	defer s.gate.mu.Unlock()
	s.next.HandleKeyUp(ev)
}

func (s gatedSink) HandleBlur() {
	s.gate.mu.Lock()
	defer s.gate.mu.Unlock()
	s.next.HandleBlur()
}

func (s gatedSink) HandleVisibilityHidden() {
	s.gate.mu.Lock()
	defer s.gate.mu.Unlock()
	s.next.HandleVisibilityHidden()
}

// HandleLayoutChange only starts a background refresh and is not gated.
func (s gatedSink) HandleLayoutChange() {
	s.next.HandleLayoutChange()
}

type gatedSource struct {
	gate *Gate
	next Source
}

func (s gatedSource) Attach(sink Sink) error {
	return s.next.Attach(s.gate.Sink(sink))
}

func (s gatedSource) Detach() error {
	return s.next.Detach()
}
