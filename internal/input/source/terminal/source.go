// Package terminal feeds key events from a tcell screen into the engine.
//
// Terminals only report key strokes, never releases, so every stroke is
// delivered as a press of its modifiers and key followed by the releases
// in reverse order. Focus reports from the terminal become blur signals.
package terminal

import (
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// ErrAttached is returned when attaching a source twice.
var ErrAttached = errors.New("terminal source already attached")

// Passthrough receives terminal events the engine did not consume: key
// strokes whose default action was not prevented, and every non-key event.
type Passthrough func(ev tcell.Event)

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Source) { s.log = log }
}

// WithPassthrough sets the handler for unconsumed events.
func WithPassthrough(fn Passthrough) Option {
	return func(s *Source) { s.passthrough = fn }
}

// Source polls a tcell screen. The screen must already be initialized.
type Source struct {
	screen      tcell.Screen
	log         zerolog.Logger
	passthrough Passthrough

	mu   sync.Mutex
	sink input.Sink
	quit chan struct{}
	done chan struct{}
}

// New creates a source over screen.
func New(screen tcell.Screen, opts ...Option) *Source {
	s := &Source{screen: screen, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach starts polling and delivering events to sink.
func (s *Source) Attach(sink input.Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sink != nil {
		return ErrAttached
	}
	s.sink = sink
	s.quit = make(chan struct{})
	s.done = make(chan struct{})

	s.screen.EnableFocus()
	go s.loop(sink, s.quit, s.done)
	return nil
}

// Detach stops polling. It does not finalize the screen.
func (s *Source) Detach() error {
	s.mu.Lock()
	if s.sink == nil {
		s.mu.Unlock()
		return nil
	}
	quit, done := s.quit, s.done
	s.sink = nil
	s.mu.Unlock()

	close(quit)
	// Wake PollEvent so the loop sees quit.
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	<-done
	return nil
}

func (s *Source) loop(sink input.Sink, quit, done chan struct{}) {
	defer close(done)

	for {
		ev := s.screen.PollEvent()
		select {
		case <-quit:
			return
		default:
		}
		if ev == nil {
			// Screen finalized.
			return
		}
		s.Deliver(sink, ev)
	}
}

// Deliver translates one terminal event for sink.
func (s *Source) Deliver(sink input.Sink, ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		stroke, ok := Translate(e)
		if !ok {
			s.log.Debug().Str("key", e.Name()).Msg("untranslatable key")
			s.pass(ev)
			return
		}
		if !Strike(sink, stroke) {
			s.pass(ev)
		}

	case *tcell.EventFocus:
		if !e.Focused {
			sink.HandleBlur()
		}
		s.pass(ev)

	case *tcell.EventInterrupt:

	default:
		s.pass(ev)
	}
}

func (s *Source) pass(ev tcell.Event) {
	if s.passthrough != nil {
		s.passthrough(ev)
	}
}

// Strike presses every key of stroke in order and releases them in
// reverse. It reports whether the engine prevented the struck key's
// default action.
func Strike(sink input.Sink, stroke Stroke) bool {
	codes := stroke.Codes()

	var prevented bool
	for _, c := range codes {
		ev := key.NewDown(c)
		sink.HandleKeyDown(ev)
		if c == stroke.Code {
			prevented = ev.DefaultPrevented()
		}
	}
	for i := len(codes) - 1; i >= 0; i-- {
		sink.HandleKeyUp(key.NewUp(codes[i]))
	}
	return prevented
}
