package macro

import (
	"fmt"
	"time"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// Kind identifies a recorded signal.
type Kind string

// Recorded signal kinds.
const (
	KindDown   Kind = "down"
	KindRepeat Kind = "repeat"
	KindUp     Kind = "up"
	KindBlur   Kind = "blur"
	KindHidden Kind = "hidden"
	KindLayout Kind = "layout"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindDown, KindRepeat, KindUp, KindBlur, KindHidden, KindLayout:
		return true
	}
	return false
}

// HasCode reports whether steps of this kind carry a key code.
func (k Kind) HasCode() bool {
	return k == KindDown || k == KindRepeat || k == KindUp
}

// Step is one recorded signal.
type Step struct {
	Kind Kind
	Code key.Code

	// Delay is the time since the previous step.
	Delay time.Duration
}

// String returns a compact form such as "down KeyA +120ms".
func (s Step) String() string {
	out := string(s.Kind)
	if s.Kind.HasCode() {
		out += " " + string(s.Code)
	}
	if s.Delay > 0 {
		out += fmt.Sprintf(" +%s", s.Delay)
	}
	return out
}

// Deliver sends the step to sink. Key events are timestamped with at.
func (s Step) Deliver(sink input.Sink, at time.Time) {
	switch s.Kind {
	case KindDown:
		sink.HandleKeyDown(&key.Event{Code: s.Code, Direction: key.Down, Timestamp: at})
	case KindRepeat:
		sink.HandleKeyDown(&key.Event{Code: s.Code, Direction: key.Down, Repeat: true, Timestamp: at})
	case KindUp:
		sink.HandleKeyUp(&key.Event{Code: s.Code, Direction: key.Up, Timestamp: at})
	case KindBlur:
		sink.HandleBlur()
	case KindHidden:
		sink.HandleVisibilityHidden()
	case KindLayout:
		sink.HandleLayoutChange()
	}
}

// Macro is a named recording.
type Macro struct {
	Name  string
	Steps []Step
}

// Duration returns the total delay of all steps.
func (m *Macro) Duration() time.Duration {
	var d time.Duration
	for _, s := range m.Steps {
		d += s.Delay
	}
	return d
}

// Validate checks step kinds and codes.
func (m *Macro) Validate() error {
	for i, s := range m.Steps {
		if !s.Kind.Valid() {
			return fmt.Errorf("step %d: unknown kind %q", i, s.Kind)
		}
		if s.Kind.HasCode() && s.Code == key.CodeNone {
			return fmt.Errorf("step %d: %s without a key code", i, s.Kind)
		}
		if s.Delay < 0 {
			return fmt.Errorf("step %d: negative delay", i)
		}
	}
	return nil
}

// Typed builds a macro that taps each code in turn with the given delay
// between steps.
func Typed(name string, delay time.Duration, codes ...key.Code) *Macro {
	m := &Macro{Name: name}
	for _, c := range codes {
		m.Steps = append(m.Steps,
			Step{Kind: KindDown, Code: c, Delay: delay},
			Step{Kind: KindUp, Code: c, Delay: delay})
	}
	if len(m.Steps) > 0 {
		m.Steps[0].Delay = 0
	}
	return m
}
