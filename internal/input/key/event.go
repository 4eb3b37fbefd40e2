package key

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Direction tells whether an event is a press or a release.
type Direction uint8

const (
	// Down is a key press.
	Down Direction = iota
	// Up is a key release.
	Up
)

// String returns "down" or "up".
func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Event is a raw key notification delivered by an input source.
//
// The source inspects DefaultPrevented after the engine has handled the
// event to decide whether the key's ordinary effect (text insertion, menu
// activation, ...) should be suppressed.
type Event struct {
	// Code identifies the physical key.
	Code Code

	// Direction is Down for presses and Up for releases.
	Direction Direction

	// Repeat is set on auto-repeated presses while the key is held.
	Repeat bool

	// Timestamp is when the event occurred.
	Timestamp time.Time

	prevented atomic.Bool
}

// NewDown creates a press event with the current timestamp.
func NewDown(code Code) *Event {
	return &Event{Code: code, Direction: Down, Timestamp: time.Now()}
}

// NewRepeat creates an auto-repeat press event.
func NewRepeat(code Code) *Event {
	return &Event{Code: code, Direction: Down, Repeat: true, Timestamp: time.Now()}
}

// NewUp creates a release event with the current timestamp.
func NewUp(code Code) *Event {
	return &Event{Code: code, Direction: Up, Timestamp: time.Now()}
}

// IsUp returns true for release events.
func (e *Event) IsUp() bool {
	return e.Direction == Up
}

// PreventDefault marks the event's default action as suppressed.
func (e *Event) PreventDefault() {
	e.prevented.Store(true)
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.prevented.Load()
}

// GoString implements fmt.GoStringer for debugging.
func (e *Event) GoString() string {
	return fmt.Sprintf("Event{Code: %s, Direction: %s, Repeat: %t}", e.Code, e.Direction, e.Repeat)
}
