// Package evdev feeds key events from Linux input devices into the engine.
//
// Unlike a terminal, evdev reports real presses, releases and auto-repeat,
// so chords that depend on keys being held or released work as they would
// in a desktop environment. Reading devices requires membership of the
// input group. On other platforms Attach returns ErrUnsupported.
package evdev
