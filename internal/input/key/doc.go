// Package key provides the key vocabulary of the shortcut engine.
//
// This package defines the fundamental types for describing shortcuts and the
// raw key events they are matched against:
//
//   - Code: Identifies a physical key ("KeyA", "ShiftLeft", "NumpadEnter")
//   - Note: A set of keys that must be held down together
//   - Chord: An ordered series of notes forming a multi-step shortcut
//   - Event: A single raw key-down or key-up notification
//
// # Combo Syntax
//
// Combos are written as notes separated by whitespace, with the keys of a
// note joined by "+":
//
//	"KeyA"                  - a single key
//	"Ctrl+Shift+KeyP"       - three keys held together
//	"Control+KeyK KeyC"     - a two-note chord
//
// # Virtual Keys
//
// Some tokens are aliases for a group of interchangeable physical keys, so
// that "Shift" is satisfied by either ShiftLeft or ShiftRight. "Accel" is the
// platform accelerator: the Command keys on macOS and Control elsewhere.
package key
