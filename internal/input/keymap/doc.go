// Package keymap provides binding management for the keychord engine.
//
// A binding ties a parsed chord to a listener and a set of options that
// control how the chord is matched and when it may fire.
//
// # Key Concepts
//
// Binding: a chord, a listener and Options. Every binding carries a unique
// ID that can be used to remove exactly that binding.
//
// Registry: the ordered collection of active bindings. Bindings are
// appended unless they were created with WithPrepend, in which case they
// are inserted at the front and see events first.
//
// Keymap: a named, declarative list of binding specs loaded from a TOML,
// YAML or JSON file. Specs name an action instead of a listener; the host
// resolves actions to listeners when installing the keymap.
//
// # Options
//
//	keymap.WithExclusive(false)              // other keys may be held
//	keymap.WithGlobal(true)                  // fire in text-entry contexts
//	keymap.WithUp(true)                      // fire on release
//	keymap.WithOrder(match.ModifiersFirst)   // modifiers before keys
//	keymap.WithTag("editor")                 // scope Unbind calls
//
// # Keymap Files
//
//	name = "editor"
//
//	[[bindings]]
//	combo = ["Accel+KeyS"]
//	action = "file.save"
//	global = true
//
//	[[bindings]]
//	combo = ["Control+KeyK Control+KeyC"]
//	action = "editor.comment"
//	ordered = "modifiersFirst"
package keymap
