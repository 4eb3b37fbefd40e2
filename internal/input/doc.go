// Package input implements the keychord engine: it tracks which physical
// keys are held, matches registered combos and chords against press and
// release events, and notifies listeners exactly once per completed
// shortcut.
//
// # Architecture
//
// The engine coordinates several components:
//
//   - key: key codes, the combo grammar and virtual key aliases
//   - match: the note matcher (ordering and exclusivity rules)
//   - keymap: the binding registry and binding options
//   - chord: chords in progress and their expiry timer
//   - layout: conversion between key codes and layout labels
//
// Raw events enter through HandleKeyDown and HandleKeyUp, usually from a
// Source attached at Init. Focus loss and visibility changes are reported
// through HandleBlur and HandleVisibilityHidden; they release every held
// key and emit a keycancel notification per key.
//
// # Combos
//
//	"KeyA"                       single key
//	"Shift+KeyA"                 keys held together (a note)
//	"Control+KeyK Control+KeyC"  notes in succession (a chord)
//
// # Usage
//
//	e := input.New(input.DefaultConfig())
//	if err := e.Init(ctx); err != nil {
//	    return err
//	}
//	defer e.Destroy()
//
//	e.BindFunc("Accel+KeyS", func(d *input.Dispatch) {
//	    save()
//	}, keymap.WithGlobal(true))
//
// # Concurrency
//
// Events are expected to be delivered from one goroutine at a time. The
// engine lock is released while listeners and notification handlers run,
// so they may call Bind, Unbind and Poison. Focus oracles and global
// predicates run with the lock held and must not call back into the
// engine.
package input
