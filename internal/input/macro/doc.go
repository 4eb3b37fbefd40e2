// Package macro records raw keyboard input and plays it back.
//
// A Macro is the sequence of raw signals an input source delivered
// (presses, repeats, releases, blur, visibility and layout changes) with
// the idle time before each one. Recordings reproduce chord timing
// exactly, so they are useful for checking a keymap or a script against
// real typing.
//
// # Recording
//
// A Recorder sits between a source and the engine:
//
//	rec := macro.NewRecorder()
//	cfg.Source = rec.Wrap(terminal.New(screen))
//	rec.StartRecording("session")
//	// ... user types ...
//	m := rec.StopRecording()
//	err := macro.Save(m, "session.yaml")
//
// # Playback
//
// A Player delivers a macro to any input.Sink. NewSource turns a macro
// into an input.Source that plays it when the engine attaches it:
//
//	m, err := macro.Load("session.yaml")
//	cfg.Source = macro.NewSource(m, macro.WithSpeed(2))
//
// # Persistence
//
// Macros are stored as YAML, TOML or JSON, chosen by file extension.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use.
package macro
