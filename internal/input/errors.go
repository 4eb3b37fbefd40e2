package input

import "errors"

// Errors returned by engine operations.
var (
	// ErrAlreadyInitialized is returned by Init on a running engine.
	ErrAlreadyInitialized = errors.New("engine already initialized")

	// ErrNotInitialized is returned by operations that need Init first.
	ErrNotInitialized = errors.New("engine needs to be initialized before binding any combos")

	// ErrStaleLayout is returned by RefreshLayout when a newer refresh
	// already installed its table.
	ErrStaleLayout = errors.New("keyboard layout superseded by a newer refresh")
)
