package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script or callback runs past
	// its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)
