//go:build !linux

package evdev

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/input"
)

// ErrUnsupported is returned by Attach outside Linux.
var ErrUnsupported = errors.New("evdev input is only available on linux")

// Source is unavailable on this platform.
type Source struct{}

// New creates a source that cannot be attached.
func New(zerolog.Logger, ...string) *Source {
	return &Source{}
}

// Attach always fails.
func (s *Source) Attach(input.Sink) error {
	return ErrUnsupported
}

// Detach does nothing.
func (s *Source) Detach() error {
	return nil
}
