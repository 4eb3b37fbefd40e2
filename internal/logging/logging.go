// Package logging builds the zerolog loggers used by keychord.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TimeFormat is used by console output.
const TimeFormat = "2006-01-02 15:04:05.000"

// Options configures a logger.
type Options struct {
	// Level is the minimum level: trace, debug, info, warn or error.
	// Default: info
	Level string

	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer

	// Console selects human readable output instead of JSON lines.
	Console bool

	// NoColor disables ANSI colors in console output.
	NoColor bool
}

// DefaultOptions returns console logging at info level to stderr.
func DefaultOptions() Options {
	return Options{
		Level:   "info",
		Output:  os.Stderr,
		Console: true,
	}
}

// ParseLevel parses a level name. Unknown or empty names yield info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "warning":
		return zerolog.WarnLevel
	case "":
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// New creates a logger with a timestamp on every entry.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: TimeFormat,
			NoColor:    opts.NoColor,
		}
	}
	return zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
}

// Component returns log with the component field set.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// File is a log file opened for appending.
type File struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenFile opens path for appending, creating its directory if needed.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return &File{f: f, path: path}, nil
}

// Write implements io.Writer. Writes after Close are dropped.
func (l *File) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return len(p), nil
	}
	return l.f.Write(p)
}

// Path returns the file path.
func (l *File) Path() string {
	return l.path
}

// Close closes the file.
func (l *File) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
