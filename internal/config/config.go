package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/config/loader"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "KEYCHORD_"

// Source names.
const (
	SourceTerminal = "terminal"
	SourceEvdev    = "evdev"
	SourceNone     = "none"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Duration is a time.Duration that decodes from integer milliseconds or a
// duration string such as "1.5s".
type Duration time.Duration

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// ParseDuration converts a decoded setting value to a Duration. Numbers
// are milliseconds.
func ParseDuration(v any) (Duration, error) {
	switch n := v.(type) {
	case Duration:
		return n, nil
	case time.Duration:
		return Duration(n), nil
	case int:
		return Duration(time.Duration(n) * time.Millisecond), nil
	case int64:
		return Duration(time.Duration(n) * time.Millisecond), nil
	case uint64:
		if n > math.MaxInt64/uint64(time.Millisecond) {
			return 0, fmt.Errorf("%w: duration %d out of range", ErrTypeMismatch, n)
		}
		return Duration(time.Duration(n) * time.Millisecond), nil
	case float64:
		return Duration(time.Duration(n * float64(time.Millisecond))), nil
	case string:
		s := strings.TrimSpace(n)
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Duration(time.Duration(ms) * time.Millisecond), nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		return Duration(d), nil
	default:
		return 0, fmt.Errorf("%w: expected duration, got %T", ErrTypeMismatch, v)
	}
}

// Config is the host configuration.
type Config struct {
	// ChordTimeout is the idle time allowed between chord notes.
	// Zero or negative disables expiry.
	ChordTimeout Duration

	Log    LogConfig
	Keymap string
	Layout LayoutConfig
	Script ScriptConfig

	// Source selects the raw input source.
	Source string

	// Devices lists evdev device paths. Empty autodetects keyboards.
	Devices []string
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// LayoutConfig configures the layout table file.
type LayoutConfig struct {
	Path     string
	Watch    bool
	Debounce Duration
}

// ScriptConfig configures the startup Lua script.
type ScriptConfig struct {
	Path    string
	Timeout Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ChordTimeout: Duration(2 * time.Second),
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Layout: LayoutConfig{
			Watch:    true,
			Debounce: Duration(50 * time.Millisecond),
		},
		Script: ScriptConfig{
			Timeout: Duration(5 * time.Second),
		},
		Source: SourceTerminal,
	}
}

// NewEnvLoader returns the loader for KEYCHORD_* overrides.
func NewEnvLoader() *loader.EnvLoader {
	env := loader.NewEnvLoader(EnvPrefix)
	env.AddMapping(EnvPrefix+"CHORD_TIMEOUT", "chordTimeout")
	return env
}

// Load reads the defaults, then the file at path (if any), then the
// environment, and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	loaders := []loader.Loader{}
	if path != "" {
		loaders = append(loaders, loader.NewFileLoader(path))
	}
	loaders = append(loaders, NewEnvLoader())
	return LoadFrom(loaders...)
}

// LoadFrom merges the given sources, later ones taking precedence, over
// the defaults.
func LoadFrom(loaders ...loader.Loader) (*Config, error) {
	merged := make(map[string]any)
	for _, l := range loaders {
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := cfg.Apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overwrites the settings present in data.
func (c *Config) Apply(data map[string]any) error {
	d := decoder{data: data}

	d.duration("chordTimeout", &c.ChordTimeout)
	d.str("log.level", &c.Log.Level)
	d.str("log.format", &c.Log.Format)
	d.str("log.file", &c.Log.File)
	d.str("keymap", &c.Keymap)
	d.str("layout.path", &c.Layout.Path)
	d.boolean("layout.watch", &c.Layout.Watch)
	d.duration("layout.debounce", &c.Layout.Debounce)
	d.str("script.path", &c.Script.Path)
	d.duration("script.timeout", &c.Script.Timeout)
	d.str("source", &c.Source)
	d.strings("devices", &c.Devices)

	return d.err
}

// Validate checks enumerated and ranged settings.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil || c.Log.Level == "" {
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "unknown level"}
	}
	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		return &ValidationError{Path: "log.format", Value: c.Log.Format, Message: "must be console or json"}
	}
	switch c.Source {
	case SourceTerminal, SourceEvdev, SourceNone:
	default:
		return &ValidationError{Path: "source", Value: c.Source, Message: "must be terminal, evdev or none"}
	}
	if c.Layout.Debounce < 0 {
		return &ValidationError{Path: "layout.debounce", Value: c.Layout.Debounce, Message: "must not be negative"}
	}
	if c.Script.Timeout < 0 {
		return &ValidationError{Path: "script.timeout", Value: c.Script.Timeout, Message: "must not be negative"}
	}
	return nil
}

// decoder reads typed values out of a merged settings map. The first
// error sticks.
type decoder struct {
	data map[string]any
	err  error
}

func (d *decoder) lookup(path string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	return loader.GetPath(d.data, path)
}

func (d *decoder) fail(path string, err error) {
	d.err = fmt.Errorf("config %s: %w", path, err)
}

func (d *decoder) str(path string, dst *string) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		d.fail(path, fmt.Errorf("%w: expected string, got %T", ErrTypeMismatch, v))
		return
	}
	*dst = s
}

func (d *decoder) boolean(path string, dst *bool) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(path, fmt.Errorf("%w: expected bool, got %T", ErrTypeMismatch, v))
		return
	}
	*dst = b
}

func (d *decoder) duration(path string, dst *Duration) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	dur, err := ParseDuration(v)
	if err != nil {
		d.fail(path, err)
		return
	}
	*dst = dur
}

func (d *decoder) strings(path string, dst *[]string) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch list := v.(type) {
	case string:
		var out []string
		for s := range strings.SplitSeq(list, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*dst = out
	case []string:
		*dst = list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				d.fail(path, fmt.Errorf("%w: expected list of strings, found %T", ErrTypeMismatch, item))
				return
			}
			out = append(out, s)
		}
		*dst = out
	default:
		d.fail(path, fmt.Errorf("%w: expected list, got %T", ErrTypeMismatch, v))
	}
}
