package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type staticLoader map[string]any

func (s staticLoader) Load() (map[string]any, error) {
	return s, nil
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.ChordTimeout.Duration() != 2*time.Second {
		t.Errorf("ChordTimeout = %v, want 2s", cfg.ChordTimeout)
	}
	if cfg.Source != SourceTerminal {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      any
		want    time.Duration
		wantErr bool
	}{
		{int64(1500), 1500 * time.Millisecond, false},
		{1500, 1500 * time.Millisecond, false},
		{uint64(10), 10 * time.Millisecond, false},
		{2.5, 2500 * time.Microsecond, false},
		{"750", 750 * time.Millisecond, false},
		{"1.5s", 1500 * time.Millisecond, false},
		{"0", 0, false},
		{time.Second, time.Second, false},
		{"soon", 0, true},
		{true, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("ParseDuration(%v) error = %v, want ErrTypeMismatch", tt.in, err)
			}
			continue
		}
		if got.Duration() != tt.want {
			t.Errorf("ParseDuration(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadFromLayers(t *testing.T) {
	file := staticLoader{
		"chordTimeout": int64(800),
		"log":          map[string]any{"level": "debug", "format": "json"},
		"keymap":       "keys.toml",
		"layout":       map[string]any{"path": "layout.yaml", "watch": false},
		"devices":      []any{"/dev/input/event0"},
	}
	env := staticLoader{
		"chordTimeout": "3s",
		"source":       "evdev",
		"devices":      "/dev/input/event1, /dev/input/event2",
	}

	cfg, err := LoadFrom(file, env)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.ChordTimeout.Duration() != 3*time.Second {
		t.Errorf("ChordTimeout = %v, want 3s", cfg.ChordTimeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != FormatJSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Keymap != "keys.toml" || cfg.Layout.Path != "layout.yaml" || cfg.Layout.Watch {
		t.Errorf("paths = %q %+v", cfg.Keymap, cfg.Layout)
	}
	if cfg.Layout.Debounce != Default().Layout.Debounce {
		t.Errorf("Layout.Debounce = %v, want default", cfg.Layout.Debounce)
	}
	if cfg.Source != SourceEvdev {
		t.Errorf("Source = %q", cfg.Source)
	}
	want := []string{"/dev/input/event1", "/dev/input/event2"}
	if !reflect.DeepEqual(cfg.Devices, want) {
		t.Errorf("Devices = %v, want %v", cfg.Devices, want)
	}
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want error
	}{
		{"wrong type", map[string]any{"keymap": int64(3)}, ErrTypeMismatch},
		{"bad duration", map[string]any{"script": map[string]any{"timeout": "later"}}, ErrTypeMismatch},
		{"bad list", map[string]any{"devices": []any{int64(1)}}, ErrTypeMismatch},
		{"bad level", map[string]any{"log": map[string]any{"level": "loud"}}, ErrValidationFailed},
		{"bad format", map[string]any{"log": map[string]any{"format": "xml"}}, ErrValidationFailed},
		{"bad source", map[string]any{"source": "mouse"}, ErrValidationFailed},
		{"negative debounce", map[string]any{"layout": map[string]any{"debounce": int64(-1)}}, ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(staticLoader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadFrom() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keychord.yaml")
	data := []byte("chordTimeout: 1s\nscript:\n  path: init.lua\nlayout:\n  watch: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("KEYCHORD_CHORD_TIMEOUT", "0")
	t.Setenv("KEYCHORD_LAYOUT_WATCH", "off")
	t.Setenv("KEYCHORD_SOURCE", "none")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChordTimeout != 0 {
		t.Errorf("ChordTimeout = %v, want 0", cfg.ChordTimeout)
	}
	if cfg.Script.Path != "init.lua" {
		t.Errorf("Script.Path = %q", cfg.Script.Path)
	}
	if cfg.Layout.Watch {
		t.Error("Layout.Watch = true, want env override")
	}
	if cfg.Source != SourceNone {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}
