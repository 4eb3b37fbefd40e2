package loader

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
	"testing/fstest"
)

type mapFS struct {
	fstest.MapFS
}

func (m mapFS) ReadFile(path string) ([]byte, error) {
	return m.MapFS.ReadFile(path)
}

func (m mapFS) Stat(path string) (fs.FileInfo, error) {
	return m.MapFS.Stat(path)
}

func TestFileLoaderFormats(t *testing.T) {
	fsys := mapFS{fstest.MapFS{
		"keychord.toml": {Data: []byte("chordTimeout = 1500\n[log]\nlevel = \"debug\"\n")},
		"keychord.yaml": {Data: []byte("chordTimeout: 1500\nlog:\n  level: debug\n")},
	}}

	for _, path := range []string{"keychord.toml", "keychord.yaml"} {
		t.Run(path, func(t *testing.T) {
			got, err := NewFileLoaderWithFS(fsys, path).Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if v, ok := GetPath(got, "log.level"); !ok || v != "debug" {
				t.Errorf("log.level = %v", v)
			}
			v, ok := GetPath(got, "chordTimeout")
			if !ok {
				t.Fatal("chordTimeout missing")
			}
			switch n := v.(type) {
			case int64:
				if n != 1500 {
					t.Errorf("chordTimeout = %d", n)
				}
			case int:
				if n != 1500 {
					t.Errorf("chordTimeout = %d", n)
				}
			default:
				t.Errorf("chordTimeout type %T", v)
			}
		})
	}
}

func TestFileLoaderMissing(t *testing.T) {
	got, err := NewFileLoaderWithFS(mapFS{fstest.MapFS{}}, "absent.toml").Load()
	if err != nil || got != nil {
		t.Errorf("Load() = %v, %v, want nil, nil", got, err)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("bad.toml", []byte("chordTimeout = \n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want ParseError", err)
	}
	if perr.Line != 1 {
		t.Errorf("Line = %d, want 1", perr.Line)
	}

	if _, err := Parse("bad.yaml", []byte("log: [unclosed\n")); !errors.As(err, &perr) {
		t.Errorf("yaml Parse() error = %v, want ParseError", err)
	}

	if _, err := Parse("config.ini", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse(.ini) error = %v", err)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"log":    map[string]any{"level": "info", "format": "console"},
		"source": "terminal",
	}
	src := map[string]any{
		"log":    map[string]any{"level": "debug"},
		"source": "evdev",
	}
	want := map[string]any{
		"log":    map[string]any{"level": "debug", "format": "console"},
		"source": "evdev",
	}
	if got := DeepMerge(dst, src); !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge() = %v, want %v", got, want)
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader("KEYCHORD_")
	l.AddMapping("KEYCHORD_CHORD_TIMEOUT", "chordTimeout")
	l.environ = func() []string {
		return []string{
			"KEYCHORD_CHORD_TIMEOUT=0",
			"KEYCHORD_LOG_LEVEL=warn",
			"KEYCHORD_LAYOUT_WATCH=yes",
			"KEYCHORD_SCRIPT_TIMEOUT_MS=250",
			"KEYCHORD_DEVICES=[\"/dev/input/event3\"]",
			"KEYCHORD_SOURCE=none",
			"HOME=/root",
		}
	}

	got, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}

	checks := map[string]any{
		"chordTimeout":     int64(0),
		"log.level":        "warn",
		"layout.watch":     true,
		"script.timeoutMs": int64(250),
		"devices":          []any{"/dev/input/event3"},
		"source":           "none",
	}
	for path, want := range checks {
		if v, ok := GetPath(got, path); !ok || !reflect.DeepEqual(v, want) {
			t.Errorf("%s = %#v, want %#v", path, v, want)
		}
	}
	if _, ok := got["home"]; ok {
		t.Error("unprefixed variable loaded")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"On", true},
		{"no", false},
		{"1", int64(1)},
		{"2.5", 2.5},
		{"2s", "2s"},
		{"[1]", []any{float64(1)}},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := ParseValue(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
