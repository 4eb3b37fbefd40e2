package macro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// persistedStep is the file form of a Step.
type persistedStep struct {
	Kind    string `json:"kind" toml:"kind" yaml:"kind"`
	Code    string `json:"code,omitempty" toml:"code,omitempty" yaml:"code,omitempty"`
	DelayMs int64  `json:"delayMs,omitempty" toml:"delayMs,omitempty" yaml:"delayMs,omitempty"`
}

// persistedMacro is the root of a macro file.
type persistedMacro struct {
	Version int             `json:"version" toml:"version" yaml:"version"`
	Name    string          `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	SavedAt time.Time       `json:"savedAt" toml:"savedAt" yaml:"savedAt"`
	Steps   []persistedStep `json:"steps" toml:"steps" yaml:"steps"`
}

const currentVersion = 1

// Save writes m to path in the format given by its extension. The file
// is written atomically using a temporary file and rename.
func Save(m *Macro, path string) error {
	format, err := keymap.FormatFor(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m, format); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads a macro file. The name defaults to the file's base name.
func Load(path string) (*Macro, error) {
	format, err := keymap.FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read macro file: %w", err)
	}

	m, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Name == "" {
		base := filepath.Base(path)
		m.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return m, nil
}

// Encode writes m in the given format.
func Encode(w io.Writer, m *Macro, format keymap.Format) error {
	data := persistedMacro{
		Version: currentVersion,
		Name:    m.Name,
		SavedAt: time.Now().UTC().Truncate(time.Second),
		Steps:   make([]persistedStep, len(m.Steps)),
	}
	for i, s := range m.Steps {
		data.Steps[i] = persistedStep{
			Kind:    string(s.Kind),
			Code:    string(s.Code),
			DelayMs: s.Delay.Milliseconds(),
		}
	}

	switch format {
	case keymap.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case keymap.FormatTOML:
		return toml.NewEncoder(w).Encode(data)
	case keymap.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return fmt.Errorf("%w: %s", keymap.ErrUnsupportedFormat, format)
}

// Decode parses and validates a macro.
func Decode(raw []byte, format keymap.Format) (*Macro, error) {
	var data persistedMacro
	var err error

	switch format {
	case keymap.FormatYAML:
		err = yaml.Unmarshal(raw, &data)
	case keymap.FormatTOML:
		err = toml.Unmarshal(raw, &data)
	case keymap.FormatJSON:
		err = json.Unmarshal(raw, &data)
	default:
		return nil, fmt.Errorf("%w: %s", keymap.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal macro: %w", err)
	}

	if data.Version > currentVersion {
		return nil, fmt.Errorf("unsupported macro file version: %d (max supported: %d)",
			data.Version, currentVersion)
	}
	if len(data.Steps) == 0 {
		return nil, ErrEmpty
	}

	m := &Macro{Name: data.Name, Steps: make([]Step, len(data.Steps))}
	for i, p := range data.Steps {
		m.Steps[i] = Step{
			Kind:  Kind(p.Kind),
			Code:  key.Code(p.Code),
			Delay: time.Duration(p.DelayMs) * time.Millisecond,
		}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid macro: %w", err)
	}
	return m, nil
}
