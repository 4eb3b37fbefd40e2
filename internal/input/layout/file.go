package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keychord/internal/input/key"
)

// DefaultDebounce coalesces bursts of file events from a single save.
const DefaultDebounce = 50 * time.Millisecond

// FileProvider reads a layout table from a TOML, YAML or JSON file that
// maps codes to labels:
//
//	KeyQ = "a"
//	KeyA = "q"
//	Semicolon = "m"
type FileProvider struct {
	// Path is the layout file.
	Path string

	// Debounce is the quiet period before a change is reported.
	// Zero uses DefaultDebounce.
	Debounce time.Duration

	// Logger receives watch errors.
	Logger zerolog.Logger
}

// NewFileProvider creates a provider for path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path, Debounce: DefaultDebounce, Logger: zerolog.Nop()}
}

// Fetch implements Provider.
func (p *FileProvider) Fetch(ctx context.Context) (Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoLayout, p.Path)
		}
		return nil, fmt.Errorf("reading layout file: %w", err)
	}

	raw := make(map[string]string)
	switch strings.ToLower(filepath.Ext(p.Path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	default:
		return nil, fmt.Errorf("layout file %s: unsupported format", p.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing layout file %s: %w", p.Path, err)
	}

	m := make(Map, len(raw))
	for code, label := range raw {
		m[key.Code(code)] = label
	}
	return m, nil
}

// Watch calls onChange whenever the layout file is written, created or
// replaced, until ctx is cancelled. The containing directory is watched
// so that editors that save by renaming are seen.
func (p *FileProvider) Watch(ctx context.Context, onChange func()) error {
	abs, err := filepath.Abs(p.Path)
	if err != nil {
		return err
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating layout watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	debounce := p.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !relevant(ev.Op) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, onChange)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.Logger.Warn().Err(err).Str("path", abs).Msg("layout watch error")
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
