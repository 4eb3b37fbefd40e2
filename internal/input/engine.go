package input

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/input/chord"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/layout"
)

// Listener, ListenerFunc and Dispatch are re-exported from keymap so hosts
// only need this package to bind combos.
type (
	Listener     = keymap.Listener
	ListenerFunc = keymap.ListenerFunc
	Dispatch     = keymap.Dispatch
)

// Config configures an Engine.
type Config struct {
	// ChordTimeout is the idle time allowed between the notes of a chord.
	// Zero or negative disables expiry. Default: 2000ms
	ChordTimeout time.Duration

	// Logger receives engine diagnostics.
	Logger zerolog.Logger

	// Scheduler runs the chord expiry timer. Default: chord.SystemScheduler
	Scheduler chord.Scheduler

	// Focus tells the engine whether text entry has focus.
	// Default: never focused.
	Focus FocusOracle

	// Layout supplies the keyboard layout table. Default: layout.None
	Layout layout.Provider

	// Source delivers raw input. It is attached by Init and detached by
	// Destroy. Optional; hosts may call the Handle methods directly.
	Source Source
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChordTimeout: chord.DefaultTimeout,
		Logger:       zerolog.Nop(),
		Scheduler:    chord.SystemScheduler{},
		Focus:        noFocus{},
		Layout:       layout.None,
	}
}

// Engine matches key events against registered combos and chords.
type Engine struct {
	mu sync.Mutex

	config Config
	log    zerolog.Logger

	initialized bool

	// epoch changes on every reset so a dispatch pass interrupted by a
	// listener can tell that its view of the state is stale.
	epoch uint64

	registry *keymap.Registry
	tracker  *chord.Tracker

	// pressed holds the held keys in press order, each at most once.
	pressed []key.Code

	// keyUpIgnore holds keys whose release must not fail a chord.
	keyUpIgnore []key.Code

	// repeatIgnore holds keys whose repeated presses have their default
	// action suppressed.
	repeatIgnore []key.Code

	poisoned bool

	// firing counts listeners currently running with the lock released.
	firing int

	layout      *layout.Table
	layoutReady chan struct{}

	// layoutGen counts started refreshes; layoutApplied is the generation
	// of the table in use.
	layoutGen     uint64
	layoutApplied uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	notify  *notifier
	metrics *Metrics
}

// New creates an engine. Call Init before binding combos.
func New(config Config) *Engine {
	if config.Scheduler == nil {
		config.Scheduler = chord.SystemScheduler{}
	}
	if config.Focus == nil {
		config.Focus = noFocus{}
	}
	if config.Layout == nil {
		config.Layout = layout.None
	}

	log := config.Logger.With().Str("component", "keychord").Logger()
	metrics := NewMetrics()

	ready := make(chan struct{})
	close(ready)

	return &Engine{
		config:      config,
		log:         log,
		registry:    keymap.NewRegistry(),
		tracker:     chord.NewTracker(config.Scheduler, config.ChordTimeout),
		layout:      layout.NewTable(),
		layoutReady: ready,
		notify:      newNotifier(log, metrics),
		metrics:     metrics,
	}
}

// Init resets the engine state, attaches the configured source and starts
// fetching the layout table in the background.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return ErrAlreadyInitialized
	}

	e.registry.Clear()
	e.resetLocked()
	e.tracker = chord.NewTracker(e.config.Scheduler, e.config.ChordTimeout)

	if e.config.Source != nil {
		if err := e.config.Source.Attach(e); err != nil {
			return fmt.Errorf("attaching input source: %w", err)
		}
	}

	e.ctx, e.cancel = context.WithCancel(ctx)
	ready := make(chan struct{})
	e.layoutReady = ready
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer close(ready)
		_ = e.RefreshLayout(e.ctx)
	}()

	e.initialized = true
	e.log.Debug().Dur("chordTimeout", e.config.ChordTimeout).Msg("engine initialized")
	return nil
}

// Destroy detaches the source, stops background work and drops all
// bindings and chord state. Called while a listener runs, for example from
// the listener itself, it does not wait for the source to stop: the source
// finishes detaching in the background once the listener returns.
func (e *Engine) Destroy() error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	e.initialized = false
	e.registry.Clear()
	e.resetLocked()
	cancel := e.cancel
	src := e.config.Source
	inListener := e.firing > 0
	e.mu.Unlock()

	var err error
	switch {
	case src == nil:
	case inListener:
		// The source's delivery goroutine may be the one running the
		// listener, so waiting for it here would never return.
		go func() {
			if derr := src.Detach(); derr != nil {
				e.log.Warn().Err(derr).Msg("detaching input source")
			}
		}()
	default:
		if derr := src.Detach(); derr != nil {
			err = fmt.Errorf("detaching input source: %w", derr)
		}
	}
	if cancel != nil {
		cancel()
	}
	e.wg.Wait()

	e.log.Debug().Msg("engine destroyed")
	return err
}

// Initialized reports whether Init has been called without Destroy.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// resetLocked clears pressed keys, chords, ignore sets and the poison
// flag. Caller must hold the lock.
func (e *Engine) resetLocked() {
	e.epoch++
	e.pressed = nil
	e.keyUpIgnore = nil
	e.repeatIgnore = nil
	e.poisoned = false
	e.tracker.Clear()
	e.tracker.Disarm()
}

// Bind registers combo with l.
func (e *Engine) Bind(combo string, l Listener, opts ...keymap.Option) (*keymap.Binding, error) {
	bs, err := e.BindAll([]string{combo}, l, opts...)
	if err != nil {
		return nil, err
	}
	return bs[0], nil
}

// BindFunc registers combo with a listener function.
func (e *Engine) BindFunc(combo string, fn func(*Dispatch), opts ...keymap.Option) (*keymap.Binding, error) {
	if fn == nil {
		return nil, keymap.ErrNilListener
	}
	return e.Bind(combo, ListenerFunc(fn), opts...)
}

// BindAll registers every combo variant with the same listener and
// options. Nothing is registered if any combo is invalid.
func (e *Engine) BindAll(combos []string, l Listener, opts ...keymap.Option) ([]*keymap.Binding, error) {
	if len(combos) == 0 {
		return nil, key.ErrEmptyCombo
	}
	if l == nil {
		return nil, keymap.ErrNilListener
	}

	chords := make([]key.Chord, 0, len(combos))
	for _, c := range combos {
		ch, err := key.ParseChord(c)
		if err != nil {
			return nil, err
		}
		chords = append(chords, ch)
	}
	o := keymap.Apply(opts...)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}

	out := make([]*keymap.Binding, 0, len(chords))
	for _, ch := range chords {
		b, err := e.registry.Add(ch, l, o)
		if err != nil {
			return out, err
		}
		e.log.Debug().Str("combo", b.Combo()).Str("id", b.ID).Msg("bound")
		out = append(out, b)
	}
	return out, nil
}

// Unbind removes every binding of combo. A nil listener matches any
// listener. It returns the number of bindings removed.
func (e *Engine) Unbind(combo string, l Listener) int {
	return e.unbind(combo, keymap.Filter{Listener: l})
}

// UnbindTagged removes the bindings of combo whose tag strictly equals
// tag. A nil listener matches any listener.
func (e *Engine) UnbindTagged(combo string, l Listener, tag any) int {
	return e.unbind(combo, keymap.Filter{Listener: l, Tag: tag, MatchTag: true})
}

func (e *Engine) unbind(combo string, f keymap.Filter) int {
	n := e.registry.Remove(combo, f)
	if n > 0 {
		e.log.Debug().Str("combo", combo).Int("count", n).Msg("unbound")
	}
	return n
}

// UnbindID removes the binding with the given ID.
func (e *Engine) UnbindID(id string) bool {
	return e.registry.RemoveID(id)
}

// Bindings returns the active bindings in dispatch order.
func (e *Engine) Bindings() []*keymap.Binding {
	return e.registry.Snapshot()
}

// Poison aborts every chord in progress and suspends matching until all
// keys are released.
func (e *Engine) Poison() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n := e.tracker.Clear(); n > 0 {
		e.metrics.recordChordsFailed(n)
	}
	e.tracker.Disarm()
	e.epoch++
	if len(e.pressed) > 0 {
		e.poisoned = true
	}
	e.log.Debug().Int("pressed", len(e.pressed)).Msg("poisoned")
}

// Poisoned reports whether matching is suspended.
func (e *Engine) Poisoned() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.poisoned
}

// PressedKeys returns the held keys in press order.
func (e *Engine) PressedKeys() []key.Code {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]key.Code, len(e.pressed))
	copy(out, e.pressed)
	return out
}

// ChordsInProgress returns the number of chords waiting for more notes.
func (e *Engine) ChordsInProgress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Len()
}

// CodeForKey returns the physical key that produces label under the
// active layout.
func (e *Engine) CodeForKey(label string) (key.Code, bool) {
	return e.layout.CodeForKey(label)
}

// KeyForCode returns the label of the physical key c.
func (e *Engine) KeyForCode(c key.Code) string {
	return e.layout.KeyForCode(c)
}

// LayoutReady is closed once the layout fetch started by Init finishes,
// whether or not it succeeded.
func (e *Engine) LayoutReady() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layoutReady
}

// RefreshLayout fetches the layout table synchronously. On failure the
// previous table is kept and label conversion keeps working. When
// refreshes overlap, a table fetched by an older refresh never replaces one
// from a newer refresh; the older call returns ErrStaleLayout.
func (e *Engine) RefreshLayout(ctx context.Context) error {
	e.mu.Lock()
	e.layoutGen++
	gen := e.layoutGen
	e.mu.Unlock()

	m, err := e.config.Layout.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, layout.ErrNoLayout) {
			e.metrics.recordLayoutError()
			e.log.Warn().Err(err).Msg("could not get keyboard layout map")
		}
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen < e.layoutApplied {
		e.log.Debug().Uint64("generation", gen).Msg("discarding stale keyboard layout")
		return ErrStaleLayout
	}
	e.layoutApplied = gen
	e.layout.Set(m)
	e.log.Debug().Int("keys", len(m)).Msg("keyboard layout loaded")
	return nil
}

// Metrics returns the engine's metrics.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Logger returns the engine logger.
func (e *Engine) Logger() zerolog.Logger {
	return e.log
}
