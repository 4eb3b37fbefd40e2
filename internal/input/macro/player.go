package macro

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keychord/internal/input"
)

var (
	// ErrPlaying is returned when a player is already playing.
	ErrPlaying = errors.New("already playing a macro")

	// ErrEmpty is returned when playing a macro without steps.
	ErrEmpty = errors.New("macro has no steps")
)

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// PlayOption configures playback.
type PlayOption func(*playConfig)

type playConfig struct {
	speed float64
	count int
	wait  WaitFunc
}

// WithSpeed scales playback speed. Zero or negative plays without delays.
// Default: 1
func WithSpeed(speed float64) PlayOption {
	return func(c *playConfig) { c.speed = speed }
}

// WithCount plays the macro n times. Default: 1
func WithCount(n int) PlayOption {
	return func(c *playConfig) { c.count = n }
}

// WithWait replaces the real-time wait between steps.
func WithWait(fn WaitFunc) PlayOption {
	return func(c *playConfig) { c.wait = fn }
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Player replays macros into a sink.
type Player struct {
	mu      sync.Mutex
	playing atomic.Bool
	cancel  context.CancelFunc
}

// NewPlayer creates a player.
func NewPlayer() *Player {
	return &Player{}
}

// Play delivers the steps of m to sink, waiting each step's delay. It
// returns when playback finishes or ctx is cancelled.
func (p *Player) Play(ctx context.Context, sink input.Sink, m *Macro, opts ...PlayOption) error {
	cfg := playConfig{speed: 1, count: 1, wait: sleep}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.count < 1 {
		cfg.count = 1
	}
	if len(m.Steps) == 0 {
		return ErrEmpty
	}

	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.playing.Load() {
		p.mu.Unlock()
		cancel()
		return ErrPlaying
	}
	p.cancel = cancel
	p.playing.Store(true)
	p.mu.Unlock()

	defer func() {
		cancel()
		p.playing.Store(false)
		p.mu.Lock()
		p.cancel = nil
		p.mu.Unlock()
	}()

	at := time.Now()
	for range cfg.count {
		for _, s := range m.Steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			if cfg.speed > 0 && s.Delay > 0 {
				d := time.Duration(float64(s.Delay) / cfg.speed)
				if err := cfg.wait(ctx, d); err != nil {
					return err
				}
			}
			// Timestamps follow the recording so latency metrics stay
			// meaningful at any speed.
			at = at.Add(s.Delay)
			s.Deliver(sink, at)
		}
	}
	return nil
}

// IsPlaying returns true while a macro is being played.
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}

// Cancel stops the current playback. Safe to call when idle.
func (p *Player) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// Source plays a macro into the sink it is attached to.
type Source struct {
	macro *Macro
	opts  []PlayOption

	player *Player
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewSource creates a source that plays m once attached.
func NewSource(m *Macro, opts ...PlayOption) *Source {
	return &Source{macro: m, opts: opts, player: NewPlayer()}
}

// Attach starts playback.
func (s *Source) Attach(sink input.Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return ErrPlaying
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done

	go func() {
		defer close(done)
		err := s.player.Play(ctx, sink, s.macro, s.opts...)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}()
	return nil
}

// Detach stops playback and waits for it to end.
func (s *Source) Detach() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// Done returns a channel closed when playback ends, or nil before Attach.
func (s *Source) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the playback error once Done is closed.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
