//go:build linux

package evdev

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// Key event values reported by the kernel.
const (
	valueRelease = 0
	valuePress   = 1
	valueRepeat  = 2
)

var (
	// ErrNoKeyboard is returned when no readable keyboard device exists.
	ErrNoKeyboard = errors.New("no keyboard device found (is the user in the 'input' group?)")

	// ErrAttached is returned when attaching a source twice.
	ErrAttached = errors.New("evdev source already attached")
)

// device is the part of *evdev.InputDevice the source reads through.
type device interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// reading is one result of a device read.
type reading struct {
	ev  *evdev.InputEvent
	err error
}

// Source reads one or more evdev devices. Every device has its own reader
// goroutine, but all events reach the sink from a single delivery
// goroutine in arrival order.
type Source struct {
	paths []string
	log   zerolog.Logger

	mu      sync.Mutex
	devices []device
	readers sync.WaitGroup
	done    chan struct{}
}

// New creates a source. With no paths every device that reports letter
// keys is opened.
func New(log zerolog.Logger, paths ...string) *Source {
	return &Source{paths: paths, log: log.With().Str("source", "evdev").Logger()}
}

// Attach opens the devices and starts reading.
func (s *Source) Attach(sink input.Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.devices != nil {
		return ErrAttached
	}

	paths := s.paths
	if len(paths) == 0 {
		found, err := Keyboards()
		if err != nil {
			return err
		}
		paths = found
	}

	var devices []device
	for _, p := range paths {
		dev, err := evdev.Open(p)
		if err != nil {
			s.log.Warn().Err(err).Str("path", p).Msg("cannot open device")
			continue
		}
		devices = append(devices, dev)
	}
	if len(devices) == 0 {
		return ErrNoKeyboard
	}

	s.start(sink, devices)
	s.log.Debug().Int("devices", len(devices)).Msg("attached")
	return nil
}

// start launches the readers and the delivery loop. Caller must hold mu.
func (s *Source) start(sink input.Sink, devices []device) {
	s.devices = devices
	s.done = make(chan struct{})

	readings := make(chan reading)
	for _, dev := range devices {
		s.readers.Add(1)
		go s.read(dev, readings)
	}
	go func() {
		s.readers.Wait()
		close(readings)
	}()
	go s.deliver(sink, readings, s.done)
}

// Detach closes the devices and waits for delivery to stop.
func (s *Source) Detach() error {
	s.mu.Lock()
	devices, done := s.devices, s.done
	s.devices, s.done = nil, nil
	s.mu.Unlock()

	var errs []error
	for _, dev := range devices {
		if err := dev.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if done != nil {
		<-done
	}
	return errors.Join(errs...)
}

func (s *Source) read(dev device, out chan<- reading) {
	defer s.readers.Done()

	for {
		ev, err := dev.ReadOne()
		out <- reading{ev: ev, err: err}
		if err != nil {
			return
		}
	}
}

func (s *Source) deliver(sink input.Sink, readings <-chan reading, done chan struct{}) {
	defer close(done)

	for r := range readings {
		if r.err != nil {
			// Closed by Detach, or the device went away. Either way any
			// key it held is no longer reliable.
			s.log.Debug().Err(r.err).Msg("device read stopped")
			sink.HandleBlur()
			continue
		}
		Deliver(sink, r.ev)
	}
}

// Deliver forwards one evdev event. Non-key events and unknown keys are
// ignored.
func Deliver(sink input.Sink, ev *evdev.InputEvent) {
	if ev.Type != evdev.EV_KEY {
		return
	}
	code, ok := CodeFor(ev.Code)
	if !ok {
		return
	}

	now := time.Now()
	switch ev.Value {
	case valuePress:
		sink.HandleKeyDown(&key.Event{Code: code, Direction: key.Down, Timestamp: now})
	case valueRepeat:
		sink.HandleKeyDown(&key.Event{Code: code, Direction: key.Down, Repeat: true, Timestamp: now})
	case valueRelease:
		sink.HandleKeyUp(&key.Event{Code: code, Direction: key.Up, Timestamp: now})
	}
}

// Keyboards returns the paths of devices that report letter keys.
func Keyboards() ([]string, error) {
	inputs, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("listing input devices: %w", err)
	}

	var out []string
	for _, in := range inputs {
		dev, err := evdev.Open(in.Path)
		if err != nil {
			continue
		}
		keys := dev.CapableEvents(evdev.EV_KEY)
		_ = dev.Close()
		if slices.Contains(keys, evdev.KEY_A) && slices.Contains(keys, evdev.KEY_Z) {
			out = append(out, in.Path)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoKeyboard
	}
	return out, nil
}
