package macro

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// Recorder captures the signals passing from a source to a sink.
type Recorder struct {
	mu        sync.Mutex
	now       func() time.Time
	recording bool
	name      string
	steps     []Step
	last      time.Time
}

// NewRecorder creates a recorder that is not yet recording.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// StartRecording begins a new recording.
func (r *Recorder) StartRecording(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return fmt.Errorf("already recording %q", r.name)
	}
	r.recording = true
	r.name = name
	r.steps = nil
	r.last = time.Time{}
	return nil
}

// StopRecording ends the recording and returns it, or nil if not
// recording.
func (r *Recorder) StopRecording() *Macro {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil
	}
	r.recording = false
	m := &Macro{Name: r.name, Steps: r.steps}
	r.steps = nil
	return m
}

// IsRecording returns true if currently recording.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Len returns the number of steps recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

// Record appends a step timed at at. Does nothing if not recording.
func (r *Recorder) Record(kind Kind, code key.Code, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return
	}
	if at.IsZero() {
		at = r.now()
	}
	var delay time.Duration
	if !r.last.IsZero() && at.After(r.last) {
		delay = at.Sub(r.last)
	}
	r.last = at
	r.steps = append(r.steps, Step{Kind: kind, Code: code, Delay: delay})
}

// Tap returns a sink that records every signal and forwards it to next.
func (r *Recorder) Tap(next input.Sink) input.Sink {
	return &tap{r: r, next: next}
}

// Wrap returns a source that delivers through Tap.
func (r *Recorder) Wrap(src input.Source) input.Source {
	return &recordingSource{r: r, src: src}
}

type tap struct {
	r    *Recorder
	next input.Sink
}

func (t *tap) HandleKeyDown(ev *key.Event) {
	kind := KindDown
	if ev.Repeat {
		kind = KindRepeat
	}
	t.r.Record(kind, ev.Code, ev.Timestamp)
	t.next.HandleKeyDown(ev)
}

func (t *tap) HandleKeyUp(ev *key.Event) {
	t.r.Record(KindUp, ev.Code, ev.Timestamp)
	t.next.HandleKeyUp(ev)
}

func (t *tap) HandleBlur() {
	t.r.Record(KindBlur, key.CodeNone, time.Time{})
	t.next.HandleBlur()
}

func (t *tap) HandleVisibilityHidden() {
	t.r.Record(KindHidden, key.CodeNone, time.Time{})
	t.next.HandleVisibilityHidden()
}

func (t *tap) HandleLayoutChange() {
	t.r.Record(KindLayout, key.CodeNone, time.Time{})
	t.next.HandleLayoutChange()
}

type recordingSource struct {
	r   *Recorder
	src input.Source
}

func (s *recordingSource) Attach(sink input.Sink) error {
	return s.src.Attach(s.r.Tap(sink))
}

func (s *recordingSource) Detach() error {
	return s.src.Detach()
}
