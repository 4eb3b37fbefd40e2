// Package chord tracks multi-note chords that are part way through being
// played and expires them after a period of inactivity.
//
// A chord attempt is created when the first note of a multi-note binding
// matches. Each subsequent matching note advances its cursor; the attempt
// ends when the cursor reaches the chord length (the listener fires), when
// an unrelated key aborts it, or when the expiry timer runs out.
//
// The tracker is not safe for concurrent use; the engine serializes access.
// The expiry callback is delivered with a generation number so that a
// timer that fires after being replaced can be recognized and ignored.
package chord

import (
	"time"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// DefaultTimeout is the default idle time allowed between notes.
const DefaultTimeout = 2000 * time.Millisecond

// Progress is a chord attempt in progress.
type Progress struct {
	// Binding is the chord's binding.
	Binding *keymap.Binding

	// Cursor is the index of the next note to match.
	Cursor int
}

// Note returns the note the attempt is waiting for, or nil if complete.
func (p *Progress) Note() key.Note {
	return p.Binding.Chord.At(p.Cursor)
}

// Completed returns the note that was matched last.
func (p *Progress) Completed() key.Note {
	return p.Binding.Chord.At(p.Cursor - 1)
}

// Advance moves to the next note and reports whether the chord is done.
func (p *Progress) Advance() bool {
	if p.Cursor < p.Binding.Chord.Len() {
		p.Cursor++
	}
	return p.Done()
}

// Done reports whether every note has been matched.
func (p *Progress) Done() bool {
	return p.Cursor >= p.Binding.Chord.Len()
}

// Tracker owns the chord attempts and the single expiry timer.
type Tracker struct {
	sched   Scheduler
	timeout time.Duration

	entries []*Progress

	task Task
	gen  uint64
}

// NewTracker creates a tracker. A timeout of zero or less disables expiry.
// A nil scheduler uses SystemScheduler.
func NewTracker(sched Scheduler, timeout time.Duration) *Tracker {
	if sched == nil {
		sched = SystemScheduler{}
	}
	return &Tracker{sched: sched, timeout: timeout}
}

// Timeout returns the configured expiry.
func (t *Tracker) Timeout() time.Duration {
	return t.timeout
}

// Start records a new attempt for b with its first note matched.
func (t *Tracker) Start(b *keymap.Binding) *Progress {
	p := &Progress{Binding: b, Cursor: 1}
	t.entries = append(t.entries, p)
	return p
}

// Entries returns a snapshot of the attempts in start order.
func (t *Tracker) Entries() []*Progress {
	out := make([]*Progress, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of attempts.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Remove drops the given attempts.
func (t *Tracker) Remove(drop []*Progress) {
	if len(drop) == 0 {
		return
	}
	kept := t.entries[:0]
	for _, p := range t.entries {
		if !containsProgress(drop, p) {
			kept = append(kept, p)
		}
	}
	clearTail(t.entries, len(kept))
	t.entries = kept
}

// Prune drops attempts that are complete or whose binding was removed and
// returns how many were dropped.
func (t *Tracker) Prune() int {
	kept := t.entries[:0]
	for _, p := range t.entries {
		if !p.Done() && !p.Binding.Removed() {
			kept = append(kept, p)
		}
	}
	n := len(t.entries) - len(kept)
	clearTail(t.entries, len(kept))
	t.entries = kept
	return n
}

// Clear drops every attempt and returns how many there were.
func (t *Tracker) Clear() int {
	n := len(t.entries)
	t.entries = nil
	return n
}

// Arm cancels any pending expiry and, if expiry is enabled, schedules a
// new one. onExpire receives the generation to pass to Expire.
func (t *Tracker) Arm(onExpire func(gen uint64)) {
	t.Disarm()
	if t.timeout <= 0 {
		return
	}
	gen := t.gen
	t.task = t.sched.AfterFunc(t.timeout, func() { onExpire(gen) })
}

// Disarm cancels any pending expiry.
func (t *Tracker) Disarm() {
	t.gen++
	if t.task != nil {
		t.task.Stop()
		t.task = nil
	}
}

// Armed reports whether an expiry is pending.
func (t *Tracker) Armed() bool {
	return t.task != nil
}

// Expire clears all attempts if gen identifies the current timer. It
// returns the number of attempts dropped and whether the firing was live.
func (t *Tracker) Expire(gen uint64) (int, bool) {
	if gen != t.gen || t.task == nil {
		return 0, false
	}
	t.task = nil
	return t.Clear(), true
}

func containsProgress(list []*Progress, p *Progress) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

// clearTail nils out entries beyond n so dropped attempts can be collected.
func clearTail(s []*Progress, n int) {
	for i := n; i < len(s); i++ {
		s[i] = nil
	}
}
