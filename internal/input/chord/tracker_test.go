package chord

import (
	"testing"
	"time"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

func binding(combo string) *keymap.Binding {
	return keymap.NewBinding(key.MustParseChord(combo), keymap.ListenerFunc(func(*keymap.Dispatch) {}), keymap.DefaultOptions())
}

func TestProgressAdvance(t *testing.T) {
	tr := NewTracker(NewManualScheduler(), DefaultTimeout)
	p := tr.Start(binding("KeyD KeyE KeyF"))

	if p.Cursor != 1 {
		t.Fatalf("Cursor = %d, want 1", p.Cursor)
	}
	if got := p.Note().String(); got != "KeyE" {
		t.Errorf("Note() = %q, want KeyE", got)
	}
	if p.Advance() {
		t.Error("Advance() = true after second note")
	}
	if !p.Advance() {
		t.Error("Advance() = false after final note")
	}
	if got := p.Completed().String(); got != "KeyF" {
		t.Errorf("Completed() = %q, want KeyF", got)
	}
	if p.Note() != nil {
		t.Errorf("Note() = %v after completion, want nil", p.Note())
	}
	p.Advance()
	if p.Cursor != 3 {
		t.Errorf("Cursor = %d, should not exceed chord length", p.Cursor)
	}
}

func TestTrackerRemoveAndPrune(t *testing.T) {
	tr := NewTracker(nil, 0)
	a := tr.Start(binding("KeyA KeyB"))
	b := tr.Start(binding("KeyC KeyD"))
	c := tr.Start(binding("KeyE KeyF"))

	snap := tr.Entries()
	tr.Remove([]*Progress{b})
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	if len(snap) != 3 {
		t.Error("snapshot changed after Remove")
	}

	a.Advance()
	if n := tr.Prune(); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if got := tr.Entries(); len(got) != 1 || got[0] != c {
		t.Errorf("Entries() = %v, want only c", got)
	}

	r := keymap.NewRegistry()
	rb, _ := r.Add(key.MustParseChord("KeyG KeyH"), keymap.ListenerFunc(func(*keymap.Dispatch) {}), keymap.DefaultOptions())
	tr.Start(rb)
	r.RemoveID(rb.ID)
	if n := tr.Prune(); n != 1 {
		t.Errorf("Prune() with removed binding = %d, want 1", n)
	}

	if n := tr.Clear(); n != 1 {
		t.Errorf("Clear() = %d, want 1", n)
	}
}

func TestTrackerExpiry(t *testing.T) {
	sched := NewManualScheduler()
	tr := NewTracker(sched, 2*time.Second)
	tr.Start(binding("KeyD KeyE"))

	var fired []uint64
	expire := func(gen uint64) {
		fired = append(fired, gen)
		tr.Expire(gen)
	}

	tr.Arm(expire)
	sched.Advance(1999 * time.Millisecond)
	if tr.Len() != 1 {
		t.Fatal("attempt expired early")
	}
	sched.Advance(time.Millisecond)
	if tr.Len() != 0 {
		t.Error("attempt not expired after timeout")
	}
	if len(fired) != 1 {
		t.Errorf("expiry fired %d times, want 1", len(fired))
	}
}

func TestTrackerRearmCancelsPrevious(t *testing.T) {
	sched := NewManualScheduler()
	tr := NewTracker(sched, time.Second)
	tr.Start(binding("KeyD KeyE"))

	calls := 0
	expire := func(gen uint64) {
		if _, ok := tr.Expire(gen); ok {
			calls++
		}
	}

	tr.Arm(expire)
	sched.Advance(500 * time.Millisecond)
	tr.Arm(expire)
	if sched.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", sched.Pending())
	}
	sched.Advance(600 * time.Millisecond)
	if tr.Len() != 1 {
		t.Error("replaced timer expired the attempt")
	}
	sched.Advance(400 * time.Millisecond)
	if calls != 1 || tr.Len() != 0 {
		t.Errorf("calls = %d, Len = %d, want 1, 0", calls, tr.Len())
	}
}

func TestTrackerStaleGeneration(t *testing.T) {
	tr := NewTracker(NewManualScheduler(), time.Second)
	tr.Start(binding("KeyD KeyE"))

	var captured uint64
	tr.Arm(func(gen uint64) {})
	captured = tr.gen
	tr.Disarm()

	if _, ok := tr.Expire(captured); ok {
		t.Error("Expire() accepted a stale generation")
	}
	if tr.Len() != 1 {
		t.Error("stale expiry dropped attempts")
	}
}

func TestTrackerDisabledTimeout(t *testing.T) {
	sched := NewManualScheduler()
	tr := NewTracker(sched, 0)
	tr.Arm(func(uint64) { t.Error("expiry fired with timeout disabled") })
	if tr.Armed() || sched.Pending() != 0 {
		t.Error("Arm() scheduled a task with timeout disabled")
	}
	sched.Advance(time.Hour)
}

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var order []int
	s.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	s.AfterFunc(time.Second, func() { order = append(order, 1) })
	stopped := s.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	if !stopped.Stop() {
		t.Error("Stop() = false for pending task")
	}
	if stopped.Stop() {
		t.Error("Stop() twice = true")
	}

	s.Advance(5 * time.Second)
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("order = %v, want [1 3]", order)
	}
	if s.Now() != 5*time.Second {
		t.Errorf("Now() = %v, want 5s", s.Now())
	}
}
