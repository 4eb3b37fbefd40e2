package keychord

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/dshills/keychord/internal/input/key"
)

func TestLifecycle(t *testing.T) {
	if _, err := Bind("KeyA", ListenerFunc(func(*Dispatch) {})); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Bind before Init error = %v", err)
	}
	if err := Destroy(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Destroy before Init error = %v", err)
	}
	Poison()
	if UnbindID("missing") || PressedKeys() != nil {
		t.Fatal("calls before Init should be no-ops")
	}
	if got := KeyForCode(key.LetterCode('q')); got != "q" {
		t.Errorf("KeyForCode before Init = %q, want q", got)
	}
	if got := KeyForCode(key.DigitCode('7')); got != "7" {
		t.Errorf("KeyForCode(Digit7) before Init = %q, want 7", got)
	}
	if c, ok := CodeForKey("Q"); !ok || c != key.LetterCode('q') {
		t.Errorf("CodeForKey(Q) before Init = %q, %v", c, ok)
	}

	if err := Init(context.Background(), DefaultConfig()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := Init(context.Background(), DefaultConfig()); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init() error = %v", err)
	}
	if err := Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if Default() != nil {
		t.Error("Default() not nil after Destroy")
	}

	// Init may be called again once destroyed.
	if err := Init(context.Background(), DefaultConfig()); err != nil {
		t.Fatalf("re-Init() error = %v", err)
	}
	if err := Destroy(); err != nil {
		t.Fatal(err)
	}
}

func TestBindAndDispatch(t *testing.T) {
	if err := Init(context.Background(), DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	defer Destroy()

	var fired []string
	b, err := BindFunc("Control+KeyS", func(d *Dispatch) {
		fired = append(fired, d.Chord.String())
	}, WithPreventDefaultDown(true))
	if err != nil {
		t.Fatalf("BindFunc() error = %v", err)
	}
	if _, err := BindFunc("  ", func(*Dispatch) {}); !errors.Is(err, ErrEmptyCombo) {
		t.Errorf("BindFunc(empty) error = %v", err)
	}

	e := Default()
	e.HandleKeyDown(key.NewDown(key.CodeControlLeft))
	s := key.NewDown(key.LetterCode('s'))
	e.HandleKeyDown(s)

	if !slices.Equal(fired, []string{"Control+KeyS"}) {
		t.Errorf("fired = %v", fired)
	}
	if !s.DefaultPrevented() {
		t.Error("default not prevented")
	}
	if got := PressedKeys(); len(got) != 2 {
		t.Errorf("PressedKeys() = %v", got)
	}

	e.HandleKeyUp(key.NewUp(key.LetterCode('s')))
	e.HandleKeyUp(key.NewUp(key.CodeControlLeft))

	if !UnbindID(b.ID) {
		t.Error("UnbindID() = false")
	}
	e.HandleKeyDown(key.NewDown(key.CodeControlLeft))
	e.HandleKeyDown(key.NewDown(key.LetterCode('s')))
	if len(fired) != 1 {
		t.Errorf("fired after unbind: %v", fired)
	}
}

func TestUnbindByListener(t *testing.T) {
	if err := Init(context.Background(), DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	defer Destroy()

	l := &countListener{}
	if _, err := BindAll([]string{"KeyA", "KeyB"}, l, WithTag("nav")); err != nil {
		t.Fatal(err)
	}
	if n := UnbindTagged("KeyA", l, "other"); n != 0 {
		t.Errorf("UnbindTagged(other) = %d", n)
	}
	if n := Unbind("KeyA", l); n != 1 {
		t.Errorf("Unbind() = %d, want 1", n)
	}

	e := Default()
	e.HandleKeyDown(key.NewDown(key.LetterCode('a')))
	e.HandleKeyUp(key.NewUp(key.LetterCode('a')))
	e.HandleKeyDown(key.NewDown(key.LetterCode('b')))
	if l.n != 1 {
		t.Errorf("fired %d times, want 1", l.n)
	}
}

type countListener struct{ n int }

func (c *countListener) Fire(*Dispatch) { c.n++ }
