package keymap

import (
	"errors"
	"testing"

	"github.com/dshills/keychord/internal/input/key"
)

func noop(*Dispatch)  {}
func other(*Dispatch) {}

type countingListener struct{ n *int }

func (c countingListener) Fire(*Dispatch) { *c.n++ }

func mustAdd(t *testing.T, r *Registry, combo string, l Listener, opts ...Option) *Binding {
	t.Helper()
	b, err := r.Add(key.MustParseChord(combo), l, Apply(opts...))
	if err != nil {
		t.Fatalf("Add(%q) error = %v", combo, err)
	}
	return b
}

func combos(bs []*Binding) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Combo()
	}
	return out
}

func TestRegistryAddOrder(t *testing.T) {
	r := NewRegistry()
	mustAdd(t, r, "KeyA", ListenerFunc(noop))
	mustAdd(t, r, "KeyB", ListenerFunc(noop))
	mustAdd(t, r, "KeyC", ListenerFunc(noop), WithPrepend(true))

	got := combos(r.Snapshot())
	want := []string{"KeyC", "KeyA", "KeyB"}
	if len(got) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistryAddErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add(nil, ListenerFunc(noop), DefaultOptions()); !errors.Is(err, key.ErrEmptyCombo) {
		t.Errorf("Add(nil) error = %v, want ErrEmptyCombo", err)
	}
	if _, err := r.Add(key.MustParseChord("KeyA"), nil, DefaultOptions()); !errors.Is(err, ErrNilListener) {
		t.Errorf("Add(nil listener) error = %v, want ErrNilListener", err)
	}
}

func TestRegistryIDsUnique(t *testing.T) {
	r := NewRegistry()
	a := mustAdd(t, r, "KeyA", ListenerFunc(noop))
	b := mustAdd(t, r, "KeyA", ListenerFunc(noop))
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs = %q, %q, want distinct non-empty", a.ID, b.ID)
	}
	if r.Get(b.ID) != b {
		t.Error("Get() did not return the binding")
	}
}

func TestRegistryRemove(t *testing.T) {
	tests := []struct {
		name   string
		combo  string
		filter Filter
		want   int
	}{
		{"all for combo", "Shift+KeyA", Filter{}, 3},
		{"normalized combo", "  Shift+KeyA ", Filter{}, 3},
		{"by listener", "Shift+KeyA", Filter{Listener: ListenerFunc(noop)}, 2},
		{"by other listener", "Shift+KeyA", Filter{Listener: ListenerFunc(other)}, 1},
		{"by tag", "Shift+KeyA", Filter{Tag: "x", MatchTag: true}, 1},
		{"by nil tag", "Shift+KeyA", Filter{Tag: nil, MatchTag: true}, 2},
		{"listener and tag", "Shift+KeyA", Filter{Listener: ListenerFunc(other), Tag: "x", MatchTag: true}, 0},
		{"different token order", "KeyA+Shift", Filter{}, 0},
		{"unparseable", "", Filter{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			mustAdd(t, r, "Shift+KeyA", ListenerFunc(noop))
			mustAdd(t, r, "Shift+KeyA", ListenerFunc(noop), WithTag("x"))
			mustAdd(t, r, "Shift+KeyA", ListenerFunc(other))
			keep := mustAdd(t, r, "KeyB", ListenerFunc(noop))

			if got := r.Remove(tt.combo, tt.filter); got != tt.want {
				t.Errorf("Remove(%q) = %d, want %d", tt.combo, got, tt.want)
			}
			if r.Len() != 4-tt.want {
				t.Errorf("Len() = %d, want %d", r.Len(), 4-tt.want)
			}
			if keep.Removed() {
				t.Error("unrelated binding marked removed")
			}
		})
	}
}

func TestRegistryRemoveMarksBinding(t *testing.T) {
	r := NewRegistry()
	b := mustAdd(t, r, "KeyA", ListenerFunc(noop))
	snap := r.Snapshot()

	r.Remove("KeyA", Filter{})
	if !b.Removed() {
		t.Error("Removed() = false after Remove")
	}
	if len(snap) != 1 {
		t.Error("snapshot changed after Remove")
	}
}

func TestRegistryRemoveID(t *testing.T) {
	r := NewRegistry()
	a := mustAdd(t, r, "KeyA", ListenerFunc(noop))
	b := mustAdd(t, r, "KeyA", ListenerFunc(noop))

	if !r.RemoveID(a.ID) {
		t.Fatal("RemoveID() = false")
	}
	if r.RemoveID(a.ID) {
		t.Error("RemoveID() twice = true")
	}
	if got := r.Snapshot(); len(got) != 1 || got[0] != b {
		t.Errorf("Snapshot() = %v, want only second binding", combos(got))
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	b := mustAdd(t, r, "KeyA", ListenerFunc(noop))
	r.Clear()
	if r.Len() != 0 || !b.Removed() {
		t.Errorf("Clear() left Len = %d, Removed = %v", r.Len(), b.Removed())
	}
}

func TestSameListener(t *testing.T) {
	n := 0
	c1 := countingListener{&n}
	c2 := countingListener{&n}
	m := 0
	c3 := countingListener{&m}

	tests := []struct {
		name string
		a, b Listener
		want bool
	}{
		{"same func", ListenerFunc(noop), ListenerFunc(noop), true},
		{"different funcs", ListenerFunc(noop), ListenerFunc(other), false},
		{"equal values", c1, c2, true},
		{"different values", c1, c3, false},
		{"func vs value", ListenerFunc(noop), c1, false},
		{"nil vs nil", nil, nil, true},
		{"nil vs func", nil, ListenerFunc(noop), false},
	}
	for _, tt := range tests {
		if got := SameListener(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: SameListener() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStrictEqualNonComparable(t *testing.T) {
	if strictEqual([]int{1}, []int{1}) {
		t.Error("slices should never be strictly equal")
	}
	if strictEqual(1, int64(1)) {
		t.Error("different types should not be equal")
	}
	if !strictEqual("a", "a") {
		t.Error("equal strings should be equal")
	}
}

func TestGlobalAllows(t *testing.T) {
	ev := key.NewDown("KeyA")
	tests := []struct {
		name    string
		global  Global
		focused bool
		want    bool
	}{
		{"never unfocused", GlobalNever, false, true},
		{"never focused", GlobalNever, true, false},
		{"always focused", GlobalAlways, true, true},
		{"predicate true focused", GlobalPredicate(func(*key.Event, string) bool { return true }), true, true},
		{"predicate false unfocused", GlobalPredicate(func(*key.Event, string) bool { return false }), false, false},
	}
	for _, tt := range tests {
		if got := tt.global.Allows(ev, "KeyA", tt.focused); got != tt.want {
			t.Errorf("%s: Allows() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGlobalPredicateReceivesCombo(t *testing.T) {
	var got string
	g := GlobalPredicate(func(_ *key.Event, combo string) bool {
		got = combo
		return true
	})
	b := NewBinding(key.MustParseChord("Shift+KeyA  KeyB"), ListenerFunc(noop), Apply(func(o *Options) { o.Global = g }))
	b.Allowed(key.NewDown("KeyB"), true)
	if got != "Shift+KeyA KeyB" {
		t.Errorf("predicate combo = %q, want %q", got, "Shift+KeyA KeyB")
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if !o.Exclusive || !o.PreventDefaultPartials {
		t.Errorf("DefaultOptions() = %+v, want exclusive and preventDefaultPartials", o)
	}
	if o.Up || o.Prepend || o.PreventDefaultDown || o.ModifiersPoisonChord {
		t.Errorf("DefaultOptions() = %+v, unexpected flags set", o)
	}
	if o.Direction() != key.Down {
		t.Errorf("Direction() = %v, want down", o.Direction())
	}
}

func TestDispatchStopImmediatePropagation(t *testing.T) {
	prop := &Propagation{}
	b := NewBinding(key.MustParseChord("KeyA"), ListenerFunc(noop), Apply(WithTag(7)))
	d := NewDispatch(key.NewDown("KeyA"), b, b.Chord[0], prop)

	if d.Tag != 7 {
		t.Errorf("Tag = %v, want 7", d.Tag)
	}
	d.StopImmediatePropagation()
	if !prop.Stopped() {
		t.Error("Stopped() = false after StopImmediatePropagation")
	}
	d.PreventDefault()
	if !d.Event.DefaultPrevented() {
		t.Error("PreventDefault() did not reach the event")
	}
}
