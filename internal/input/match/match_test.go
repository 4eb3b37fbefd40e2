package match

import (
	"testing"

	"github.com/dshills/keychord/internal/input/key"
)

func codes(cs ...string) []key.Code {
	out := make([]key.Code, len(cs))
	for i, c := range cs {
		out[i] = key.Code(c)
	}
	return out
}

func note(t *testing.T, combo string) key.Note {
	t.Helper()
	chord, err := key.ParseChord(combo)
	if err != nil {
		t.Fatalf("ParseChord(%q) error = %v", combo, err)
	}
	return chord[0]
}

func TestMatchUnordered(t *testing.T) {
	tests := []struct {
		name      string
		combo     string
		pressed   []key.Code
		exclusive bool
		want      bool
	}{
		{"single key", "KeyA", codes("KeyA"), true, true},
		{"missing key", "KeyA", codes("KeyB"), true, false},
		{"two keys in order", "KeyC+KeyD", codes("KeyC", "KeyD"), true, true},
		{"two keys reversed", "KeyC+KeyD", codes("KeyD", "KeyC"), true, true},
		{"extra key exclusive", "KeyC+KeyD", codes("KeyC", "KeyD", "KeyL"), true, false},
		{"extra key non-exclusive", "KeyC+KeyD", codes("KeyC", "KeyD", "KeyL"), false, true},
		{"alias left", "Shift+KeyA", codes("ShiftLeft", "KeyA"), true, true},
		{"alias right", "Shift+KeyA", codes("KeyA", "ShiftRight"), true, true},
		{"alias missing", "Shift+KeyA", codes("ControlLeft", "KeyA"), true, false},
		{"both shifts exclusive", "Shift+KeyA", codes("ShiftLeft", "ShiftRight", "KeyA"), true, false},
		{"any enter", "AnyEnter", codes("NumpadEnter"), true, true},
		{"nothing pressed", "KeyA", nil, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(note(t, tt.combo), tt.pressed, tt.exclusive, Unordered)
			if got.Matched != tt.want {
				t.Errorf("Match(%q, %v).Matched = %v, want %v", tt.combo, tt.pressed, got.Matched, tt.want)
			}
		})
	}
}

func TestMatchOrdered(t *testing.T) {
	tests := []struct {
		name    string
		combo   string
		pressed []key.Code
		want    bool
	}{
		{"in order", "KeyD+KeyE", codes("KeyD", "KeyE"), true},
		{"reversed", "KeyD+KeyE", codes("KeyE", "KeyD"), false},
		{"alias in order", "Ctrl+KeyK", codes("ControlRight", "KeyK"), true},
		{"alias after key", "Ctrl+KeyK", codes("KeyK", "ControlLeft"), false},
		{"three in order", "KeyA+KeyB+KeyC", codes("KeyA", "KeyB", "KeyC"), true},
		{"three shuffled", "KeyA+KeyB+KeyC", codes("KeyA", "KeyC", "KeyB"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(note(t, tt.combo), tt.pressed, true, Ordered)
			if got.Matched != tt.want {
				t.Errorf("Match(%q, %v).Matched = %v, want %v", tt.combo, tt.pressed, got.Matched, tt.want)
			}
		})
	}
}

func TestMatchModifiersFirst(t *testing.T) {
	tests := []struct {
		name    string
		pressed []key.Code
		want    bool
	}{
		{"shift ctrl b", codes("ShiftLeft", "ControlLeft", "KeyB"), true},
		{"ctrl shift b", codes("ControlLeft", "ShiftLeft", "KeyB"), true},
		{"b ctrl shift", codes("KeyB", "ControlLeft", "ShiftLeft"), false},
		{"ctrl b shift", codes("ControlLeft", "KeyB", "ShiftLeft"), false},
		{"right modifiers", codes("ShiftRight", "ControlRight", "KeyB"), true},
	}

	n := note(t, "Ctrl+Shift+KeyB")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(n, tt.pressed, true, ModifiersFirst)
			if got.Matched != tt.want {
				t.Errorf("Match(Ctrl+Shift+KeyB, %v).Matched = %v, want %v", tt.pressed, got.Matched, tt.want)
			}
		})
	}
}

func TestMatchOrderedRequiresTokenOrderEvenForModifiers(t *testing.T) {
	n := note(t, "Ctrl+Shift+KeyB")
	got := Match(n, codes("ShiftLeft", "ControlLeft", "KeyB"), true, Ordered)
	if got.Matched {
		t.Error("Ordered match should reject modifiers out of token order")
	}
}

func TestMatchConsumedOnPartial(t *testing.T) {
	n := note(t, "Shift+KeyA")
	got := Match(n, codes("ShiftLeft"), true, Unordered)
	if got.Matched {
		t.Fatal("partial note should not match")
	}
	if len(got.Consumed) != 1 || got.Consumed[0] != key.CodeShiftLeft {
		t.Errorf("Consumed = %v, want [ShiftLeft]", got.Consumed)
	}
}

func TestMatchConsumedSurvivesExclusivityFailure(t *testing.T) {
	n := note(t, "KeyA")
	got := Match(n, codes("KeyA", "KeyB"), true, Unordered)
	if got.Matched {
		t.Fatal("extra key should break exclusive match")
	}
	if len(got.Consumed) != 1 || got.Consumed[0] != "KeyA" {
		t.Errorf("Consumed = %v, want [KeyA]", got.Consumed)
	}
}

func TestMatchOrderedMissingAliasKeepsWalking(t *testing.T) {
	// The alias fails but the following plain token is still consumed.
	n := note(t, "Alt+KeyA")
	got := Match(n, codes("KeyA"), false, Ordered)
	if got.Matched {
		t.Fatal("missing alias should fail the note")
	}
	if len(got.Consumed) != 1 || got.Consumed[0] != "KeyA" {
		t.Errorf("Consumed = %v, want [KeyA]", got.Consumed)
	}
}

func TestMatchOrderedMissingKeyStops(t *testing.T) {
	n := note(t, "KeyX+KeyA")
	got := Match(n, codes("KeyA"), false, Ordered)
	if got.Matched {
		t.Fatal("missing key should fail the note")
	}
	if len(got.Consumed) != 0 {
		t.Errorf("Consumed = %v, want none", got.Consumed)
	}
}

func TestMatchExclusivitySetEquality(t *testing.T) {
	n := note(t, "KeyQ+KeyW+KeyE")
	perms := [][]key.Code{
		codes("KeyQ", "KeyW", "KeyE"),
		codes("KeyQ", "KeyE", "KeyW"),
		codes("KeyW", "KeyQ", "KeyE"),
		codes("KeyW", "KeyE", "KeyQ"),
		codes("KeyE", "KeyQ", "KeyW"),
		codes("KeyE", "KeyW", "KeyQ"),
	}
	for _, p := range perms {
		if !Match(n, p, true, Unordered).Matched {
			t.Errorf("Match(%v) should match in any order", p)
		}
		extra := append(append([]key.Code{}, p...), "KeyR")
		if Match(n, extra, true, Unordered).Matched {
			t.Errorf("Match(%v) should fail with an extra key", extra)
		}
	}
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{"", Unordered, false},
		{"false", Unordered, false},
		{"true", Ordered, false},
		{"ordered", Ordered, false},
		{"modifiersFirst", ModifiersFirst, false},
		{"sideways", Unordered, true},
	}
	for _, tt := range tests {
		got, err := ParseOrder(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrder(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrder(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
