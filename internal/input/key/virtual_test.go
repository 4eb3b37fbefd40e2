package key

import (
	"slices"
	"testing"
)

func TestAlternatives(t *testing.T) {
	tests := []struct {
		alias string
		want  []Code
	}{
		{"Shift", []Code{CodeShiftLeft, CodeShiftRight}},
		{"Ctrl", []Code{CodeControlLeft, CodeControlRight}},
		{"Control", []Code{CodeControlLeft, CodeControlRight}},
		{"Option", []Code{CodeAltLeft, CodeAltRight}},
		{"AnyEnter", []Code{CodeEnter, CodeNumpadEnter}},
		{"Windows", []Code{CodeOSLeft, CodeOSRight}},
	}
	for _, tt := range tests {
		got, ok := Alternatives(tt.alias)
		if !ok {
			t.Errorf("Alternatives(%q) not found", tt.alias)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("Alternatives(%q) = %v, want %v", tt.alias, got, tt.want)
		}
	}

	if _, ok := Alternatives("KeyA"); ok {
		t.Error("Alternatives(KeyA) should not be an alias")
	}
}

func TestAccelCodes(t *testing.T) {
	if got := accelCodes("darwin"); !slices.Contains(got, CodeMetaLeft) {
		t.Errorf("accelCodes(darwin) = %v, want meta keys", got)
	}
	if got := accelCodes("linux"); !slices.Equal(got, []Code{CodeControlLeft, CodeControlRight}) {
		t.Errorf("accelCodes(linux) = %v, want control keys", got)
	}
	if !IsAlias("Accel") {
		t.Error("Accel should be an alias")
	}
}

func TestAliasesOf(t *testing.T) {
	got := AliasesOf(CodeControlLeft)
	for _, want := range []string{"Control", "Ctrl"} {
		if !slices.Contains(got, want) {
			t.Errorf("AliasesOf(ControlLeft) = %v, missing %q", got, want)
		}
	}
	if !slices.IsSorted(got) {
		t.Errorf("AliasesOf(ControlLeft) = %v, want sorted", got)
	}
	if got := AliasesOf("KeyA"); len(got) != 0 {
		t.Errorf("AliasesOf(KeyA) = %v, want none", got)
	}
}

func TestNoteIncludes(t *testing.T) {
	n := Note{"Ctrl", "KeyK"}
	tests := []struct {
		code Code
		want bool
	}{
		{"KeyK", true},
		{CodeControlLeft, true},
		{CodeControlRight, true},
		{CodeShiftLeft, false},
		{"KeyC", false},
	}
	for _, tt := range tests {
		if got := NoteIncludes(n, tt.code); got != tt.want {
			t.Errorf("NoteIncludes(%v, %s) = %v, want %v", n, tt.code, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("KeyA"); !slices.Equal(got, []Code{"KeyA"}) {
		t.Errorf("Resolve(KeyA) = %v", got)
	}
	if got := Resolve("Meta"); !slices.Equal(got, []Code{CodeMetaLeft, CodeMetaRight}) {
		t.Errorf("Resolve(Meta) = %v", got)
	}
}
