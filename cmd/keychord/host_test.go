package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

func TestHostActions(t *testing.T) {
	e := input.New(input.DefaultConfig())
	if err := e.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer e.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	h := newHost(nil, nil, cancel, zerolog.Nop())

	if _, err := keymap.Install(e, keymap.DefaultKeymap(), h.resolve); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	e.HandleKeyDown(key.NewDown(key.LetterCode('g')))
	e.HandleKeyUp(key.NewUp(key.LetterCode('g')))
	e.HandleKeyDown(key.NewDown(key.LetterCode('g')))
	e.HandleKeyUp(key.NewUp(key.LetterCode('g')))
	if want := "cursor.documentStart (KeyG KeyG)"; h.last != want {
		t.Errorf("last = %q, want %q", h.last, want)
	}

	accel, _ := key.Alternatives("Accel")
	e.HandleKeyDown(key.NewDown(accel[0]))
	e.HandleKeyDown(key.NewDown(key.LetterCode('q')))
	if ctx.Err() == nil {
		t.Error("quit action did not cancel")
	}
}

func TestHostList(t *testing.T) {
	e := input.New(input.DefaultConfig())
	if err := e.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer e.Destroy()

	h := newHost(nil, nil, func() {}, zerolog.Nop())
	km := keymap.NewKeymap("test").
		AddSpec(keymap.Spec{Combo: []string{"Escape"}, Action: "app.cancel", Up: true}).
		Add("Control+KeyK Control+KeyC", "editor.comment")
	if _, err := keymap.Install(e, km, h.resolve); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	h.list(&buf, e)
	out := buf.String()

	for _, want := range []string{"COMBO", "Escape", "app.cancel", "up", "Control+KeyK Control+KeyC", "editor.comment"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestDescribe(t *testing.T) {
	o := keymap.Apply(keymap.WithExclusive(false), keymap.WithGlobal(true), keymap.WithPreventDefaultDown(true))
	if got, want := describe(o), "nonexclusive global=true preventDefaultDown"; got != want {
		t.Errorf("describe() = %q, want %q", got, want)
	}
	if got := describe(keymap.DefaultOptions()); got != "" {
		t.Errorf("describe(defaults) = %q", got)
	}
}
