package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// ActionQuit stops the host.
const ActionQuit = "app.quit"

// host reports fired actions on the screen (if any) and in the log.
type host struct {
	screen tcell.Screen
	out    io.Writer
	quit   context.CancelFunc
	log    zerolog.Logger

	mu      sync.Mutex
	hint    string
	last    string
	ignored string
}

// newHost creates a host. Without a screen, fired actions are written to
// out if it is not nil.
func newHost(screen tcell.Screen, out io.Writer, quit context.CancelFunc, log zerolog.Logger) *host {
	return &host{screen: screen, out: out, quit: quit, log: log.With().Str("component", "host").Logger()}
}

// action is the listener installed for one keymap action.
type action struct {
	name string
	h    *host
}

func (a action) Fire(d *keymap.Dispatch) {
	a.h.log.Info().
		Str("action", a.name).
		Str("combo", d.Chord.String()).
		Msg("action")

	a.h.mu.Lock()
	a.h.last = fmt.Sprintf("%s (%s)", a.name, d.Chord)
	if a.h.screen == nil && a.h.out != nil {
		fmt.Fprintf(a.h.out, "%s\t%s\n", d.Chord, a.name)
	}
	a.h.mu.Unlock()

	if a.name == ActionQuit {
		a.h.quit()
		return
	}
	a.h.draw()
}

// resolve accepts every action name.
func (h *host) resolve(name string) (keymap.Listener, bool) {
	return action{name: name, h: h}, true
}

// passthrough receives terminal events no binding consumed.
func (h *host) passthrough(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		if h.screen != nil {
			h.screen.Sync()
		}
	case *tcell.EventKey:
		h.mu.Lock()
		h.ignored = e.Name()
		h.mu.Unlock()
		h.draw()
	}
}

// redraw refreshes the quit hint, which names the label of the physical
// key bound to quit on the current layout.
func (h *host) redraw(e *input.Engine) {
	label := strings.ToUpper(e.KeyForCode(key.LetterCode('q')))

	h.mu.Lock()
	h.hint = "Accel+" + label + " quits"
	h.mu.Unlock()
	h.draw()
}

func (h *host) draw() {
	if h.screen == nil {
		return
	}

	h.mu.Lock()
	lines := []string{
		"keychord: " + h.hint,
		"",
		"last action: " + h.last,
		"unbound key: " + h.ignored,
	}
	h.mu.Unlock()

	h.screen.Clear()
	style := tcell.StyleDefault
	for y, line := range lines {
		for x, r := range []rune(line) {
			h.screen.SetContent(x, y, r, nil, style)
		}
	}
	h.screen.Show()
}

// list prints the active bindings.
func (h *host) list(w io.Writer, e *input.Engine) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMBO\tACTION\tOPTIONS")
	for _, b := range e.Bindings() {
		name := "script"
		if a, ok := b.Listener.(action); ok {
			name = a.name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Combo(), name, describe(b.Options))
	}
	_ = tw.Flush()
}

func describe(o keymap.Options) string {
	var parts []string
	if !o.Exclusive {
		parts = append(parts, "nonexclusive")
	}
	if g := o.Global.String(); g != "false" {
		parts = append(parts, "global="+g)
	}
	if o.Up {
		parts = append(parts, "up")
	}
	if s := o.Order.String(); s != "false" {
		parts = append(parts, "ordered="+s)
	}
	if o.PreventDefaultDown {
		parts = append(parts, "preventDefaultDown")
	}
	return strings.Join(parts, " ")
}
