package input

import (
	"slices"
	"time"

	"github.com/dshills/keychord/internal/input/chord"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/match"
)

// pass is the dispatch state of one raw event.
type pass struct {
	ev    *key.Event
	dir   key.Direction
	epoch uint64
	prop  keymap.Propagation

	// aborted is set when a listener reset the engine mid-pass.
	aborted bool
}

func (p *pass) done() bool {
	return p.aborted || p.prop.Stopped()
}

// HandleKeyDown processes a key press.
func (e *Engine) HandleKeyDown(ev *key.Event) {
	start := time.Now()
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		e.metrics.recordKeyEvent(true, ev.Repeat, time.Since(start))
	}()

	if !e.initialized {
		return
	}

	if !ev.Repeat {
		if !key.Contains(e.pressed, ev.Code) {
			e.pressed = append(e.pressed, ev.Code)
		}
		if !e.poisoned {
			e.dispatch(&pass{ev: ev, dir: key.Down, epoch: e.epoch})
		}
		e.tracker.Prune()
		e.tracker.Disarm()
	}

	if key.Contains(e.repeatIgnore, ev.Code) {
		e.preventDefault(ev)
	}
}

// HandleKeyUp processes a key release.
func (e *Engine) HandleKeyUp(ev *key.Event) {
	start := time.Now()
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		e.metrics.recordKeyEvent(false, false, time.Since(start))
	}()

	if !e.initialized {
		return
	}

	// A release of a key that is not held (cancelled by blur, or pressed
	// before Init) is not matched.
	held := key.Contains(e.pressed, ev.Code)
	e.pressed = removeAll(e.pressed, ev.Code)
	if held && !e.poisoned {
		e.dispatch(&pass{ev: ev, dir: key.Up, epoch: e.epoch})
	}
	e.tracker.Prune()
	e.tracker.Arm(e.expireChords)

	if len(e.pressed) == 0 {
		e.keyUpIgnore = nil
		e.repeatIgnore = nil
		e.poisoned = false
	}
	e.repeatIgnore = removeAll(e.repeatIgnore, ev.Code)
}

// HandleBlur releases every held key after the host lost input focus.
func (e *Engine) HandleBlur() {
	e.cancelAll("blur")
}

// HandleVisibilityHidden releases every held key after the host was hidden.
func (e *Engine) HandleVisibilityHidden() {
	e.cancelAll("hidden")
}

// HandleLayoutChange refreshes the layout table in the background and
// emits layoutchange once the new table is in place.
func (e *Engine) HandleLayoutChange() {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return
	}
	ctx := e.ctx
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		if err := e.RefreshLayout(ctx); err == nil {
			e.notify.emitLayoutChange()
		}
	}()
}

// cancelAll performs the hard reset for focus or visibility loss and emits
// keycancel for every key that was held.
func (e *Engine) cancelAll(reason string) {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return
	}
	released := e.pressed
	if n := e.tracker.Len(); n > 0 {
		e.metrics.recordChordsFailed(n)
	}
	e.resetLocked()
	e.mu.Unlock()

	if len(released) > 0 {
		e.log.Debug().Str("reason", reason).Int("keys", len(released)).Msg("cancelling held keys")
	}
	for _, c := range released {
		e.metrics.recordKeyCancelled()
		e.notify.emitKeyCancel(c)
	}
}

// expireChords runs from the chord timer.
func (e *Engine) expireChords(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return
	}
	if n, ok := e.tracker.Expire(gen); ok && n > 0 {
		e.metrics.recordChordsExpired(n)
		e.log.Debug().Int("chords", n).Msg("chords expired")
	}
}

// dispatch advances chords in progress, then tries every binding's first
// note. Caller must hold the lock.
func (e *Engine) dispatch(p *pass) {
	e.visitChords(p)
	if p.done() {
		return
	}
	e.visitBindings(p)
}

// matchKeys returns the keys a note is matched against. A release is
// matched as if the released key were still held.
func (e *Engine) matchKeys(p *pass) []key.Code {
	if p.dir == key.Up {
		return append(slices.Clip(e.pressed), p.ev.Code)
	}
	return e.pressed
}

func (e *Engine) visitChords(p *pass) {
	var failed []*chord.Progress

	for _, cp := range e.tracker.Entries() {
		if p.done() {
			break
		}
		b := cp.Binding
		if b.Removed() || b.Direction() != p.dir {
			continue
		}
		note := cp.Note()
		if note == nil {
			failed = append(failed, cp)
			continue
		}

		res := match.Match(note, e.matchKeys(p), b.Options.Exclusive, b.Options.Order)
		allowed := b.Allowed(p.ev, e.config.Focus.TextEntryFocused())

		switch {
		case res.Matched:
			e.preventDown(p, b, allowed)
			if cp.Advance() {
				e.metrics.recordChordCompleted()
				if allowed {
					e.fire(p, b, cp.Completed())
				}
				continue
			}
			e.keyUpIgnore = append(e.keyUpIgnore, e.pressed...)

		case p.dir == key.Up && key.Contains(e.keyUpIgnore, p.ev.Code):
			e.keyUpIgnore = removeAll(e.keyUpIgnore, p.ev.Code)

		case !key.NoteIncludes(note, p.ev.Code) &&
			(b.Options.ModifiersPoisonChord || !key.IsModifier(p.ev.Code)):
			failed = append(failed, cp)
		}

		e.addRepeatIgnore(b, res.Consumed, allowed)
	}

	if p.aborted {
		return
	}
	if len(failed) > 0 {
		e.metrics.recordChordsFailed(len(failed))
		e.tracker.Remove(failed)
	}
}

func (e *Engine) visitBindings(p *pass) {
	// Chords completed by this event are still counted here, so an
	// exclusive single-note binding does not also fire for the final note.
	inProgress := e.tracker.Len()

	for _, b := range e.registry.Snapshot() {
		if p.done() {
			return
		}
		if b.Removed() {
			continue
		}

		res := match.Match(b.Chord.First(), e.matchKeys(p), b.Options.Exclusive, b.Options.Order)
		allowed := b.Allowed(p.ev, e.config.Focus.TextEntryFocused())

		if res.Matched && b.Direction() == p.dir {
			e.preventDown(p, b, allowed)
			if inProgress == 0 || !b.Options.Exclusive {
				if b.Chord.Len() == 1 {
					if allowed {
						e.fire(p, b, b.Chord.First())
						if p.aborted {
							return
						}
					}
				} else {
					e.tracker.Start(b)
					e.metrics.recordChordStarted()
					e.keyUpIgnore = append(e.keyUpIgnore, e.pressed...)
				}
			}
		}

		e.addRepeatIgnore(b, res.Consumed, allowed)
	}
}

// fire runs the listener with the lock released.
func (e *Engine) fire(p *pass, b *keymap.Binding, note key.Note) {
	if p.prop.Stopped() || b.Removed() {
		return
	}
	d := keymap.NewDispatch(p.ev, b, note, &p.prop)
	e.metrics.recordFire()

	e.firing++
	func() {
		e.mu.Unlock()
		defer func() {
			e.mu.Lock()
			e.firing--
		}()
		b.Listener.Fire(d)
	}()

	if !e.initialized || e.epoch != p.epoch {
		p.aborted = true
	}
}

// preventDown suppresses the default action of a press that fully matches
// a binding with preventDefaultDown.
func (e *Engine) preventDown(p *pass, b *keymap.Binding, allowed bool) {
	if p.dir == key.Down && b.Options.PreventDefaultDown && allowed {
		e.preventDefault(p.ev)
	}
}

func (e *Engine) addRepeatIgnore(b *keymap.Binding, consumed []key.Code, allowed bool) {
	if b.Options.PreventDefaultPartials && allowed {
		e.repeatIgnore = append(e.repeatIgnore, consumed...)
	}
}

func (e *Engine) preventDefault(ev *key.Event) {
	if !ev.DefaultPrevented() {
		e.metrics.recordDefaultPrevented()
	}
	ev.PreventDefault()
}

func removeAll(codes []key.Code, c key.Code) []key.Code {
	if !key.Contains(codes, c) {
		return codes
	}
	out := make([]key.Code, 0, len(codes))
	for _, k := range codes {
		if k != c {
			out = append(out, k)
		}
	}
	return out
}
