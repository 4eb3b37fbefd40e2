package script

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/match"
)

// ModuleName is the global the API is installed under.
const ModuleName = "keychord"

// Host is the part of the engine scripts can drive.
type Host interface {
	BindAll(combos []string, l keymap.Listener, opts ...keymap.Option) ([]*keymap.Binding, error)
	UnbindID(id string) bool
	Poison()
	PressedKeys() []key.Code
	KeyForCode(c key.Code) string
	CodeForKey(label string) (key.Code, bool)
}

// Module connects a State to a Host. It remembers the bindings its
// scripts created so unbind never touches bindings made elsewhere.
type Module struct {
	state *State
	host  Host
	log   zerolog.Logger

	mu       sync.Mutex
	bindings []*keymap.Binding
}

// Install registers the keychord table in state.
func Install(state *State, host Host, log zerolog.Logger) *Module {
	m := &Module{state: state, host: host, log: log.With().Str("component", "script").Logger()}

	state.mu.Lock()
	defer state.mu.Unlock()

	mod := state.L.SetFuncs(state.L.NewTable(), map[string]lua.LGFunction{
		"bind":         m.bind,
		"unbind":       m.unbind,
		"unbind_id":    m.unbindID,
		"poison":       m.poison,
		"pressed":      m.pressed,
		"key_for_code": m.keyForCode,
		"code_for_key": m.codeForKey,
		"log":          m.logMessage,
	})
	state.L.SetGlobal(ModuleName, mod)
	return m
}

// Bindings returns the bindings created by scripts that are still active.
func (m *Module) Bindings() []*keymap.Binding {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*keymap.Binding, 0, len(m.bindings))
	for _, b := range m.bindings {
		if !b.Removed() {
			out = append(out, b)
		}
	}
	return out
}

// UnbindAll removes every binding created by scripts.
func (m *Module) UnbindAll() int {
	m.mu.Lock()
	bs := m.bindings
	m.bindings = nil
	m.mu.Unlock()

	n := 0
	for _, b := range bs {
		if m.host.UnbindID(b.ID) {
			n++
		}
	}
	return n
}

func (m *Module) bind(L *lua.LState) int {
	combos := comboArg(L, 1)
	fn := L.CheckFunction(2)
	opts, err := optionsArg(L.OptTable(3, nil))
	if err != nil {
		L.ArgError(3, err.Error())
		return 0
	}

	bs, err := m.host.BindAll(combos, &listener{module: m, fn: fn}, opts...)
	if err != nil {
		L.RaiseError("bind %v: %s", combos, err)
		return 0
	}

	m.mu.Lock()
	m.bindings = append(m.bindings, bs...)
	m.mu.Unlock()

	if len(bs) == 1 {
		L.Push(lua.LString(bs[0].ID))
		return 1
	}
	ids := L.NewTable()
	for _, b := range bs {
		ids.Append(lua.LString(b.ID))
	}
	L.Push(ids)
	return 1
}

func (m *Module) unbind(L *lua.LState) int {
	combo := key.Normalize(L.CheckString(1))
	tag, filterTag := "", L.GetTop() >= 2
	if filterTag {
		tag = L.CheckString(2)
	}

	m.mu.Lock()
	var drop []*keymap.Binding
	kept := m.bindings[:0]
	for _, b := range m.bindings {
		if b.Combo() == combo && (!filterTag || b.Tag() == tag) {
			drop = append(drop, b)
			continue
		}
		kept = append(kept, b)
	}
	m.bindings = kept
	m.mu.Unlock()

	n := 0
	for _, b := range drop {
		if m.host.UnbindID(b.ID) {
			n++
		}
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (m *Module) unbindID(L *lua.LState) int {
	L.Push(lua.LBool(m.host.UnbindID(L.CheckString(1))))
	return 1
}

func (m *Module) poison(L *lua.LState) int {
	m.host.Poison()
	return 0
}

func (m *Module) pressed(L *lua.LState) int {
	t := L.NewTable()
	for _, c := range m.host.PressedKeys() {
		t.Append(lua.LString(c))
	}
	L.Push(t)
	return 1
}

func (m *Module) keyForCode(L *lua.LState) int {
	L.Push(lua.LString(m.host.KeyForCode(key.Code(L.CheckString(1)))))
	return 1
}

func (m *Module) codeForKey(L *lua.LState) int {
	c, ok := m.host.CodeForKey(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(c))
	return 1
}

func (m *Module) logMessage(L *lua.LState) int {
	m.log.Info().Msg(L.CheckString(1))
	return 0
}

// listener runs a Lua function when its binding fires.
type listener struct {
	module *Module
	fn     *lua.LFunction
}

func (l *listener) Fire(d *keymap.Dispatch) {
	st := l.module.state

	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return
	}
	ev := st.L.NewTable()
	ev.RawSetString("combo", lua.LString(d.Chord.String()))
	ev.RawSetString("note", lua.LString(d.Note.String()))
	if d.Event != nil {
		ev.RawSetString("code", lua.LString(d.Event.Code))
		ev.RawSetString("up", lua.LBool(d.Event.IsUp()))
	}
	if tag, ok := d.Tag.(string); ok {
		ev.RawSetString("tag", lua.LString(tag))
	}
	st.mu.Unlock()

	ret, err := st.CallFunction(l.fn, ev)
	if err != nil {
		l.module.log.Error().Err(err).Str("combo", d.Chord.String()).Msg("binding callback failed")
		return
	}
	if len(ret) > 0 && ret[0] == lua.LFalse {
		d.StopImmediatePropagation()
	}
}

func comboArg(L *lua.LState, n int) []string {
	switch v := L.CheckAny(n).(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		var out []string
		for i := 1; i <= v.Len(); i++ {
			s, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				L.ArgError(n, "combo list must contain strings")
				return nil
			}
			out = append(out, string(s))
		}
		return out
	default:
		L.ArgError(n, "combo must be a string or a list of strings")
		return nil
	}
}

func optionsArg(t *lua.LTable) ([]keymap.Option, error) {
	if t == nil {
		return nil, nil
	}

	var opts []keymap.Option
	var err error
	t.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		name, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("option names must be strings")
			return
		}
		switch string(name) {
		case "exclusive":
			opts = append(opts, keymap.WithExclusive(lua.LVAsBool(v)))
		case "global":
			opts = append(opts, keymap.WithGlobal(lua.LVAsBool(v)))
		case "up":
			opts = append(opts, keymap.WithUp(lua.LVAsBool(v)))
		case "modifiers_poison_chord":
			opts = append(opts, keymap.WithModifiersPoisonChord(lua.LVAsBool(v)))
		case "prevent_default_partials":
			opts = append(opts, keymap.WithPreventDefaultPartials(lua.LVAsBool(v)))
		case "prevent_default_down":
			opts = append(opts, keymap.WithPreventDefaultDown(lua.LVAsBool(v)))
		case "prepend":
			opts = append(opts, keymap.WithPrepend(lua.LVAsBool(v)))
		case "tag":
			opts = append(opts, keymap.WithTag(lua.LVAsString(v)))
		case "ordered":
			var o match.Order
			if b, isBool := v.(lua.LBool); isBool {
				if b {
					o = match.Ordered
				}
			} else if o, err = match.ParseOrder(lua.LVAsString(v)); err != nil {
				return
			}
			opts = append(opts, keymap.WithOrder(o))
		default:
			err = fmt.Errorf("unknown option %q", string(name))
		}
	})
	return opts, err
}
