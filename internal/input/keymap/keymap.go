package keymap

import (
	"fmt"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/match"
)

// Keymap is a named, declarative set of bindings.
type Keymap struct {
	// Name is the keymap identifier.
	Name string `json:"name" toml:"name" yaml:"name"`

	// Bindings are the binding specs in registration order.
	Bindings []Spec `json:"bindings" toml:"bindings" yaml:"bindings"`
}

// Spec describes one binding in a keymap file. Pointer fields
// distinguish "unset" from false so defaults apply.
type Spec struct {
	// Combo lists combo variants bound to the same action.
	Combo []string `json:"combo" toml:"combo" yaml:"combo"`

	// Action names what the host should do when the binding fires.
	Action string `json:"action" toml:"action" yaml:"action"`

	// Description documents the binding.
	Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`

	Tag                    string `json:"tag,omitempty" toml:"tag,omitempty" yaml:"tag,omitempty"`
	Exclusive              *bool  `json:"exclusive,omitempty" toml:"exclusive,omitempty" yaml:"exclusive,omitempty"`
	Global                 *bool  `json:"global,omitempty" toml:"global,omitempty" yaml:"global,omitempty"`
	Up                     bool   `json:"up,omitempty" toml:"up,omitempty" yaml:"up,omitempty"`
	Ordered                string `json:"ordered,omitempty" toml:"ordered,omitempty" yaml:"ordered,omitempty"`
	ModifiersPoisonChord   bool   `json:"modifiersPoisonChord,omitempty" toml:"modifiersPoisonChord,omitempty" yaml:"modifiersPoisonChord,omitempty"`
	PreventDefaultPartials *bool  `json:"preventDefaultPartials,omitempty" toml:"preventDefaultPartials,omitempty" yaml:"preventDefaultPartials,omitempty"`
	PreventDefaultDown     bool   `json:"preventDefaultDown,omitempty" toml:"preventDefaultDown,omitempty" yaml:"preventDefaultDown,omitempty"`
	Prepend                bool   `json:"prepend,omitempty" toml:"prepend,omitempty" yaml:"prepend,omitempty"`
}

// NewKeymap creates an empty keymap.
func NewKeymap(name string) *Keymap {
	return &Keymap{Name: name}
}

// Add appends a spec binding combo to action with default options.
func (k *Keymap) Add(combo, action string) *Keymap {
	k.Bindings = append(k.Bindings, Spec{Combo: []string{combo}, Action: action})
	return k
}

// AddSpec appends a fully configured spec.
func (k *Keymap) AddSpec(s Spec) *Keymap {
	k.Bindings = append(k.Bindings, s)
	return k
}

// Validate checks that every spec has an action and parseable combos.
func (k *Keymap) Validate() error {
	for i, s := range k.Bindings {
		if len(s.Combo) == 0 {
			return fmt.Errorf("binding %d: no combo", i)
		}
		if s.Action == "" {
			return fmt.Errorf("binding %d (%s): empty action", i, s.Combo[0])
		}
		for _, c := range s.Combo {
			if _, err := key.ParseChord(c); err != nil {
				return fmt.Errorf("binding %d: %w", i, err)
			}
		}
		if _, err := match.ParseOrder(s.Ordered); err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, s.Combo[0], err)
		}
	}
	return nil
}

// Options converts the spec into binding options.
func (s Spec) Options() ([]Option, error) {
	order, err := match.ParseOrder(s.Ordered)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithUp(s.Up),
		WithOrder(order),
		WithModifiersPoisonChord(s.ModifiersPoisonChord),
		WithPreventDefaultDown(s.PreventDefaultDown),
		WithPrepend(s.Prepend),
	}
	if s.Exclusive != nil {
		opts = append(opts, WithExclusive(*s.Exclusive))
	}
	if s.Global != nil {
		opts = append(opts, WithGlobal(*s.Global))
	}
	if s.PreventDefaultPartials != nil {
		opts = append(opts, WithPreventDefaultPartials(*s.PreventDefaultPartials))
	}
	if s.Tag != "" {
		opts = append(opts, WithTag(s.Tag))
	}
	return opts, nil
}

// Binder registers combos. The input engine implements it.
type Binder interface {
	BindAll(combos []string, l Listener, opts ...Option) ([]*Binding, error)
}

// Resolver maps an action name to the listener that performs it.
type Resolver func(action string) (Listener, bool)

// Install binds every spec of k through b. Specs whose action cannot be
// resolved are reported as an error after the others were installed.
func Install(b Binder, k *Keymap, resolve Resolver) ([]*Binding, error) {
	var installed []*Binding
	var unresolved []string

	for _, s := range k.Bindings {
		l, ok := resolve(s.Action)
		if !ok {
			unresolved = append(unresolved, s.Action)
			continue
		}
		opts, err := s.Options()
		if err != nil {
			return installed, fmt.Errorf("keymap %q: %w", k.Name, err)
		}
		bs, err := b.BindAll(s.Combo, l, opts...)
		if err != nil {
			return installed, fmt.Errorf("keymap %q: %w", k.Name, err)
		}
		installed = append(installed, bs...)
	}

	if len(unresolved) > 0 {
		return installed, fmt.Errorf("keymap %q: unknown actions %v", k.Name, unresolved)
	}
	return installed, nil
}
