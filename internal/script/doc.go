// Package script lets Lua scripts register key bindings.
//
// A script sees a global "keychord" table:
//
//	keychord.bind(combo, fn [, opts])   -- combo is a string or list; returns the binding ID(s)
//	keychord.unbind(combo [, tag])      -- removes this script's bindings of combo
//	keychord.unbind_id(id)
//	keychord.poison()
//	keychord.pressed()                  -- list of held key codes
//	keychord.key_for_code(code)
//	keychord.code_for_key(label)        -- code or nil
//	keychord.log(msg)
//
// fn receives a table {combo, note, code, tag, up}. Returning false stops
// dispatch of the event to later bindings.
//
// opts recognizes exclusive, global, up, ordered (true, false or
// "modifiersFirst"), modifiers_poison_chord, tag, prevent_default_partials,
// prevent_default_down and prepend.
//
// The io, os, debug and package libraries are not available to scripts.
package script
