package key

import (
	"runtime"
	"sort"
)

// virtualKeys maps alias tokens to the physical keys they stand for.
var virtualKeys = map[string][]Code{
	"Shift":    {CodeShiftLeft, CodeShiftRight},
	"Control":  {CodeControlLeft, CodeControlRight},
	"Ctrl":     {CodeControlLeft, CodeControlRight},
	"Alt":      {CodeAltLeft, CodeAltRight},
	"Meta":     {CodeMetaLeft, CodeMetaRight},
	"AnyEnter": {CodeEnter, CodeNumpadEnter},
	"Option":   {CodeAltLeft, CodeAltRight},
	"Command":  {CodeOSLeft, CodeOSRight},
	"Windows":  {CodeOSLeft, CodeOSRight},
	"Accel":    accelCodes(runtime.GOOS),
}

// inverseVirtualKeys maps a physical key to every alias containing it.
var inverseVirtualKeys = buildInverse(virtualKeys)

// accelCodes resolves the platform accelerator for goos.
func accelCodes(goos string) []Code {
	if goos == "darwin" || goos == "ios" {
		return []Code{CodeMetaLeft, CodeMetaRight, CodeOSLeft, CodeOSRight}
	}
	return []Code{CodeControlLeft, CodeControlRight}
}

func buildInverse(table map[string][]Code) map[Code][]string {
	inv := make(map[Code][]string)
	for alias, codes := range table {
		for _, c := range codes {
			inv[c] = append(inv[c], alias)
		}
	}
	for c := range inv {
		sort.Strings(inv[c])
	}
	return inv
}

// IsAlias returns true if token names a virtual key.
func IsAlias(token string) bool {
	_, ok := virtualKeys[token]
	return ok
}

// Alternatives returns the physical keys an alias stands for, in
// preference order. The returned slice must not be modified.
func Alternatives(token string) ([]Code, bool) {
	codes, ok := virtualKeys[token]
	return codes, ok
}

// AliasesOf returns every alias that includes c, sorted by name.
func AliasesOf(c Code) []string {
	aliases := inverseVirtualKeys[c]
	out := make([]string, len(aliases))
	copy(out, aliases)
	return out
}

// Aliases returns the names of all virtual keys, sorted.
func Aliases() []string {
	names := make([]string, 0, len(virtualKeys))
	for name := range virtualKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the physical keys that can satisfy token: the alias
// alternatives, or the token itself as a single code.
func Resolve(token string) []Code {
	if codes, ok := virtualKeys[token]; ok {
		return codes
	}
	return []Code{Code(token)}
}

// NoteIncludes reports whether c satisfies some token of n, either directly
// or through one of its aliases.
func NoteIncludes(n Note, c Code) bool {
	if n.Has(string(c)) {
		return true
	}
	for _, alias := range inverseVirtualKeys[c] {
		if n.Has(alias) {
			return true
		}
	}
	return false
}
