package key

// modifierCodes lists every physical key treated as a modifier.
var modifierCodes = map[Code]bool{
	CodeShiftLeft:    true,
	CodeShiftRight:   true,
	CodeControlLeft:  true,
	CodeControlRight: true,
	CodeAltLeft:      true,
	CodeAltRight:     true,
	CodeMetaLeft:     true,
	CodeMetaRight:    true,
	CodeOSLeft:       true,
	CodeOSRight:      true,
}

// IsModifier returns true if c is a modifier-class key.
// Modifier keys get special treatment in chord matching: by default they
// never abort a chord in progress, and in ModifiersFirst ordering they must
// all be pressed before any other key of the note.
func IsModifier(c Code) bool {
	return modifierCodes[c]
}

// ModifierCodes returns all modifier codes in a stable order.
func ModifierCodes() []Code {
	return []Code{
		CodeShiftLeft, CodeShiftRight,
		CodeControlLeft, CodeControlRight,
		CodeAltLeft, CodeAltRight,
		CodeMetaLeft, CodeMetaRight,
		CodeOSLeft, CodeOSRight,
	}
}
