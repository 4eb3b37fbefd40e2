package keymap

func boolPtr(v bool) *bool { return &v }

// DefaultKeymap returns the bindings installed when no keymap file is
// configured. Actions are resolved by the host.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Bindings: []Spec{
			// File
			{Combo: []string{"Accel+KeyS"}, Action: "file.save", Description: "Save", Global: boolPtr(true), PreventDefaultDown: true},
			{Combo: []string{"Accel+KeyO"}, Action: "file.open", Description: "Open", PreventDefaultDown: true},
			{Combo: []string{"Accel+Shift+KeyS"}, Action: "file.saveAs", Description: "Save as", Ordered: "modifiersFirst", Global: boolPtr(true)},

			// Editing
			{Combo: []string{"Control+KeyK Control+KeyC"}, Action: "editor.comment", Description: "Comment selection"},
			{Combo: []string{"Control+KeyK Control+KeyU"}, Action: "editor.uncomment", Description: "Uncomment selection"},
			{Combo: []string{"Accel+KeyZ"}, Action: "editor.undo", Description: "Undo"},
			{Combo: []string{"Accel+Shift+KeyZ", "Accel+KeyY"}, Action: "editor.redo", Description: "Redo"},

			// Navigation
			{Combo: []string{"KeyG KeyG"}, Action: "cursor.documentStart", Description: "Go to document start"},
			{Combo: []string{"Shift+KeyG"}, Action: "cursor.documentEnd", Description: "Go to document end"},

			// Global
			{Combo: []string{"Escape"}, Action: "app.cancel", Description: "Cancel", Global: boolPtr(true), Up: true},
			{Combo: []string{"Accel+KeyQ"}, Action: "app.quit", Description: "Quit", Global: boolPtr(true), Prepend: true},
		},
	}
}
