//go:build linux

package evdev

import (
	"github.com/holoplot/go-evdev"

	"github.com/dshills/keychord/internal/input/key"
)

var codes = map[evdev.EvCode]key.Code{
	evdev.KEY_ESC:        key.CodeEscape,
	evdev.KEY_1:          "Digit1",
	evdev.KEY_2:          "Digit2",
	evdev.KEY_3:          "Digit3",
	evdev.KEY_4:          "Digit4",
	evdev.KEY_5:          "Digit5",
	evdev.KEY_6:          "Digit6",
	evdev.KEY_7:          "Digit7",
	evdev.KEY_8:          "Digit8",
	evdev.KEY_9:          "Digit9",
	evdev.KEY_0:          "Digit0",
	evdev.KEY_MINUS:      "Minus",
	evdev.KEY_EQUAL:      "Equal",
	evdev.KEY_BACKSPACE:  key.CodeBackspace,
	evdev.KEY_TAB:        key.CodeTab,
	evdev.KEY_Q:          "KeyQ",
	evdev.KEY_W:          "KeyW",
	evdev.KEY_E:          "KeyE",
	evdev.KEY_R:          "KeyR",
	evdev.KEY_T:          "KeyT",
	evdev.KEY_Y:          "KeyY",
	evdev.KEY_U:          "KeyU",
	evdev.KEY_I:          "KeyI",
	evdev.KEY_O:          "KeyO",
	evdev.KEY_P:          "KeyP",
	evdev.KEY_LEFTBRACE:  "BracketLeft",
	evdev.KEY_RIGHTBRACE: "BracketRight",
	evdev.KEY_ENTER:      key.CodeEnter,
	evdev.KEY_LEFTCTRL:   key.CodeControlLeft,
	evdev.KEY_A:          "KeyA",
	evdev.KEY_S:          "KeyS",
	evdev.KEY_D:          "KeyD",
	evdev.KEY_F:          "KeyF",
	evdev.KEY_G:          "KeyG",
	evdev.KEY_H:          "KeyH",
	evdev.KEY_J:          "KeyJ",
	evdev.KEY_K:          "KeyK",
	evdev.KEY_L:          "KeyL",
	evdev.KEY_SEMICOLON:  "Semicolon",
	evdev.KEY_APOSTROPHE: "Quote",
	evdev.KEY_GRAVE:      "Backquote",
	evdev.KEY_LEFTSHIFT:  key.CodeShiftLeft,
	evdev.KEY_BACKSLASH:  "Backslash",
	evdev.KEY_Z:          "KeyZ",
	evdev.KEY_X:          "KeyX",
	evdev.KEY_C:          "KeyC",
	evdev.KEY_V:          "KeyV",
	evdev.KEY_B:          "KeyB",
	evdev.KEY_N:          "KeyN",
	evdev.KEY_M:          "KeyM",
	evdev.KEY_COMMA:      "Comma",
	evdev.KEY_DOT:        "Period",
	evdev.KEY_SLASH:      "Slash",
	evdev.KEY_RIGHTSHIFT: key.CodeShiftRight,
	evdev.KEY_KPASTERISK: "NumpadMultiply",
	evdev.KEY_LEFTALT:    key.CodeAltLeft,
	evdev.KEY_SPACE:      key.CodeSpace,
	evdev.KEY_CAPSLOCK:   "CapsLock",
	evdev.KEY_F1:         "F1",
	evdev.KEY_F2:         "F2",
	evdev.KEY_F3:         "F3",
	evdev.KEY_F4:         "F4",
	evdev.KEY_F5:         "F5",
	evdev.KEY_F6:         "F6",
	evdev.KEY_F7:         "F7",
	evdev.KEY_F8:         "F8",
	evdev.KEY_F9:         "F9",
	evdev.KEY_F10:        "F10",
	evdev.KEY_F11:        "F11",
	evdev.KEY_F12:        "F12",
	evdev.KEY_KP7:        "Numpad7",
	evdev.KEY_KP8:        "Numpad8",
	evdev.KEY_KP9:        "Numpad9",
	evdev.KEY_KPMINUS:    "NumpadSubtract",
	evdev.KEY_KP4:        "Numpad4",
	evdev.KEY_KP5:        "Numpad5",
	evdev.KEY_KP6:        "Numpad6",
	evdev.KEY_KPPLUS:     "NumpadAdd",
	evdev.KEY_KP1:        "Numpad1",
	evdev.KEY_KP2:        "Numpad2",
	evdev.KEY_KP3:        "Numpad3",
	evdev.KEY_KP0:        "Numpad0",
	evdev.KEY_KPDOT:      "NumpadDecimal",
	evdev.KEY_KPENTER:    key.CodeNumpadEnter,
	evdev.KEY_RIGHTCTRL:  key.CodeControlRight,
	evdev.KEY_KPSLASH:    "NumpadDivide",
	evdev.KEY_RIGHTALT:   key.CodeAltRight,
	evdev.KEY_HOME:       "Home",
	evdev.KEY_UP:         "ArrowUp",
	evdev.KEY_PAGEUP:     "PageUp",
	evdev.KEY_LEFT:       "ArrowLeft",
	evdev.KEY_RIGHT:      "ArrowRight",
	evdev.KEY_END:        "End",
	evdev.KEY_DOWN:       "ArrowDown",
	evdev.KEY_PAGEDOWN:   "PageDown",
	evdev.KEY_INSERT:     "Insert",
	evdev.KEY_DELETE:     "Delete",
	evdev.KEY_LEFTMETA:   key.CodeMetaLeft,
	evdev.KEY_RIGHTMETA:  key.CodeMetaRight,
}

// CodeFor returns the key code of an evdev key.
func CodeFor(c evdev.EvCode) (key.Code, bool) {
	k, ok := codes[c]
	return k, ok
}
