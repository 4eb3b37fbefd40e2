// Package config loads the keychord host configuration.
//
// Settings are layered with later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← KEYCHORD_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← keychord.toml / keychord.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Each layer is read into a nested map by the loader sub-package, merged,
// and decoded into a Config:
//
//	cfg, err := config.Load("keychord.toml")
//	if err != nil {
//	    return err
//	}
//	engineCfg.ChordTimeout = cfg.ChordTimeout.Duration()
//
// # Settings
//
//	chordTimeout      idle time between chord notes (ms or "2s"; 0 disables)
//	log.level         trace, debug, info, warn, error
//	log.format        console or json
//	log.file          log destination; empty for stderr
//	keymap            keymap file (.toml, .yaml, .json)
//	layout.path       layout table file
//	layout.watch      reload the layout when the file changes
//	layout.debounce   delay before a changed layout is reloaded
//	script.path       Lua script run at startup
//	script.timeout    limit for a script run or callback
//	source            terminal, evdev or none
//	devices           evdev device paths; empty autodetects
package config
