// Package main is the entry point for the keychord host.
//
// The host loads a keymap and an optional Lua script, attaches an input
// source and reports the actions its bindings trigger.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/layout"
	"github.com/dshills/keychord/internal/input/macro"
	"github.com/dshills/keychord/internal/input/source/evdev"
	"github.com/dshills/keychord/internal/input/source/terminal"
	"github.com/dshills/keychord/internal/logging"
	"github.com/dshills/keychord/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	LogLevel   string
	Source     string
	Keymap     string
	Script     string
	Layout     string

	Record      string
	Replay      string
	ReplaySpeed float64
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, opts, log); err != nil {
		log.Error().Err(err).Msg("keychord failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flag.StringVar(&opts.Source, "source", "", "Input source (terminal, evdev, none)")
	flag.StringVar(&opts.Keymap, "keymap", "", "Keymap file (.toml, .yaml, .json)")
	flag.StringVar(&opts.Script, "script", "", "Lua script run at startup")
	flag.StringVar(&opts.Layout, "layout", "", "Keyboard layout file")
	flag.StringVar(&opts.Record, "record", "", "Record raw input to a macro file (.yaml, .toml, .json)")
	flag.StringVar(&opts.Replay, "replay", "", "Play a recorded macro file into the engine")
	flag.Float64Var(&opts.ReplaySpeed, "replay-speed", 1, "Replay speed factor (0 plays without delays)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keychord - keyboard combo and chord engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keychord [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keychord                        Default keymap in the terminal\n")
		fmt.Fprintf(os.Stderr, "  keychord -keymap keys.toml      Custom keymap\n")
		fmt.Fprintf(os.Stderr, "  keychord -source evdev          Read keyboards directly (linux)\n")
		fmt.Fprintf(os.Stderr, "  keychord -source none -script init.lua\n")
		fmt.Fprintf(os.Stderr, "                                  Check a keymap and script, list bindings\n")
		fmt.Fprintf(os.Stderr, "  keychord -record typing.yaml    Record input for later replay\n")
		fmt.Fprintf(os.Stderr, "  keychord -source none -replay typing.yaml -replay-speed 0\n")
		fmt.Fprintf(os.Stderr, "                                  Print the actions a recording triggers\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keychord %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Log.Level, opts.LogLevel)
	override(&cfg.Source, opts.Source)
	override(&cfg.Keymap, opts.Keymap)
	override(&cfg.Script.Path, opts.Script)
	override(&cfg.Layout.Path, opts.Layout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to the configured file. The terminal source owns the
// screen, so it logs to a file under the user cache directory unless one
// is configured.
func newLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	path := cfg.Log.File
	if path == "" && cfg.Source == config.SourceTerminal {
		path = defaultLogPath()
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return zerolog.Nop(), closeFn, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	log := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Output:  out,
		Console: cfg.Log.Format == config.FormatConsole,
		NoColor: path != "",
	})
	return log, closeFn, nil
}

// serve runs the engine until ctx is cancelled or the quit action fires.
func serve(ctx context.Context, cfg *config.Config, opts options, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var screen tcell.Screen
	if cfg.Source == config.SourceTerminal {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating terminal screen: %w", err)
		}
		if err := s.Init(); err != nil {
			return fmt.Errorf("initializing terminal screen: %w", err)
		}
		defer s.Fini()
		screen = s
	}

	h := newHost(screen, os.Stdout, cancel, log)

	engineCfg := input.DefaultConfig()
	engineCfg.ChordTimeout = cfg.ChordTimeout.Duration()
	engineCfg.Logger = log

	var layoutFile *layout.FileProvider
	if cfg.Layout.Path != "" {
		layoutFile = layout.NewFileProvider(cfg.Layout.Path)
		layoutFile.Debounce = cfg.Layout.Debounce.Duration()
		layoutFile.Logger = logging.Component(log, "layout")
		engineCfg.Layout = layoutFile
	}

	switch cfg.Source {
	case config.SourceTerminal:
		engineCfg.Source = terminal.New(screen,
			terminal.WithLogger(logging.Component(log, "terminal")),
			terminal.WithPassthrough(h.passthrough))
	case config.SourceEvdev:
		engineCfg.Source = evdev.New(log, cfg.Devices...)
	}

	if opts.Record != "" && engineCfg.Source != nil {
		rec := macro.NewRecorder()
		engineCfg.Source = rec.Wrap(engineCfg.Source)
		if err := rec.StartRecording(filepath.Base(opts.Record)); err != nil {
			return err
		}
		defer func() {
			m := rec.StopRecording()
			if len(m.Steps) == 0 {
				log.Info().Msg("nothing recorded")
				return
			}
			if err := macro.Save(m, opts.Record); err != nil {
				log.Error().Err(err).Str("path", opts.Record).Msg("saving recording")
				return
			}
			log.Info().Str("path", opts.Record).Int("steps", len(m.Steps)).Msg("recording saved")
		}()
	}

	// A replay runs beside the live source; both deliver through one gate.
	var gate input.Gate
	if opts.Replay != "" && engineCfg.Source != nil {
		engineCfg.Source = gate.Source(engineCfg.Source)
	}

	engine := input.New(engineCfg)
	if err := engine.Init(ctx); err != nil {
		return err
	}
	defer func() {
		if err := engine.Destroy(); err != nil {
			log.Warn().Err(err).Msg("engine shutdown")
		}
		log.Info().Interface("metrics", engine.Metrics().Snapshot()).Msg("engine stopped")
	}()

	engine.OnLayoutChange(func() {
		log.Info().Str("KeyQ", engine.KeyForCode(key.LetterCode('q'))).Msg("keyboard layout changed")
		h.redraw(engine)
	})
	engine.OnKeyCancel(func(c key.Code) {
		log.Debug().Str("code", string(c)).Msg("key cancelled")
	})

	km := keymap.DefaultKeymap()
	if cfg.Keymap != "" {
		loaded, err := keymap.LoadFile(cfg.Keymap)
		if err != nil {
			return err
		}
		km = loaded
	}
	if _, err := keymap.Install(engine, km, h.resolve); err != nil {
		return err
	}
	log.Info().Str("keymap", km.Name).Int("bindings", len(engine.Bindings())).Msg("keymap installed")

	if cfg.Script.Path != "" {
		state := script.NewState(script.WithTimeout(cfg.Script.Timeout.Duration()))
		defer state.Close()
		mod := script.Install(state, engine, log)
		if err := state.DoFile(cfg.Script.Path); err != nil {
			return fmt.Errorf("running script %s: %w", cfg.Script.Path, err)
		}
		log.Info().Str("script", cfg.Script.Path).Int("bindings", len(mod.Bindings())).Msg("script loaded")
	}

	if opts.Replay != "" {
		m, err := macro.Load(opts.Replay)
		if err != nil {
			return err
		}
		speed := macro.WithSpeed(opts.ReplaySpeed)
		if cfg.Source == config.SourceNone {
			err := macro.NewPlayer().Play(ctx, engine, m, speed)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("replaying %s: %w", opts.Replay, err)
			}
			return nil
		}
		src := macro.NewSource(m, speed)
		if err := src.Attach(gate.Sink(engine)); err != nil {
			return err
		}
		defer src.Detach()
	}

	if cfg.Source == config.SourceNone {
		h.list(os.Stdout, engine)
		return nil
	}

	if layoutFile != nil && cfg.Layout.Watch {
		go func() {
			if err := layoutFile.Watch(ctx, engine.HandleLayoutChange); err != nil {
				log.Warn().Err(err).Msg("layout watch stopped")
			}
		}()
	}

	h.redraw(engine)
	<-ctx.Done()
	return nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keychord", "keychord.toml")
}

func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "keychord", "keychord.log")
}
