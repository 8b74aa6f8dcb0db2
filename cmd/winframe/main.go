package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/tinyrange/winframe/internal/app"
	"github.com/tinyrange/winframe/internal/config"
	"github.com/tinyrange/winframe/internal/text"
	"github.com/tinyrange/winframe/internal/window"
	"github.com/tinyrange/winframe/internal/window/headless"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file (default: winframe/config.yaml in the user config directory)")
	fontDir := fs.String("fonts", "", "directory of .ttf/.otf fonts, overrides the configuration")
	headlessMode := fs.Bool("headless", false, "render without a display")
	windows := fs.Int("windows", 0, "number of windows to open, overrides the configuration")
	runFor := fs.Duration("run-for", 0, "exit after this long; 0 runs until every window is closed")
	writeConfig := fs.Bool("write-config", false, "write the effective configuration to the config path and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	path := *configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *fontDir != "" {
		cfg.FontDir = *fontDir
	}
	if *windows > 0 {
		cfg.Windows = repeatWindows(cfg.Windows, *windows)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	if *writeConfig {
		if err := saveConfig(cfg, path); err != nil {
			log.Fatalf("config: %v", err)
		}
		return
	}

	fonts, err := text.Load(cfg.FontDir)
	if err != nil {
		log.Fatalf("fonts: %v", err)
	}

	var backend window.Backend = window.NewGLFW()
	if *headlessMode {
		backend = headless.New()
	}

	a, err := app.New(app.Options{
		Backend:      backend,
		Logger:       slog.Default(),
		Fonts:        fonts,
		PumpInterval: cfg.PumpInterval,
	})
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	d := &demo{app: a, cfg: cfg}
	for _, wc := range cfg.Windows {
		if _, err := d.open(wc); err != nil {
			log.Fatalf("open window: %v", err)
		}
	}

	if *runFor > 0 {
		time.AfterFunc(*runFor, a.Exit)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

// saveConfig validates cfg and writes it to path.
func saveConfig(cfg *config.Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	slog.Info("configuration written", "path", path)
	return nil
}

// repeatWindows returns n window descriptions, cycling through the
// configured ones.
func repeatWindows(base []config.Window, n int) []config.Window {
	out := make([]config.Window, n)
	for i := range out {
		out[i] = base[i%len(base)]
		if n > len(base) {
			out[i].Title = fmt.Sprintf("%s %d", out[i].Title, i+1)
		}
	}
	return out
}
