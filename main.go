package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	_ "time/tzdata"

	"clockface/app"
	"clockface/config"
	"clockface/face"
	"clockface/hal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		headless = flag.Bool("headless", false, "Run without a window.")
		hz       = flag.Int("hz", 60, "Tick rate in headless mode.")
		ticks    = flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
		width    = flag.Int("width", 320, "Framebuffer width in pixels.")
		height   = flag.Int("height", 320, "Framebuffer height in pixels.")
		scale    = flag.Int("scale", 2, "Window pixels per framebuffer pixel.")
		tz       = flag.String("tz", "", "Timezone override, e.g. Europe/Paris (default: follow the system).")
		cfgPath  = flag.String("config", "", "Config file (yaml, toml or json).")
		style    = flag.String("style", "", "Style preset: classic or slim.")
		stats    = flag.Bool("stats", false, "Log frame statistics on exit.")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	// Flags given on the command line win over the file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hz":
			cfg.Host.Hz = *hz
		case "width":
			cfg.Host.Width = *width
		case "height":
			cfg.Host.Height = *height
		case "scale":
			cfg.Host.Scale = *scale
		case "tz":
			cfg.Host.Zone = *tz
		case "style":
			cfg.Style.Preset = *style
		case "stats":
			cfg.Host.Stats = *stats
		}
	})
	if err := config.Validate(cfg); err != nil {
		return err
	}
	st, err := cfg.FaceStyle()
	if err != nil {
		return err
	}

	appCfg := app.Config{
		Style: st,
		Zone:  cfg.Host.Zone,
		Stats: cfg.Host.Stats,
		Restyle: func(preset string) (face.Style, error) {
			s := cfg.Style
			s.Preset = preset
			return s.Resolve()
		},
	}
	host := hal.HostConfig{Width: cfg.Host.Width, Height: cfg.Host.Height, ZoneDir: cfg.Host.ZoneDir}

	var a *app.App
	newApp := func(h hal.HAL) func() error {
		var err error
		if a, err = app.New(h, appCfg); err != nil {
			return func() error { return err }
		}
		return a.Step
	}
	defer func() {
		if a != nil {
			a.Close()
		}
	}()

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Enabled: true,
			Hz:      cfg.Host.Hz,
			Ticks:   *ticks,
			Host:    host,
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	return hal.RunWindow(newApp, hal.WindowConfig{Host: host, Scale: cfg.Host.Scale, Title: "clockface"})
}
