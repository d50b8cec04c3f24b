// Command clocksnap renders a single clock face frame to PNG or SVG.
package main

import (
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"clockface/config"
	"clockface/face"
	"clockface/vgcanvas"

	"github.com/alecthomas/kong"
)

type cli struct {
	At     string `help:"Time to render: RFC 3339, '2006-01-02 15:04:05', '15:04:05' or '15:04'. Defaults to now."`
	TZ     string `name:"tz" help:"Timezone for --at and the reading (default: local)."`
	Size   int    `default:"256" help:"Image edge in pixels."`
	Style  string `help:"Style preset, overrides the config file."`
	Config string `help:"Config file (yaml, toml or json)."`
	Format string `enum:"png,svg,auto" default:"auto" help:"Output format; auto picks from the output extension."`
	Output string `short:"o" required:"" help:"Output file, '-' for stdout."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("clocksnap"),
		kong.Description("Render one analog clock frame."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(c.run(time.Now()))
}

func (c *cli) run(now time.Time) error {
	if c.Size <= 0 || c.Size > 8192 {
		return fmt.Errorf("size %d out of range", c.Size)
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Style != "" {
		cfg.Style.Preset = c.Style
	}
	st, err := cfg.FaceStyle()
	if err != nil {
		return err
	}

	zone := c.TZ
	if zone == "" {
		zone = cfg.Host.Zone
	}
	loc := time.Local
	if zone != "" {
		if loc, err = time.LoadLocation(zone); err != nil {
			return fmt.Errorf("tz %q: %w", zone, err)
		}
	}
	at, err := parseAt(c.At, loc, now)
	if err != nil {
		return err
	}

	format := vgcanvas.FormatFromPath(c.Output)
	if c.Format != "auto" && c.Format != "" {
		if format, err = vgcanvas.ParseFormat(c.Format); err != nil {
			return err
		}
	}

	snap := vgcanvas.Snapshot{Size: c.Size, Reading: face.ReadingAt(at.In(loc)), Style: st}
	return writeOut(c.Output, func(w io.Writer) error { return snap.Write(w, format) })
}

var atLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"15:04:05",
	"15:04",
}

// parseAt parses s in loc. Time-only layouts take the date from now. An
// empty s means now.
func parseAt(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		return now.In(loc), nil
	}
	for _, layout := range atLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			d := now.In(loc)
			t = time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("--at %q: unrecognized time", s)
}

func writeOut(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
