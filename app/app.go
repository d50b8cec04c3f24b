// Package app wires the HAL, the looper, the notification bus, the clock
// widget and the raster canvas into the per-frame step function the hal
// runners drive.
package app

import (
	"fmt"
	"time"

	"clockface/face"
	"clockface/hal"
	"clockface/internal/buildinfo"
	"clockface/looper"
	"clockface/notify"
	"clockface/raster"
	"clockface/widget"

	"github.com/jamiealquiza/tachymeter"
	"github.com/montanaflynn/stats"
)

type Config struct {
	// Style defaults to face.Classic.
	Style face.Style
	// Zone is the widget's explicit timezone override.
	Zone string
	// Stats logs frame statistics on Close.
	Stats bool
	// StatsWindow is the number of samples kept, 300 by default.
	StatsWindow int
	// Restyle builds the style for a preset name when the style key cycles
	// presets, so configured overrides survive the switch. Nil uses the
	// bare presets.
	Restyle func(preset string) (face.Style, error)
}

// App owns one clock widget on the HAL's framebuffer. Step, Invalidate
// and Close run on the host loop goroutine.
type App struct {
	h   hal.HAL
	cfg Config
	log hal.Logger

	lp     *looper.Looper
	bus    *notify.Bus
	clock  *widget.AnalogClock
	fb     hal.Framebuffer
	canvas *raster.Canvas
	keys   <-chan hal.KeyEvent

	width, height int
	sized         bool
	dirty         bool
	closed        bool
	fault         error

	frames    uint64
	tach      *tachymeter.Tachymeter
	phases    []float64
	phaseNext int
}

// New builds the app and attaches the clock.
func New(h hal.HAL, cfg Config) (*App, error) {
	if cfg.Style.Name == "" {
		cfg.Style = face.Classic()
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 300
	}

	a := &App{
		h:    h,
		cfg:  cfg,
		log:  h.Logger(),
		tach: tachymeter.New(&tachymeter.Config{Size: cfg.StatsWindow}),
	}
	a.lp = looper.New(h.Clock())
	a.bus = notify.NewBus(a.lp)
	installPanicHandler(a)

	c, err := widget.New(a.lp, a.bus, widget.Config{Style: cfg.Style, Zone: cfg.Zone, Logger: a.log})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.clock = c

	if d := h.Display(); d != nil {
		a.fb = d.Framebuffer()
	}
	a.canvas = raster.New(a.fb)
	if in := h.Input(); in != nil {
		if kb := in.Keyboard(); kb != nil {
			a.keys = kb.Events()
		}
	}
	if n := h.Notifier(); n != nil {
		if err := n.Start(a.bus); err != nil {
			hal.Logf(a.log, "app: notifications degraded: %v", err)
		}
	}

	a.syncSize()
	a.clock.Attach(a)
	hal.Logf(a.log, "app: clockface %s style=%s zone=%s", buildinfo.Short(), cfg.Style.Name, a.clock.Location())
	return a, nil
}

// Clock exposes the widget for hosts and tests.
func (a *App) Clock() *widget.AnalogClock { return a.clock }

// Step runs one host frame: queued callbacks, resize, keys, then a render
// if anything invalidated the face.
func (a *App) Step() error {
	if a.closed {
		return hal.ErrQuit
	}
	a.lp.Drain()
	if a.fault != nil {
		a.Close()
		return a.fault
	}
	a.syncSize()
	if err := a.handleKeys(); err != nil {
		return err
	}
	if !a.dirty {
		return nil
	}
	return a.render()
}

// Invalidate implements widget.Surface.
func (a *App) Invalidate() {
	a.dirty = true
	now := a.h.Clock().Now()
	a.recordPhase(now.Sub(now.Truncate(time.Second)))
}

func (a *App) syncSize() {
	if a.fb == nil {
		return
	}
	w, h := a.fb.Width(), a.fb.Height()
	if a.sized && w == a.width && h == a.height {
		return
	}
	a.width, a.height, a.sized = w, h, true
	a.clock.Resize(w, h)
	a.dirty = true
}

func (a *App) handleKeys() error {
	for {
		select {
		case ev, ok := <-a.keys:
			if !ok {
				a.keys = nil
				return nil
			}
			if !ev.Press {
				continue
			}
			switch {
			case ev.Code == hal.KeyEscape || ev.Rune == 'q':
				a.Close()
				return hal.ErrQuit
			case ev.Code == hal.KeySpace:
				a.toggle()
			case ev.Rune == 's':
				a.cycleStyle()
			}
		default:
			return nil
		}
	}
}

func (a *App) toggle() {
	if a.clock.Attached() {
		a.clock.Detach()
		a.dirty = true
		return
	}
	a.clock.Attach(a)
}

func (a *App) cycleStyle() {
	names := face.PresetNames()
	cur := a.clock.Style().Name
	next := names[0]
	for i, n := range names {
		if n == cur {
			next = names[(i+1)%len(names)]
			break
		}
	}
	st, err := a.restyle(next)
	if err != nil {
		hal.Logf(a.log, "app: style=%s: %v", next, err)
		return
	}
	a.clock.SetStyle(st)
	a.dirty = true
	hal.Logf(a.log, "app: style=%s", next)
}

func (a *App) restyle(name string) (face.Style, error) {
	if a.cfg.Restyle != nil {
		return a.cfg.Restyle(name)
	}
	st, ok := face.Preset(name)
	if !ok {
		return face.Style{}, fmt.Errorf("unknown style %q", name)
	}
	return st, nil
}

func (a *App) render() error {
	start := time.Now()
	a.canvas.Clear(a.clock.Style().Background)
	a.clock.Draw(a.canvas)
	if err := a.canvas.Present(); err != nil {
		return fmt.Errorf("app: present: %w", err)
	}
	a.tach.AddTime(time.Since(start))
	a.frames++
	a.dirty = false
	return nil
}

func (a *App) recordPhase(d time.Duration) {
	v := d.Seconds()
	if len(a.phases) < a.cfg.StatsWindow {
		a.phases = append(a.phases, v)
		return
	}
	a.phases[a.phaseNext] = v
	a.phaseNext = (a.phaseNext + 1) % len(a.phases)
}

// Close detaches the clock and stops host notifications. Safe to call
// more than once.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.clock.Detach()
	if n := a.h.Notifier(); n != nil {
		n.Stop()
	}
	if a.cfg.Stats {
		a.logStats()
	}
}

// Stats summarizes render times and where in the second redraws were
// requested.
type Stats struct {
	Frames      uint64
	RenderP50   time.Duration
	RenderP95   time.Duration
	RenderMax   time.Duration
	PhaseMedian time.Duration
	PhaseP95    time.Duration
}

func (a *App) Stats() Stats {
	s := Stats{Frames: a.frames}
	if a.frames > 0 {
		m := a.tach.Calc()
		s.RenderP50 = m.Time.P50
		s.RenderP95 = m.Time.P95
		s.RenderMax = m.Time.Max
	}
	if len(a.phases) > 0 {
		if v, err := stats.Median(a.phases); err == nil {
			s.PhaseMedian = seconds(v)
		}
		if v, err := stats.Percentile(a.phases, 95); err == nil {
			s.PhaseP95 = seconds(v)
		}
	}
	return s
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func (a *App) logStats() {
	s := a.Stats()
	hal.Logf(a.log, "stats: frames=%d render p50=%s p95=%s max=%s", s.Frames, s.RenderP50, s.RenderP95, s.RenderMax)
	hal.Logf(a.log, "stats: redraw phase p50=%s p95=%s", s.PhaseMedian, s.PhaseP95)
}
