// Package widget implements the analog clock as a host-driven component:
// attach/detach lifecycle, a per-second tick aligned to the wall-clock
// second, and time notification handling.
//
// All methods must be called on the looper's goroutine.
package widget

import (
	"errors"
	"fmt"
	"time"

	"clockface/face"
	"clockface/hal"
	"clockface/looper"
	"clockface/notify"

	"github.com/jonboulle/clockwork"
)

// ErrUnknownZone is returned for timezone ids the zone database rejects.
var ErrUnknownZone = errors.New("unknown time zone")

// Surface is the host's redraw hook.
type Surface interface {
	Invalidate()
}

// Face is the capability set a host adapter drives.
type Face interface {
	Resize(width, height int)
	Draw(c face.Canvas)
	Tick()
	HandleNotification(ev notify.Event)
}

// Config configures an AnalogClock.
type Config struct {
	Style face.Style

	// Zone is an explicit timezone override. While set, zone ids carried
	// by TIMEZONE_CHANGED are ignored.
	Zone string

	// Clock defaults to the looper's clock.
	Clock  clockwork.Clock
	Logger hal.Logger
}

// AnalogClock is the clock face component.
type AnalogClock struct {
	lp     *looper.Looper
	bus    *notify.Bus
	clock  clockwork.Clock
	logger hal.Logger
	style  face.Style

	override *time.Location
	adopted  *time.Location

	reading face.TimeReading
	geom    face.Geometry
	sized   bool

	attached bool
	surface  Surface
	sub      *notify.Subscription
	tick     *looper.Token
}

var _ Face = (*AnalogClock)(nil)

// New returns a detached clock. bus may be nil when the host has no
// notification source.
func New(lp *looper.Looper, bus *notify.Bus, cfg Config) (*AnalogClock, error) {
	if lp == nil {
		return nil, errors.New("widget: nil looper")
	}
	c := &AnalogClock{
		lp:     lp,
		bus:    bus,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		style:  cfg.Style,
	}
	if c.clock == nil {
		c.clock = lp.Clock()
	}
	if cfg.Zone != "" {
		loc, err := loadZone(cfg.Zone)
		if err != nil {
			return nil, fmt.Errorf("widget: %w", err)
		}
		c.override = loc
	}
	c.refresh()
	return c, nil
}

// Attach starts ticking and subscribes to notifications. Attaching an
// attached clock is a no-op.
func (c *AnalogClock) Attach(s Surface) {
	if c.attached {
		return
	}
	c.attached = true
	c.surface = s
	if c.bus != nil {
		c.sub = c.bus.Subscribe(c.HandleNotification)
	}
	hal.Logf(c.logger, "clock: attached zone=%s", c.Location())
	c.Tick()
}

// Detach cancels the pending tick and releases the subscription. No tick
// scheduled before Detach will invalidate the surface afterwards.
func (c *AnalogClock) Detach() {
	if !c.attached {
		return
	}
	c.tick.Cancel()
	c.tick = nil
	c.sub.Cancel()
	c.sub = nil
	c.attached = false
	c.surface = nil
	hal.Logf(c.logger, "clock: detached")
}

// Attached reports whether periodic ticking is active.
func (c *AnalogClock) Attached() bool { return c.attached }

// Tick refreshes the reading, requests a redraw and, while attached,
// schedules the next tick at the next wall-clock second boundary.
func (c *AnalogClock) Tick() {
	c.refresh()
	c.invalidate()
	if c.attached {
		c.schedule()
	}
}

func (c *AnalogClock) schedule() {
	c.tick.Cancel()
	c.tick = c.lp.PostDelayed(NextTickDelay(c.clock.Now()), c.onTick)
}

func (c *AnalogClock) onTick() {
	if !c.attached {
		return
	}
	c.Tick()
}

// NextTickDelay is the time from now to the next whole second.
func NextTickDelay(now time.Time) time.Duration {
	return time.Second - time.Duration(now.UnixNano()%int64(time.Second))
}

// HandleNotification refreshes out of band. A TIMEZONE_CHANGED zone id is
// adopted unless an explicit override is set; an id the zone database
// rejects leaves the current zone in place.
//
// A TIMEZONE_CHANGED without a zone id only refreshes. With nothing adopted
// that reads time.Local, which Go loads once at process start, so a system
// zone change the host cannot name stays invisible until restart.
func (c *AnalogClock) HandleNotification(ev notify.Event) {
	if ev.Kind == notify.TimezoneChanged && c.override == nil && ev.Zone != "" {
		loc, err := loadZone(ev.Zone)
		if err != nil {
			hal.Logf(c.logger, "clock: %s: %v; keeping %s", ev.Kind, err, c.Location())
		} else {
			c.adopted = loc
			hal.Logf(c.logger, "clock: adopted zone %s", loc)
		}
	}
	c.refresh()
	c.invalidate()
}

// SetTimeZone sets the explicit override; "" clears it.
func (c *AnalogClock) SetTimeZone(id string) error {
	if id == "" {
		c.override = nil
	} else {
		loc, err := loadZone(id)
		if err != nil {
			return err
		}
		c.override = loc
	}
	c.refresh()
	c.invalidate()
	return nil
}

// Location is the zone readings are taken in.
func (c *AnalogClock) Location() *time.Location {
	switch {
	case c.override != nil:
		return c.override
	case c.adopted != nil:
		return c.adopted
	default:
		return time.Local
	}
}

// Resize recomputes the geometry for a width x height surface.
func (c *AnalogClock) Resize(width, height int) {
	c.geom = face.NewGeometry(width, height, c.style)
	c.sized = true
	c.invalidate()
}

// SetStyle swaps the style and recomputes the geometry.
func (c *AnalogClock) SetStyle(st face.Style) {
	c.style = st
	if c.sized {
		w, h := int(c.geom.CenterX*2), int(c.geom.CenterY*2)
		c.geom = face.NewGeometry(w, h, st)
	}
	c.invalidate()
}

// Draw renders the current reading. Nothing is drawn before the first
// Resize.
func (c *AnalogClock) Draw(cv face.Canvas) {
	if !c.sized {
		return
	}
	face.Render(cv, c.reading, c.geom, c.style)
}

func (c *AnalogClock) Reading() face.TimeReading { return c.reading }
func (c *AnalogClock) Geometry() face.Geometry   { return c.geom }
func (c *AnalogClock) Style() face.Style         { return c.style }

func (c *AnalogClock) refresh() {
	c.reading = face.ReadingAt(c.clock.Now().In(c.Location()))
}

func (c *AnalogClock) invalidate() {
	if c.surface != nil {
		c.surface.Invalidate()
	}
}

func loadZone(id string) (*time.Location, error) {
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownZone, id, err)
	}
	return loc, nil
}
