//go:build !tinygo

package hal

import (
	"time"

	"clockface/notify"
)

// jumpThreshold is how far the wall clock may drift from monotonic time
// between two observations before it counts as a clock change.
const jumpThreshold = 2 * time.Second

// wallObserver derives TIME_TICK and TIME_CHANGED from successive
// (wall, monotonic) samples taken once per frame.
type wallObserver struct {
	started  bool
	lastWall time.Time
	lastMono time.Duration
}

func (o *wallObserver) observe(wall time.Time, mono time.Duration) []notify.Kind {
	wall = wall.Round(0)
	if !o.started {
		o.started = true
		o.lastWall = wall
		o.lastMono = mono
		return nil
	}

	var out []notify.Kind
	drift := wall.Sub(o.lastWall) - (mono - o.lastMono)
	if drift > jumpThreshold || drift < -jumpThreshold {
		out = append(out, notify.TimeChanged)
	} else if !wall.Truncate(time.Minute).Equal(o.lastWall.Truncate(time.Minute)) {
		out = append(out, notify.TimeTick)
	}

	o.lastWall = wall
	o.lastMono = mono
	return out
}

// monoClock reports elapsed monotonic time since construction.
type monoClock struct {
	start time.Time
}

func newMonoClock() monoClock { return monoClock{start: time.Now()} }

func (m monoClock) sample() (wall time.Time, mono time.Duration) {
	now := time.Now()
	return now, now.Sub(m.start)
}
