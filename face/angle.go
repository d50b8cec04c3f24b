// Package face computes and draws an analog clock face: hand angles, hand
// vectors derived from the surface size, the dial, and the center cap.
//
// Everything here is a pure function of a TimeReading, a Geometry and a
// Style. Hosts own the clock, the scheduling and the drawing surface.
package face

import (
	"math"
	"time"
)

const (
	// FullTurn is one revolution in radians.
	FullTurn = 2 * math.Pi
	// HourArc is the angle swept by the hour hand per hour.
	HourArc = FullTurn / 12
	// MinuteArc is the angle swept by the minute and second hands per unit.
	MinuteArc = FullTurn / 60
	// StartArc rotates the zero position from 3 o'clock to 12 o'clock.
	StartArc = math.Pi / 2
)

// TimeReading is the wall-clock snapshot a frame is drawn from.
type TimeReading struct {
	Hour   int // 0-11
	Minute int // 0-59
	Second int // 0-59
}

// ReadingAt converts t (already in the wanted location) to a 12-hour reading.
func ReadingAt(t time.Time) TimeReading {
	return TimeReading{
		Hour:   t.Hour() % 12,
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// HandAngle maps a position on a dial with unitsPerTurn divisions to radians
// in screen space (y grows downward), 12 o'clock being -π/2.
//
// unit is taken modulo unitsPerTurn, so the result is always in [-π/2, 3π/2).
func HandAngle(unit, unitsPerTurn float64) float64 {
	if unitsPerTurn <= 0 {
		return -StartArc
	}
	u := math.Mod(unit, unitsPerTurn)
	if u < 0 {
		u += unitsPerTurn
	}
	return u*(FullTurn/unitsPerTurn) - StartArc
}

// HourAngle blends the minute fraction in so the hour hand moves smoothly.
func HourAngle(hour, minute int) float64 {
	return HandAngle(float64(hour)+float64(minute)/60, 12)
}

func MinuteAngle(minute int) float64 { return HandAngle(float64(minute), 60) }

func SecondAngle(second int) float64 { return HandAngle(float64(second), 60) }

// SecondTailAngle points opposite the second hand: half a turn further along
// the dial, i.e. (second+30) mod 60.
func SecondTailAngle(second int) float64 {
	return HandAngle(float64((second+30)%60), 60)
}

// PointAt returns the point at distance length from (cx, cy) along angle.
func PointAt(angle, length, cx, cy float64) (x, y float64) {
	return length*math.Cos(angle) + cx, length*math.Sin(angle) + cy
}
