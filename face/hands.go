package face

// HandVector is one drawn segment of a hand.
type HandVector struct {
	StartX, StartY float64
	EndX, EndY     float64
}

// Segment returns the part of a ray from (cx, cy) along angle between
// distances inner and outer.
func Segment(angle, inner, outer, cx, cy float64) HandVector {
	sx, sy := PointAt(angle, inner, cx, cy)
	ex, ey := PointAt(angle, outer, cx, cy)
	return HandVector{StartX: sx, StartY: sy, EndX: ex, EndY: ey}
}

// CounterBalanced returns a segment from overhang behind the pivot (along
// tailAngle) out to length along angle.
func CounterBalanced(angle, tailAngle, length, overhang, cx, cy float64) HandVector {
	sx, sy := PointAt(tailAngle, overhang, cx, cy)
	ex, ey := PointAt(angle, length, cx, cy)
	return HandVector{StartX: sx, StartY: sy, EndX: ex, EndY: ey}
}

// HandSet is every segment of a frame, in draw order.
type HandSet struct {
	HourThin   HandVector
	Hour       HandVector
	MinuteThin HandVector
	Minute     HandVector
	Second     HandVector
}

// Hands computes the hand segments for r on g.
func Hands(r TimeReading, g Geometry) HandSet {
	cx, cy := g.CenterX, g.CenterY

	hour := HourAngle(r.Hour, r.Minute)
	minute := MinuteAngle(r.Minute)

	return HandSet{
		HourThin:   Segment(hour, 0, g.HourThin, cx, cy),
		Hour:       Segment(hour, g.HourThin, g.Hour, cx, cy),
		MinuteThin: Segment(minute, 0, g.HourThin, cx, cy),
		Minute:     Segment(minute, g.HourThin, g.Minute, cx, cy),
		Second: CounterBalanced(
			SecondAngle(r.Second),
			SecondTailAngle(r.Second),
			g.Second,
			g.SecondOverhang,
			cx,
			cy,
		),
	}
}
