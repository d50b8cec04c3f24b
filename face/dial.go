package face

import "strconv"

// Numeral is an hour label centered on (X, Y).
type Numeral struct {
	Text string
	X, Y float64
}

// DialMarks returns the 60 minute ticks, every fifth one a major tick.
// An empty slice is returned when ticks are disabled or there is no room.
func DialMarks(g Geometry, st Style) []Line {
	if g.Empty() || !st.Dial.Ticks {
		return nil
	}
	outer := clampLen(g.Radius-st.Dial.Inset, g.Radius)
	if outer == 0 {
		return nil
	}

	marks := make([]Line, 0, 60)
	for i := 0; i < 60; i++ {
		length, width := st.Dial.TickLength, st.Dial.TickWidth
		if i%5 == 0 {
			length, width = st.Dial.MajorTickLength, st.Dial.MajorTickWidth
		}
		inner := clampLen(outer-length, outer)
		v := Segment(HandAngle(float64(i), 60), inner, outer, g.CenterX, g.CenterY)
		marks = append(marks, Line{
			X1: v.StartX, Y1: v.StartY,
			X2: v.EndX, Y2: v.EndY,
			Width: width,
			Color: st.DialColor,
			Cap:   CapButt,
		})
	}
	return marks
}

// Numerals returns the 12 hour labels, "12" first.
func Numerals(g Geometry, st Style) []Numeral {
	if g.Empty() || !st.Dial.Numerals {
		return nil
	}
	at := g.Radius - st.Dial.NumeralInset
	if at <= 0 {
		return nil
	}

	out := make([]Numeral, 0, 12)
	for h := 0; h < 12; h++ {
		label := h
		if label == 0 {
			label = 12
		}
		x, y := PointAt(HandAngle(float64(h), 12), at, g.CenterX, g.CenterY)
		out = append(out, Numeral{Text: strconv.Itoa(label), X: x, Y: y})
	}
	return out
}
