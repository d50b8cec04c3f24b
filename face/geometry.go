package face

import "math"

// Geometry holds the center, radius and hand lengths for one surface size.
type Geometry struct {
	CenterX float64
	CenterY float64
	Radius  float64

	Hour           float64
	Minute         float64
	HourThin       float64
	SecondOverhang float64
	Second         float64
}

// NewGeometry derives the face layout for a width x height surface.
// Non-positive dimensions yield a zero-radius geometry.
func NewGeometry(width, height int, st Style) Geometry {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := Geometry{
		CenterX: float64(width) / 2,
		CenterY: float64(height) / 2,
		Radius:  math.Min(float64(width), float64(height)) / 2,
	}
	r := g.Radius
	g.Minute = clampLen(r-st.MinuteMargin, r)
	g.Hour = clampLen(g.Minute*st.HourRatio+st.HourOffset, r)
	g.HourThin = clampLen(g.Hour*st.ThinRatio, r)
	g.SecondOverhang = clampLen(g.HourThin*st.OverhangRatio, r)
	g.Second = clampLen(r-st.SecondMargin, r)
	return g
}

// Empty reports whether there is nothing to draw.
func (g Geometry) Empty() bool { return g.Radius <= 0 }

func clampLen(v, max float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
