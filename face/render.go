package face

import (
	"image"
	"image/color"
)

// Line is a stroked segment.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
	Color  color.RGBA
	Cap    CapStyle
}

// Rect is a destination rectangle in surface coordinates.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (r Rect) Dx() float64 { return r.MaxX - r.MinX }
func (r Rect) Dy() float64 { return r.MaxY - r.MinY }

// Canvas receives draw commands. Coordinates are in surface pixels with the
// origin at the top-left corner and y growing downward.
type Canvas interface {
	DrawLine(l Line)
	DrawImage(img image.Image, dst Rect)
}

// TextCanvas is implemented by canvases able to draw dial numerals.
type TextCanvas interface {
	Canvas
	DrawText(x, y float64, s string, c color.RGBA)
}

// Render draws one frame: dial, hour hand, minute hand, second hand, then
// the center cap so it covers the pivots.
func Render(c Canvas, r TimeReading, g Geometry, st Style) {
	if c == nil || g.Empty() {
		return
	}

	for _, l := range DialMarks(g, st) {
		c.DrawLine(l)
	}
	if tc, ok := c.(TextCanvas); ok {
		for _, n := range Numerals(g, st) {
			tc.DrawText(n.X, n.Y, n.Text, st.NumeralColor)
		}
	}

	h := Hands(r, g)
	c.DrawLine(stroke(h.HourThin, st.ThinWidth, st.ThinColor, st.ThinCap))
	c.DrawLine(stroke(h.Hour, st.HandWidth, st.HandColor, st.HandCap))
	c.DrawLine(stroke(h.MinuteThin, st.ThinWidth, st.ThinColor, st.ThinCap))
	c.DrawLine(stroke(h.Minute, st.HandWidth, st.HandColor, st.HandCap))
	c.DrawLine(stroke(h.Second, st.SecondWidth, st.SecondColor, st.SecondCap))

	if st.CapImage != nil && st.CapRadius > 0 {
		c.DrawImage(st.CapImage, CapRect(g, st))
	}
}

// CapRect is the square the center cap is drawn into.
func CapRect(g Geometry, st Style) Rect {
	return Rect{
		MinX: g.CenterX - st.CapRadius,
		MinY: g.CenterY - st.CapRadius,
		MaxX: g.CenterX + st.CapRadius,
		MaxY: g.CenterY + st.CapRadius,
	}
}

func stroke(v HandVector, width float64, c color.RGBA, cs CapStyle) Line {
	return Line{
		X1: v.StartX, Y1: v.StartY,
		X2: v.EndX, Y2: v.EndY,
		Width: width,
		Color: c,
		Cap:   cs,
	}
}
