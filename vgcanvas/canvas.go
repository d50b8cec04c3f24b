// Package vgcanvas draws clock faces through gonum/plot's vg canvases, for
// PNG and SVG snapshots.
package vgcanvas

import (
	"image"
	"image/color"
	"math"

	"clockface/face"

	"gonum.org/v1/plot/vg"
)

// NumeralFont is the vg font used for dial numerals.
const NumeralFont = "Helvetica"

// Canvas implements face.TextCanvas over a vg.Canvas of width x height
// points. vg's origin is bottom-left; Canvas flips y so face coordinates
// keep the top-left origin.
//
// Thick lines are filled as polygons (plus discs for round caps) so cap
// styles come out the same on every vg backend.
type Canvas struct {
	vc   vg.Canvas
	w, h float64

	font    vg.Font
	fontErr error
}

func New(vc vg.Canvas, width, height float64) *Canvas {
	c := &Canvas{vc: vc, w: width, h: height}
	c.font, c.fontErr = vg.MakeFont(NumeralFont, vg.Length(numeralSize(width, height)))
	return c
}

func numeralSize(w, h float64) float64 {
	return math.Max(6, math.Min(w, h)/20)
}

func (c *Canvas) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(c.h - y)}
}

// Clear fills the whole canvas.
func (c *Canvas) Clear(col color.RGBA) {
	var p vg.Path
	p.Move(c.pt(0, 0))
	p.Line(c.pt(c.w, 0))
	p.Line(c.pt(c.w, c.h))
	p.Line(c.pt(0, c.h))
	p.Close()
	c.vc.SetColor(col)
	c.vc.Fill(p)
}

// DrawLine implements face.Canvas.
func (c *Canvas) DrawLine(l face.Line) {
	if l.Color.A == 0 || l.Width <= 0 {
		return
	}
	hw := l.Width / 2
	dx, dy := l.X2-l.X1, l.Y2-l.Y1
	length := math.Hypot(dx, dy)

	c.vc.SetColor(l.Color)
	if length > 0 {
		nx, ny := -dy/length*hw, dx/length*hw
		var p vg.Path
		p.Move(c.pt(l.X1+nx, l.Y1+ny))
		p.Line(c.pt(l.X2+nx, l.Y2+ny))
		p.Line(c.pt(l.X2-nx, l.Y2-ny))
		p.Line(c.pt(l.X1-nx, l.Y1-ny))
		p.Close()
		c.vc.Fill(p)
	}
	if l.Cap == face.CapRound {
		c.disc(l.X1, l.Y1, hw)
		if length > 0 {
			c.disc(l.X2, l.Y2, hw)
		}
	}
}

func (c *Canvas) disc(x, y, r float64) {
	var p vg.Path
	p.Move(c.pt(x+r, y))
	p.Arc(c.pt(x, y), vg.Length(r), 0, 2*math.Pi)
	p.Close()
	c.vc.Fill(p)
}

// DrawImage implements face.Canvas.
func (c *Canvas) DrawImage(img image.Image, dst face.Rect) {
	if img == nil || dst.Dx() <= 0 || dst.Dy() <= 0 {
		return
	}
	c.vc.DrawImage(vg.Rectangle{
		Min: c.pt(dst.MinX, dst.MaxY),
		Max: c.pt(dst.MaxX, dst.MinY),
	}, img)
}

// DrawText implements face.TextCanvas, centering s on (x, y). Without a
// usable font it draws nothing.
func (c *Canvas) DrawText(x, y float64, s string, col color.RGBA) {
	if c.fontErr != nil || s == "" {
		return
	}
	w := float64(c.font.Width(s))
	asc := float64(c.font.Extents().Ascent)
	c.vc.SetColor(col)
	c.vc.FillString(c.font, c.pt(x-w/2, y+asc/2), s)
}
