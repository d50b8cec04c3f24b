// Package raster draws face commands into an RGB565 hal.Framebuffer.
package raster

import (
	"image"
	"image/color"
	"math"

	"clockface/face"
	"clockface/fonts/digits5x7"
	"clockface/hal"

	"tinygo.org/x/tinyfont"
)

// Canvas implements face.TextCanvas and drivers.Displayer over a
// framebuffer. Lines are anti-aliased by pixel coverage and alpha-blended
// into the existing pixels.
type Canvas struct {
	fb   hal.Framebuffer
	font tinyfont.Fonter
}

func New(fb hal.Framebuffer) *Canvas {
	return &Canvas{fb: fb, font: digits5x7.Font}
}

func (c *Canvas) ok() bool {
	return c.fb != nil && c.fb.Format() == hal.PixelFormatRGB565 && c.fb.Buffer() != nil
}

// Clear fills the whole framebuffer.
func (c *Canvas) Clear(col color.RGBA) {
	if c.fb == nil {
		return
	}
	c.fb.ClearRGB(col.R, col.G, col.B)
}

// Present forwards to the framebuffer.
func (c *Canvas) Present() error {
	if c.fb == nil {
		return nil
	}
	return c.fb.Present()
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	if c.fb == nil {
		return 0, 0
	}
	return int16(c.fb.Width()), int16(c.fb.Height())
}

// SetPixel implements drivers.Displayer.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.blend(int(x), int(y), col, 1)
}

// Display implements drivers.Displayer.
func (c *Canvas) Display() error { return c.Present() }

// DrawLine implements face.Canvas.
func (c *Canvas) DrawLine(l face.Line) {
	if !c.ok() || l.Color.A == 0 {
		return
	}
	hw := l.Width / 2
	if hw < 0.5 {
		hw = 0.5
	}

	dx := l.X2 - l.X1
	dy := l.Y2 - l.Y1
	lenSq := dx*dx + dy*dy
	length := math.Sqrt(lenSq)
	if length == 0 && l.Cap == face.CapButt {
		return
	}

	pad := hw + 1
	x0, x1 := c.clipX(math.Min(l.X1, l.X2)-pad, math.Max(l.X1, l.X2)+pad)
	y0, y1 := c.clipY(math.Min(l.Y1, l.Y2)-pad, math.Max(l.Y1, l.Y2)+pad)

	for py := y0; py < y1; py++ {
		cy := float64(py) + 0.5
		for px := x0; px < x1; px++ {
			cx := float64(px) + 0.5
			a := lineCoverage(cx, cy, l, dx, dy, lenSq, length, hw)
			if a > 0 {
				c.blend(px, py, l.Color, a)
			}
		}
	}
}

func lineCoverage(cx, cy float64, l face.Line, dx, dy, lenSq, length, hw float64) float64 {
	if lenSq == 0 {
		return coverage(hw - math.Hypot(cx-l.X1, cy-l.Y1))
	}
	t := ((cx-l.X1)*dx + (cy-l.Y1)*dy) / lenSq

	if l.Cap == face.CapRound {
		tc := math.Max(0, math.Min(1, t))
		px := l.X1 + tc*dx
		py := l.Y1 + tc*dy
		return coverage(hw - math.Hypot(cx-px, cy-py))
	}

	// Butt: perpendicular distance, cut square at both ends.
	perp := math.Abs((cx-l.X1)*dy-(cy-l.Y1)*dx) / length
	a := coverage(hw - perp)
	switch {
	case t < 0:
		a = math.Min(a, coverage(t*length))
	case t > 1:
		a = math.Min(a, coverage((1-t)*length))
	}
	return a
}

// coverage maps a signed distance to the stroke edge to a pixel coverage
// in [0, 1] with a one-pixel ramp.
func coverage(v float64) float64 {
	v += 0.5
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}

// DrawImage implements face.Canvas: nearest-neighbour scaling into dst with
// source alpha.
func (c *Canvas) DrawImage(img image.Image, dst face.Rect) {
	if !c.ok() || img == nil || dst.Dx() <= 0 || dst.Dy() <= 0 {
		return
	}
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return
	}

	x0, x1 := c.clipX(dst.MinX, dst.MaxX)
	y0, y1 := c.clipY(dst.MinY, dst.MaxY)
	for py := y0; py < y1; py++ {
		fy := (float64(py) + 0.5 - dst.MinY) / dst.Dy()
		if fy < 0 || fy >= 1 {
			continue
		}
		sy := b.Min.Y + int(fy*float64(srcH))
		for px := x0; px < x1; px++ {
			fx := (float64(px) + 0.5 - dst.MinX) / dst.Dx()
			if fx < 0 || fx >= 1 {
				continue
			}
			sx := b.Min.X + int(fx*float64(srcW))
			s := color.RGBAModel.Convert(img.At(sx, sy)).(color.RGBA)
			if s.A == 0 {
				continue
			}
			c.blend(px, py, s, 1)
		}
	}
}

// DrawText implements face.TextCanvas, centering s on (x, y).
func (c *Canvas) DrawText(x, y float64, s string, col color.RGBA) {
	if !c.ok() || s == "" {
		return
	}
	inner, _ := tinyfont.LineWidth(c.font, s)
	left := int16(math.Round(x - float64(inner)/2))
	baseline := int16(math.Round(y + float64(digits5x7.Ascent)/2 - 0.5))
	tinyfont.WriteLine(c, c.font, left, baseline, s, col)
}

// clipX converts a float span to a half-open pixel range inside the buffer.
func (c *Canvas) clipX(lo, hi float64) (int, int) {
	return clipSpan(lo, hi, c.fb.Width())
}

func (c *Canvas) clipY(lo, hi float64) (int, int) {
	return clipSpan(lo, hi, c.fb.Height())
}

func clipSpan(lo, hi float64, max int) (int, int) {
	a := int(math.Floor(lo))
	b := int(math.Ceil(hi))
	if a < 0 {
		a = 0
	}
	if b > max {
		b = max
	}
	if a > b {
		a = b
	}
	return a, b
}

// blend composites the alpha-premultiplied col over pixel (x, y), scaled by
// coverage a.
func (c *Canvas) blend(x, y int, col color.RGBA, a float64) {
	if c.fb == nil || c.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := c.fb.Buffer()
	if buf == nil || x < 0 || y < 0 || x >= c.fb.Width() || y >= c.fb.Height() {
		return
	}
	off := y*c.fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return
	}

	w := a * float64(col.A) / 255
	if w <= 0 {
		return
	}
	var pixel uint16
	if w >= 1 {
		pixel = hal.RGB565(col.R, col.G, col.B)
	} else {
		r, g, b := hal.RGB888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
		pixel = hal.RGB565(over(r, col.R, w, a), over(g, col.G, w, a), over(b, col.B, w, a))
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

// over is dst*(1-w) + src*a for a premultiplied src channel.
func over(dst, src uint8, w, a float64) uint8 {
	return uint8(math.Round(min(float64(dst)*(1-w)+float64(src)*a, 255)))
}
