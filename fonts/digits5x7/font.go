// Package digits5x7 is a 5x7 bitmap font covering the digits, ':' and
// space; enough for dial numerals and a time readout.
package digits5x7

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

const (
	// Height is the glyph cell height including one row of leading.
	Height = 8
	// Advance is the glyph cell width including one column of spacing.
	Advance = 6
	// Ascent is the number of rows drawn above and on the baseline.
	Ascent = 7
)

// Font implements tinyfont.Fonter.
// Concurrent access is not safe due to internal glyph reuse.
var Font tinyfont.Fonter = &font5x7{}

type font5x7 struct {
	g glyph
}

type glyph struct {
	r rune
}

func (g *glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	rows, ok := glyphRows(g.r)
	if !ok {
		return
	}
	for row := 0; row < Ascent; row++ {
		b := rows[row]
		// Bits are stored as 0b000xxxxx (bit4 = leftmost pixel).
		for col := 0; col < 5; col++ {
			if b&(0x10>>col) == 0 {
				continue
			}
			display.SetPixel(x+int16(col), y-int16(Ascent-1-row), c)
		}
	}
}

func (g *glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    5,
		Height:   Ascent,
		XAdvance: Advance,
		XOffset:  0,
		YOffset:  -(Ascent - 1),
	}
}

func (f *font5x7) GetYAdvance() uint8 { return Height }

func (f *font5x7) GetGlyph(r rune) tinyfont.Glypher {
	f.g.r = r
	return &f.g
}

func glyphRows(r rune) ([Ascent]byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return digits[r-'0'], true
	case r == ':':
		return colon, true
	default:
		return [Ascent]byte{}, false
	}
}

var colon = [Ascent]byte{0x00, 0x0C, 0x0C, 0x00, 0x0C, 0x0C, 0x00}

var digits = [10][Ascent]byte{
	{0x0E, 0x11, 0x13, 0x15, 0x19, 0x11, 0x0E},
	{0x04, 0x0C, 0x04, 0x04, 0x04, 0x04, 0x0E},
	{0x0E, 0x11, 0x01, 0x02, 0x04, 0x08, 0x1F},
	{0x1F, 0x02, 0x04, 0x02, 0x01, 0x11, 0x0E},
	{0x02, 0x06, 0x0A, 0x12, 0x1F, 0x02, 0x02},
	{0x1F, 0x10, 0x1E, 0x01, 0x01, 0x11, 0x0E},
	{0x06, 0x08, 0x10, 0x1E, 0x11, 0x11, 0x0E},
	{0x1F, 0x01, 0x02, 0x04, 0x08, 0x08, 0x08},
	{0x0E, 0x11, 0x11, 0x0E, 0x11, 0x11, 0x0E},
	{0x0E, 0x11, 0x11, 0x0F, 0x01, 0x02, 0x0C},
}
