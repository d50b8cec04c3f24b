package vgcanvas

import (
	"fmt"
	"io"
	"strings"

	"clockface/face"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case PNG, SVG:
		return f, nil
	default:
		return "", fmt.Errorf("vgcanvas: unknown format %q", s)
	}
}

// FormatFromPath picks the format from a file extension, PNG otherwise.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		return SVG
	}
	return PNG
}

// Snapshot is a single frame to write.
type Snapshot struct {
	Size    int
	Reading face.TimeReading
	Style   face.Style
}

func (s Snapshot) draw(vc vg.Canvas) {
	n := float64(s.Size)
	c := New(vc, n, n)
	c.Clear(s.Style.Background)
	face.Render(c, s.Reading, face.NewGeometry(s.Size, s.Size, s.Style), s.Style)
}

// Write encodes the snapshot in the given format.
func (s Snapshot) Write(w io.Writer, f Format) error {
	if s.Size <= 0 {
		return fmt.Errorf("vgcanvas: size %d must be positive", s.Size)
	}
	switch f {
	case PNG:
		return s.WritePNG(w)
	case SVG:
		return s.WriteSVG(w)
	default:
		return fmt.Errorf("vgcanvas: unknown format %q", f)
	}
}

// WritePNG rasterizes at one pixel per point.
func (s Snapshot) WritePNG(w io.Writer) error {
	n := vg.Length(s.Size)
	vc := vgimg.NewWith(vgimg.UseWH(n, n), vgimg.UseDPI(int(vg.Inch)))
	s.draw(vc)
	if _, err := (vgimg.PngCanvas{Canvas: vc}).WriteTo(w); err != nil {
		return fmt.Errorf("vgcanvas: write png: %w", err)
	}
	return nil
}

func (s Snapshot) WriteSVG(w io.Writer) error {
	n := vg.Length(s.Size)
	vc := vgsvg.New(n, n)
	s.draw(vc)
	if _, err := vc.WriteTo(w); err != nil {
		return fmt.Errorf("vgcanvas: write svg: %w", err)
	}
	return nil
}
