package face

import (
	"image"
	"image/color"
	"math"
)

// CapImage renders a size x size center cap: a disc in fg with a dot in
// accent, edges anti-aliased through alpha.
func CapImage(size int, fg, accent color.RGBA) *image.NRGBA {
	if size <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	nfg := color.NRGBAModel.Convert(fg).(color.NRGBA)
	naccent := color.NRGBAModel.Convert(accent).(color.NRGBA)
	c := float64(size) / 2
	outer := c
	inner := c * 0.4
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			a := coverage(outer - d)
			if a == 0 {
				continue
			}
			px := nfg
			if coverage(inner-d) > 0.5 {
				px = naccent
			}
			px.A = uint8(math.Round(a * float64(px.A)))
			img.SetNRGBA(x, y, px)
		}
	}
	return img
}

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
