package face

import (
	"image"
	"image/color"
	"sort"
)

// CapStyle selects how a stroke ends.
type CapStyle uint8

const (
	CapButt CapStyle = iota
	CapRound
)

func (c CapStyle) String() string {
	switch c {
	case CapButt:
		return "butt"
	case CapRound:
		return "round"
	default:
		return "unknown"
	}
}

// DialStyle controls the optional background dial.
type DialStyle struct {
	Ticks    bool
	Numerals bool

	// Inset is the distance from the rim to the outer end of every tick.
	Inset float64

	TickLength      float64
	TickWidth       float64
	MajorTickLength float64
	MajorTickWidth  float64

	// NumeralInset is the distance from the rim to the numeral anchor.
	NumeralInset float64
}

// Style carries every cosmetic parameter of the face. Hand lengths are
// derived from the radius through the ratios and offsets below, so a face
// stays proportional under resize.
type Style struct {
	Name string

	Background   color.RGBA
	HandColor    color.RGBA
	ThinColor    color.RGBA
	SecondColor  color.RGBA
	DialColor    color.RGBA
	NumeralColor color.RGBA

	HandWidth   float64
	ThinWidth   float64
	SecondWidth float64

	HandCap   CapStyle
	ThinCap   CapStyle
	SecondCap CapStyle

	// Minute = Radius - MinuteMargin
	MinuteMargin float64
	// Hour = Minute*HourRatio + HourOffset
	HourRatio  float64
	HourOffset float64
	// HourThin = Hour*ThinRatio; the thin inner segment of hour and minute hands.
	ThinRatio float64
	// SecondOverhang = HourThin*OverhangRatio
	OverhangRatio float64
	// Second = Radius - SecondMargin
	SecondMargin float64

	// CapRadius is the half-size of the square the cap image is drawn into.
	CapRadius float64
	CapImage  image.Image

	Dial DialStyle
}

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

// Classic is the default look: thick round-capped white hands
// over thin butt-capped stems and a red counter-balanced second hand.
func Classic() Style {
	st := Style{
		Name:         "classic",
		Background:   color.RGBA{R: 0x1b, G: 0x1f, B: 0x2a, A: 0xff},
		HandColor:    white,
		ThinColor:    white,
		SecondColor:  red,
		DialColor:    color.RGBA{R: 0x9a, G: 0xa3, B: 0xb5, A: 0xff},
		NumeralColor: color.RGBA{R: 0xdd, G: 0xe2, B: 0xec, A: 0xff},

		HandWidth:   9.3,
		ThinWidth:   4,
		SecondWidth: 3,

		HandCap:   CapRound,
		ThinCap:   CapButt,
		SecondCap: CapButt,

		MinuteMargin:  15,
		HourRatio:     0.5,
		HourOffset:    6,
		ThinRatio:     1.0 / 3.0,
		OverhangRatio: 1,
		SecondMargin:  0,

		CapRadius: 5.5,

		Dial: DialStyle{
			Ticks:           true,
			Numerals:        true,
			Inset:           2,
			TickLength:      4,
			TickWidth:       1,
			MajorTickLength: 10,
			MajorTickWidth:  2.5,
			NumeralInset:    24,
		},
	}
	st.CapImage = CapImage(22, st.HandColor, st.SecondColor)
	return st
}

// Slim is the second variant: thinner strokes, a longer hour hand, no
// numerals.
func Slim() Style {
	st := Classic()
	st.Name = "slim"
	st.HandWidth = 5
	st.ThinWidth = 2
	st.SecondWidth = 1.5
	st.MinuteMargin = 10
	st.HourRatio = 0.6
	st.HourOffset = 4
	st.CapRadius = 4
	st.Dial.Numerals = false
	st.Dial.MajorTickWidth = 1.5
	st.CapImage = CapImage(16, st.HandColor, st.SecondColor)
	return st
}

var presets = map[string]func() Style{
	"classic": Classic,
	"slim":    Slim,
}

// Preset returns the named style.
func Preset(name string) (Style, bool) {
	fn, ok := presets[name]
	if !ok {
		return Style{}, false
	}
	return fn(), true
}

// PresetNames lists the known style names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
