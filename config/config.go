// Package config loads the clock's style and host settings from an optional
// config file (YAML, TOML or JSON) with CLOCKFACE_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"reflect"
	"strconv"
	"strings"

	"clockface/face"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var (
	// ErrUnknownStyle is returned for a preset name face does not know.
	ErrUnknownStyle = errors.New("unknown style")
	// ErrInvalid wraps field validation failures.
	ErrInvalid = errors.New("invalid config")
)

// EnvPrefix prefixes environment overrides, e.g. CLOCKFACE_HOST_ZONE.
const EnvPrefix = "CLOCKFACE"

type Config struct {
	Style Style `mapstructure:"style"`
	Host  Host  `mapstructure:"host"`
}

// Style selects a preset and optionally overrides parts of it. Nil fields
// keep the preset's value.
type Style struct {
	Preset string `mapstructure:"preset" validate:"required"`

	HandWidth   *float64 `mapstructure:"handWidth" validate:"omitempty,gt=0"`
	ThinWidth   *float64 `mapstructure:"thinWidth" validate:"omitempty,gt=0"`
	SecondWidth *float64 `mapstructure:"secondWidth" validate:"omitempty,gt=0"`

	MinuteMargin  *float64 `mapstructure:"minuteMargin" validate:"omitempty,gte=0"`
	HourRatio     *float64 `mapstructure:"hourRatio" validate:"omitempty,gt=0,lte=1"`
	HourOffset    *float64 `mapstructure:"hourOffset"`
	ThinRatio     *float64 `mapstructure:"thinRatio" validate:"omitempty,gte=0,lte=1"`
	OverhangRatio *float64 `mapstructure:"overhangRatio" validate:"omitempty,gte=0,lte=2"`
	SecondMargin  *float64 `mapstructure:"secondMargin" validate:"omitempty,gte=0"`
	CapRadius     *float64 `mapstructure:"capRadius" validate:"omitempty,gte=0,lte=64"`

	Ticks    *bool `mapstructure:"ticks"`
	Numerals *bool `mapstructure:"numerals"`

	Colors Colors `mapstructure:"colors"`
}

// Colors are "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
type Colors struct {
	Background string `mapstructure:"background" validate:"omitempty,hexcolor"`
	Hand       string `mapstructure:"hand" validate:"omitempty,hexcolor"`
	Thin       string `mapstructure:"thin" validate:"omitempty,hexcolor"`
	Second     string `mapstructure:"second" validate:"omitempty,hexcolor"`
	Dial       string `mapstructure:"dial" validate:"omitempty,hexcolor"`
	Numeral    string `mapstructure:"numeral" validate:"omitempty,hexcolor"`
}

type Host struct {
	Width   int    `mapstructure:"width" validate:"gte=0,lte=4096"`
	Height  int    `mapstructure:"height" validate:"gte=0,lte=4096"`
	Scale   int    `mapstructure:"scale" validate:"gte=1,lte=8"`
	Hz      int    `mapstructure:"hz" validate:"gte=1,lte=1000"`
	Zone    string `mapstructure:"zone"`
	ZoneDir string `mapstructure:"zoneDir" validate:"required"`
	Stats   bool   `mapstructure:"stats"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("style.preset", "classic")

	v.SetDefault("host.width", 320)
	v.SetDefault("host.height", 320)
	v.SetDefault("host.scale", 2)
	v.SetDefault("host.hz", 60)
	v.SetDefault("host.zone", "")
	v.SetDefault("host.zoneDir", "/etc")
	v.SetDefault("host.stats", false)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only reaches keys viper already knows; the style
	// overrides have no defaults, so bind them explicitly.
	for _, k := range styleKeys {
		_ = v.BindEnv("style." + k)
	}
	return v
}

var styleKeys = []string{
	"handWidth", "thinWidth", "secondWidth",
	"minuteMargin", "hourRatio", "hourOffset", "thinRatio", "overhangRatio", "secondMargin",
	"capRadius", "ticks", "numerals",
	"colors.background", "colors.hand", "colors.thin", "colors.second", "colors.dial", "colors.numeral",
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads path (format inferred from the extension) over the defaults.
// An empty path loads defaults and environment overrides only.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	return cfg, Validate(cfg)
}

// LoadBytes is Load for an in-memory document of the given type
// ("yaml", "json", "toml").
func LoadBytes(configType string, data []byte) (Config, error) {
	if strings.TrimSpace(configType) == "" {
		return Config{}, errors.New("config: config type is required")
	}
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", configType, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	return cfg, Validate(cfg)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and the preset name.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: unable to validate: %w", err)
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			ns := strings.TrimPrefix(fe.Namespace(), "Config.")
			fields = append(fields, fmt.Sprintf("%s (%s)", ns, fe.Tag()))
		}
		return fmt.Errorf("config: %w: %s", ErrInvalid, strings.Join(fields, ", "))
	}
	if _, ok := face.Preset(cfg.Style.Preset); !ok {
		return unknownStyle(cfg.Style.Preset)
	}
	return nil
}

func unknownStyle(name string) error {
	return fmt.Errorf("config: %w %q (known: %s)", ErrUnknownStyle, name, strings.Join(face.PresetNames(), ", "))
}

// Resolve applies the overrides to the named preset.
func (s Style) Resolve() (face.Style, error) {
	st, ok := face.Preset(s.Preset)
	if !ok {
		return face.Style{}, unknownStyle(s.Preset)
	}

	override(&st.HandWidth, s.HandWidth)
	override(&st.ThinWidth, s.ThinWidth)
	override(&st.SecondWidth, s.SecondWidth)
	override(&st.MinuteMargin, s.MinuteMargin)
	override(&st.HourRatio, s.HourRatio)
	override(&st.HourOffset, s.HourOffset)
	override(&st.ThinRatio, s.ThinRatio)
	override(&st.OverhangRatio, s.OverhangRatio)
	override(&st.SecondMargin, s.SecondMargin)
	override(&st.CapRadius, s.CapRadius)
	override(&st.Dial.Ticks, s.Ticks)
	override(&st.Dial.Numerals, s.Numerals)

	for _, c := range []struct {
		src string
		dst *color.RGBA
	}{
		{s.Colors.Background, &st.Background},
		{s.Colors.Hand, &st.HandColor},
		{s.Colors.Thin, &st.ThinColor},
		{s.Colors.Second, &st.SecondColor},
		{s.Colors.Dial, &st.DialColor},
		{s.Colors.Numeral, &st.NumeralColor},
	} {
		if c.src == "" {
			continue
		}
		col, err := ParseColor(c.src)
		if err != nil {
			return face.Style{}, err
		}
		*c.dst = col
	}

	if s.CapRadius != nil || s.Colors.Hand != "" || s.Colors.Second != "" {
		st.CapImage = face.CapImage(capSize(st.CapRadius), st.HandColor, st.SecondColor)
	}
	return st, nil
}

// FaceStyle resolves the configured style.
func (c Config) FaceStyle() (face.Style, error) { return c.Style.Resolve() }

func override[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// capSize is the cap bitmap edge: four pixels per unit of radius.
func capSize(radius float64) int {
	return int(math.Ceil(radius * 4))
}

// ParseColor parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa". Missing
// alpha is opaque. The hex digits are straight alpha; the result is
// premultiplied as color.RGBA requires.
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("config: color %q: missing '#'", s)
	}
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("config: color %q: bad length", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	c := color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}
