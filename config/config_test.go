package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"clockface/face"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "classic", cfg.Style.Preset)
	assert.Equal(t, 320, cfg.Host.Width)
	assert.Equal(t, 60, cfg.Host.Hz)
	assert.Equal(t, "/etc", cfg.Host.ZoneDir)

	st, err := cfg.FaceStyle()
	require.NoError(t, err)
	assert.Equal(t, face.Classic(), st)
}

func TestLoadBytesOverrides(t *testing.T) {
	doc := []byte(`
style:
  preset: slim
  hourRatio: 0.7
  numerals: true
  colors:
    second: "#00ff00"
host:
  width: 200
  zone: Europe/Paris
`)
	cfg, err := LoadBytes("yaml", doc)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Host.Width)
	assert.Equal(t, 320, cfg.Host.Height)
	assert.Equal(t, "Europe/Paris", cfg.Host.Zone)

	st, err := cfg.FaceStyle()
	require.NoError(t, err)
	assert.Equal(t, "slim", st.Name)
	assert.Equal(t, 0.7, st.HourRatio)
	assert.Equal(t, face.Slim().HandWidth, st.HandWidth)
	assert.True(t, st.Dial.Numerals)
	assert.Equal(t, color.RGBA{G: 0xff, A: 0xff}, st.SecondColor)
}

func TestValidationErrorsNameFields(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"hour ratio above one", `{"style":{"hourRatio":1.5}}`, "style.hourRatio"},
		{"negative width", `{"style":{"handWidth":-1}}`, "style.handWidth"},
		{"bad color", `{"style":{"colors":{"second":"red"}}}`, "style.colors.second"},
		{"zero hz", `{"host":{"hz":0}}`, "host.hz"},
		{"empty zone dir", `{"host":{"zoneDir":""}}`, "host.zoneDir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes("json", []byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestUnknownPreset(t *testing.T) {
	_, err := LoadBytes("json", []byte(`{"style":{"preset":"baroque"}}`))
	require.ErrorIs(t, err, ErrUnknownStyle)
	assert.Contains(t, err.Error(), "classic")

	_, err = Style{Preset: "baroque"}.Resolve()
	assert.ErrorIs(t, err, ErrUnknownStyle)
}

func TestLoadTypeRequired(t *testing.T) {
	_, err := LoadBytes(" ", []byte(`{}`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clock.toml")
	require.NoError(t, os.WriteFile(path, []byte("[style]\npreset = \"slim\"\n\n[host]\nhz = 30\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "slim", cfg.Style.Preset)
	assert.Equal(t, 30, cfg.Host.Hz)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CLOCKFACE_STYLE_PRESET", "slim")
	t.Setenv("CLOCKFACE_HOST_ZONE", "Asia/Tokyo")
	t.Setenv("CLOCKFACE_HOST_STATS", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "slim", cfg.Style.Preset)
	assert.Equal(t, "Asia/Tokyo", cfg.Host.Zone)
	assert.True(t, cfg.Host.Stats)
}

func TestEnvOverridesStyleKeys(t *testing.T) {
	t.Setenv("CLOCKFACE_STYLE_HANDWIDTH", "2")
	t.Setenv("CLOCKFACE_STYLE_NUMERALS", "true")
	t.Setenv("CLOCKFACE_STYLE_COLORS_SECOND", "#00ff00")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg.Style.HandWidth)
	assert.Equal(t, 2.0, *cfg.Style.HandWidth)
	require.NotNil(t, cfg.Style.Numerals)
	assert.True(t, *cfg.Style.Numerals)
	assert.Equal(t, "#00ff00", cfg.Style.Colors.Second)
	assert.Nil(t, cfg.Style.ThinWidth)

	st, err := cfg.FaceStyle()
	require.NoError(t, err)
	assert.Equal(t, 2.0, st.HandWidth)
	assert.Equal(t, color.RGBA{G: 0xff, A: 0xff}, st.SecondColor)
}

func TestCapRadiusRebuildsCap(t *testing.T) {
	r := 3.0
	st, err := Style{Preset: "classic", CapRadius: &r}.Resolve()
	require.NoError(t, err)
	require.NotNil(t, st.CapImage)
	assert.Equal(t, 12, st.CapImage.Bounds().Dx())
	assert.Equal(t, 3.0, st.CapRadius)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#f008", color.RGBA{R: 0x88, A: 0x88}},
		{"#ff000080", color.RGBA{R: 0x80, A: 0x80}},
		{"#1b1f2a", color.RGBA{R: 0x1b, G: 0x1f, B: 0x2a, A: 0xff}},
		{"#11223344", color.RGBA{R: 0x04, G: 0x09, B: 0x0d, A: 0x44}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "fff", "#ff", "#12345", "#zzzzzz"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}
