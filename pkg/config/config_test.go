package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "style.toml", `
[style]
font_size = 10
margin = 5
text_color = "#ff0000"

[generate]
artifacts = ["3mf-painted"]
timeout = "90s"
fail_fast = true
thumbnails = true
manifest = false
`)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10.0, f.Style.FontSize)
	assert.Equal(t, 5.0, f.Style.Margin)
	assert.Equal(t, "#ff0000", f.Style.TextColor)
	// untouched keys keep their defaults
	assert.Equal(t, 13.5, f.Style.BaseHeight)
	assert.Equal(t, "white", f.Style.BaseColor)

	assert.Equal(t, []string{"3mf-painted"}, f.Generate.Artifacts)
	assert.Equal(t, 90*time.Second, f.Generate.Timeout.Duration)
	assert.True(t, f.Generate.FailFast)
	assert.True(t, f.Generate.Thumbnails)
	assert.False(t, f.Generate.Manifest)
	assert.Equal(t, "output", f.Generate.Output)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "style.yml", `
style:
  base_height: 20
  pin_hole_diameter: 0
generate:
  output: plates
  timeout: 2m
`)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20.0, f.Style.BaseHeight)
	assert.Zero(t, f.Style.PinHoleDiameter)
	assert.Equal(t, "plates", f.Generate.Output)
	assert.Equal(t, 2*time.Minute, f.Generate.Timeout.Duration)
	assert.Equal(t, []string{"stl", "parts", "3mf"}, f.Generate.Artifacts)
	assert.True(t, f.Generate.Manifest)
}

func TestDecodeEmptyKeepsDefaults(t *testing.T) {
	for _, format := range []string{FormatTOML, FormatYAML} {
		f, err := Decode(nil, format)
		require.NoError(t, err, format)
		assert.Equal(t, Default(), f, format)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte("[style]\nfont_sise = 10\n"), FormatTOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "style.font_sise")

	_, err = Decode([]byte("style:\n  font_sise: 10\n"), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "font_sise")
}

func TestDecodeRejectsBadDuration(t *testing.T) {
	_, err := Decode([]byte("[generate]\ntimeout = \"soon\"\n"), FormatTOML)
	assert.Error(t, err)

	_, err = Decode([]byte("generate:\n  timeout: -5s\n"), FormatYAML)
	assert.Error(t, err)
}

func TestLoadValidatesStyle(t *testing.T) {
	path := writeConfig(t, "bad.toml", "[style]\nmin_width = 200\nmax_width = 100\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.toml")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, "style.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"a.toml":     FormatTOML,
		"a.TOML":     FormatTOML,
		"dir/a.yaml": FormatYAML,
		"a.yml":      FormatYAML,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}
