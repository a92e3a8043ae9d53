// Package config loads style and generation settings from TOML or YAML
// files. Values in a file are overlaid on the defaults, so a file only
// needs the keys it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/philipparndt/gonameplate/pkg/nameplate"
)

// Formats understood by Decode.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Duration is a time.Duration written as a string such as "90s" or "2m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration %s is negative", parsed)
	}
	d.Duration = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// GenerateOptions are the settings of the generate command that can live
// in a config file. Command line flags override them.
type GenerateOptions struct {
	Names     string   `toml:"names" yaml:"names"`
	Output    string   `toml:"output" yaml:"output"`
	Artifacts []string `toml:"artifacts" yaml:"artifacts"`
	OpenSCAD  string   `toml:"openscad" yaml:"openscad"`
	Timeout   Duration `toml:"timeout" yaml:"timeout"`
	KeepSCAD  bool     `toml:"keep_scad" yaml:"keep_scad"`
	FailFast  bool     `toml:"fail_fast" yaml:"fail_fast"`
	// Manifest writes manifest.json next to the outputs.
	Manifest bool `toml:"manifest" yaml:"manifest"`
	// Thumbnails embeds a preview image into 3MF archives.
	Thumbnails bool `toml:"thumbnails" yaml:"thumbnails"`
}

// File is the content of a config file.
type File struct {
	Style    nameplate.StyleConfig `toml:"style" yaml:"style"`
	Generate GenerateOptions       `toml:"generate" yaml:"generate"`
}

// Default returns the settings used without a config file.
func Default() File {
	return File{
		Style: nameplate.DefaultStyle(),
		Generate: GenerateOptions{
			Output:    "output",
			Artifacts: []string{"stl", "parts", "3mf"},
			OpenSCAD:  "openscad",
			Timeout:   Duration{60 * time.Second},
			Manifest:  true,
		},
	}
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads the config file at path and validates the resulting style.
func Load(path string) (File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read config: %w", err)
	}

	f, err := Decode(data, format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Style.Validate(); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode overlays data on Default. Keys that match no setting are errors,
// which catches typos like "font_sise".
func Decode(data []byte, format string) (File, error) {
	f := Default()

	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
		if err != nil {
			return File{}, fmt.Errorf("invalid toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return File{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// an empty document keeps the defaults
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("invalid yaml: %w", err)
		}

	default:
		return File{}, fmt.Errorf("unsupported config format %q", format)
	}

	return f, nil
}
