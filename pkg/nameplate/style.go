package nameplate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Text width estimation strategies.
const (
	MetricsHeuristic = "heuristic"
	MetricsGlyph     = "glyph"
)

// Policies for names wider than MaxWidth.
const (
	OverflowShrink = "shrink"
	OverflowClamp  = "clamp"
)

// StyleConfig holds the fixed parameters shared by every plate of a batch.
// It is a plain value: pass it by value and never mutate a shared copy.
// All lengths are millimetres.
type StyleConfig struct {
	BaseHeight    float64 `toml:"base_height" yaml:"base_height"`
	BaseThickness float64 `toml:"base_thickness" yaml:"base_thickness"`
	TextHeight    float64 `toml:"text_height" yaml:"text_height"`
	CornerRadius  float64 `toml:"corner_radius" yaml:"corner_radius"`

	FontSize    float64 `toml:"font_size" yaml:"font_size"`
	MinFontSize float64 `toml:"min_font_size" yaml:"min_font_size"`
	Font        string  `toml:"font" yaml:"font"`
	Margin      float64 `toml:"margin" yaml:"margin"`

	PinHoleDiameter float64 `toml:"pin_hole_diameter" yaml:"pin_hole_diameter"`
	PinHoleOffset   float64 `toml:"pin_hole_offset" yaml:"pin_hole_offset"`

	MinWidth  float64 `toml:"min_width" yaml:"min_width"`
	MaxWidth  float64 `toml:"max_width" yaml:"max_width"`
	WidthStep float64 `toml:"width_step" yaml:"width_step"` // 0 disables rounding

	CharWidth float64 `toml:"char_width" yaml:"char_width"` // heuristic glyph advance as a fraction of FontSize
	Metrics   string  `toml:"metrics" yaml:"metrics"`
	Overflow  string  `toml:"overflow" yaml:"overflow"`

	Resolution int `toml:"resolution" yaml:"resolution"` // OpenSCAD $fn

	BaseColor string `toml:"base_color" yaml:"base_color"`
	TextColor string `toml:"text_color" yaml:"text_color"`
}

// DefaultStyle returns the bulk printing defaults: a 13.5mm high plate
// tuned for 0.2mm layers.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		BaseHeight:      13.5,
		BaseThickness:   2.0,
		TextHeight:      1.2,
		CornerRadius:    1.0,
		FontSize:        9,
		MinFontSize:     5,
		Font:            "Liberation Sans:style=Bold",
		Margin:          7,
		PinHoleDiameter: 1.0,
		PinHoleOffset:   2.0,
		MinWidth:        40,
		MaxWidth:        150,
		WidthStep:       5,
		CharWidth:       0.7,
		Metrics:         MetricsHeuristic,
		Overflow:        OverflowShrink,
		Resolution:      64,
		BaseColor:       "white",
		TextColor:       "black",
	}
}

// Validate checks that the style describes a printable plate.
func (s StyleConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.BaseHeight > 0, "base_height must be positive, got %g", s.BaseHeight)
	check(s.BaseThickness > 0, "base_thickness must be positive, got %g", s.BaseThickness)
	check(s.TextHeight > 0, "text_height must be positive, got %g", s.TextHeight)
	check(s.FontSize > 0, "font_size must be positive, got %g", s.FontSize)
	check(s.MinFontSize > 0 && s.MinFontSize <= s.FontSize,
		"min_font_size must be in (0, font_size], got %g", s.MinFontSize)
	check(strings.TrimSpace(s.Font) != "", "font must not be empty")
	check(s.Margin >= 0, "margin must not be negative, got %g", s.Margin)
	check(s.CharWidth > 0, "char_width must be positive, got %g", s.CharWidth)
	check(s.WidthStep >= 0, "width_step must not be negative, got %g", s.WidthStep)
	check(s.MinWidth > 0, "min_width must be positive, got %g", s.MinWidth)
	check(s.MinWidth <= s.MaxWidth, "min_width (%g) exceeds max_width (%g)", s.MinWidth, s.MaxWidth)
	check(2*s.Margin < s.MaxWidth, "margins (2 x %g) leave no room for text within max_width %g", s.Margin, s.MaxWidth)
	check(s.CornerRadius >= 0 && 2*s.CornerRadius < s.BaseHeight,
		"corner_radius %g does not fit a %gmm high plate", s.CornerRadius, s.BaseHeight)
	check(s.Resolution >= 3, "resolution must be at least 3, got %d", s.Resolution)
	check(s.Metrics == MetricsHeuristic || s.Metrics == MetricsGlyph,
		"metrics must be %q or %q, got %q", MetricsHeuristic, MetricsGlyph, s.Metrics)
	check(s.Overflow == OverflowShrink || s.Overflow == OverflowClamp,
		"overflow must be %q or %q, got %q", OverflowShrink, OverflowClamp, s.Overflow)

	if s.PinHoleDiameter < 0 {
		errs = append(errs, fmt.Errorf("pin_hole_diameter must not be negative, got %g", s.PinHoleDiameter))
	} else if s.PinHoleDiameter > 0 {
		r := s.PinHoleDiameter / 2
		check(s.PinHoleOffset > r, "pin holes (r=%g) at offset %g cut through the plate edge", r, s.PinHoleOffset)
		check(s.PinHoleOffset < s.BaseHeight/2,
			"pin_hole_offset %g must stay in the upper half of a %gmm high plate", s.PinHoleOffset, s.BaseHeight)
		check(s.MinWidth-2*s.PinHoleOffset > s.PinHoleDiameter,
			"pin holes overlap on a %gmm plate; raise min_width", s.MinWidth)
	}

	if _, err := ParseColor(s.BaseColor); err != nil {
		errs = append(errs, fmt.Errorf("base_color: %w", err))
	}
	if _, err := ParseColor(s.TextColor); err != nil {
		errs = append(errs, fmt.Errorf("text_color: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid style: %w", errors.Join(errs...))
	}
	return nil
}

var namedColors = map[string]string{
	"white":  "#ffffff",
	"black":  "#000000",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"gray":   "#808080",
	"grey":   "#808080",
	"silver": "#c0c0c0",
	"gold":   "#ffd700",
	"navy":   "#000080",
	"purple": "#800080",
}

// ParseColor accepts a CSS-like color name or a #rgb / #rrggbb hex string
// and returns the normalized lowercase #rrggbb form.
func ParseColor(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[v]; ok {
		return hex, nil
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return "", fmt.Errorf("unknown color %q", s)
	}
	return c.Hex(), nil
}
