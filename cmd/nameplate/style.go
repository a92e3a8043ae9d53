package main

import (
	"github.com/spf13/cobra"

	"github.com/philipparndt/gonameplate/pkg/nameplate"
)

// Style flags shared by the commands that lay out plates. They override
// the [style] section of the config file.
var (
	styleFontSize  float64
	styleFont      string
	styleMargin    float64
	styleMinWidth  float64
	styleMaxWidth  float64
	styleBaseColor string
	styleTextColor string
	styleMetrics   string
	styleOverflow  string
	styleNoPins    bool
)

func addStyleFlags(cmd *cobra.Command) {
	defaults := nameplate.DefaultStyle()
	flags := cmd.Flags()
	flags.Float64Var(&styleFontSize, "font-size", defaults.FontSize, "font size in mm")
	flags.StringVar(&styleFont, "font", defaults.Font, "OpenSCAD font name")
	flags.Float64Var(&styleMargin, "margin", defaults.Margin, "space between text and plate edge in mm")
	flags.Float64Var(&styleMinWidth, "min-width", defaults.MinWidth, "minimum plate width in mm")
	flags.Float64Var(&styleMaxWidth, "max-width", defaults.MaxWidth, "maximum plate width in mm")
	flags.StringVar(&styleBaseColor, "base-color", defaults.BaseColor, "base color (name or #rrggbb)")
	flags.StringVar(&styleTextColor, "text-color", defaults.TextColor, "text color (name or #rrggbb)")
	flags.StringVar(&styleMetrics, "metrics", defaults.Metrics, "text width estimate: heuristic or glyph")
	flags.StringVar(&styleOverflow, "overflow", defaults.Overflow, "names wider than max-width: shrink or clamp")
	flags.BoolVar(&styleNoPins, "no-pin-holes", false, "leave out the pin holes")
}

// resolveStyle applies the flags the user set to the configured style.
func resolveStyle(cmd *cobra.Command) (nameplate.StyleConfig, error) {
	style := settings.Style
	flags := cmd.Flags()

	if flags.Changed("font-size") {
		style.FontSize = styleFontSize
		if style.MinFontSize > style.FontSize {
			style.MinFontSize = style.FontSize
		}
	}
	if flags.Changed("font") {
		style.Font = styleFont
	}
	if flags.Changed("margin") {
		style.Margin = styleMargin
	}
	if flags.Changed("min-width") {
		style.MinWidth = styleMinWidth
	}
	if flags.Changed("max-width") {
		style.MaxWidth = styleMaxWidth
	}
	if flags.Changed("base-color") {
		style.BaseColor = styleBaseColor
	}
	if flags.Changed("text-color") {
		style.TextColor = styleTextColor
	}
	if flags.Changed("metrics") {
		style.Metrics = styleMetrics
	}
	if flags.Changed("overflow") {
		style.Overflow = styleOverflow
	}
	if styleNoPins {
		style.PinHoleDiameter = 0
	}

	if err := style.Validate(); err != nil {
		return nameplate.StyleConfig{}, err
	}
	return style, nil
}
