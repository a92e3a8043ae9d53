package nameplate

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// TextMeasurer estimates the rendered width in millimetres of a single line
// of text at the given font size.
type TextMeasurer interface {
	Measure(text string, fontSize float64) float64
}

// HeuristicMeasurer assumes every rune advances by CharWidth * fontSize.
// It overestimates narrow glyphs, which keeps text clear of the pin holes.
type HeuristicMeasurer struct {
	CharWidth float64
}

// Measure implements TextMeasurer.
func (h HeuristicMeasurer) Measure(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * h.CharWidth
}

// openscadEmScale converts an OpenSCAD text size into a font em size.
// OpenSCAD sizes text by its ascent, which for most sans fonts is roughly
// 72% of the em square.
const openscadEmScale = 1 / 0.72

// GlyphMeasurer sums real glyph advances (including kerning) of the Go Bold
// font, a close stand-in for the bold sans fonts OpenSCAD usually picks.
type GlyphMeasurer struct {
	font     *opentype.Font
	fallback HeuristicMeasurer
}

var (
	goBoldOnce sync.Once
	goBold     *opentype.Font
	goBoldErr  error
)

// NewGlyphMeasurer parses the embedded font. Names whose glyph measurement
// fails fall back to the heuristic with the given char width.
func NewGlyphMeasurer(charWidth float64) (*GlyphMeasurer, error) {
	goBoldOnce.Do(func() {
		goBold, goBoldErr = opentype.Parse(gobold.TTF)
	})
	if goBoldErr != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", goBoldErr)
	}
	return &GlyphMeasurer{font: goBold, fallback: HeuristicMeasurer{CharWidth: charWidth}}, nil
}

// Measure implements TextMeasurer.
func (g *GlyphMeasurer) Measure(text string, fontSize float64) float64 {
	// at 72 DPI one pixel equals one size unit, which OpenSCAD reads as mm
	face, err := opentype.NewFace(g.font, &opentype.FaceOptions{
		Size:    fontSize * openscadEmScale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return g.fallback.Measure(text, fontSize)
	}
	defer face.Close()

	advance := font.MeasureString(face, text)
	return float64(advance) / 64
}

// measurer returns the TextMeasurer selected by s.Metrics.
func (s StyleConfig) measurer() (TextMeasurer, error) {
	switch s.Metrics {
	case MetricsGlyph:
		return NewGlyphMeasurer(s.CharWidth)
	default:
		return HeuristicMeasurer{CharWidth: s.CharWidth}, nil
	}
}
