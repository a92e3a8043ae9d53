package nameplate

import (
	"fmt"
	"math"
	"strings"

	"github.com/philipparndt/gonameplate/pkg/geometry"
)

// LayerRole identifies one of the two stacked solids of a plate.
type LayerRole string

const (
	LayerBase LayerRole = "base"
	LayerText LayerRole = "text"
)

// Extruder numbers assigned to the layers in multi-material outputs.
const (
	BaseExtruder = 1
	TextExtruder = 2
)

// GeometryLayer describes the vertical extent and material of a layer.
// Both layers of a plate share the XY origin; the plate is centered on it.
type GeometryLayer struct {
	Role     LayerRole
	ZStart   float64
	ZEnd     float64
	Color    string // normalized #rrggbb
	Extruder int
}

// Thickness returns ZEnd - ZStart.
func (l GeometryLayer) Thickness() float64 {
	return l.ZEnd - l.ZStart
}

// PinHole is a vertical through hole near a top corner of the base.
type PinHole struct {
	Diameter float64
	Offset   float64 // distance of the hole center from the top and side edges
}

// PlateSpec is the computed layout of one nameplate.
type PlateSpec struct {
	Name string

	Width         float64
	Height        float64
	BaseThickness float64
	TextHeight    float64
	Margin        float64
	CornerRadius  float64

	Font              string
	RequestedFontSize float64
	FontSize          float64 // effective size, smaller than RequestedFontSize if Shrunk
	TextWidth         float64 // estimated extent of the text at FontSize

	PinHole    PinHole
	Resolution int

	Layers [2]GeometryLayer

	// Shrunk is set when the font size was reduced to fit MaxWidth.
	Shrunk bool
	// Overflow is set when the text is wider than the plate minus margins
	// even after shrinking; the text overhangs the margins.
	Overflow bool
}

// Base returns the bottom layer.
func (p PlateSpec) Base() GeometryLayer { return p.Layers[0] }

// Text returns the raised text layer.
func (p PlateSpec) Text() GeometryLayer { return p.Layers[1] }

// TotalHeight returns the Z extent of the assembled plate.
func (p PlateSpec) TotalHeight() float64 { return p.Text().ZEnd }

// TextOrigin is the anchor of the centered text: the middle of the base top face.
func (p PlateSpec) TextOrigin() geometry.Vector3 {
	return geometry.NewVector3(0, 0, p.Base().ZEnd)
}

// PinHoleCenters returns the centers of the right and left pin holes on the
// bottom face, or nil if the style has no pin holes.
func (p PlateSpec) PinHoleCenters() []geometry.Vector3 {
	if p.PinHole.Diameter <= 0 {
		return nil
	}
	x := p.Width/2 - p.PinHole.Offset
	y := p.Height/2 - p.PinHole.Offset
	return []geometry.Vector3{
		geometry.NewVector3(x, y, 0),
		geometry.NewVector3(-x, y, 0),
	}
}

// Footprint returns the XY bounding box of the base, spanning the full plate height in Z.
func (p PlateSpec) Footprint() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	bbox.Extend(geometry.NewVector3(-p.Width/2, -p.Height/2, 0))
	bbox.Extend(geometry.NewVector3(p.Width/2, p.Height/2, p.TotalHeight()))
	return bbox
}

// Warnings describes layout compromises a user should know about.
func (p PlateSpec) Warnings() []string {
	var out []string
	if p.Shrunk {
		out = append(out, fmt.Sprintf("font size reduced from %g to %g to fit a %gmm plate",
			p.RequestedFontSize, p.FontSize, p.Width))
	}
	if p.Overflow {
		out = append(out, fmt.Sprintf("text (~%.1fmm) is wider than the %gmm plate minus %gmm margins",
			p.TextWidth, p.Width, p.Margin))
	}
	return out
}

// ComputePlate derives the layout of the plate for name.
// It fails with *InvalidInputError if name is blank and with a validation
// error if style is unusable.
func ComputePlate(name string, style StyleConfig) (PlateSpec, error) {
	text := strings.TrimSpace(name)
	if text == "" {
		return PlateSpec{}, &InvalidInputError{Name: name, Reason: "name is empty"}
	}
	if err := style.Validate(); err != nil {
		return PlateSpec{}, err
	}
	measurer, err := style.measurer()
	if err != nil {
		return PlateSpec{}, err
	}

	// colors were checked by Validate
	baseColor, _ := ParseColor(style.BaseColor)
	textColor, _ := ParseColor(style.TextColor)

	spec := PlateSpec{
		Name:              text,
		Height:            style.BaseHeight,
		BaseThickness:     style.BaseThickness,
		TextHeight:        style.TextHeight,
		Margin:            style.Margin,
		CornerRadius:      style.CornerRadius,
		Font:              style.Font,
		RequestedFontSize: style.FontSize,
		FontSize:          style.FontSize,
		PinHole:           PinHole{Diameter: style.PinHoleDiameter, Offset: style.PinHoleOffset},
		Resolution:        style.Resolution,
		Layers: [2]GeometryLayer{
			{Role: LayerBase, ZStart: 0, ZEnd: style.BaseThickness, Color: baseColor, Extruder: BaseExtruder},
			{Role: LayerText, ZStart: style.BaseThickness, ZEnd: style.BaseThickness + style.TextHeight, Color: textColor, Extruder: TextExtruder},
		},
	}

	spec.TextWidth = measurer.Measure(text, spec.FontSize)
	available := style.MaxWidth - 2*style.Margin

	if spec.TextWidth > available && style.Overflow == OverflowShrink {
		spec.FontSize, spec.TextWidth = shrinkToFit(measurer, text, style.FontSize, style.MinFontSize, available)
		spec.Shrunk = spec.FontSize < style.FontSize
	}
	spec.Overflow = spec.TextWidth > available

	spec.Width = math.Min(style.MaxWidth, math.Max(style.MinWidth, roundUp(spec.TextWidth+2*style.Margin, style.WidthStep)))
	return spec, nil
}

// shrinkToFit finds the largest font size, at 0.05 granularity and not below
// minSize, at which text fits into available.
func shrinkToFit(m TextMeasurer, text string, size, minSize, available float64) (float64, float64) {
	width := m.Measure(text, size)
	if width <= 0 {
		return size, width
	}

	// Measurements scale almost linearly with size, so start from the
	// proportional guess and step down from there.
	candidate := math.Floor(size*available/width*100) / 100
	for i := 0; i < 100; i++ {
		if candidate <= minSize {
			return minSize, m.Measure(text, minSize)
		}
		if w := m.Measure(text, candidate); w <= available {
			return candidate, w
		}
		candidate = math.Round((candidate-0.05)*100) / 100
	}
	return minSize, m.Measure(text, minSize)
}

// roundUp rounds v up to the next multiple of step. A step of 0 returns v.
func roundUp(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	// tolerate float noise so that e.g. 85.0000000001 stays 85
	return math.Ceil(v/step-1e-9) * step
}
