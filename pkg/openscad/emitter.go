package openscad

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/philipparndt/gonameplate/pkg/nameplate"
)

// Part selects which solid of a plate a script describes.
type Part string

const (
	// Combined is the base and text merged into one solid.
	Combined Part = "combined"
	// Base is the plate with its pin holes.
	Base Part = "base"
	// Text is the raised lettering, positioned on top of the base.
	Text Part = "text"
)

// Parts lists all parts in output order.
var Parts = []Part{Combined, Base, Text}

// ParsePart converts a command line value into a Part.
func ParsePart(s string) (Part, error) {
	switch p := Part(strings.ToLower(strings.TrimSpace(s))); p {
	case Combined, Base, Text:
		return p, nil
	default:
		return "", fmt.Errorf("unknown part %q (expected combined, base or text)", s)
	}
}

// Both solids are centered on the origin in XY. The text starts exactly at
// the base top (text_z) so the separately rendered parts line up in a slicer.
const scadSource = `// {{.Title}} for {{comment .Spec.Name}}
// width follows the text length; regenerate instead of editing by hand

plate_width = {{num .Spec.Width}};
plate_height = {{num .Spec.Height}};
plate_thickness = {{num .Spec.Base.Thickness}};
text_height = {{num .Spec.Text.Thickness}};
text_z = {{num .Spec.TextOrigin.Z}};
corner_radius = {{num .Spec.CornerRadius}};
pin_hole_diameter = {{num .Spec.PinHole.Diameter}};
pin_hole_from_edge = {{num .Spec.PinHole.Offset}};
{{- with .Spec.PinHoleCenters}}
pin_hole_centers = [{{range $i, $c := .}}{{if $i}}, {{end}}[{{num $c.X}}, {{num $c.Y}}]{{end}}];
{{- end}}
font_size = {{num .Spec.FontSize}};
font_name = "{{quote .Spec.Font}}";
label = "{{quote .Spec.Name}}";

$fn = {{.Spec.Resolution}};

module rounded_rectangle(width, height, thickness, radius) {
    linear_extrude(height = thickness)
        offset(r = radius)
            offset(r = -radius)
                square([width, height], center = true);
}

module nameplate_base() {
    difference() {
        rounded_rectangle(plate_width, plate_height, plate_thickness, corner_radius);
{{- if .Spec.PinHoleCenters}}
        for (center = pin_hole_centers)
            translate([center[0], center[1], plate_thickness/2])
                cylinder(h = plate_thickness + 1, r = pin_hole_diameter/2, center = true);
{{- end}}
    }
}

module nameplate_text() {
    translate([0, 0, text_z])
        linear_extrude(height = text_height, convexity = 10)
            text(label, size = font_size, font = font_name, halign = "center", valign = "center");
}
{{if eq .Part "combined"}}
union() {
    nameplate_base();
    nameplate_text();
}
{{- else if eq .Part "base"}}
color("{{.Spec.Base.Color}}")
    nameplate_base();
{{- else}}
color("{{.Spec.Text.Color}}")
    nameplate_text();
{{- end}}
`

var scadTemplate = template.Must(template.New("nameplate.scad").Funcs(template.FuncMap{
	"num":     formatNumber,
	"quote":   quoteString,
	"comment": func(s string) string { return strings.NewReplacer("\n", " ", "\r", " ").Replace(s) },
}).Parse(scadSource))

type scadData struct {
	Title string
	Part  Part
	Spec  nameplate.PlateSpec
}

var titles = map[Part]string{
	Combined: "Nameplate",
	Base:     "Base plate",
	Text:     "Raised text",
}

// Emit writes the OpenSCAD script for one part of the plate.
func Emit(w io.Writer, spec nameplate.PlateSpec, part Part) error {
	title, ok := titles[part]
	if !ok {
		return fmt.Errorf("unknown part %q", part)
	}
	data := scadData{Title: title, Part: part, Spec: spec}
	if err := scadTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to emit %s script for %q: %w", part, spec.Name, err)
	}
	return nil
}

// Source returns the OpenSCAD script for one part of the plate.
func Source(spec nameplate.PlateSpec, part Part) ([]byte, error) {
	var buf bytes.Buffer
	if err := Emit(&buf, spec, part); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatNumber prints the shortest representation that round-trips, so
// 13.5 stays 13.5 and 85 stays 85.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quoteString escapes s for use inside an OpenSCAD string literal.
func quoteString(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", "",
		"\t", `\t`,
	).Replace(s)
}
