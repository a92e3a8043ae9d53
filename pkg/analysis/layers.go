package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gonameplate/pkg/geometry"
	"github.com/philipparndt/gonameplate/pkg/nameplate"
	"github.com/philipparndt/gonameplate/pkg/stl"
)

// Tolerances bound the differences CheckLayers accepts. Meshes come out of
// OpenSCAD as float32 STL, so exact comparisons are not possible.
type Tolerances struct {
	Z      float64 // gap or overlap between base top and text bottom
	Center float64 // XY offset between text and base footprint centers
	Size   float64 // base size against the computed plate
}

// DefaultTolerances fit OpenSCAD STL output. The center tolerance is loose
// because glyph outlines are not symmetric around their advance box.
var DefaultTolerances = Tolerances{Z: 0.001, Center: 1.0, Size: 0.05}

// LayerReport is the result of checking a rendered base/text pair.
type LayerReport struct {
	BaseBox      geometry.BoundingBox
	TextBox      geometry.BoundingBox
	Gap          float64 // text bottom minus base top; negative means overlap
	CenterOffset geometry.Vector3
	Problems     []string
}

// OK reports whether no problem was found.
func (r LayerReport) OK() bool {
	return len(r.Problems) == 0
}

// CheckLayers verifies that the text mesh sits flush on the base mesh and
// is centered within its footprint. If spec is not nil, the base is also
// compared against the computed plate dimensions.
func CheckLayers(base, text *stl.Model, spec *nameplate.PlateSpec, tol Tolerances) LayerReport {
	report := LayerReport{
		BaseBox: base.BoundingBox(),
		TextBox: text.BoundingBox(),
	}
	if report.BaseBox.Empty() || report.TextBox.Empty() {
		report.Problems = append(report.Problems, "mesh is empty")
		return report
	}

	report.Gap = report.TextBox.Min.Z - report.BaseBox.Max.Z
	if math.Abs(report.Gap) > tol.Z {
		kind := "gap"
		if report.Gap < 0 {
			kind = "overlap"
		}
		report.Problems = append(report.Problems,
			fmt.Sprintf("text starts at z=%.4f but base ends at z=%.4f (%s of %.4f mm)",
				report.TextBox.Min.Z, report.BaseBox.Max.Z, kind, math.Abs(report.Gap)))
	}

	offset := report.TextBox.Center().Sub(report.BaseBox.Center())
	report.CenterOffset = geometry.NewVector3(offset.X, offset.Y, 0)
	if math.Abs(offset.X) > tol.Center || math.Abs(offset.Y) > tol.Center {
		report.Problems = append(report.Problems,
			fmt.Sprintf("text is off center by %s", FormatVector(report.CenterOffset)))
	}

	if !report.BaseBox.ContainsXY(report.TextBox, tol.Size) {
		report.Problems = append(report.Problems, "text overhangs the base footprint")
	}

	if spec != nil {
		footprint := spec.Footprint()
		size, want := report.BaseBox.Size(), footprint.Size()
		if math.Abs(size.X-want.X) > tol.Size || math.Abs(size.Y-want.Y) > tol.Size {
			report.Problems = append(report.Problems,
				fmt.Sprintf("base is %.2f x %.2f mm, expected %g x %g mm", size.X, size.Y, want.X, want.Y))
		}
		if math.Abs(report.BaseBox.Max.Z-spec.Base().ZEnd) > tol.Z {
			report.Problems = append(report.Problems,
				fmt.Sprintf("base top at z=%.4f, expected %g", report.BaseBox.Max.Z, spec.Base().ZEnd))
		}
		if math.Abs(report.TextBox.Max.Z-footprint.Max.Z) > tol.Z {
			report.Problems = append(report.Problems,
				fmt.Sprintf("text top at z=%.4f, expected %g", report.TextBox.Max.Z, footprint.Max.Z))
		}
	}

	return report
}
