package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/philipparndt/gonameplate/pkg/geometry"
	"github.com/philipparndt/gonameplate/pkg/nameplate"
	"github.com/philipparndt/gonameplate/pkg/stl"
)

// box builds the two triangles of the bottom and top faces of an
// axis-aligned box, which is enough for bounding box checks.
func box(min, max geometry.Vector3) *stl.Model {
	m := stl.NewModel("box")
	n := geometry.Vector3{}
	m.AddTriangle(geometry.NewTriangle(n, min, geometry.NewVector3(max.X, min.Y, min.Z), geometry.NewVector3(max.X, max.Y, min.Z)))
	m.AddTriangle(geometry.NewTriangle(n, geometry.NewVector3(min.X, min.Y, max.Z), geometry.NewVector3(max.X, max.Y, max.Z), geometry.NewVector3(min.X, max.Y, max.Z)))
	return m
}

func plateSpec(t *testing.T) nameplate.PlateSpec {
	t.Helper()
	spec, err := nameplate.ComputePlate("Hadi Jaffri", nameplate.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	return spec
}

func TestCheckLayersAligned(t *testing.T) {
	spec := plateSpec(t)
	base := box(geometry.NewVector3(-42.5, -6.75, 0), geometry.NewVector3(42.5, 6.75, 2))
	text := box(geometry.NewVector3(-34, -3.2, 2), geometry.NewVector3(34.4, 3.5, 3.2))

	report := CheckLayers(base, text, &spec, DefaultTolerances)
	if !report.OK() {
		t.Fatalf("expected aligned layers, got problems: %v", report.Problems)
	}
	if report.Gap != 0 {
		t.Errorf("Gap: expected 0, got %v", report.Gap)
	}
}

func TestCheckLayersGapAndOverlap(t *testing.T) {
	base := box(geometry.NewVector3(-20, -5, 0), geometry.NewVector3(20, 5, 2))

	tests := []struct {
		name string
		z    float64
		want string
	}{
		{"gap", 2.5, "gap of 0.5000"},
		{"overlap", 1.8, "overlap of 0.2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := box(geometry.NewVector3(-10, -2, tt.z), geometry.NewVector3(10, 2, tt.z+1))
			report := CheckLayers(base, text, nil, DefaultTolerances)
			if report.OK() {
				t.Fatal("expected a problem")
			}
			if !strings.Contains(strings.Join(report.Problems, "\n"), tt.want) {
				t.Errorf("problems %v do not mention %q", report.Problems, tt.want)
			}
		})
	}
}

func TestCheckLayersOffCenterAndOverhang(t *testing.T) {
	base := box(geometry.NewVector3(-20, -5, 0), geometry.NewVector3(20, 5, 2))
	text := box(geometry.NewVector3(0, -2, 2), geometry.NewVector3(25, 2, 3))

	report := CheckLayers(base, text, nil, DefaultTolerances)
	if len(report.Problems) != 2 {
		t.Fatalf("expected off-center and overhang problems, got %v", report.Problems)
	}
	if math.Abs(report.CenterOffset.X-12.5) > 1e-9 {
		t.Errorf("CenterOffset: expected 12.5, got %v", report.CenterOffset.X)
	}
}

func TestCheckLayersWrongPlateSize(t *testing.T) {
	spec := plateSpec(t)
	base := box(geometry.NewVector3(-40, -6.75, 0), geometry.NewVector3(40, 6.75, 2))
	text := box(geometry.NewVector3(-30, -3, 2), geometry.NewVector3(30, 3, 3.2))

	report := CheckLayers(base, text, &spec, DefaultTolerances)
	if report.OK() || !strings.Contains(report.Problems[0], "expected 85 x 13.5") {
		t.Errorf("expected size mismatch, got %v", report.Problems)
	}
}

func TestCheckLayersWrongTextHeight(t *testing.T) {
	spec := plateSpec(t)
	base := box(geometry.NewVector3(-42.5, -6.75, 0), geometry.NewVector3(42.5, 6.75, 2))
	text := box(geometry.NewVector3(-30, -3, 2), geometry.NewVector3(30, 3, 4))

	report := CheckLayers(base, text, &spec, DefaultTolerances)
	if len(report.Problems) != 1 || !strings.Contains(report.Problems[0], "text top at z=4.0000, expected 3.2") {
		t.Errorf("expected text height problem, got %v", report.Problems)
	}
}

func TestCheckLayersEmptyMesh(t *testing.T) {
	report := CheckLayers(stl.NewModel("a"), stl.NewModel("b"), nil, DefaultTolerances)
	if report.OK() {
		t.Error("empty meshes must be reported")
	}
}

func TestSummarize(t *testing.T) {
	model := box(geometry.NewVector3(0, 0, 0), geometry.NewVector3(3, 4, 1))
	s := Summarize(model)

	if s.TriangleCount != 2 {
		t.Errorf("TriangleCount: expected 2, got %d", s.TriangleCount)
	}
	if s.Dimensions != geometry.NewVector3(3, 4, 1) {
		t.Errorf("Dimensions: got %v", s.Dimensions)
	}
	if math.Abs(s.SurfaceArea-12) > 1e-9 {
		t.Errorf("SurfaceArea: expected 12, got %v", s.SurfaceArea)
	}
	if s.MinEdgeLength != 3 || s.MaxEdgeLength != 5 {
		t.Errorf("edge lengths: got %v .. %v", s.MinEdgeLength, s.MaxEdgeLength)
	}
	if got := FormatVector(geometry.NewVector3(1, 2.5, -3)); got != "(1.000, 2.500, -3.000)" {
		t.Errorf("FormatVector: got %s", got)
	}
}
