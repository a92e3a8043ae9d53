package stl

import (
	"testing"

	"github.com/philipparndt/gonameplate/pkg/geometry"
)

func TestMerge(t *testing.T) {
	base := Box("base", geometry.NewVector3(0, 0, 0), geometry.NewVector3(10, 4, 2))
	text := Box("text", geometry.NewVector3(2, 1, 2), geometry.NewVector3(8, 3, 3))

	merged := Merge("plate", base, nil, text)
	if merged.Name != "plate" {
		t.Errorf("expected name plate, got %q", merged.Name)
	}
	if merged.TriangleCount() != 24 {
		t.Fatalf("expected 24 triangles, got %d", merged.TriangleCount())
	}

	bbox := merged.BoundingBox()
	if !bbox.Max.ApproxEqual(geometry.NewVector3(10, 4, 3), 1e-12) {
		t.Errorf("unexpected max %v", bbox.Max)
	}

	// the inputs are untouched
	if base.TriangleCount() != 12 || text.TriangleCount() != 12 {
		t.Errorf("inputs changed: %d, %d", base.TriangleCount(), text.TriangleCount())
	}
}

func TestTranslate(t *testing.T) {
	m := Box("text", geometry.NewVector3(0, 0, 2), geometry.NewVector3(1, 1, 3))
	m.Translate(geometry.NewVector3(0, 0, 0.5))

	bbox := m.BoundingBox()
	if bbox.Min.Z != 2.5 || bbox.Max.Z != 3.5 {
		t.Errorf("expected z 2.5..3.5, got %v..%v", bbox.Min.Z, bbox.Max.Z)
	}
}

func TestEmptyModel(t *testing.T) {
	var m *Model
	if m.TriangleCount() != 0 {
		t.Error("nil model should have no triangles")
	}
	if !NewModel("empty").BoundingBox().Empty() {
		t.Error("empty model should have an empty bounding box")
	}
}
