package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	// Right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	if area := tri.Area(); math.Abs(area-6.0) > 1e-10 {
		t.Errorf("Area failed: expected 6, got %v", area)
	}
}

func TestTriangleCalculateNormal(t *testing.T) {
	tri := NewTriangle(
		Vector3{},
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
	)

	expected := NewVector3(0, 0, 1)
	if n := tri.CalculateNormal(); n != expected {
		t.Errorf("CalculateNormal failed: expected %v, got %v", expected, n)
	}
}

func TestTriangleTranslate(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
	)

	moved := tri.Translate(NewVector3(0, 0, 2))
	if moved.V1.Z != 2 || moved.V2.Z != 2 || moved.V3.Z != 2 {
		t.Errorf("Translate failed: got %v", moved)
	}
	if moved.Normal != tri.Normal {
		t.Errorf("Translate changed the normal: %v", moved.Normal)
	}
}
