package geometry

import "testing"

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	if expected := NewVector3(-1, 0, 2); bbox.Min != expected {
		t.Errorf("Min failed: expected %v, got %v", expected, bbox.Min)
	}
	if expected := NewVector3(4, 5, 6); bbox.Max != expected {
		t.Errorf("Max failed: expected %v, got %v", expected, bbox.Max)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.Empty() {
		t.Fatal("new bounding box should be empty")
	}
	if size := bbox.Size(); size != (Vector3{}) {
		t.Errorf("empty box size: expected zero, got %v", size)
	}

	bbox.Extend(NewVector3(1, 1, 1))
	if bbox.Empty() {
		t.Error("box with one point should not be empty")
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(-10, -5, 0))
	bbox.Extend(NewVector3(10, 5, 2))

	if c := bbox.Center(); c != NewVector3(0, 0, 1) {
		t.Errorf("Center failed: got %v", c)
	}
}

func TestBoundingBoxContainsXY(t *testing.T) {
	outer := NewBoundingBox()
	outer.Extend(NewVector3(-20, -5, 0))
	outer.Extend(NewVector3(20, 5, 2))

	inner := NewBoundingBox()
	inner.Extend(NewVector3(-15, -3, 2))
	inner.Extend(NewVector3(15, 3, 3.2))

	if !outer.ContainsXY(inner, 0) {
		t.Error("expected inner footprint to be contained")
	}
	if inner.ContainsXY(outer, 0.5) {
		t.Error("outer footprint must not fit inside inner")
	}
}
