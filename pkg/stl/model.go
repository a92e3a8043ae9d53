package stl

import (
	"github.com/philipparndt/gonameplate/pkg/geometry"
)

// Model is a triangle soup, as rendered by OpenSCAD or built in code.
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// Merge concatenates the triangles of models into a new model. Shared
// vertices are not welded; writers that need an indexed mesh do that.
func Merge(name string, models ...*Model) *Model {
	count := 0
	for _, m := range models {
		count += m.TriangleCount()
	}
	merged := &Model{Name: name, Triangles: make([]geometry.Triangle, 0, count)}
	for _, m := range models {
		if m != nil {
			merged.Triangles = append(merged.Triangles, m.Triangles...)
		}
	}
	return merged
}

func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount is safe to call on a nil model.
func (m *Model) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles)
}

// Translate moves every triangle by offset in place.
func (m *Model) Translate(offset geometry.Vector3) {
	for i, t := range m.Triangles {
		m.Triangles[i] = t.Translate(offset)
	}
}

// BoundingBox returns the extent of all vertices. It is empty for a
// model without triangles.
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, t := range m.Triangles {
		for _, v := range t.Vertices() {
			bbox.Extend(v)
		}
	}
	return bbox
}

// SurfaceArea sums the triangle areas in mm².
func (m *Model) SurfaceArea() float64 {
	var total float64
	for _, t := range m.Triangles {
		total += t.Area()
	}
	return total
}
