package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gonameplate/pkg/geometry"
	"github.com/philipparndt/gonameplate/pkg/stl"
)

// Summary holds the general measurements of a mesh.
type Summary struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	TriangleCount int
	MinEdgeLength float64
	MaxEdgeLength float64
}

// Summarize measures a model.
func Summarize(model *stl.Model) Summary {
	result := Summary{
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
	}
	result.Dimensions = result.BoundingBox.Size()

	if result.TriangleCount == 0 {
		return result
	}

	result.MinEdgeLength = math.MaxFloat64
	for _, triangle := range model.Triangles {
		v := triangle.Vertices()
		for i := range v {
			length := v[i].Distance(v[(i+1)%3])
			result.MinEdgeLength = math.Min(result.MinEdgeLength, length)
			result.MaxEdgeLength = math.Max(result.MaxEdgeLength, length)
		}
	}
	return result
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// FormatMillimetres formats a length
func FormatMillimetres(v float64) string {
	return fmt.Sprintf("%.3f mm", v)
}
