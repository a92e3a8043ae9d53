package stl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/philipparndt/gonameplate/pkg/geometry"
)

// WriteASCII writes m as an ASCII STL document.
func WriteASCII(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	name := m.Name
	if name == "" {
		name = "model"
	}

	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range m.Triangles {
		n := t.Normal
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		bw.WriteString("    outer loop\n")
		for _, v := range t.Vertices() {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		bw.WriteString("    endloop\n")
		bw.WriteString("  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)

	return bw.Flush()
}

// Box returns the closed axis aligned box spanning min and max.
func Box(name string, min, max geometry.Vector3) *Model {
	m := NewModel(name)

	p000 := geometry.NewVector3(min.X, min.Y, min.Z)
	p100 := geometry.NewVector3(max.X, min.Y, min.Z)
	p110 := geometry.NewVector3(max.X, max.Y, min.Z)
	p010 := geometry.NewVector3(min.X, max.Y, min.Z)
	p001 := geometry.NewVector3(min.X, min.Y, max.Z)
	p101 := geometry.NewVector3(max.X, min.Y, max.Z)
	p111 := geometry.NewVector3(max.X, max.Y, max.Z)
	p011 := geometry.NewVector3(min.X, max.Y, max.Z)

	addQuad := func(a, b, c, d geometry.Vector3) {
		for _, tri := range [][3]geometry.Vector3{{a, b, c}, {c, d, a}} {
			t := geometry.Triangle{V1: tri[0], V2: tri[1], V3: tri[2]}
			t.Normal = t.CalculateNormal()
			m.AddTriangle(t)
		}
	}

	addQuad(p000, p010, p110, p100) // bottom
	addQuad(p001, p101, p111, p011) // top
	addQuad(p000, p100, p101, p001) // front
	addQuad(p100, p110, p111, p101) // right
	addQuad(p110, p010, p011, p111) // back
	addQuad(p010, p000, p001, p011) // left

	return m
}
