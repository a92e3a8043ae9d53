package threemf

import (
	"encoding/xml"
	"strconv"

	"github.com/philipparndt/gonameplate/pkg/geometry"
	"github.com/philipparndt/gonameplate/pkg/stl"
)

const (
	coreNamespace       = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	productionNamespace = "http://schemas.microsoft.com/3dmanufacturing/production/2015/06"
	bambuNamespace      = "http://schemas.bambulab.com/package/2021"

	identityTransform = "1 0 0 0 1 0 0 0 1 0 0 0"
	identityMatrix    = "1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1"
)

// Element names carry their prefixes literally; encoding/xml writes them
// unchanged, which is what slicers expect.

type xmlModel struct {
	XMLName    xml.Name      `xml:"model"`
	Unit       string        `xml:"unit,attr"`
	Lang       string        `xml:"xml:lang,attr"`
	Xmlns      string        `xml:"xmlns,attr"`
	XmlnsP     string        `xml:"xmlns:p,attr"`
	XmlnsBambu string        `xml:"xmlns:BambuStudio,attr"`
	Metadata   []xmlMetadata `xml:"metadata"`
	Resources  xmlResources  `xml:"resources"`
	Build      xmlBuild      `xml:"build"`
}

type xmlMetadata struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlResources struct {
	BaseMaterials *xmlBaseMaterials `xml:"basematerials,omitempty"`
	Objects       []xmlObject       `xml:"object"`
}

type xmlBaseMaterials struct {
	ID    int       `xml:"id,attr"`
	Bases []xmlBase `xml:"base"`
}

type xmlBase struct {
	Name         string `xml:"name,attr"`
	DisplayColor string `xml:"displaycolor,attr"`
}

type xmlObject struct {
	ID         int            `xml:"id,attr"`
	UUID       string         `xml:"p:UUID,attr"`
	Type       string         `xml:"type,attr"`
	Name       string         `xml:"name,attr,omitempty"`
	PID        int            `xml:"pid,attr,omitempty"`
	PIndex     *int           `xml:"pindex,attr,omitempty"`
	Mesh       *xmlMesh       `xml:"mesh,omitempty"`
	Components *xmlComponents `xml:"components,omitempty"`
}

type xmlMesh struct {
	Vertices  []xmlVertex   `xml:"vertices>vertex"`
	Triangles []xmlTriangle `xml:"triangles>triangle"`
}

type xmlVertex struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
	Z string `xml:"z,attr"`
}

type xmlTriangle struct {
	V1 int `xml:"v1,attr"`
	V2 int `xml:"v2,attr"`
	V3 int `xml:"v3,attr"`
}

type xmlComponents struct {
	Components []xmlComponent `xml:"component"`
}

type xmlComponent struct {
	ObjectID  int    `xml:"objectid,attr"`
	UUID      string `xml:"p:UUID,attr"`
	Transform string `xml:"transform,attr"`
}

type xmlBuild struct {
	UUID  string    `xml:"p:UUID,attr"`
	Items []xmlItem `xml:"item"`
}

type xmlItem struct {
	ObjectID  int    `xml:"objectid,attr"`
	UUID      string `xml:"p:UUID,attr"`
	Transform string `xml:"transform,attr"`
	Printable string `xml:"printable,attr"`
}

// buildMesh converts an STL triangle soup into an indexed mesh, merging
// vertices that are bit-identical.
func buildMesh(model *stl.Model) *xmlMesh {
	mesh := &xmlMesh{
		Triangles: make([]xmlTriangle, 0, len(model.Triangles)),
	}
	index := make(map[geometry.Vector3]int, len(model.Triangles))

	vertex := func(v geometry.Vector3) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := len(mesh.Vertices)
		index[v] = i
		mesh.Vertices = append(mesh.Vertices, xmlVertex{X: formatCoord(v.X), Y: formatCoord(v.Y), Z: formatCoord(v.Z)})
		return i
	}

	for _, t := range model.Triangles {
		a, b, c := vertex(t.V1), vertex(t.V2), vertex(t.V3)
		// degenerate after merging; 3MF consumers reject these
		if a == b || b == c || a == c {
			continue
		}
		mesh.Triangles = append(mesh.Triangles, xmlTriangle{V1: a, V2: b, V3: c})
	}
	return mesh
}

// STL stores float32, so float32 precision is all there is to keep.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 32)
}
