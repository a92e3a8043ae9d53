package batch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/philipparndt/gonameplate/pkg/openscad"
)

// Artifact is a kind of output file generated per name.
type Artifact string

const (
	// ArtifactSTL is the combined single material mesh, <id>.stl.
	ArtifactSTL Artifact = "stl"
	// ArtifactParts are the separately rendered <id>_base.stl and <id>_text.stl.
	ArtifactParts Artifact = "parts"
	// Artifact3MF is <id>.3mf with base and text as parts on extruders 1 and 2.
	Artifact3MF Artifact = "3mf"
	// ArtifactPainted is <id>_painted.3mf, one mesh colored by height range.
	ArtifactPainted Artifact = "3mf-painted"
	// ArtifactPreview is <id>.png, a shaded picture of the plate.
	ArtifactPreview Artifact = "png"
)

// AllArtifacts lists every artifact in output order.
var AllArtifacts = []Artifact{ArtifactSTL, ArtifactParts, Artifact3MF, ArtifactPainted, ArtifactPreview}

// DefaultArtifacts are generated when nothing else is requested.
var DefaultArtifacts = []Artifact{ArtifactSTL, ArtifactParts, Artifact3MF}

// ParseArtifacts reads artifact names, accepting comma separated lists and
// "all". The result is deduplicated and in output order.
func ParseArtifacts(values []string) ([]Artifact, error) {
	requested := make(map[Artifact]bool)
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			switch {
			case name == "":
				continue
			case name == "all":
				for _, a := range AllArtifacts {
					requested[a] = true
				}
			case slices.Contains(AllArtifacts, Artifact(name)):
				requested[Artifact(name)] = true
			default:
				return nil, fmt.Errorf("unknown artifact %q (expected stl, parts, 3mf, 3mf-painted, png or all)", name)
			}
		}
	}

	var out []Artifact
	for _, a := range AllArtifacts {
		if requested[a] {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no artifacts selected")
	}
	return out, nil
}

// renderParts returns the OpenSCAD parts needed to build artifacts.
func renderParts(artifacts []Artifact) []openscad.Part {
	var parts []openscad.Part
	if slices.Contains(artifacts, ArtifactSTL) {
		parts = append(parts, openscad.Combined)
	}
	if slices.ContainsFunc(artifacts, needsLayers) {
		parts = append(parts, openscad.Base, openscad.Text)
	}
	return parts
}

// needsLayers reports whether a is built from the separate base and text meshes.
func needsLayers(a Artifact) bool {
	return a == ArtifactParts || a == Artifact3MF || a == ArtifactPainted || a == ArtifactPreview
}

// paintedSuffix marks the painted 3MF of an identifier.
const paintedSuffix = "_painted"

// fileName returns the output file name of part for id.
func fileName(id string, part openscad.Part, ext string) string {
	if part == openscad.Combined {
		return id + ext
	}
	return id + "_" + string(part) + ext
}
