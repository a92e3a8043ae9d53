// Package preview draws small shaded images of plates without OpenSCAD or
// a GPU. The images serve as 3MF thumbnails and quick visual checks.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/philipparndt/gonameplate/pkg/geometry"
	"github.com/philipparndt/gonameplate/pkg/stl"
)

// Mesh is a model drawn in one color.
type Mesh struct {
	Model *stl.Model
	Color string // #rrggbb
}

// Options control the rendered image.
type Options struct {
	Width  int
	Height int
	// Tilt orbits the camera towards the viewer, in radians. 0 is a top view.
	Tilt float64
	// Background fills the image; nil leaves it transparent.
	Background color.Color
}

// DefaultOptions returns a 256x256 view tilted by about 25 degrees.
func DefaultOptions() Options {
	return Options{Width: 256, Height: 256, Tilt: -0.45}
}

// ErrNothingToDraw is returned when no mesh has triangles.
var ErrNothingToDraw = errors.New("nothing to draw")

var lightDirection = geometry.NewVector3(-0.3, -0.5, 1).Normalize()

// Render draws meshes with flat shading from a single light.
func Render(meshes []Mesh, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}

	bbox := geometry.NewBoundingBox()
	colors := make([]colorful.Color, len(meshes))
	for i, mesh := range meshes {
		c, err := colorful.Hex(mesh.Color)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		colors[i] = c
		if mesh.Model == nil {
			continue
		}
		for _, t := range mesh.Model.Triangles {
			for _, v := range t.Vertices() {
				bbox.Extend(v)
			}
		}
	}
	if bbox.Empty() {
		return nil, ErrNothingToDraw
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if opts.Background != nil {
		bg := color.RGBAModel.Convert(opts.Background).(color.RGBA)
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
		}
	}
	depth := make([]float64, opts.Width*opts.Height)
	for i := range depth {
		depth[i] = math.Inf(1)
	}

	w, h := float64(opts.Width), float64(opts.Height)
	camera := NewCamera(bbox, w/h)
	camera.Orbit(opts.Tilt, 0)

	for i, mesh := range meshes {
		if mesh.Model == nil {
			continue
		}
		for _, t := range mesh.Model.Triangles {
			normal := t.CalculateNormal()
			if normal == (geometry.Vector3{}) {
				continue
			}
			// two sided
			intensity := 0.35 + 0.65*math.Abs(normal.Dot(lightDirection))

			var p [3]screenPoint
			for j, v := range t.Vertices() {
				x, y, z := camera.Project(v, w, h)
				p[j] = screenPoint{x: x, y: y, z: z}
			}
			fillTriangle(img, depth, p, shade(colors[i], intensity))
		}
	}
	return img, nil
}

func shade(c colorful.Color, intensity float64) color.RGBA {
	r, g, b := c.R*intensity, c.G*intensity, c.B*intensity
	shaded := colorful.Color{R: r, G: g, B: b}.Clamped()
	r8, g8, b8 := shaded.RGB255()
	return color.RGBA{R: r8, G: g8, B: b8, A: 255}
}

// PNG renders meshes and encodes the image as PNG.
func PNG(meshes []Mesh, opts Options) ([]byte, error) {
	img, err := Render(meshes, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG renders meshes into a PNG file at path.
func WritePNG(path string, meshes []Mesh, opts Options) error {
	data, err := PNG(meshes, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
