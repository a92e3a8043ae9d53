package preview

import (
	"image"
	"image/color"
	"math"
)

type screenPoint struct {
	x, y, z float64
}

// edgeAt returns the point on the edge a-b at scanline y.
func edgeAt(a, b screenPoint, y float64) screenPoint {
	if a.y == b.y {
		return a
	}
	t := (y - a.y) / (b.y - a.y)
	return screenPoint{x: a.x + t*(b.x-a.x), y: y, z: a.z + t*(b.z-a.z)}
}

// fillTriangle fills a triangle scanline by scanline. A pixel is only drawn
// if it is closer than what depth holds for it.
func fillTriangle(img *image.RGBA, depth []float64, p [3]screenPoint, col color.RGBA) {
	// sort by y, top to bottom
	if p[0].y > p[1].y {
		p[0], p[1] = p[1], p[0]
	}
	if p[1].y > p[2].y {
		p[1], p[2] = p[2], p[1]
	}
	if p[0].y > p[1].y {
		p[0], p[1] = p[1], p[0]
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	yStart := int(math.Max(0, math.Ceil(p[0].y)))
	yEnd := int(math.Min(float64(height-1), math.Floor(p[2].y)))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		a := edgeAt(p[0], p[2], fy)
		var b screenPoint
		if fy < p[1].y {
			b = edgeAt(p[0], p[1], fy)
		} else {
			b = edgeAt(p[1], p[2], fy)
		}
		if a.x > b.x {
			a, b = b, a
		}

		xStart := int(math.Max(0, math.Ceil(a.x)))
		xEnd := int(math.Min(float64(width-1), math.Floor(b.x)))
		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if b.x != a.x {
				t = (float64(x) - a.x) / (b.x - a.x)
			}
			z := a.z + t*(b.z-a.z)

			idx := y*width + x
			if z < depth[idx] {
				depth[idx] = z
				img.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, col)
			}
		}
	}
}
