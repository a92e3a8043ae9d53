package preview

import (
	"math"

	"github.com/philipparndt/gonameplate/pkg/geometry"
)

// Camera is a perspective camera orbiting a target point.
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Field of view in radians
	Distance  float64
	RotationX float64 // Rotation around X axis (vertical)
	RotationY float64 // Rotation around Y axis (horizontal)
}

// NewCamera creates a camera looking down on bbox from above, far enough
// away that the whole box fits an image with the given aspect ratio.
func NewCamera(bbox geometry.BoundingBox, aspect float64) *Camera {
	center := bbox.Center()
	size := bbox.Size()
	fov := math.Pi / 6

	// leave some room around the model
	extent := math.Max(size.X/aspect, size.Y) * 1.2
	distance := extent/(2*math.Tan(fov/2)) + size.Z
	if distance <= 0 {
		distance = 1
	}

	return &Camera{
		Position: center.Add(geometry.NewVector3(0, 0, distance)),
		Target:   center,
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      fov,
		Distance: distance,
	}
}

// UpdatePosition updates camera position based on rotation angles
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Orbit rotates the camera around its target. A negative deltaX moves the
// camera towards the viewer so the plate is seen at an angle.
func (c *Camera) Orbit(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	// stop short of looking straight along Up
	maxAngle := math.Pi/2 - 0.1
	c.RotationX = math.Max(-maxAngle, math.Min(maxAngle, c.RotationX))

	c.UpdatePosition()
}

// Project maps a point to screen coordinates and its depth along the view
// direction.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z <= 0.01 {
		z = 0.01
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}
