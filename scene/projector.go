package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CellAspect is the height of a terminal cell divided by its width.
const CellAspect = 2.1

// Projector maps the orbital plane (x, z) onto a grid of character cells, top-down.
// World +x goes right and world +z goes down.
type Projector struct {
	Width, Height int
	Aspect        float64
}

// NewProjector returns a projector for a grid of the provided size.
func NewProjector(width, height int) Projector {
	return Projector{Width: width, Height: height, Aspect: CellAspect}
}

// Project returns the cell of a world position as seen by the camera, and whether it is on the grid.
func (p Projector) Project(cam *Camera, pos mgl64.Vec3) (col, row int, ok bool) {
	rel := pos.Sub(cam.Position)
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	x := math.Floor(float64(p.Width)/2 + rel[0]*cam.Zoom)
	y := math.Floor(float64(p.Height)/2 + rel[2]*cam.Zoom/aspect)
	if !(x >= 0 && x < float64(p.Width) && y >= 0 && y < float64(p.Height)) {
		// Also rejects NaN.
		return -1, -1, false
	}
	return int(x), int(y), true
}

// Unproject returns the world position at the center of a cell, on the y = 0 plane.
func (p Projector) Unproject(cam *Camera, col, row int) mgl64.Vec3 {
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	x := (float64(col) + 0.5 - float64(p.Width)/2) / cam.Zoom
	z := (float64(row) + 0.5 - float64(p.Height)/2) * aspect / cam.Zoom
	return mgl64.Vec3{cam.Position[0] + x, 0, cam.Position[2] + z}
}
