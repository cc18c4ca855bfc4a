package scene

import (
	"math"

	"github.com/ChristopherRabotin/starsys"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// FollowRate is how fast the camera catches up with its target, per second.
	FollowRate = 3.0
	// LockDistance is the distance under which the camera snaps onto its target.
	LockDistance = 0.01
	// ZoomStep multiplies or divides the zoom on each step.
	ZoomStep = 1.25
	MinZoom  = 0.25
	MaxZoom  = 64.0
)

// Camera looks down on the orbital plane and follows a target entity.
type Camera struct {
	Position mgl64.Vec3 // Point at the center of the view
	Offset   mgl64.Vec3 // Pan relative to the target
	Zoom     float64    // Columns per world unit

	target *Entity
	locked bool
}

// NewCamera returns a camera at the origin.
func NewCamera() Camera {
	return Camera{Zoom: 4}
}

// Target returns the followed entity, if any.
func (c *Camera) Target() *Entity {
	return c.target
}

// ChangeTarget sets the followed entity. The camera glides to it.
func (c *Camera) ChangeTarget(e *Entity) {
	c.target = e
	c.locked = false
}

// Locked returns whether the camera sits on its goal.
func (c *Camera) Locked() bool {
	return c.locked
}

func (c *Camera) goal() mgl64.Vec3 {
	if c.target == nil {
		return c.Offset
	}
	return c.target.Position().Add(c.Offset)
}

// Follow moves the camera towards its goal. dt is the wall clock frame time, in seconds.
func (c *Camera) Follow(dt float64) {
	goal := c.goal()
	if c.locked {
		c.Position = goal
		return
	}
	x := math.Min(math.Max(FollowRate*dt, 0), 1)
	c.Position = starsys.Lerp(c.Position, goal, x)
	if c.Position.Sub(goal).Len() < LockDistance {
		c.Position = goal
		c.locked = true
	}
}

// Pan moves the view by the provided number of columns and rows.
func (c *Camera) Pan(cols, rows float64) {
	c.Offset = c.Offset.Add(mgl64.Vec3{cols / c.Zoom, 0, rows / c.Zoom})
	c.locked = false
}

// Recenter cancels any pan.
func (c *Camera) Recenter() {
	c.Offset = mgl64.Vec3{}
	c.locked = false
}

// ZoomIn magnifies the view.
func (c *Camera) ZoomIn() {
	c.Zoom = math.Min(c.Zoom*ZoomStep, MaxZoom)
}

// ZoomOut shrinks the view.
func (c *Camera) ZoomOut() {
	c.Zoom = math.Max(c.Zoom/ZoomStep, MinZoom)
}
