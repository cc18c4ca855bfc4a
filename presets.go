package starsys

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Preset defines a named body at the visual scale of the simulation.
// Distances and masses are not physical: only their ratios matter for a pleasant orbit.
type Preset struct {
	Name     string
	Mass     float64
	Radius   float64 // Display radius
	Distance float64 // Distance to the star
	Kind     BodyKind
}

// String implements the Stringer interface.
func (p Preset) String() string {
	return p.Name + " preset"
}

// Body returns a new body from this preset, placed on the -X axis at its distance from the star.
func (p Preset) Body() *Body {
	return &Body{Name: p.Name, Position: mgl64.Vec3{-p.Distance, 0, 0}, Mass: p.Mass, Kind: p.Kind}
}

// PresetFromString returns the preset from its name.
func PresetFromString(name string) (Preset, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "mercury":
		return Mercury, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	default:
		return Preset{}, fmt.Errorf("undefined preset '%s'", name)
	}
}

// CircularOrbitVelocity returns the velocity of a circular orbit of the provided position about the
// central body, in the plane perpendicular to Y (the "up" axis). The central body's velocity is added.
func CircularOrbitVelocity(G float64, central Body, pos mgl64.Vec3) mgl64.Vec3 {
	r := pos.Sub(central.Position)
	dist := norm(r)
	if dist == 0 {
		return central.Velocity
	}
	up := mgl64.Vec3{0, 1, 0}
	dir := unit(r.Cross(up))
	if dir == (mgl64.Vec3{}) {
		// Position along the up axis: orbit in the X-Y plane instead.
		dir = unit(r.Cross(mgl64.Vec3{1, 0, 0}))
	}
	v := math.Sqrt(G * central.Mass / dist)
	return central.Velocity.Add(dir.Mul(v))
}

/* Definitions */

// Sun is the fixed star at the center.
var Sun = Preset{"Sun", 1000, 1, 0, Fixed}

// Mercury is quick.
var Mercury = Preset{"Mercury", 0.05, 0.08, 2.5, Movable}

// Venus is cloudy.
var Venus = Preset{"Venus", 0.8, 0.18, 3.7, Movable}

// Earth is home.
var Earth = Preset{"Earth", 1, 0.2, 5, Movable}

// Mars is red.
var Mars = Preset{"Mars", 0.1, 0.12, 7.5, Movable}

// Jupiter is big.
var Jupiter = Preset{"Jupiter", 30, 0.6, 13, Movable}
