package starsys

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyKind defines whether a body's position is ever advanced by its velocity.
type BodyKind uint8

const (
	// Movable bodies are fully integrated.
	Movable BodyKind = iota
	// Fixed bodies pull on others but never move (e.g. a star).
	Fixed
)

func (k BodyKind) String() string {
	switch k {
	case Movable:
		return "movable"
	case Fixed:
		return "fixed"
	}
	panic("cannot stringify unknown body kind")
}

// BodyKindFromString returns the kind from its name.
func BodyKindFromString(name string) (BodyKind, error) {
	switch strings.ToLower(name) {
	case "", "movable", "dynamic":
		return Movable, nil
	case "fixed", "static":
		return Fixed, nil
	default:
		return Movable, fmt.Errorf("undefined body kind '%s'", name)
	}
}

// BodyID is the stable handle of a body registered in an Engine.
type BodyID uint32

// Body is a point mass participating in the gravity simulation.
// Mass must be strictly positive: it is divided by when converting force to acceleration.
type Body struct {
	Name     string
	Position mgl64.Vec3
	Velocity mgl64.Vec3 // Only applied to the position of Movable bodies.
	Mass     float64
	Kind     BodyKind
}

// DefaultBody returns a Movable body at the origin with unit mass and no velocity.
func DefaultBody() Body {
	return Body{Mass: 1, Kind: Movable}
}

// NewBody returns a new Movable body at rest.
func NewBody(name string, pos mgl64.Vec3, mass float64) *Body {
	return &Body{Name: name, Position: pos, Mass: mass, Kind: Movable}
}

// NewFixedBody returns a new Fixed body at rest.
func NewFixedBody(name string, pos mgl64.Vec3, mass float64) *Body {
	return &Body{Name: name, Position: pos, Mass: mass, Kind: Fixed}
}

// Activate registers this body into the provided engine and returns its handle.
func (b *Body) Activate(e *Engine) BodyID {
	return e.AddBody(b)
}

// IsFinite returns whether the position and velocity of this body are all finite.
func (b Body) IsFinite() bool {
	return finite(b.Position) && finite(b.Velocity)
}

// String implements the Stringer interface.
func (b Body) String() string {
	name := b.Name
	if name == "" {
		name = "body"
	}
	return fmt.Sprintf("%s (%s, m=%g) r=%+v v=%+v", name, b.Kind, b.Mass, b.Position, b.Velocity)
}
