package scene

import (
	"github.com/ChristopherRabotin/starsys"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind distinguishes the entities of a scene.
type Kind uint8

const (
	// Star entities are lit, fixed and drawn large.
	Star Kind = iota
	// Planet entities orbit.
	Planet
)

func (k Kind) String() string {
	switch k {
	case Star:
		return "star"
	case Planet:
		return "planet"
	}
	panic("cannot stringify unknown entity kind")
}

// DefaultRadius is the display radius of entities which do not define one.
const DefaultRadius = 0.2

// Entity is a drawable object owning the body simulated by the engine.
type Entity struct {
	Name   string
	Kind   Kind
	Radius float64
	Body   starsys.Body

	engine *starsys.Engine
	id     starsys.BodyID
}

// NewStar returns a star entity. Its body is Fixed.
func NewStar(name string, pos mgl64.Vec3, mass, radius float64) Entity {
	return Entity{Name: name, Kind: Star, Radius: radius, Body: *starsys.NewFixedBody(name, pos, mass)}
}

// NewPlanet returns a planet entity. Its body is Movable.
func NewPlanet(name string, pos, vel mgl64.Vec3, mass, radius float64) Entity {
	b := starsys.NewBody(name, pos, mass)
	b.Velocity = vel
	return Entity{Name: name, Kind: Planet, Radius: radius, Body: *b}
}

// FromPreset returns the entity of a preset, at rest.
func FromPreset(p starsys.Preset) Entity {
	if p.Kind == starsys.Fixed {
		return NewStar(p.Name, mgl64.Vec3{-p.Distance, 0, 0}, p.Mass, p.Radius)
	}
	return NewPlanet(p.Name, mgl64.Vec3{-p.Distance, 0, 0}, mgl64.Vec3{}, p.Mass, p.Radius)
}

// Activate registers the body of this entity into the engine. An entity is active in at most one
// engine: activating it elsewhere first destroys it.
func (e *Entity) Activate(engine *starsys.Engine) starsys.BodyID {
	if e.engine == engine {
		return e.id
	}
	e.Destroy()
	e.engine = engine
	e.id = e.Body.Activate(engine)
	return e.id
}

// Destroy unregisters the body of this entity. Destroying an inactive entity is a no-op.
func (e *Entity) Destroy() {
	if e.engine == nil {
		return
	}
	e.engine.Remove(e.id)
	e.engine = nil
	e.id = 0
}

// Active returns whether this entity is registered in an engine.
func (e *Entity) Active() bool {
	return e.engine != nil
}

// ID returns the handle of the body in its engine.
func (e *Entity) ID() starsys.BodyID {
	return e.id
}

// Position returns the live position of this entity.
func (e *Entity) Position() mgl64.Vec3 {
	return e.Body.Position
}

// Glyph returns the character used to draw this entity.
func (e *Entity) Glyph() rune {
	switch {
	case e.Kind == Star:
		return '@'
	case e.Radius >= 0.5:
		return 'O'
	default:
		return 'o'
	}
}
