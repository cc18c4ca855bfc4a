package scene

import (
	"os"

	"github.com/ChristopherRabotin/starsys"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-gl/mathgl/mgl64"
)

// Scene owns the entities of a simulation and the engine integrating their bodies.
type Scene struct {
	Camera         Camera
	ShowPrediction bool

	engine  *starsys.Engine
	stars   []*Entity
	planets []*Entity
	order   []*Entity // insertion order, also the camera target cycle
	segs    []mgl64.Vec3
	logger  kitlog.Logger
}

// New returns an empty scene driving the provided engine.
func New(engine *starsys.Engine) *Scene {
	return &Scene{
		Camera:         NewCamera(),
		ShowPrediction: true,
		engine:         engine,
		logger:         kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr)),
	}
}

// FromScenario builds the engine and the entities of a scenario.
// Fixed bodies become stars and Movable ones become planets.
func FromScenario(s starsys.Scenario, src starsys.TimeSource, logger kitlog.Logger) *Scene {
	engine := starsys.NewEngine(s.Engine, src)
	sc := New(engine)
	if logger != nil {
		sc.SetLogger(logger)
	}
	for i, b := range s.NewBodies() {
		radius := s.Bodies[i].Radius
		if radius <= 0 {
			radius = DefaultRadius
		}
		var e Entity
		if b.Kind == starsys.Fixed {
			e = NewStar(b.Name, b.Position, b.Mass, radius)
			e.Body.Velocity = b.Velocity
		} else {
			e = NewPlanet(b.Name, b.Position, b.Velocity, b.Mass, radius)
		}
		sc.Add(e)
	}
	return sc
}

// SetLogger sets the logger of this scene and of its engine.
func (s *Scene) SetLogger(logger kitlog.Logger) {
	s.logger = logger
	s.engine.SetLogger(logger)
}

// Engine returns the engine of this scene.
func (s *Scene) Engine() *starsys.Engine {
	return s.engine
}

// Add copies the entity into the scene, activates it and returns the scene's copy.
// The first entity added becomes the camera target.
func (s *Scene) Add(e Entity) *Entity {
	ent := &e
	if ent.Radius <= 0 {
		ent.Radius = DefaultRadius
	}
	// The copy still refers to the caller's registration, which must not linger in the engine.
	ent.Destroy()
	ent.Activate(s.engine)
	switch ent.Kind {
	case Star:
		s.stars = append(s.stars, ent)
	default:
		s.planets = append(s.planets, ent)
	}
	s.order = append(s.order, ent)
	if s.Camera.Target() == nil {
		s.Camera.ChangeTarget(ent)
	}
	s.logger.Log("level", "info", "subsys", "scene", "added", ent.Name, "kind", ent.Kind)
	return ent
}

// Remove destroys the entity and drops it from the scene. If it was the camera target, the camera
// moves to the next entity.
func (s *Scene) Remove(e *Entity) {
	idx := s.index(e)
	if idx < 0 {
		return
	}
	if s.Camera.Target() == e {
		var next *Entity
		if len(s.order) > 1 {
			next = s.order[(idx+1)%len(s.order)]
		}
		s.Camera.ChangeTarget(next)
	}
	e.Destroy()
	s.order = removeEntity(s.order, e)
	s.stars = removeEntity(s.stars, e)
	s.planets = removeEntity(s.planets, e)
	s.logger.Log("level", "info", "subsys", "scene", "removed", e.Name)
}

// Close destroys every entity.
func (s *Scene) Close() {
	for _, e := range s.order {
		e.Destroy()
	}
	s.order, s.stars, s.planets = nil, nil, nil
	s.Camera.ChangeTarget(nil)
}

func (s *Scene) index(e *Entity) int {
	for i, o := range s.order {
		if o == e {
			return i
		}
	}
	return -1
}

func removeEntity(list []*Entity, e *Entity) []*Entity {
	for i, o := range list {
		if o == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Entities returns the entities in insertion order.
func (s *Scene) Entities() []*Entity {
	out := make([]*Entity, len(s.order))
	copy(out, s.order)
	return out
}

// Stars returns the star entities.
func (s *Scene) Stars() []*Entity {
	out := make([]*Entity, len(s.stars))
	copy(out, s.stars)
	return out
}

// Planets returns the planet entities.
func (s *Scene) Planets() []*Entity {
	out := make([]*Entity, len(s.planets))
	copy(out, s.planets)
	return out
}

// Find returns the first entity of the provided name.
func (s *Scene) Find(name string) (*Entity, bool) {
	for _, e := range s.order {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// NextTarget moves the camera to the entity following its current target, wrapping around.
func (s *Scene) NextTarget() *Entity {
	if len(s.order) == 0 {
		return nil
	}
	next := s.order[0]
	if idx := s.index(s.Camera.Target()); idx >= 0 {
		next = s.order[(idx+1)%len(s.order)]
	}
	s.Camera.ChangeTarget(next)
	return next
}

// Update runs one engine update then moves the camera.
func (s *Scene) Update() {
	s.engine.Update()
	s.Camera.Follow(s.engine.FrameTime().Seconds())
}

// SpriteKind orders what is drawn: later kinds are drawn over earlier ones.
type SpriteKind uint8

const (
	// TrailSprite is a point of a predicted path.
	TrailSprite SpriteKind = iota
	// StarSprite is a star.
	StarSprite
	// PlanetSprite is a planet.
	PlanetSprite
	// TargetSprite is the camera target.
	TargetSprite
)

// Sprite is a glyph to draw in a cell.
type Sprite struct {
	Col, Row int
	Glyph    rune
	Kind     SpriteKind
	Name     string
}

// Sprites appends to dst[:0] what is visible through the projector, trails first.
func (s *Scene) Sprites(proj Projector, dst []Sprite) []Sprite {
	dst = dst[:0]
	if s.ShowPrediction {
		s.segs = s.engine.PredictedPositions(s.segs)
		// Segments are chained: draw their starts and the end of every path.
		for i, pos := range s.segs {
			if i%2 == 1 && i+1 < len(s.segs) && s.segs[i+1] == pos {
				continue
			}
			if col, row, ok := proj.Project(&s.Camera, pos); ok {
				dst = append(dst, Sprite{Col: col, Row: row, Glyph: '.', Kind: TrailSprite})
			}
		}
	}
	target := s.Camera.Target()
	for _, e := range s.order {
		col, row, ok := proj.Project(&s.Camera, e.Position())
		if !ok {
			continue
		}
		sp := Sprite{Col: col, Row: row, Glyph: e.Glyph(), Kind: PlanetSprite, Name: e.Name}
		switch {
		case e == target:
			sp.Kind = TargetSprite
		case e.Kind == Star:
			sp.Kind = StarSprite
		}
		dst = append(dst, sp)
	}
	return dst
}
