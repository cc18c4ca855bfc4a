package scene

import (
	"math"
	"testing"
	"time"

	"github.com/ChristopherRabotin/starsys"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestScene() (*Scene, *starsys.ManualTime) {
	src := starsys.NewManualTime(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC))
	sc := New(starsys.NewEngine(starsys.DefaultConfig(), src))
	sc.SetLogger(kitlog.NewNopLogger())
	return sc, src
}

func TestEntityLifecycle(t *testing.T) {
	sc, _ := newTestScene()
	engine := sc.Engine()
	sun := sc.Add(FromPreset(starsys.Sun))
	earth := sc.Add(NewPlanet("Earth", mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{0, 0, -10}, 1, 0))
	if !sun.Active() || !earth.Active() || engine.Len() != 2 {
		t.Fatal("entities were not activated")
	}
	if sun.Kind != Star || sun.Body.Kind != starsys.Fixed || earth.Body.Kind != starsys.Movable {
		t.Fatal("invalid kinds")
	}
	if earth.Radius != DefaultRadius {
		t.Fatalf("radius %f", earth.Radius)
	}
	if b, ok := engine.Body(earth.ID()); !ok || b != &earth.Body {
		t.Fatal("engine does not reference the scene's body")
	}
	if id := earth.Activate(engine); id != earth.ID() || engine.Len() != 2 {
		t.Fatal("activating twice must be a no-op")
	}
	if len(sc.Stars()) != 1 || len(sc.Planets()) != 1 || len(sc.Entities()) != 2 {
		t.Fatal("invalid scene lists")
	}

	sc.Remove(earth)
	if earth.Active() || engine.Len() != 1 || len(sc.Planets()) != 0 {
		t.Fatal("entity was not removed")
	}
	earth.Destroy()
	sc.Remove(earth)
	if engine.Len() != 1 {
		t.Fatal("removing twice changed the engine")
	}

	sc.Close()
	if sun.Active() || engine.Len() != 0 || len(sc.Entities()) != 0 || sc.Camera.Target() != nil {
		t.Fatal("close did not destroy every entity")
	}
}

func TestEntityMoveEngine(t *testing.T) {
	a, _ := newTestScene()
	b, _ := newTestScene()
	e := a.Add(FromPreset(starsys.Mars))
	e.Activate(b.Engine())
	if a.Engine().Len() != 0 || b.Engine().Len() != 1 {
		t.Fatal("entity must be active in one engine only")
	}
}

func TestAddActiveEntity(t *testing.T) {
	sc, _ := newTestScene()
	engine := sc.Engine()
	mars := FromPreset(starsys.Mars)
	mars.Activate(engine)
	added := sc.Add(mars)
	if engine.Len() != 1 || len(sc.Entities()) != 1 {
		t.Fatalf("engine bodies=%d scene entities=%d", engine.Len(), len(sc.Entities()))
	}
	if b, ok := engine.Body(added.ID()); !ok || b != &added.Body {
		t.Fatal("engine does not reference the scene's copy")
	}
	sc.Remove(added)
	if engine.Len() != 0 {
		t.Fatalf("%d bodies left after removal", engine.Len())
	}
}

func TestGlyphs(t *testing.T) {
	sun := FromPreset(starsys.Sun)
	jupiter := FromPreset(starsys.Jupiter)
	mars := FromPreset(starsys.Mars)
	if sun.Glyph() != '@' || jupiter.Glyph() != 'O' || mars.Glyph() != 'o' {
		t.Fatalf("glyphs %c %c %c", sun.Glyph(), jupiter.Glyph(), mars.Glyph())
	}
	if Star.String() != "star" || Planet.String() != "planet" {
		t.Fatal("kind names")
	}
}

func TestTargetCycle(t *testing.T) {
	sc, _ := newTestScene()
	if sc.NextTarget() != nil {
		t.Fatal("empty scene has a target")
	}
	sun := sc.Add(FromPreset(starsys.Sun))
	earth := sc.Add(FromPreset(starsys.Earth))
	mars := sc.Add(FromPreset(starsys.Mars))
	if sc.Camera.Target() != sun {
		t.Fatal("first entity is the default target")
	}
	for _, exp := range []*Entity{earth, mars, sun, earth} {
		if got := sc.NextTarget(); got != exp {
			t.Fatalf("expected %s, got %s", exp.Name, got.Name)
		}
	}
	sc.Remove(earth)
	if sc.Camera.Target() != mars {
		t.Fatalf("target after removal: %s", sc.Camera.Target().Name)
	}
	if e, ok := sc.Find("Sun"); !ok || e != sun {
		t.Fatal("Find failed")
	}
	if _, ok := sc.Find("Earth"); ok {
		t.Fatal("removed entity found")
	}
}

func TestUpdateMovesBodiesAndCamera(t *testing.T) {
	sc, src := newTestScene()
	probe := sc.Add(NewPlanet("probe", mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{0, 0, 0.1}, 1, 0.1))
	sc.Update()
	for i := 0; i < 120; i++ {
		src.Advance(16 * time.Millisecond)
		sc.Update()
	}
	if probe.Position()[2] <= 0 {
		t.Fatalf("probe did not move: %v", probe.Position())
	}
	if d := sc.Camera.Position.Sub(probe.Position()).Len(); d > 0.1 {
		t.Fatalf("camera lags %f behind its target", d)
	}
}

func TestFromScenario(t *testing.T) {
	s := starsys.DefaultScenario()
	sc := FromScenario(s, starsys.NewManualTime(starsys.J2000), kitlog.NewNopLogger())
	if len(sc.Stars()) != 1 || len(sc.Planets()) != 1 {
		t.Fatalf("%d stars, %d planets", len(sc.Stars()), len(sc.Planets()))
	}
	sun := sc.Stars()[0]
	if sun.Radius != starsys.Sun.Radius || sun.Body.Velocity != s.Bodies[1].Velocity {
		t.Fatalf("sun %+v", sun)
	}
	if !sc.Engine().Paused() {
		t.Fatal("default scenario starts paused")
	}
	if sc.Camera.Target().Name != "Earth" {
		t.Fatal("first body is the camera target")
	}
}

func TestCameraFollow(t *testing.T) {
	target := FromPreset(starsys.Earth)
	cam := NewCamera()
	cam.ChangeTarget(&target)
	cam.Follow(0.1)
	exp := mgl64.Vec3{-5 * FollowRate * 0.1, 0, 0}
	if cam.Position.Sub(exp).Len() > 1e-12 {
		t.Fatalf("camera at %v, expected %v", cam.Position, exp)
	}
	// A long frame reaches the goal directly.
	cam.Follow(10)
	if cam.Position != target.Position() || !cam.Locked() {
		t.Fatalf("camera at %v", cam.Position)
	}
	target.Body.Position = mgl64.Vec3{1, 0, 1}
	cam.Follow(0)
	if cam.Position != target.Position() {
		t.Fatal("locked camera must stick to its target")
	}

	cam.Pan(4, 0)
	if cam.Locked() || cam.Offset != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("pan offset %v", cam.Offset)
	}
	cam.Recenter()
	if cam.Offset != (mgl64.Vec3{}) {
		t.Fatal("recenter")
	}

	for i := 0; i < 100; i++ {
		cam.ZoomIn()
	}
	if cam.Zoom != MaxZoom {
		t.Fatalf("zoom %f", cam.Zoom)
	}
	for i := 0; i < 100; i++ {
		cam.ZoomOut()
	}
	if cam.Zoom != MinZoom {
		t.Fatalf("zoom %f", cam.Zoom)
	}
}

func TestProjector(t *testing.T) {
	cam := NewCamera()
	cam.Zoom = 2
	cam.Position = mgl64.Vec3{1, 0, 0}
	proj := Projector{Width: 80, Height: 24, Aspect: 2}
	if col, row, ok := proj.Project(&cam, cam.Position); !ok || col != 40 || row != 12 {
		t.Fatalf("center projected to %d,%d", col, row)
	}
	if col, row, ok := proj.Project(&cam, mgl64.Vec3{6, 0, 4}); !ok || col != 50 || row != 16 {
		t.Fatalf("projected to %d,%d", col, row)
	}
	if _, _, ok := proj.Project(&cam, mgl64.Vec3{100, 0, 0}); ok {
		t.Fatal("far point is on the grid")
	}
	if _, _, ok := proj.Project(&cam, mgl64.Vec3{math.NaN(), 0, 0}); ok {
		t.Fatal("NaN point is on the grid")
	}
	p := proj.Unproject(&cam, 50, 16)
	if col, row, _ := proj.Project(&cam, p); col != 50 || row != 16 {
		t.Fatalf("unprojected %v lands on %d,%d", p, col, row)
	}
}

func TestSprites(t *testing.T) {
	sc, _ := newTestScene()
	sun := sc.Add(FromPreset(starsys.Sun))
	earth := sc.Add(FromPreset(starsys.Earth))
	earth.Body.Velocity = starsys.CircularOrbitVelocity(starsys.GravitationalConstant, sun.Body, earth.Position())
	sc.Update()
	sc.Camera.Zoom = 4
	proj := NewProjector(120, 40)

	sprites := sc.Sprites(proj, nil)
	var trails, targets, stars int
	for _, sp := range sprites {
		switch sp.Kind {
		case TrailSprite:
			trails++
		case TargetSprite:
			targets++
			if sp.Name != "Sun" {
				t.Fatalf("target sprite %s", sp.Name)
			}
		case StarSprite:
			stars++
		}
	}
	if trails == 0 || targets != 1 || stars != 0 {
		t.Fatalf("trails=%d targets=%d stars=%d", trails, targets, stars)
	}
	if sprites[len(sprites)-1].Name != "Earth" {
		t.Fatal("entities are drawn after the trails")
	}

	path, ok := sc.Engine().Prediction().Path(earth.ID())
	if !ok || len(path) == 0 {
		t.Fatal("no predicted path for the planet")
	}
	col, row, visible := proj.Project(&sc.Camera, path[len(path)-1])
	if !visible {
		t.Fatal("the end of the predicted path should be visible")
	}
	var drawn bool
	for _, sp := range sprites {
		if sp.Kind == TrailSprite && sp.Col == col && sp.Row == row {
			drawn = true
			break
		}
	}
	if !drawn {
		t.Fatalf("the end of the predicted path at %d,%d is not drawn", col, row)
	}

	sc.ShowPrediction = false
	if sprites = sc.Sprites(proj, sprites); len(sprites) != 2 {
		t.Fatalf("%d sprites without prediction", len(sprites))
	}
}
