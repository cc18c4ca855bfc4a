package starsys

import (
	"math"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-gl/mathgl/mgl64"
)

// Config defines the tunables of an Engine. Use DefaultConfig as a starting point.
type Config struct {
	G                     float64 // Gravitational constant
	MaxDeltaTime          float64 // Ceiling of a single live time step (s)
	TimeMultiplier        float64 // Scales the measured time step, must be positive
	Paused                bool    // Whether the engine starts paused
	PredictionSteps       int     // Number of predicted points per body (zero disables the prediction)
	PredictionStepTime    float64 // Time step of the prediction (s)
	MinDistance           float64 // Distance guard; zero keeps the raw inverse square law
	CachePausedPrediction bool    // Only compute the prediction once per pause
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		G:                  GravitationalConstant,
		MaxDeltaTime:       MaxDeltaTime,
		TimeMultiplier:     1,
		PredictionSteps:    PredictionSteps,
		PredictionStepTime: PredictionStepTime,
	}
}

// State is a copy of the live bodies at a given simulation time.
type State struct {
	SimTime float64 // Simulated seconds since the engine was created
	IDs     []BodyID
	Bodies  []Body
}

// Engine integrates the mutual gravity of the registered bodies.
// It holds references to the bodies but does not own them: the scene does. An Engine is not safe
// for concurrent use; all calls must come from the goroutine driving Update.
type Engine struct {
	conf  Config
	grav  gravity
	clock *Clock

	bodies  map[BodyID]*Body
	handles map[*Body]BodyID
	order   []BodyID // registration order, also the enumeration order
	movable []BodyID
	fixed   []BodyID
	nextID  BodyID
	live    []*Body // cached pointers in enumeration order

	paused         bool
	timeMultiplier float64
	skip           bool
	dt             float64
	simTime        float64

	prediction     Trajectory
	predCalculated bool

	diverged map[BodyID]bool
	logger   kitlog.Logger
}

// NewEngine returns a new engine measuring time from the provided source (nil for the wall clock).
// The first update is always skipped since its time step includes the setup time.
// A zero G or MaxDeltaTime takes the default value.
func NewEngine(conf Config, src TimeSource) *Engine {
	if conf.G == 0 {
		conf.G = GravitationalConstant
	}
	if conf.MaxDeltaTime <= 0 {
		conf.MaxDeltaTime = MaxDeltaTime
	}
	if conf.PredictionSteps < 0 {
		conf.PredictionSteps = 0
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	e := &Engine{
		conf:     conf,
		grav:     gravity{G: conf.G, MinDistance: conf.MinDistance},
		clock:    NewClock(src),
		bodies:   make(map[BodyID]*Body),
		handles:  make(map[*Body]BodyID),
		paused:   conf.Paused,
		skip:     true,
		diverged: make(map[BodyID]bool),
		logger:   klog,
	}
	e.SetTimeMultiplier(conf.TimeMultiplier)
	return e
}

// SetLogger sets the logger of this engine.
func (e *Engine) SetLogger(logger kitlog.Logger) {
	e.logger = logger
}

// Config returns the configuration of this engine.
func (e *Engine) Config() Config {
	return e.conf
}

// AddBody registers a body and returns its handle. Adding a body twice is a no-op which returns
// the existing handle. A new registration skips the next integration step.
func (e *Engine) AddBody(b *Body) BodyID {
	if id, exists := e.handles[b]; exists {
		return id
	}
	e.nextID++
	id := e.nextID
	e.bodies[id] = b
	e.handles[b] = id
	e.order = append(e.order, id)
	if b.Kind == Fixed {
		e.fixed = append(e.fixed, id)
	} else {
		e.movable = append(e.movable, id)
	}
	e.reindex()
	e.skip = true
	e.predCalculated = false
	e.logger.Log("level", "info", "subsys", "physics", "added", b.Name, "id", id, "kind", b.Kind, "mass", b.Mass)
	return id
}

// RemoveBody unregisters a body. Removing an absent body is a no-op.
func (e *Engine) RemoveBody(b *Body) {
	if id, exists := e.handles[b]; exists {
		e.Remove(id)
	}
}

// Remove unregisters the body of the provided handle. Removing an absent handle is a no-op.
func (e *Engine) Remove(id BodyID) {
	b, exists := e.bodies[id]
	if !exists {
		return
	}
	delete(e.bodies, id)
	delete(e.handles, b)
	delete(e.diverged, id)
	e.order = removeID(e.order, id)
	e.movable = removeID(e.movable, id)
	e.fixed = removeID(e.fixed, id)
	e.reindex()
	e.predCalculated = false
	e.logger.Log("level", "info", "subsys", "physics", "removed", b.Name, "id", id)
}

func removeID(ids []BodyID, id BodyID) []BodyID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// reindex rebuilds the cached pointer lists.
func (e *Engine) reindex() {
	e.live = e.live[:0]
	for _, id := range e.order {
		e.live = append(e.live, e.bodies[id])
	}
}

// Body returns the body registered under the provided handle.
func (e *Engine) Body(id BodyID) (*Body, bool) {
	b, ok := e.bodies[id]
	return b, ok
}

// ID returns the handle of a registered body.
func (e *Engine) ID(b *Body) (BodyID, bool) {
	id, ok := e.handles[b]
	return id, ok
}

// IDs returns the handles of all registered bodies in enumeration order.
func (e *Engine) IDs() []BodyID {
	ids := make([]BodyID, len(e.order))
	copy(ids, e.order)
	return ids
}

// Bodies returns the registered bodies in enumeration order.
func (e *Engine) Bodies() []*Body {
	bodies := make([]*Body, len(e.live))
	copy(bodies, e.live)
	return bodies
}

// Len returns the number of registered bodies.
func (e *Engine) Len() int {
	return len(e.order)
}

// MovableLen returns the number of bodies which were Movable when registered.
func (e *Engine) MovableLen() int { return len(e.movable) }

// FixedLen returns the number of bodies which were Fixed when registered.
func (e *Engine) FixedLen() int { return len(e.fixed) }

// Paused returns whether the simulation is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// SetPaused pauses or resumes the simulation.
func (e *Engine) SetPaused(paused bool) {
	if paused {
		e.Pause()
	} else {
		e.Resume()
	}
}

// Pause freezes the bodies. The prediction is still computed.
func (e *Engine) Pause() {
	e.paused = true
}

// Resume restarts the simulation. The first step after a resume is skipped.
func (e *Engine) Resume() {
	if !e.paused {
		return
	}
	e.paused = false
	e.skip = true
	e.predCalculated = false
}

// TimeMultiplier returns the factor applied to the measured time step.
func (e *Engine) TimeMultiplier() float64 {
	return e.timeMultiplier
}

// SetTimeMultiplier sets the factor applied to the measured time step. Negative values are set to zero.
func (e *Engine) SetTimeMultiplier(m float64) {
	if m < 0 || math.IsNaN(m) {
		m = 0
	}
	e.timeMultiplier = m
}

// SkipIteration skips the integration of the next update, e.g. after a time discontinuity.
func (e *Engine) SkipIteration() {
	e.skip = true
}

// SetPrediction changes the number of predicted steps and their duration.
func (e *Engine) SetPrediction(steps int, stepTime float64) {
	if steps < 0 {
		steps = 0
	}
	e.conf.PredictionSteps = steps
	e.conf.PredictionStepTime = stepTime
	e.predCalculated = false
}

// DeltaTime returns the time step applied by the last update, in seconds.
func (e *Engine) DeltaTime() float64 {
	return e.dt
}

// FrameTime returns the wall clock time measured by the last update, before any scaling.
func (e *Engine) FrameTime() time.Duration {
	return e.clock.Delta()
}

// SimTime returns the total simulated time, in seconds.
func (e *Engine) SimTime() float64 {
	return e.simTime
}

// Update runs one frame: measures the elapsed time, scales and clamps it, integrates the bodies
// unless this step must be skipped, and recomputes the prediction.
func (e *Engine) Update() {
	dt := e.clock.MeasureTime().Seconds()
	if e.paused {
		dt = 0
	} else {
		dt *= e.timeMultiplier
	}
	dt = math.Min(dt, e.conf.MaxDeltaTime)

	switch {
	case e.skip:
		e.skip = false
		e.dt = 0
	case dt > 0:
		e.dt = dt
		e.grav.applyVelocityChange(e.live, dt)
		advance(e.live, dt)
		e.simTime += dt
		e.checkFinite()
	default:
		// Paused or zero multiplier: the bodies are left untouched, bit for bit.
		e.dt = 0
	}

	if e.conf.CachePausedPrediction && e.paused && e.predCalculated {
		return
	}
	e.prediction = predict(e.order, e.live, e.grav, e.conf.PredictionSteps, e.conf.PredictionStepTime)
	e.predCalculated = e.paused
}

// checkFinite reports bodies which just became non-finite, typically after a close encounter.
func (e *Engine) checkFinite() {
	for i, b := range e.live {
		id := e.order[i]
		if !e.diverged[id] && !b.IsFinite() {
			e.diverged[id] = true
			e.logger.Log("level", "critical", "subsys", "physics", "body", b.Name, "id", id, "status", "non-finite", "simTime", e.simTime)
		}
	}
}

// Predict integrates copies of the live bodies forward and returns their trajectory.
// The live bodies are never modified.
func (e *Engine) Predict(steps int, stepTime float64) Trajectory {
	return predict(e.order, e.live, e.grav, steps, stepTime)
}

// Prediction returns a copy of the trajectory computed by the last update.
func (e *Engine) Prediction() Trajectory {
	return e.prediction.clone()
}

// PredictedPositions appends the line segments of the last prediction to dst[:0].
func (e *Engine) PredictedPositions(dst []mgl64.Vec3) []mgl64.Vec3 {
	return e.prediction.Segments(dst)
}

// State returns a copy of the live bodies.
func (e *Engine) State() State {
	st := State{SimTime: e.simTime, IDs: e.IDs(), Bodies: make([]Body, len(e.live))}
	for i, b := range e.live {
		st.Bodies[i] = *b
	}
	return st
}

// LogStatus logs the status of the simulation.
func (e *Engine) LogStatus() {
	st := e.State()
	e.logger.Log("level", "info", "subsys", "physics", "simTime", e.simTime, "bodies", len(st.Bodies), "paused", e.paused, "timeMultiplier", e.timeMultiplier, "energy", TotalEnergy(e.conf.G, st.Bodies))
}
