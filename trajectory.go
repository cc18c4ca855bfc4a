package starsys

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// PredictionSteps is the default number of predicted points per body.
	PredictionSteps = 100
	// PredictionStepTime is the default time step of the prediction, in seconds.
	PredictionStepTime = 0.02
)

// Trajectory stores the predicted future states of a set of bodies.
// Frames[i][s] is the snapshot of the body IDs[i] after s prediction steps. Snapshots are copies
// and never alias the live bodies.
type Trajectory struct {
	IDs    []BodyID
	Frames [][]Body
}

// predict integrates copies of the provided bodies forward.
// Every step is strictly staged: all velocity changes of step s are computed from the positions
// of step s-1, then the positions of step s are written.
func predict(ids []BodyID, bodies []*Body, g gravity, steps int, stepTime float64) Trajectory {
	traj := Trajectory{IDs: make([]BodyID, len(ids))}
	copy(traj.IDs, ids)
	if steps < 1 {
		return traj
	}
	traj.Frames = make([][]Body, len(bodies))
	for i, b := range bodies {
		traj.Frames[i] = make([]Body, steps)
		traj.Frames[i][0] = *b
	}
	step := make([]*Body, len(bodies))
	for s := 1; s < steps; s++ {
		for i := range traj.Frames {
			traj.Frames[i][s] = traj.Frames[i][s-1]
			step[i] = &traj.Frames[i][s]
		}
		g.applyVelocityChange(step, stepTime)
		advance(step, stepTime)
	}
	return traj
}

// Len returns the number of bodies in this trajectory.
func (t Trajectory) Len() int {
	return len(t.Frames)
}

// Steps returns the number of points per body.
func (t Trajectory) Steps() int {
	if len(t.Frames) == 0 {
		return 0
	}
	return len(t.Frames[0])
}

// Frame returns the state of all bodies after s steps.
func (t Trajectory) Frame(s int) []Body {
	frame := make([]Body, len(t.Frames))
	for i, path := range t.Frames {
		frame[i] = path[s]
	}
	return frame
}

// Index returns the position of the provided body in Frames, or -1.
func (t Trajectory) Index(id BodyID) int {
	for i, tid := range t.IDs {
		if tid == id {
			return i
		}
	}
	return -1
}

// Path returns the predicted positions of the provided body.
func (t Trajectory) Path(id BodyID) ([]mgl64.Vec3, bool) {
	i := t.Index(id)
	if i < 0 || i >= len(t.Frames) {
		return nil, false
	}
	path := make([]mgl64.Vec3, len(t.Frames[i]))
	for s, snap := range t.Frames[i] {
		path[s] = snap.Position
	}
	return path, true
}

// Segments flattens the path of every Movable body into line segment end points:
// (step[0], step[1]), (step[1], step[2]), ... Fixed bodies are skipped since they do not move.
// The result is appended to dst[:0].
func (t Trajectory) Segments(dst []mgl64.Vec3) []mgl64.Vec3 {
	dst = dst[:0]
	for _, path := range t.Frames {
		if len(path) == 0 || path[0].Kind != Movable {
			continue
		}
		for s := 0; s < len(path)-1; s++ {
			dst = append(dst, path[s].Position, path[s+1].Position)
		}
	}
	return dst
}

// clone returns a deep copy of this trajectory.
func (t Trajectory) clone() Trajectory {
	c := Trajectory{IDs: make([]BodyID, len(t.IDs))}
	copy(c.IDs, t.IDs)
	if t.Frames != nil {
		c.Frames = make([][]Body, len(t.Frames))
		for i, path := range t.Frames {
			c.Frames[i] = make([]Body, len(path))
			copy(c.Frames[i], path)
		}
	}
	return c
}
