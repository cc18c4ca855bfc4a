package starsys

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// GravitationalConstant is tuned for visual plausibility, not physical accuracy.
	GravitationalConstant = 0.5
	// MaxDeltaTime bounds the time step of a single live update, in seconds.
	MaxDeltaTime = 0.034
)

// gravity holds the parameters of the pairwise gravity law.
type gravity struct {
	G           float64
	MinDistance float64 // Zero disables the guard.
}

// pairAcc returns the accelerations of A and B caused by one another.
// Without a distance guard, coincident bodies yield non-finite values.
func (g gravity) pairAcc(a, b *Body) (accA, accB mgl64.Vec3, ok bool) {
	// F = m * a = G * (M1 * M2) / (R^2)
	AtoB := b.Position.Sub(a.Position)
	dist := norm(AtoB)
	var dir mgl64.Vec3
	if g.MinDistance > 0 {
		if dist == 0 {
			return accA, accB, false
		}
		dir = AtoB.Mul(1 / dist)
		if dist < g.MinDistance {
			dist = g.MinDistance
		}
	} else {
		dir = AtoB.Mul(1 / dist)
	}
	forceMag := g.G * (a.Mass * b.Mass) / (dist * dist)
	accA = dir.Mul(forceMag / a.Mass)
	accB = dir.Mul(-forceMag / b.Mass)
	return accA, accB, true
}

// applyVelocityChange integrates the mutual gravity of every unordered pair into the velocities.
// Positions are only read, so the result does not depend on the pair order beyond float rounding.
// Fixed bodies are sources of gravity but their velocity is left untouched.
func (g gravity) applyVelocityChange(bodies []*Body, dt float64) {
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			accA, accB, ok := g.pairAcc(a, b)
			if !ok {
				continue
			}
			if a.Kind == Movable {
				a.Velocity = a.Velocity.Add(accA.Mul(dt))
			}
			if b.Kind == Movable {
				b.Velocity = b.Velocity.Add(accB.Mul(dt))
			}
		}
	}
}

// advance moves every Movable body by its velocity.
func advance(bodies []*Body, dt float64) {
	for _, b := range bodies {
		if b.Kind == Movable {
			b.Position = b.Position.Add(b.Velocity.Mul(dt))
		}
	}
}
