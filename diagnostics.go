package starsys

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonum/floats"
)

// Momentum returns the total linear momentum of the provided bodies.
func Momentum(bodies []Body) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range bodies {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// KineticEnergy returns the kinetic energy of the Movable bodies.
func KineticEnergy(bodies []Body) float64 {
	terms := make([]float64, 0, len(bodies))
	for _, b := range bodies {
		if b.Kind != Movable {
			continue
		}
		terms = append(terms, 0.5*b.Mass*b.Velocity.Dot(b.Velocity))
	}
	return floats.Sum(terms)
}

// PotentialEnergy returns the gravitational potential energy of every unordered pair.
func PotentialEnergy(G float64, bodies []Body) float64 {
	terms := make([]float64, 0, len(bodies)*len(bodies)/2)
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r := norm(bodies[j].Position.Sub(bodies[i].Position))
			terms = append(terms, -G*bodies[i].Mass*bodies[j].Mass/r)
		}
	}
	return floats.Sum(terms)
}

// TotalEnergy returns the sum of the kinetic and potential energies.
func TotalEnergy(G float64, bodies []Body) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(G, bodies)
}

// CenterOfMass returns the mass weighted mean position of the provided bodies.
func CenterOfMass(bodies []Body) mgl64.Vec3 {
	masses := make([]float64, len(bodies))
	var c mgl64.Vec3
	for i, b := range bodies {
		masses[i] = b.Mass
		c = c.Add(b.Position.Mul(b.Mass))
	}
	total := floats.Sum(masses)
	if total == 0 {
		return mgl64.Vec3{}
	}
	return c.Mul(1 / total)
}
