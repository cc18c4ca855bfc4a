package starsys

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonum/floats"
)

func TestDiagnostics(t *testing.T) {
	bodies := []Body{
		{Name: "a", Position: mgl64.Vec3{0, 0, 0}, Velocity: mgl64.Vec3{1, 0, 0}, Mass: 2},
		{Name: "b", Position: mgl64.Vec3{4, 0, 0}, Velocity: mgl64.Vec3{0, 2, 0}, Mass: 1},
		{Name: "c", Position: mgl64.Vec3{0, 3, 0}, Velocity: mgl64.Vec3{0, 0, 5}, Mass: 3, Kind: Fixed},
	}
	if p := Momentum(bodies); p != (mgl64.Vec3{2, 2, 15}) {
		t.Fatalf("momentum %v", p)
	}
	// Fixed bodies do not move, so they carry no kinetic energy.
	if ke := KineticEnergy(bodies); !floats.EqualWithinAbs(ke, 0.5*2*1+0.5*1*4, 1e-12) {
		t.Fatalf("kinetic energy %f", ke)
	}
	G := 0.5
	expPE := -G * (2*1/4.0 + 2*3/3.0 + 1*3/5.0)
	if pe := PotentialEnergy(G, bodies); !floats.EqualWithinAbs(pe, expPE, 1e-12) {
		t.Fatalf("potential energy %f != %f", pe, expPE)
	}
	if e := TotalEnergy(G, bodies); !floats.EqualWithinAbs(e, 3+expPE, 1e-12) {
		t.Fatalf("total energy %f", e)
	}
	com := CenterOfMass(bodies)
	if !vecEqual(com, mgl64.Vec3{4.0 / 6, 9.0 / 6, 0}, 1e-12) {
		t.Fatalf("center of mass %v", com)
	}
	if CenterOfMass(nil) != (mgl64.Vec3{}) {
		t.Fatal("center of mass of nothing")
	}
}

func TestCircularOrbitEnergy(t *testing.T) {
	e, src := newTestEngine(DefaultConfig())
	sun := Sun.Body()
	earth := Earth.Body()
	earth.Velocity = CircularOrbitVelocity(GravitationalConstant, *sun, earth.Position)
	e.AddBody(sun)
	e.AddBody(earth)
	e.Update()
	e0 := TotalEnergy(GravitationalConstant, e.State().Bodies)
	for i := 0; i < 1000; i++ {
		step(e, src, 0.002)
	}
	e1 := TotalEnergy(GravitationalConstant, e.State().Bodies)
	if math.Abs((e1-e0)/e0) > 1e-2 {
		t.Fatalf("energy drifted from %f to %f", e0, e1)
	}
	if r := norm(earth.Position); !floats.EqualWithinAbs(r, 5, 0.1) {
		t.Fatalf("orbit radius drifted to %f", r)
	}
}
