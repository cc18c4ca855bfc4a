package starsys

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonum/floats"
)

func TestNormUnit(t *testing.T) {
	v := mgl64.Vec3{3, 4, 12}
	if norm(v) != 13 {
		t.Fatalf("norm=%f", norm(v))
	}
	u := unit(v)
	if !floats.EqualWithinAbs(norm(u), 1, 1e-15) {
		t.Fatalf("unit vector has norm %f", norm(u))
	}
	if unit(mgl64.Vec3{}) != (mgl64.Vec3{}) {
		t.Fatal("unit of the nil vector must be the nil vector")
	}
}

func TestFinite(t *testing.T) {
	if !finite(mgl64.Vec3{1, -1, 0}) {
		t.Fatal("finite vector")
	}
	if finite(mgl64.Vec3{0, math.NaN(), 0}) || finite(mgl64.Vec3{math.Inf(1), 0, 0}) {
		t.Fatal("non-finite vector")
	}
}

func TestLerp(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{10, -4, 2}
	if Lerp(a, b, 0) != a || Lerp(a, b, 1) != b {
		t.Fatal("lerp end points")
	}
	if mid := Lerp(a, b, 0.5); mid != (mgl64.Vec3{5, -2, 1}) {
		t.Fatalf("lerp mid point %v", mid)
	}
	if v := Vec3FromSlice([]float64{1, 2, 3}); v != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("Vec3FromSlice %v", v)
	}
}
