package starsys

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonum/floats"
)

// norm returns the norm of a given vector.
func norm(v mgl64.Vec3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns the unit vector of a given vector, or the nil vector if its norm is (nearly) zero.
func unit(v mgl64.Vec3) mgl64.Vec3 {
	n := norm(v)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / n)
}

// finite returns whether none of the components are NaN or infinite.
func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Lerp linearly interpolates between a and b; x = 0 returns a and x = 1 returns b.
func Lerp(a, b mgl64.Vec3, x float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(x))
}

// Vec3FromSlice converts a three item slice into a vector.
func Vec3FromSlice(s []float64) mgl64.Vec3 {
	return mgl64.Vec3{s[0], s[1], s[2]}
}
