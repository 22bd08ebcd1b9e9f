package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// IsNearZero reports whether every component of v is within epsilon of 0.
// It gates collision skipping and velocity decay, both must use the same epsilon.
func IsNearZero(v mgl64.Vec3, epsilon float64) bool {
	return math.Abs(v.X()) <= epsilon &&
		math.Abs(v.Y()) <= epsilon &&
		math.Abs(v.Z()) <= epsilon
}

// SafeNormalize returns the unit vector of v, or the zero vector when v has
// no usable length (zero, NaN or Inf). mgl64's Normalize yields NaN in that case.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{0, 0, 0}
	}

	return v.Mul(1.0 / l)
}

func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}

	return true
}
