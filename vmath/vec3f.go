package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector for physics-heavy calculations
type Vec3F struct {
	X, Y, Z float64
}

// Unit axes
var (
	AxisX = Vec3F{1, 0, 0}
	AxisY = Vec3F{0, 1, 0}
	AxisZ = Vec3F{0, 0, 1}
)

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

// V3FAddScaled returns a + b*s
func V3FAddScaled(a, b Vec3F, s float64) Vec3F {
	return Vec3F{a.X + b.X*s, a.Y + b.Y*s, a.Z + b.Z*s}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FCross(a, b Vec3F) Vec3F {
	return Vec3F{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FDist returns Euclidean distance between two points
func V3FDist(a, b Vec3F) float64 {
	return V3FMag(V3FSub(a, b))
}

func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3FClampMagnitude limits vector magnitude while preserving direction
// Non-finite input collapses to zero
func V3FClampMagnitude(v Vec3F, maxMag float64) Vec3F {
	if !V3FIsFinite(v) {
		return Vec3F{}
	}
	magSq := V3FMagSq(v)
	if magSq <= maxMag*maxMag {
		return v
	}
	return V3FScale(v, maxMag/math.Sqrt(magSq))
}

// V3FIsFinite reports whether all components are neither NaN nor Inf
func V3FIsFinite(v Vec3F) bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

// V3FAnyOrthogonal returns a unit vector perpendicular to v (v must be non-zero)
func V3FAnyOrthogonal(v Vec3F) Vec3F {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	// Cross with the axis least aligned with v
	other := AxisX
	if ay < ax && ay <= az {
		other = AxisY
	} else if az < ax && az < ay {
		other = AxisZ
	}
	return V3FNormalize(V3FCross(v, other))
}

// V3FToArray returns components as a fixed array, used by encoders
func V3FToArray(v Vec3F) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// V3FFromArray is the inverse of V3FToArray
func V3FFromArray(a [3]float64) Vec3F {
	return Vec3F{a[0], a[1], a[2]}
}
