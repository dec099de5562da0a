package physics

import (
	"github.com/lixenwraith/tendril/vmath"
)

// CapForce limits the force vector magnitude to maxForce preserving direction
// Returns the capped force and true if it was clamped or zeroed
func CapForce(f vmath.Vec3F, maxForce float64) (vmath.Vec3F, bool) {
	if !vmath.V3FIsFinite(f) {
		return vmath.Vec3F{}, true
	}
	magSq := vmath.V3FMagSq(f)
	if magSq > maxForce*maxForce {
		return vmath.V3FClampMagnitude(f, maxForce), true
	}
	return f, false
}

// Integrate performs semi-implicit Euler integration: v = v + a*dt; p = p + v*dt
// Returns false and leaves inputs untouched if the result is non-finite
func Integrate(pos, vel *vmath.Vec3F, accel vmath.Vec3F, dt float64) bool {
	v := vmath.V3FAddScaled(*vel, accel, dt)
	p := vmath.V3FAddScaled(*pos, v, dt)
	if !vmath.V3FIsFinite(v) || !vmath.V3FIsFinite(p) {
		return false
	}
	*vel = v
	*pos = p
	return true
}
