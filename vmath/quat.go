package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat is a rotation quaternion W + V, V the vector part (i, j, k)
// Rotations are expected unit length; QNormalize restores that after accumulation
type Quat = mgl64.Quat

// QuatIdentity is the zero rotation
var QuatIdentity = mgl64.QuatIdent()

// angleEpsilon is the rotation angle below which a quaternion is treated as identity
const angleEpsilon = 1e-15

// V3FToMgl converts to the mathgl vector type
func V3FToMgl(v Vec3F) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// V3FFromMgl converts from the mathgl vector type
func V3FFromMgl(v mgl64.Vec3) Vec3F {
	return Vec3F{v[0], v[1], v[2]}
}

// QMul returns the Hamilton product a*b (apply b, then a)
func QMul(a, b Quat) Quat {
	return a.Mul(b)
}

// QConj returns the conjugate, the inverse for unit quaternions
func QConj(q Quat) Quat {
	return q.Conjugate()
}

// QNormalize returns q scaled to unit length
// Zero or non-finite input returns identity
func QNormalize(q Quat) Quat {
	if !QIsFinite(q) {
		return QuatIdentity
	}
	// Normalize skips near-unit input; the solver renormalizes every frame and needs exact unit length
	return q.Scale(1 / q.Len())
}

// QIsFinite reports whether all components are finite and the norm is non-zero
func QIsFinite(q Quat) bool {
	if !IsFinite(q.W) || !IsFinite(q.V[0]) || !IsFinite(q.V[1]) || !IsFinite(q.V[2]) {
		return false
	}
	return q.Dot(q) > 0
}

// QRotate rotates v by unit quaternion q
func QRotate(q Quat, v Vec3F) Vec3F {
	return V3FFromMgl(q.Rotate(V3FToMgl(v)))
}

// QFromAxisAngle builds a rotation of angle radians about axis
// Zero axis returns identity
func QFromAxisAngle(axis Vec3F, angle float64) Quat {
	n := V3FNormalize(axis)
	if n == (Vec3F{}) {
		return QuatIdentity
	}
	return mgl64.QuatRotate(angle, V3FToMgl(n))
}

// QFromTo returns the minimal rotation taking direction a onto direction b
// A zero input yields identity
func QFromTo(a, b Vec3F) Quat {
	if V3FMagSq(a) == 0 || V3FMagSq(b) == 0 || !V3FIsFinite(a) || !V3FIsFinite(b) {
		return QuatIdentity
	}
	return QNormalize(mgl64.QuatBetweenVectors(V3FToMgl(a), V3FToMgl(b)))
}

// QAxisAngle decomposes q into unit axis and angle in [0, π]
// Identity returns zero axis and zero angle
func QAxisAngle(q Quat) (Vec3F, float64) {
	if q.W < 0 {
		q = q.Scale(-1)
	}
	s := q.V.Len()
	if s < angleEpsilon {
		return Vec3F{}, 0
	}
	angle := 2 * math.Atan2(s, q.W)
	return V3FFromMgl(q.V.Mul(1 / s)), angle
}

// QAngle returns the rotation angle of q in [0, π]
func QAngle(q Quat) float64 {
	_, angle := QAxisAngle(q)
	return angle
}

// QScaleAngle returns the rotation about the same axis as q with angle multiplied by f
// f=0 yields identity, f=1 yields q (shortest arc)
func QScaleAngle(q Quat, f float64) Quat {
	axis, angle := QAxisAngle(q)
	if angle == 0 {
		return QuatIdentity
	}
	return QFromAxisAngle(axis, angle*f)
}

// QSwingTwist splits q into swing*twist where twist rotates about axis and swing about an axis perpendicular to it
// Applying twist first then swing reproduces q
func QSwingTwist(q Quat, axis Vec3F) (swing, twist Quat) {
	a := V3FToMgl(V3FNormalize(axis))
	p := q.V.Dot(a)
	twist = Quat{W: q.W, V: a.Mul(p)}
	n := math.Sqrt(twist.W*twist.W + p*p)
	if n < angleEpsilon {
		// Half-turn swing: twist undefined, attribute everything to swing
		return q, QuatIdentity
	}
	twist = twist.Scale(1 / n)
	swing = QMul(q, QConj(twist))
	return swing, twist
}
