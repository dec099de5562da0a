package physics

import (
	"math"

	"github.com/lixenwraith/tendril/vmath"
)

// relaxPass walks joints root to tip, pulling each toward its rest rotation and each edge toward its rest length
//
// A joint correction rotates the whole downstream chain rigidly about the joint particle, and a length
// correction translates it along the edge. Rigid moves leave every other joint rotation and edge length
// untouched, so passes compose per joint: Iterations passes of passFraction remove exactly the frame fraction.
// Downstream particles receive the accumulated rigid transform lazily, keeping the pass linear in particle count.
func (r *Rod) relaxPass(bend, twist, limit float64) {
	// Pending rigid transform for not yet visited particles and frames: x -> rot*x + shift
	rot := vmath.QuatIdentity
	var shift vmath.Vec3F

	parent := r.anchorRot
	for i := range r.frames {
		pivot := r.pos[i]
		frame := vmath.QNormalize(vmath.QMul(rot, r.frames[i]))
		edge := vmath.V3FSub(vmath.V3FAdd(vmath.QRotate(rot, r.pos[i+1]), shift), pivot)

		// Bend and twist
		corr := r.jointCorrection(parent, frame, r.restRel[i], bend, twist)
		corr = r.limitRotation(corr, vmath.V3FMag(edge), limit)
		frame = vmath.QNormalize(vmath.QMul(corr, frame))
		edge = vmath.QRotate(corr, edge)

		// Length
		delta := r.stretchCorrection(edge, frame, r.restLen[i], limit)

		r.frames[i] = frame
		r.pos[i+1] = vmath.V3FAdd(vmath.V3FAdd(pivot, edge), delta)

		// Compose this joint's rigid move x -> corr*(x-pivot) + pivot + delta onto the pending transform
		rot = vmath.QNormalize(vmath.QMul(corr, rot))
		shift = vmath.V3FAdd(vmath.V3FAdd(vmath.QRotate(corr, vmath.V3FSub(shift, pivot)), pivot), delta)

		parent = frame
	}
}

// jointCorrection returns the world rotation moving frame toward parent*rest by the pass fractions
func (r *Rod) jointCorrection(parent, frame, rest vmath.Quat, bend, twist float64) vmath.Quat {
	rel := vmath.QMul(vmath.QConj(parent), frame)
	dev := vmath.QMul(vmath.QConj(rest), rel)

	swing, tw := vmath.QSwingTwist(dev, vmath.AxisZ)
	kept := vmath.QMul(vmath.QScaleAngle(swing, 1-bend), vmath.QScaleAngle(tw, 1-twist))
	target := vmath.QMul(parent, vmath.QMul(rest, kept))

	corr := vmath.QNormalize(vmath.QMul(target, vmath.QConj(frame)))
	if !vmath.QIsFinite(corr) || !vmath.QIsFinite(target) {
		r.stats.Suppressed++
		return vmath.QuatIdentity
	}
	return corr
}

// limitRotation shrinks corr so the particle at distance length from the pivot moves at most limit
func (r *Rod) limitRotation(corr vmath.Quat, length, limit float64) vmath.Quat {
	axis, angle := vmath.QAxisAngle(corr)
	if angle == 0 {
		return vmath.QuatIdentity
	}
	if !vmath.IsFinite(length) {
		r.stats.Suppressed++
		return vmath.QuatIdentity
	}

	// Chord swept by the edge end
	disp := 2 * length * math.Sin(angle/2)
	if disp > limit {
		r.stats.Clamped++
		maxAngle := 2 * math.Asin(vmath.Clamp(limit/(2*length), 0, 1))
		corr = vmath.QFromAxisAngle(axis, maxAngle)
		disp = limit
	}
	r.noteCorrection(disp)
	return corr
}

// stretchCorrection returns the translation restoring edge to restLen, along the edge or the frame tangent when the edge collapsed
func (r *Rod) stretchCorrection(edge vmath.Vec3F, frame vmath.Quat, restLen, limit float64) vmath.Vec3F {
	l := vmath.V3FMag(edge)
	var dir vmath.Vec3F
	if l < minEdgeLength {
		dir = vmath.QRotate(frame, vmath.AxisZ)
	} else {
		dir = vmath.V3FScale(edge, 1/l)
	}

	delta := vmath.V3FScale(dir, restLen-l)
	if !vmath.V3FIsFinite(delta) {
		r.stats.Suppressed++
		return vmath.Vec3F{}
	}
	if vmath.V3FMagSq(delta) > limit*limit {
		r.stats.Clamped++
		delta = vmath.V3FClampMagnitude(delta, limit)
	}
	r.noteCorrection(vmath.V3FMag(delta))
	return delta
}

func (r *Rod) noteCorrection(d float64) {
	if d > r.stats.MaxCorrection {
		r.stats.MaxCorrection = d
	}
}

// Deviation returns the largest bend (swing) and twist angle, in radians, between any joint and its rest rotation
func (r *Rod) Deviation() (bend, twist float64) {
	if !r.ready {
		return 0, 0
	}
	parent := r.anchorRot
	for i, frame := range r.frames {
		rel := vmath.QMul(vmath.QConj(parent), frame)
		dev := vmath.QMul(vmath.QConj(r.restRel[i]), rel)
		swing, tw := vmath.QSwingTwist(dev, vmath.AxisZ)
		bend = math.Max(bend, vmath.QAngle(swing))
		twist = math.Max(twist, vmath.QAngle(tw))
		parent = frame
	}
	return bend, twist
}
