package physics

import (
	"github.com/lixenwraith/tendril/vmath"
)

// integrate applies accumulated forces to free particles and snaps the root to the anchor
// Forces are consumed
func (r *Rod) integrate(dt float64) {
	maxForce := r.params.MaxForce
	invMass := 1.0 / r.params.ParticleMass()

	for i := 1; i < len(r.pos); i++ {
		f, capped := CapForce(r.force[i], maxForce)
		if capped {
			if vmath.V3FIsFinite(r.force[i]) {
				r.stats.Clamped++
			} else {
				r.stats.Suppressed++
			}
		}
		if mag := vmath.V3FMag(f); mag > r.stats.MaxForce {
			r.stats.MaxForce = mag
		}

		if !Integrate(&r.pos[i], &r.vel[i], vmath.V3FScale(f, invMass), dt) {
			// Keep previous position, drop momentum
			r.vel[i] = vmath.Vec3F{}
			r.stats.Suppressed++
		}
	}

	// Root velocity comes from the anchor displacement in deriveVelocities
	r.pos[0] = r.anchorPos
	clear(r.force)
}

// transportFrames rotates every edge frame by the minimal rotation onto its new tangent
// Zero-length edges keep their frame
func (r *Rod) transportFrames() {
	for i := range r.frames {
		edge := vmath.V3FSub(r.pos[i+1], r.pos[i])
		l := vmath.V3FMag(edge)
		if l < minEdgeLength || !vmath.IsFinite(l) {
			continue
		}
		old := vmath.QRotate(r.frames[i], vmath.AxisZ)
		r.frames[i] = vmath.QNormalize(vmath.QMul(vmath.QFromTo(old, vmath.V3FScale(edge, 1/l)), r.frames[i]))
	}
}

// deriveVelocities sets velocity from the frame's net displacement
func (r *Rod) deriveVelocities(dt float64) {
	inv := 1.0 / dt
	for i := range r.pos {
		v := vmath.V3FScale(vmath.V3FSub(r.pos[i], r.prev[i]), inv)
		if !vmath.V3FIsFinite(v) {
			v = vmath.Vec3F{}
			r.stats.Suppressed++
		}
		r.vel[i] = v
	}
}
