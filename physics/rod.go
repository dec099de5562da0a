package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/tendril/vmath"
)

var (
	// ErrShapeMismatch is returned when a rest shape has the wrong particle count
	ErrShapeMismatch = errors.New("rest shape does not match particle count")
	// ErrDegenerateShape is returned when a rest shape has coincident or non-finite particles
	ErrDegenerateShape = errors.New("degenerate rest shape")
)

// minEdgeLength is the shortest edge treated as having a direction
const minEdgeLength = 1e-12

// Stats records solver activity for the last IntegrateAndRelax call
type Stats struct {
	MaxForce      float64 `json:"max_force"`      // largest force magnitude applied during integration
	MaxCorrection float64 `json:"max_correction"` // largest single corrective displacement, measured at the particle next to the joint
	Suppressed    int     `json:"suppressed"`     // non-finite terms zeroed
	Clamped       int     `json:"clamped"`        // forces or corrections that hit their limit
}

// Rod is a chain of mass points with one material frame per edge
// Particle 0 is pinned to the anchor; the rest integrate freely and are pulled back toward the rest shape
// Zero value is uninitialized and ignores IntegrateAndRelax
type Rod struct {
	params *RodParams

	pos   []vmath.Vec3F
	prev  []vmath.Vec3F
	vel   []vmath.Vec3F
	force []vmath.Vec3F

	// frames[i] orients edge i (pos[i] -> pos[i+1]); local +Z is the tangent
	frames []vmath.Quat

	restLen []float64
	// restRel[i] is joint i's rest rotation: parent frame to frames[i], parent of 0 is the anchor
	restRel []vmath.Quat

	anchorPos vmath.Vec3F
	anchorRot vmath.Quat

	ready bool
	stats Stats
}

// NewRod allocates an uninitialized rod sized by params
func NewRod(params *RodParams) *Rod {
	r := &Rod{}
	r.alloc(params)
	return r
}

func (r *Rod) alloc(params *RodParams) {
	n := params.Particles
	r.params = params
	r.pos = make([]vmath.Vec3F, n)
	r.prev = make([]vmath.Vec3F, n)
	r.vel = make([]vmath.Vec3F, n)
	r.force = make([]vmath.Vec3F, n)
	r.frames = make([]vmath.Quat, n-1)
	r.restLen = make([]float64, n-1)
	r.restRel = make([]vmath.Quat, n-1)
	r.anchorRot = vmath.QuatIdentity
	r.ready = false
}

// Initialize places the rod on rest with zero velocity
// rest[0] becomes the anchor; anchorRot is the attachment orientation the root joint is measured against
// Rest lengths and rest joint rotations are derived from rest
func (r *Rod) Initialize(rest []vmath.Vec3F, anchorRot vmath.Quat) error {
	if r.params == nil {
		return fmt.Errorf("%w: rod has no parameters", ErrInvalidConfig)
	}
	n := r.params.Particles
	if len(rest) != n {
		return fmt.Errorf("%w: got %d points, want %d", ErrShapeMismatch, len(rest), n)
	}
	if !vmath.QIsFinite(anchorRot) {
		return fmt.Errorf("%w: anchor orientation not finite", ErrDegenerateShape)
	}
	for i, p := range rest {
		if !vmath.V3FIsFinite(p) {
			return fmt.Errorf("%w: point %d not finite", ErrDegenerateShape, i)
		}
	}
	for i := 0; i < n-1; i++ {
		if vmath.V3FDist(rest[i], rest[i+1]) < minEdgeLength {
			return fmt.Errorf("%w: points %d and %d coincide", ErrDegenerateShape, i, i+1)
		}
	}

	copy(r.pos, rest)
	copy(r.prev, rest)
	clear(r.vel)
	clear(r.force)

	r.anchorPos = rest[0]
	r.anchorRot = vmath.QNormalize(anchorRot)

	// Frames by parallel transport from the anchor's normal along the chain
	parent := r.anchorRot
	parentTangent := vmath.QRotate(parent, vmath.AxisZ)
	for i := 0; i < n-1; i++ {
		edge := vmath.V3FSub(rest[i+1], rest[i])
		tangent := vmath.V3FNormalize(edge)
		frame := vmath.QNormalize(vmath.QMul(vmath.QFromTo(parentTangent, tangent), parent))

		r.frames[i] = frame
		r.restLen[i] = vmath.V3FMag(edge)
		r.restRel[i] = vmath.QNormalize(vmath.QMul(vmath.QConj(parent), frame))

		parent = frame
		parentTangent = tangent
	}

	r.stats = Stats{}
	r.ready = true
	return nil
}

// Ready reports whether Initialize has succeeded
func (r *Rod) Ready() bool {
	return r.ready
}

// Params returns the shared parameters
func (r *Rod) Params() *RodParams {
	return r.params
}

// SetAnchor sets the pinned root target for the next IntegrateAndRelax
// Non-finite input is ignored, keeping the last valid anchor
func (r *Rod) SetAnchor(pos vmath.Vec3F, rot vmath.Quat) bool {
	if !vmath.V3FIsFinite(pos) || !vmath.QIsFinite(rot) {
		return false
	}
	r.anchorPos = pos
	r.anchorRot = vmath.QNormalize(rot)
	return true
}

// Anchor returns the current pinned root target
func (r *Rod) Anchor() (vmath.Vec3F, vmath.Quat) {
	return r.anchorPos, r.anchorRot
}

// ApplyForce accumulates an external force on particle i for the current frame
// Out of range indices are ignored
func (r *Rod) ApplyForce(i int, f vmath.Vec3F) {
	if i < 0 || i >= len(r.force) {
		return
	}
	r.force[i] = vmath.V3FAdd(r.force[i], f)
}

// PendingForce returns the force accumulated on particle i since the last step
func (r *Rod) PendingForce(i int) vmath.Vec3F {
	if i < 0 || i >= len(r.force) {
		return vmath.Vec3F{}
	}
	return r.force[i]
}

// IntegrateAndRelax advances the rod by dt: integration, then Iterations relaxation passes
// dt <= 0 (or non-finite) leaves all state unchanged
func (r *Rod) IntegrateAndRelax(dt float64) {
	if !r.ready || !(dt > 0) || math.IsInf(dt, 0) {
		return
	}

	r.stats = Stats{}
	copy(r.prev, r.pos)

	r.integrate(dt)
	r.transportFrames()

	limit := r.params.CorrectionLimit(dt)
	bend := r.params.passFraction(frameFraction(r.params.BendStiffness, dt))
	twist := r.params.passFraction(frameFraction(r.params.TwistStiffness, dt))
	for it := 0; it < r.params.Iterations; it++ {
		r.relaxPass(bend, twist, limit)
	}

	r.deriveVelocities(dt)
}

// Len returns the particle count
func (r *Rod) Len() int {
	return len(r.pos)
}

// Positions returns the particle positions
// The slice is owned by the rod and valid until the next step; callers must not modify it
func (r *Rod) Positions() []vmath.Vec3F {
	return r.pos
}

// Position returns particle i
func (r *Rod) Position(i int) vmath.Vec3F {
	return r.pos[i]
}

// Velocity returns particle i's velocity
func (r *Rod) Velocity(i int) vmath.Vec3F {
	return r.vel[i]
}

// Frame returns edge i's material frame
func (r *Rod) Frame(i int) vmath.Quat {
	return r.frames[i]
}

// EdgeLength returns the current length of edge i
func (r *Rod) EdgeLength(i int) float64 {
	return vmath.V3FDist(r.pos[i], r.pos[i+1])
}

// RestLength returns the rest length of edge i
func (r *Rod) RestLength(i int) float64 {
	return r.restLen[i]
}

// Stats returns solver activity for the last step
func (r *Rod) Stats() Stats {
	return r.stats
}
