package strand

import (
	"sync"

	"github.com/lixenwraith/tendril/vmath"
)

// Frame is an attachment pose in world space
type Frame struct {
	Position    vmath.Vec3F
	Orientation vmath.Quat
}

// Valid reports whether the frame is finite with a usable orientation
func (f Frame) Valid() bool {
	return vmath.V3FIsFinite(f.Position) && vmath.QIsFinite(f.Orientation)
}

// Apply maps a point from the frame's local space to world space
func (f Frame) Apply(local vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FAdd(f.Position, vmath.QRotate(f.Orientation, local))
}

// Motion is the host's recent rigid motion at an anchor
type Motion struct {
	Linear  vmath.Vec3F // velocity of the anchor point
	Angular vmath.Vec3F // angular velocity, axis scaled by rad/s
}

// Valid reports whether both velocities are finite
func (m Motion) Valid() bool {
	return vmath.V3FIsFinite(m.Linear) && vmath.V3FIsFinite(m.Angular)
}

// PointVelocity returns the host velocity at world point p for an anchor at a
func (m Motion) PointVelocity(a, p vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FAdd(m.Linear, vmath.V3FCross(m.Angular, vmath.V3FSub(p, a)))
}

// Host is the object strands are attached to
// A Field reads it once per anchor per frame from the stepping goroutine; it is never written by the field
type Host interface {
	// Anchors returns the number of attachment points, one strand each
	Anchors() int
	// AttachmentFrame returns the current world pose of anchor i
	AttachmentFrame(i int) Frame
	// RecentMotion returns the host velocity at anchor i
	RecentMotion(i int) Motion
}

// RigidHost is a rigid body carrying attachment points fixed in body space
// Velocities are derived from consecutive poses committed with Advance
type RigidHost struct {
	mu sync.RWMutex

	local []Frame // attachment poses in body space

	pose     Frame
	prevPose Frame
	motion   Motion
}

// NewRigidHost creates a host at the origin with the given body-space attachments
func NewRigidHost(local ...Frame) *RigidHost {
	identity := Frame{Orientation: vmath.QuatIdentity}
	h := &RigidHost{
		local:    append([]Frame(nil), local...),
		pose:     identity,
		prevPose: identity,
	}
	return h
}

// NewStaticHost creates a host with identity-oriented anchors at fixed world points
func NewStaticHost(points ...vmath.Vec3F) *RigidHost {
	local := make([]Frame, len(points))
	for i, p := range points {
		local[i] = Frame{Position: p, Orientation: vmath.QuatIdentity}
	}
	return NewRigidHost(local...)
}

// SetPose moves the body; the move becomes motion on the next Advance
func (h *RigidHost) SetPose(pos vmath.Vec3F, rot vmath.Quat) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.pose = Frame{Position: pos, Orientation: vmath.QNormalize(rot)}
	h.mu.Unlock()
}

// Pose returns the body pose
func (h *RigidHost) Pose() Frame {
	if h == nil {
		return Frame{}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pose
}

// Advance derives linear and angular velocity from the pose change over dt and commits the pose
// dt <= 0 keeps the previous motion
func (h *RigidHost) Advance(dt float64) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !(dt > 0) {
		return
	}

	linear := vmath.V3FScale(vmath.V3FSub(h.pose.Position, h.prevPose.Position), 1/dt)
	delta := vmath.QMul(h.pose.Orientation, vmath.QConj(h.prevPose.Orientation))
	axis, angle := vmath.QAxisAngle(delta)
	h.motion = Motion{
		Linear:  linear,
		Angular: vmath.V3FScale(axis, angle/dt),
	}
	h.prevPose = h.pose
}

// Anchors returns the attachment count; a nil host has none
func (h *RigidHost) Anchors() int {
	if h == nil {
		return 0
	}
	return len(h.local)
}

// AttachmentFrame returns anchor i in world space; a nil host returns an invalid frame
func (h *RigidHost) AttachmentFrame(i int) Frame {
	if h == nil {
		return Frame{}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	l := h.local[i]
	return Frame{
		Position:    h.pose.Apply(l.Position),
		Orientation: vmath.QNormalize(vmath.QMul(h.pose.Orientation, l.Orientation)),
	}
}

// RecentMotion returns the rigid-body velocity at anchor i: v + ω × r
func (h *RigidHost) RecentMotion(i int) Motion {
	if h == nil {
		return Motion{}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	anchor := h.pose.Apply(h.local[i].Position)
	return Motion{
		Linear:  h.motion.PointVelocity(h.pose.Position, anchor),
		Angular: h.motion.Angular,
	}
}
