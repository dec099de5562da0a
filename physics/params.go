package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/tendril/vmath"
)

// ErrInvalidConfig is returned when rod parameters fail validation
var ErrInvalidConfig = errors.New("invalid rod configuration")

// RodParams is the physical configuration shared by every strand of one field
// Read-only after NewRodParams returns
type RodParams struct {
	BendStiffness  float64     // fraction of bend deviation removed per ReferenceStep frame, >0 (values >=1 act as 1)
	TwistStiffness float64     // fraction of twist deviation removed per ReferenceStep frame, >0
	MaxForce       float64     // clamp on any single force contribution and corrective displacement source, >0
	Particles      int         // mass points per strand, >=2
	Iterations     int         // relaxation passes per frame, >=1
	Mass           float64     // total strand mass, >0
	Damping        float64     // velocity damping relative to host, >=0
	Drag           float64     // air drag from host motion, >=0
	Gravity        vmath.Vec3F // gravitational acceleration
}

// NewRodParams validates p and returns a shared copy
func NewRodParams(p RodParams) (*RodParams, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every field, reporting the first violation
func (p RodParams) Validate() error {
	switch {
	case !positive(p.BendStiffness):
		return fmt.Errorf("%w: bend stiffness must be > 0, got %v", ErrInvalidConfig, p.BendStiffness)
	case !positive(p.TwistStiffness):
		return fmt.Errorf("%w: twist stiffness must be > 0, got %v", ErrInvalidConfig, p.TwistStiffness)
	case !positive(p.MaxForce):
		return fmt.Errorf("%w: max force must be > 0, got %v", ErrInvalidConfig, p.MaxForce)
	case p.Particles < 2:
		return fmt.Errorf("%w: particle count must be >= 2, got %d", ErrInvalidConfig, p.Particles)
	case p.Iterations < 1:
		return fmt.Errorf("%w: iteration count must be >= 1, got %d", ErrInvalidConfig, p.Iterations)
	case !positive(p.Mass):
		return fmt.Errorf("%w: mass must be > 0, got %v", ErrInvalidConfig, p.Mass)
	case !nonNegative(p.Damping):
		return fmt.Errorf("%w: damping must be >= 0, got %v", ErrInvalidConfig, p.Damping)
	case !nonNegative(p.Drag):
		return fmt.Errorf("%w: drag must be >= 0, got %v", ErrInvalidConfig, p.Drag)
	case !vmath.V3FIsFinite(p.Gravity):
		return fmt.Errorf("%w: gravity must be finite, got %+v", ErrInvalidConfig, p.Gravity)
	}
	return nil
}

// ParticleMass returns the implicit per-particle mass
func (p *RodParams) ParticleMass() float64 {
	return p.Mass / float64(p.Particles)
}

// CorrectionLimit returns the largest displacement a single corrective step may impose during a frame of length dt
// Equals the distance a particle travels from rest under MaxForce for dt
func (p *RodParams) CorrectionLimit(dt float64) float64 {
	return p.MaxForce * dt * dt / p.ParticleMass()
}

// ReferenceStep is the frame length at which a stiffness equals the fraction of deviation removed per frame (s)
const ReferenceStep = 1.0 / 60

// frameFraction returns the share of a deviation one frame of length dt removes for stiffness k
// k maps to a compliance c = ReferenceStep²(1/k - 1) and the frame removes dt²/(dt² + c), so a constant
// load settles to the same shape at any frame rate. k >= 1 is rigid.
func frameFraction(k, dt float64) float64 {
	if k >= 1 {
		return 1
	}
	c := ReferenceStep * ReferenceStep * (1/k - 1)
	dt2 := dt * dt
	return dt2 / (dt2 + c)
}

// passFraction returns the share of a deviation one relaxation pass removes
// Chosen so Iterations passes remove exactly min(f,1) of the deviation
func (p *RodParams) passFraction(f float64) float64 {
	if f >= 1 {
		return 1
	}
	return 1 - math.Pow(1-f, 1/float64(p.Iterations))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
