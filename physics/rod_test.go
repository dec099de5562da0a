package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/tendril/vmath"
)

const frameDt = 1.0 / 60.0

// coil returns a helix growing along +Z from the origin
func coil(n int, radius, length, turns float64) []vmath.Vec3F {
	pts := make([]vmath.Vec3F, n)
	for i := range pts {
		t := float64(i) / float64(n-1)
		theta := turns * 2 * math.Pi * t
		pts[i] = vmath.Vec3F{
			X: radius * (math.Cos(theta) - 1),
			Y: radius * math.Sin(theta),
			Z: length * t,
		}
	}
	return pts
}

func newTestRod(t *testing.T, mutate func(p *RodParams)) *Rod {
	t.Helper()
	raw := validParams()
	raw.Gravity = vmath.Vec3F{}
	if mutate != nil {
		mutate(&raw)
	}
	params, err := NewRodParams(raw)
	if err != nil {
		t.Fatalf("NewRodParams: %v", err)
	}
	rod := NewRod(params)
	if err := rod.Initialize(coil(params.Particles, 0.1, 1.0, 3), vmath.QuatIdentity); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return rod
}

// applyAmbient adds gravity and damping the way a field would
func applyAmbient(rod *Rod) {
	p := rod.Params()
	m := p.ParticleMass()
	for i := 1; i < rod.Len(); i++ {
		rod.ApplyForce(i, vmath.V3FScale(p.Gravity, m))
		rod.ApplyForce(i, vmath.V3FScale(rod.Velocity(i), -p.Damping*m))
	}
}

func assertFinite(t *testing.T, rod *Rod) {
	t.Helper()
	for i, p := range rod.Positions() {
		if !vmath.V3FIsFinite(p) {
			t.Fatalf("particle %d not finite: %+v", i, p)
		}
		if !vmath.V3FIsFinite(rod.Velocity(i)) {
			t.Fatalf("velocity %d not finite: %+v", i, rod.Velocity(i))
		}
	}
}

func TestInitializeRejectsBadShapes(t *testing.T) {
	params, _ := NewRodParams(validParams())

	rod := NewRod(params)
	if err := rod.Initialize(coil(5, 0.1, 1, 3), vmath.QuatIdentity); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("short shape: expected ErrShapeMismatch, got %v", err)
	}

	same := make([]vmath.Vec3F, params.Particles)
	if err := rod.Initialize(same, vmath.QuatIdentity); !errors.Is(err, ErrDegenerateShape) {
		t.Errorf("coincident shape: expected ErrDegenerateShape, got %v", err)
	}

	bad := coil(params.Particles, 0.1, 1, 3)
	bad[3].X = math.NaN()
	if err := rod.Initialize(bad, vmath.QuatIdentity); !errors.Is(err, ErrDegenerateShape) {
		t.Errorf("NaN shape: expected ErrDegenerateShape, got %v", err)
	}

	if rod.Ready() {
		t.Error("rod should stay uninitialized after failed Initialize")
	}
}

func TestInitializeIsRelaxed(t *testing.T) {
	rod := newTestRod(t, nil)

	bend, twist := rod.Deviation()
	if bend > 1e-9 || twist > 1e-9 {
		t.Errorf("fresh rod deviates from rest: bend=%g twist=%g", bend, twist)
	}
	for i := 0; i < rod.Len()-1; i++ {
		if math.Abs(rod.EdgeLength(i)-rod.RestLength(i)) > 1e-12 {
			t.Errorf("edge %d length %f, rest %f", i, rod.EdgeLength(i), rod.RestLength(i))
		}
		tangent := vmath.V3FNormalize(vmath.V3FSub(rod.Position(i+1), rod.Position(i)))
		axis := vmath.QRotate(rod.Frame(i), vmath.AxisZ)
		if vmath.V3FDist(tangent, axis) > 1e-9 {
			t.Errorf("frame %d tangent %+v, edge %+v", i, axis, tangent)
		}
	}
}

func TestUninitializedRodIgnoresStep(t *testing.T) {
	params, _ := NewRodParams(validParams())
	rod := NewRod(params)
	rod.IntegrateAndRelax(frameDt)
	for i, p := range rod.Positions() {
		if p != (vmath.Vec3F{}) {
			t.Errorf("particle %d moved on uninitialized rod: %+v", i, p)
		}
	}
}

func TestZeroDtIsNoop(t *testing.T) {
	rod := newTestRod(t, func(p *RodParams) { p.Gravity = vmath.Vec3F{Y: -9.81} })

	// Put the rod in motion first
	for f := 0; f < 10; f++ {
		applyAmbient(rod)
		rod.IntegrateAndRelax(frameDt)
	}

	pos := append([]vmath.Vec3F(nil), rod.Positions()...)
	vel := make([]vmath.Vec3F, rod.Len())
	for i := range vel {
		vel[i] = rod.Velocity(i)
	}

	for _, dt := range []float64{0, -frameDt, math.NaN(), math.Inf(1)} {
		rod.ApplyForce(3, vmath.Vec3F{X: 5})
		rod.IntegrateAndRelax(dt)
		for i := range pos {
			if rod.Position(i) != pos[i] || rod.Velocity(i) != vel[i] {
				t.Fatalf("dt=%v changed particle %d", dt, i)
			}
		}
	}
}

func TestRootTracksAnchor(t *testing.T) {
	rod := newTestRod(t, func(p *RodParams) { p.Gravity = vmath.Vec3F{Y: -9.81} })

	for f := 0; f < 120; f++ {
		angle := float64(f) * 0.05
		anchor := vmath.Vec3F{X: math.Cos(angle), Y: 0.3 * math.Sin(2*angle), Z: math.Sin(angle)}
		rot := vmath.QFromAxisAngle(vmath.AxisY, angle)
		if !rod.SetAnchor(anchor, rot) {
			t.Fatalf("frame %d: valid anchor rejected", f)
		}
		applyAmbient(rod)
		rod.IntegrateAndRelax(frameDt)

		if d := vmath.V3FDist(rod.Position(0), anchor); d > 1e-12 {
			t.Fatalf("frame %d: root %g away from anchor", f, d)
		}
		assertFinite(t, rod)
	}
}

func TestSetAnchorRejectsNonFinite(t *testing.T) {
	rod := newTestRod(t, nil)
	before, _ := rod.Anchor()

	if rod.SetAnchor(vmath.Vec3F{X: math.NaN()}, vmath.QuatIdentity) {
		t.Error("NaN position accepted")
	}
	if rod.SetAnchor(vmath.Vec3F{}, vmath.Quat{}) {
		t.Error("zero orientation accepted")
	}
	if after, _ := rod.Anchor(); after != before {
		t.Errorf("anchor changed to %+v", after)
	}
}

func TestHugeForceIsClamped(t *testing.T) {
	rod := newTestRod(t, nil)
	params := rod.Params()

	for f := 0; f < 30; f++ {
		rod.ApplyForce(rod.Len()-1, vmath.Vec3F{X: 1e12, Y: -1e12})
		rod.ApplyForce(rod.Len()/2, vmath.Vec3F{Z: math.Inf(1)})
		rod.IntegrateAndRelax(frameDt)

		s := rod.Stats()
		if s.MaxForce > params.MaxForce+1e-9 {
			t.Fatalf("frame %d: applied force %g exceeds %g", f, s.MaxForce, params.MaxForce)
		}
		if limit := params.CorrectionLimit(frameDt); s.MaxCorrection > limit+1e-9 {
			t.Fatalf("frame %d: correction %g exceeds %g", f, s.MaxCorrection, limit)
		}
		if s.Suppressed == 0 {
			t.Fatalf("frame %d: infinite force not reported as suppressed", f)
		}
		assertFinite(t, rod)
	}
}

func TestApplyForceOutOfRange(t *testing.T) {
	rod := newTestRod(t, nil)
	rod.ApplyForce(-1, vmath.Vec3F{X: 1})
	rod.ApplyForce(rod.Len(), vmath.Vec3F{X: 1})
	for i := 0; i < rod.Len(); i++ {
		if rod.PendingForce(i) != (vmath.Vec3F{}) {
			t.Errorf("particle %d received out of range force", i)
		}
	}
}
