package strand

import (
	"github.com/lixenwraith/tendril/physics"
	"github.com/lixenwraith/tendril/vmath"
)

// accumulateExternalForces writes the summed external force for every particle of rod into out
//
// Contributions per particle of mass m at p with velocity v, host point velocity u = V + Ω×(p-A):
//   - gravity:  m*g
//   - drag:     -drag*m*(u - wind), air streaming past the moving host
//   - damping:  -damping*m*(v - u), motion relative to the host
//
// Each contribution is capped at MaxForce before summing. The root entry is left zero.
func (f *Field) accumulateExternalForces(rod *physics.Rod, anchor anchorState, env Environment, out []vmath.Vec3F) {
	p := f.params
	m := p.ParticleMass()
	maxForce := p.MaxForce

	gravity, _ := physics.CapForce(vmath.V3FScale(p.Gravity, m), maxForce)
	a := anchor.frame.Position

	out[0] = vmath.Vec3F{}
	for i := 1; i < len(out); i++ {
		pos := rod.Position(i)
		u := anchor.motion.PointVelocity(a, pos)

		drag, _ := physics.CapForce(vmath.V3FScale(vmath.V3FSub(u, env.Wind), -p.Drag*m), maxForce)
		damp, _ := physics.CapForce(vmath.V3FScale(vmath.V3FSub(rod.Velocity(i), u), -p.Damping*m), maxForce)

		out[i] = vmath.V3FAdd(vmath.V3FAdd(gravity, drag), damp)
	}
}
