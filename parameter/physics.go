package parameter

// Rod Physics Defaults
// Reference scenario values; the config layer falls back to these for unset keys
const (
	// StrandRadius is the lateral extent of the rest coil (m)
	StrandRadius = 0.1
	// StrandLength is the axial extent of the rest coil along the attachment normal (m)
	StrandLength = 1.0
	// StrandTurns is the number of full revolutions from root to tip
	StrandTurns = 3.0

	// BendStiffness is the fraction of bend deviation removed per frame
	BendStiffness = 0.5
	// TwistStiffness is the fraction of twist deviation removed per frame
	TwistStiffness = 0.3
	// MaxForce caps any single force contribution (N)
	MaxForce = 10.0

	// StrandParticles is the mass point count per strand
	StrandParticles = 10
	// RelaxIterations is the number of relaxation passes per frame
	RelaxIterations = 5

	// StrandMass is the total mass of one strand (kg), split evenly across particles
	StrandMass = 1.0
	// StrandDamping damps particle velocity relative to the host (1/sec)
	StrandDamping = 1.5
	// StrandDrag scales air drag from host motion (1/sec)
	StrandDrag = 0.8

	// Gravity is the downward acceleration along -Y (m/s²)
	Gravity = 9.81
)
