package strand

import (
	"errors"
	"fmt"
	"log"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/tendril/physics"
	"github.com/lixenwraith/tendril/vmath"
)

var (
	// ErrInvalidHost is returned by Init for a nil host, a host without anchors, or a non-finite anchor
	ErrInvalidHost = errors.New("invalid host")
	// ErrNotInitialized is returned by operations that need strands before Init succeeded
	ErrNotInitialized = errors.New("field not initialized")
)

// Environment carries per-frame inputs that are not host motion
type Environment struct {
	Wind vmath.Vec3F // air velocity in world space
}

// anchorState is the last valid host sample for one strand
type anchorState struct {
	frame  Frame
	motion Motion
}

// Field owns one curled strand per host anchor and steps them each frame
//
// Rods live in a contiguous slice indexed by strand; the field owns them exclusively.
// The host is held as an interface value and queried every frame; a frame with a non-finite
// pose freezes that strand's anchor instead of corrupting it.
type Field struct {
	params *physics.RodParams
	geom   Geometry

	host    Host
	rods    []physics.Rod
	anchors []anchorState
	scratch [][]vmath.Vec3F

	workers int
	frames  uint64
}

// NewField validates geometry and returns an empty field
func NewField(params *physics.RodParams, geom Geometry) (*Field, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: nil rod parameters", physics.ErrInvalidConfig)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return &Field{params: params, geom: geom, workers: 1}, nil
}

// SetWorkers bounds the goroutines used per Step; n <= 1 steps strands sequentially
func (f *Field) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	f.workers = n
}

// Init builds one rod per host anchor on the helical rest shape, discarding any previous strands
// On error the previous strands are kept
func (f *Field) Init(host Host) error {
	if host == nil {
		return fmt.Errorf("%w: nil host", ErrInvalidHost)
	}
	count := host.Anchors()
	if count < 1 {
		return fmt.Errorf("%w: host has %d anchors", ErrInvalidHost, count)
	}

	n := f.params.Particles
	rods := make([]physics.Rod, count)
	anchors := make([]anchorState, count)
	scratch := make([][]vmath.Vec3F, count)

	for i := 0; i < count; i++ {
		frame := host.AttachmentFrame(i)
		if !frame.Valid() {
			return fmt.Errorf("%w: anchor %d has non-finite frame", ErrInvalidHost, i)
		}
		frame.Orientation = vmath.QNormalize(frame.Orientation)

		rods[i] = *physics.NewRod(f.params)
		if err := rods[i].Initialize(Helix(f.geom, n, frame), frame.Orientation); err != nil {
			return fmt.Errorf("strand %d: %w", i, err)
		}

		motion := host.RecentMotion(i)
		if !motion.Valid() {
			motion = Motion{}
		}
		anchors[i] = anchorState{frame: frame, motion: motion}
		scratch[i] = make([]vmath.Vec3F, n)
	}

	f.host = host
	f.rods = rods
	f.anchors = anchors
	f.scratch = scratch
	f.frames = 0

	log.Printf("strand: initialized %d strands, %d particles, %d iterations", count, n, f.params.Iterations)
	return nil
}

// Reset rebuilds every strand from the current host pose
func (f *Field) Reset() error {
	if f.host == nil {
		return ErrNotInitialized
	}
	return f.Init(f.host)
}

// Update advances every strand by dt with no wind
func (f *Field) Update(dt float64) {
	f.Step(dt, Environment{})
}

// Step advances every strand by dt: sample the host, accumulate forces, integrate and relax
// dt <= 0 is a no-op. Strands are independent; with workers > 1 they step concurrently and
// Step returns after all have finished.
func (f *Field) Step(dt float64, env Environment) {
	if len(f.rods) == 0 || !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	if !vmath.V3FIsFinite(env.Wind) {
		env.Wind = vmath.Vec3F{}
	}

	// Host queries stay on the calling goroutine
	for i := range f.rods {
		f.sampleHost(i)
	}

	if f.workers <= 1 || len(f.rods) == 1 {
		for i := range f.rods {
			f.updateRod(i, dt, env)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(f.workers)
		for i := range f.rods {
			i := i
			g.Go(func() error {
				f.updateRod(i, dt, env)
				return nil
			})
		}
		_ = g.Wait()
	}
	f.frames++
}

// sampleHost refreshes strand i's anchor, keeping the last valid one when the host reports garbage
func (f *Field) sampleHost(i int) {
	frame := f.host.AttachmentFrame(i)
	motion := f.host.RecentMotion(i)

	st := &f.anchors[i]
	if frame.Valid() && f.rods[i].SetAnchor(frame.Position, frame.Orientation) {
		st.frame = frame
		if motion.Valid() {
			st.motion = motion
		} else {
			st.motion = Motion{}
		}
		return
	}
	// Frozen anchor does not move
	st.motion = Motion{}
}

func (f *Field) updateRod(i int, dt float64, env Environment) {
	rod := &f.rods[i]
	forces := f.scratch[i]
	f.accumulateExternalForces(rod, f.anchors[i], env, forces)
	for p := 1; p < len(forces); p++ {
		rod.ApplyForce(p, forces[p])
	}
	rod.IntegrateAndRelax(dt)
}

// Strands returns the number of strands
func (f *Field) Strands() int {
	return len(f.rods)
}

// Frames returns the number of completed steps since Init
func (f *Field) Frames() uint64 {
	return f.frames
}

// Params returns the shared rod parameters
func (f *Field) Params() *physics.RodParams {
	return f.params
}

// Geometry returns the rest coil geometry
func (f *Field) Geometry() Geometry {
	return f.geom
}

// Positions returns a copy of strand i's particle positions
func (f *Field) Positions(i int) []vmath.Vec3F {
	return append([]vmath.Vec3F(nil), f.rods[i].Positions()...)
}

// View returns strand i's live positions without copying, valid until the next Step
func (f *Field) View(i int) []vmath.Vec3F {
	return f.rods[i].Positions()
}

// Rod exposes strand i for diagnostics
func (f *Field) Rod(i int) *physics.Rod {
	return &f.rods[i]
}

// AnchorFrame returns the last valid anchor frame of strand i
func (f *Field) AnchorFrame(i int) Frame {
	return f.anchors[i].frame
}
