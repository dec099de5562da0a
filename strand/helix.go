package strand

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/tendril/vmath"
)

// ErrInvalidGeometry is returned when helix geometry fails validation
var ErrInvalidGeometry = errors.New("invalid strand geometry")

// Geometry is the helical rest shape of every strand in a field
type Geometry struct {
	Radius float64 // lateral extent of the coil, >0
	Length float64 // axial extent along the attachment normal, >0
	Turns  float64 // full revolutions from root to tip, >0
}

// Validate checks every field, reporting the first violation
func (g Geometry) Validate() error {
	switch {
	case !(g.Radius > 0) || math.IsInf(g.Radius, 0):
		return fmt.Errorf("%w: radius must be > 0, got %v", ErrInvalidGeometry, g.Radius)
	case !(g.Length > 0) || math.IsInf(g.Length, 0):
		return fmt.Errorf("%w: length must be > 0, got %v", ErrInvalidGeometry, g.Length)
	case !(g.Turns > 0) || math.IsInf(g.Turns, 0):
		return fmt.Errorf("%w: turns must be > 0, got %v", ErrInvalidGeometry, g.Turns)
	}
	return nil
}

// HelixLocal returns n points of the rest coil in anchor space
// Point 0 is the anchor itself; the coil advances along +Z and winds about an axis offset by -Radius on X
func HelixLocal(g Geometry, n int) []vmath.Vec3F {
	pts := make([]vmath.Vec3F, n)
	if n < 2 {
		return pts
	}
	for i := range pts {
		t := float64(i) / float64(n-1)
		theta := g.Turns * 2 * math.Pi * t
		s, c := math.Sincos(theta)
		pts[i] = vmath.Vec3F{
			X: g.Radius * (c - 1),
			Y: g.Radius * s,
			Z: g.Length * t,
		}
	}
	return pts
}

// Helix returns the rest coil placed on an attachment frame
func Helix(g Geometry, n int, at Frame) []vmath.Vec3F {
	pts := HelixLocal(g, n)
	for i := range pts {
		pts[i] = at.Apply(pts[i])
	}
	return pts
}
