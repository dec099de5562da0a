package render

import (
	"math"

	"github.com/lixenwraith/tendril/parameter"
	"github.com/lixenwraith/tendril/vmath"
)

// minDepth keeps points behind or at the eye from exploding
const minDepth = 0.05

// Projector maps world points to terminal cells with a pinhole camera
// The eye sits at (0, 0, Distance) rotated by Yaw about +Y, looking at the origin
type Projector struct {
	Width, Height int
	Distance      float64
	Focal         float64
	Aspect        float64 // cell height / cell width
	Yaw           float64
}

// NewProjector returns a projector for a screen with default camera settings
func NewProjector(width, height int) *Projector {
	return &Projector{
		Width:    width,
		Height:   height,
		Distance: parameter.CameraDistance,
		Focal:    parameter.CameraFocal,
		Aspect:   parameter.CellAspect,
	}
}

// Resize updates screen dimensions
func (p *Projector) Resize(width, height int) {
	p.Width, p.Height = width, height
}

// Project returns continuous screen coordinates and eye depth of world point w
// ok is false for points behind the eye or non-finite input
func (p *Projector) Project(w vmath.Vec3F) (x, y, depth float64, ok bool) {
	if !vmath.V3FIsFinite(w) {
		return 0, 0, 0, false
	}

	// World to camera: undo yaw
	s, c := math.Sincos(-p.Yaw)
	cx := c*w.X + s*w.Z
	cz := -s*w.X + c*w.Z

	depth = p.Distance - cz
	if depth < minDepth {
		return 0, 0, depth, false
	}

	inv := p.Focal / depth
	x = float64(p.Width)/2 + cx*inv*p.Aspect
	y = float64(p.Height)/2 - w.Y*inv
	return x, y, depth, true
}

// Cell returns the cell containing a projected point
func Cell(x, y float64) (int, int) {
	return int(math.Floor(x)), int(math.Floor(y))
}
