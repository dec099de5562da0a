package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tendril/strand"
	"github.com/lixenwraith/tendril/vmath"
)

// hudRows is reserved at the bottom of the screen
const hudRows = 2

// Glyphs
const (
	glyphRoot = '@'
	glyphTip  = '*'
	glyphBody = '+'
)

// Status is the per-frame HUD content
type Status struct {
	FPS       float64
	Wind      vmath.Vec3F
	Orbit     bool
	Paused    bool
	Muted     bool
	Recording bool
	TipSpeed  float64
}

// StrandView draws a strand field through a projector onto a tcell screen
type StrandView struct {
	proj *Projector

	// Reused per frame
	order  []int
	depths []float64
}

// NewStrandView creates a view using proj
func NewStrandView(proj *Projector) *StrandView {
	return &StrandView{proj: proj}
}

// Projector returns the view camera
func (v *StrandView) Projector() *Projector {
	return v.proj
}

// Draw clears screen and renders host, strands and HUD without calling Show
func (v *StrandView) Draw(screen tcell.Screen, field *strand.Field, host *strand.RigidHost, st Status) {
	screen.Clear()
	w, h := screen.Size()
	v.proj.Resize(w, h-hudRows)

	if host != nil {
		v.drawPoint(screen, host.Pose().Position, glyphBody, RGBHostBody)
	}

	// Painter's algorithm: far strands first
	n := field.Strands()
	v.order = v.order[:0]
	v.depths = v.depths[:0]
	for i := 0; i < n; i++ {
		_, _, d, _ := v.proj.Project(field.AnchorFrame(i).Position)
		v.order = append(v.order, i)
		v.depths = append(v.depths, d)
	}
	sort.SliceStable(v.order, func(a, b int) bool {
		return v.depths[v.order[a]] > v.depths[v.order[b]]
	})

	for _, i := range v.order {
		v.drawStrand(screen, field.View(i))
	}

	v.drawHUD(screen, field, st, w, h)
}

// drawStrand rasterizes consecutive particles with slope glyphs and a root to tip gradient
func (v *StrandView) drawStrand(screen tcell.Screen, pts []vmath.Vec3F) {
	last := len(pts) - 1
	if last < 1 {
		return
	}

	for i := 0; i < last; i++ {
		x1, y1, _, ok1 := v.proj.Project(pts[i])
		x2, y2, _, ok2 := v.proj.Project(pts[i+1])
		if !ok1 || !ok2 || !v.segmentVisible(x1, y1, x2, y2) {
			continue
		}
		color := RGBRoot.Blend(RGBTip, float64(i)/float64(last))
		style := color.Style()
		glyph := slopeGlyph(x2-x1, y2-y1)

		vmath.Traverse(x1, y1, x2, y2, func(cx, cy int) bool {
			v.setCell(screen, cx, cy, glyph, style)
			return true
		})
	}

	v.drawPoint(screen, pts[0], glyphRoot, RGBRoot)
	v.drawPoint(screen, pts[last], glyphTip, RGBTip)
}

// segmentVisible rejects segments far outside the view so traversal stays bounded
func (v *StrandView) segmentVisible(x1, y1, x2, y2 float64) bool {
	w, h := float64(v.proj.Width), float64(v.proj.Height)
	if max(x1, x2) < 0 || min(x1, x2) >= w || max(y1, y2) < 0 || min(y1, y2) >= h {
		return false
	}
	span := math.Abs(x2-x1) + math.Abs(y2-y1)
	return span <= 2*(w+h)
}

func (v *StrandView) drawPoint(screen tcell.Screen, p vmath.Vec3F, glyph rune, color RGB) {
	x, y, _, ok := v.proj.Project(p)
	if !ok {
		return
	}
	cx, cy := Cell(x, y)
	v.setCell(screen, cx, cy, glyph, color.Style().Bold(true))
}

func (v *StrandView) setCell(screen tcell.Screen, x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= v.proj.Width || y >= v.proj.Height {
		return
	}
	screen.SetContent(x, y, r, nil, style)
}

// slopeGlyph picks a line character for a screen-space direction; screen Y grows downward
func slopeGlyph(dx, dy float64) rune {
	// Cells are taller than wide; compare in square units
	ax, ay := math.Abs(dx), math.Abs(dy)*2
	switch {
	case ax > 2*ay:
		return '-'
	case ay > 2*ax:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func (v *StrandView) drawHUD(screen tcell.Screen, field *strand.Field, st Status, w, h int) {
	statusY := h - 2
	controlY := h - 1
	dim := RGBHUD.Style()

	bend, twist := 0.0, 0.0
	for i := 0; i < field.Strands(); i++ {
		b, t := field.Rod(i).Deviation()
		bend = max(bend, b)
		twist = max(twist, t)
	}

	s := fmt.Sprintf("strands:%d  fps:%4.0f  bend:%5.3f  twist:%5.3f  tip:%4.2fm/s  wind:(%+.1f,%+.1f,%+.1f)",
		field.Strands(), st.FPS, bend, twist, st.TipSpeed, st.Wind.X, st.Wind.Y, st.Wind.Z)
	DrawText(screen, 1, statusY, s, RGBTip.Style())

	var flags string
	if st.Orbit {
		flags += "[ORBIT]"
	}
	if st.Paused {
		flags += "[PAUSED]"
	}
	if st.Muted {
		flags += "[MUTE]"
	}
	if st.Recording {
		flags += "[REC]"
	}
	if flags != "" {
		DrawText(screen, w-len(flags)-1, statusY, flags, RGBHighlight.Style())
	}

	DrawText(screen, 1, controlY, "wasd/qe:move  j/l:turn  h/k:camera  o:orbit  g:gust  space:pause  r:reset  m:mute  esc:quit", dim)
}

// DrawText writes s left to right starting at (x, y), clipped to the screen
func DrawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	w, h := screen.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range s {
		if x >= w {
			return
		}
		if x >= 0 {
			screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
