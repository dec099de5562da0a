package render

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tendril/parameter"
	"github.com/lixenwraith/tendril/physics"
	"github.com/lixenwraith/tendril/strand"
	"github.com/lixenwraith/tendril/vmath"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func findRune(s tcell.Screen, target rune) (int, int, bool) {
	w, h := s.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r, _, _, _ := s.GetContent(x, y); r == target {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func TestProjectorAxes(t *testing.T) {
	p := NewProjector(80, 24)

	x, y, depth, ok := p.Project(vmath.Vec3F{})
	if !ok || x != 40 || y != 12 || depth != parameter.CameraDistance {
		t.Fatalf("origin -> (%v, %v, %v, %v)", x, y, depth, ok)
	}

	if x, _, _, _ := p.Project(vmath.Vec3F{X: 1}); x <= 40 {
		t.Errorf("+X projected left: %v", x)
	}
	if _, y, _, _ := p.Project(vmath.Vec3F{Y: 1}); y >= 12 {
		t.Errorf("+Y projected down: %v", y)
	}

	// Nearer points spread further from center
	xNear, _, _, _ := p.Project(vmath.Vec3F{X: 1, Z: 1})
	xFar, _, _, _ := p.Project(vmath.Vec3F{X: 1, Z: -1})
	if xNear <= xFar {
		t.Errorf("perspective inverted: near %v far %v", xNear, xFar)
	}

	if _, _, _, ok := p.Project(vmath.Vec3F{Z: parameter.CameraDistance + 1}); ok {
		t.Error("point behind eye should not project")
	}
	if _, _, _, ok := p.Project(vmath.Vec3F{X: math.NaN()}); ok {
		t.Error("NaN should not project")
	}
}

func TestProjectorYaw(t *testing.T) {
	p := NewProjector(80, 24)
	p.Yaw = math.Pi / 2

	x, _, depth, ok := p.Project(vmath.Vec3F{X: 1})
	if !ok {
		t.Fatal("expected projection")
	}
	if math.Abs(x-40) > 1e-9 {
		t.Errorf("x = %v, want center", x)
	}
	if math.Abs(depth-(parameter.CameraDistance-1)) > 1e-9 {
		t.Errorf("depth = %v, want %v", depth, parameter.CameraDistance-1)
	}
}

func TestSlopeGlyph(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   rune
	}{
		{5, 0, '-'},
		{-5, 0.5, '-'},
		{0, 3, '|'},
		{0.2, -3, '|'},
		{2, 1, '\\'},
		{-2, -1, '\\'},
		{2, -1, '/'},
		{-2, 1, '/'},
	}
	for _, tt := range tests {
		if got := slopeGlyph(tt.dx, tt.dy); got != tt.want {
			t.Errorf("slopeGlyph(%v, %v) = %q, want %q", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestDrawTextClips(t *testing.T) {
	s := newSimScreen(t, 10, 3)
	DrawText(s, 7, 1, "abcdef", tcell.StyleDefault)
	DrawText(s, 0, 5, "offscreen", tcell.StyleDefault)

	if got := rowText(s, 1); got != "       abc" {
		t.Errorf("row = %q", got)
	}
}

func TestStrandViewDraw(t *testing.T) {
	params, err := physics.NewRodParams(physics.RodParams{
		BendStiffness:  parameter.BendStiffness,
		TwistStiffness: parameter.TwistStiffness,
		MaxForce:       parameter.MaxForce,
		Particles:      parameter.StrandParticles,
		Iterations:     parameter.RelaxIterations,
		Mass:           parameter.StrandMass,
	})
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	field, err := strand.NewField(params, strand.Geometry{
		Radius: parameter.StrandRadius,
		Length: parameter.StrandLength,
		Turns:  parameter.StrandTurns,
	})
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	host := strand.NewStaticHost(vmath.Vec3F{})
	if err := field.Init(host); err != nil {
		t.Fatalf("init: %v", err)
	}

	s := newSimScreen(t, 80, 26)
	// Side view so the coil axis does not point at the eye
	view := NewStrandView(NewProjector(80, 26))
	view.Projector().Yaw = math.Pi / 2
	view.Draw(s, field, host, Status{FPS: 60, Orbit: true})

	// Root drawn last over the host body marker at the same cell
	rx, ry, ok := findRune(s, glyphRoot)
	if !ok {
		t.Fatal("root glyph not drawn")
	}
	px, py, _, _ := view.Projector().Project(vmath.Vec3F{})
	if cx, cy := Cell(px, py); cx != rx || cy != ry {
		t.Errorf("root at (%d,%d), want (%d,%d)", rx, ry, cx, cy)
	}
	if _, _, ok := findRune(s, glyphTip); !ok {
		t.Error("tip glyph not drawn")
	}

	// Viewport excludes HUD rows
	if h := view.Projector().Height; h != 26-hudRows {
		t.Errorf("viewport height = %d", h)
	}

	status := rowText(s, 26-2)
	if !strings.Contains(status, "strands:1") {
		t.Errorf("status row missing strand count: %q", status)
	}
	if !strings.Contains(status, "[ORBIT]") {
		t.Errorf("status row missing orbit flag: %q", status)
	}
	if controls := rowText(s, 26-1); !strings.Contains(controls, "esc:quit") {
		t.Errorf("control row = %q", controls)
	}
}

func TestStrandViewSkipsNonFinite(t *testing.T) {
	s := newSimScreen(t, 40, 12)
	view := NewStrandView(NewProjector(40, 12))

	pts := []vmath.Vec3F{{}, {X: math.Inf(1)}, {Y: math.NaN()}}
	view.proj.Resize(40, 10)
	view.drawStrand(s, pts)

	if _, _, ok := findRune(s, glyphRoot); !ok {
		t.Error("finite root should still draw")
	}
	if _, _, ok := findRune(s, glyphTip); ok {
		t.Error("non-finite tip should not draw")
	}
}

func TestRGBBlend(t *testing.T) {
	if got := RGBRoot.Blend(RGBTip, 0); got != RGBRoot {
		t.Errorf("alpha 0 = %v", got)
	}
	if got := RGBRoot.Blend(RGBTip, 1); got != RGBTip {
		t.Errorf("alpha 1 = %v", got)
	}
	if got := RGBTip.Scale(0); got != RGBBlack {
		t.Errorf("scale 0 = %v", got)
	}
	fg, _, _ := RGBTip.Style().Decompose()
	if fg != tcell.NewRGBColor(int32(RGBTip.R), int32(RGBTip.G), int32(RGBTip.B)) {
		t.Errorf("style fg = %v", fg)
	}
}
