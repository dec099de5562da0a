package render

import "github.com/gdamore/tcell/v2"

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack     = RGB{0, 0, 0}
	RGBRoot      = RGB{255, 200, 80}  // Warm anchor
	RGBTip       = RGB{80, 200, 255}  // Cool tip
	RGBHostBody  = RGB{150, 150, 165} // Host outline
	RGBHUD       = RGB{100, 100, 110}
	RGBHighlight = RGB{255, 200, 50}
)

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (dst RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}

// Scale darkens by f in [0, 1]
func (dst RGB) Scale(f float64) RGB {
	return RGBBlack.Blend(dst, f)
}

// Color converts to a tcell true color
func (dst RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(dst.R), int32(dst.G), int32(dst.B))
}

// Style returns a default-background style with dst as foreground
func (dst RGB) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(dst.Color())
}
