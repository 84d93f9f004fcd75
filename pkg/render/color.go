package render

import "github.com/taigrr/pinhole/pkg/math3d"

// Color is the packed 0xRRGGBBAA pixel type stored in a Framebuffer.
type Color = math3d.Color

// ColorNone is the zero color returned for out-of-bounds reads.
const ColorNone Color = 0

// Colors for convenience
const (
	ColorBlack   Color = 0x000000FF
	ColorWhite   Color = 0xFFFFFFFF
	ColorRed     Color = 0xFF0000FF
	ColorGreen   Color = 0x00FF00FF
	ColorBlue    Color = 0x0000FFFF
	ColorYellow  Color = 0xFFFF00FF
	ColorCyan    Color = 0x00FFFFFF
	ColorMagenta Color = 0xFF00FFFF
	ColorGray    Color = 0x808080FF
	ColorSky     Color = 0x87CEEBFF
	ColorGrass   Color = 0x228B22FF
)

// RGB creates an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return math3d.RGB(r, g, b)
}

// RGBA creates a color from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return math3d.RGBA8(r, g, b, a)
}

// lerpColor blends two packed colors channel-wise.
func lerpColor(c0, c1 Color, t float64) Color {
	return c0.Vec3().Lerp(c1.Vec3(), t).Color()
}
