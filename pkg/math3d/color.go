package math3d

import (
	"image/color"
	"math"
)

// Color is a packed 32-bit color laid out as 0xRRGGBBAA: red in the most
// significant byte, alpha in the least. Every pack and unpack site in the
// module, including the image codec and the presenters, uses this layout.
//
// Color implements color.Color with non-premultiplied alpha.
type Color uint32

const colorMax = 255

// RGB packs 8-bit channels into an opaque Color.
func RGB(r, g, b uint8) Color {
	return RGBA8(r, g, b, 0xFF)
}

// RGBA8 packs four 8-bit channels into a Color.
func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 24) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 16) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c >> 8) }

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c) }

// NRGBA returns the color as a standard library color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// ColorOf converts any color.Color to a packed Color.
func ColorOf(c color.Color) Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA8(n.R, n.G, n.B, n.A)
}

// Color packs an RGB vector with channels in [0, 1] into an opaque Color.
// Channels are clamped to [0, 1] and rounded to the nearest 8-bit step.
func (a Vec3) Color() Color {
	return RGB(quantize(a.X), quantize(a.Y), quantize(a.Z))
}

// Vec3 unpacks the color channels to an RGB vector in [0, 1]. Alpha is dropped.
func (c Color) Vec3() Vec3 {
	return Vec3{
		float64(c.R()) / colorMax,
		float64(c.G()) / colorMax,
		float64(c.B()) / colorMax,
	}
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(clamp01(v) * colorMax))
}
