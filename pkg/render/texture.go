package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapMirror                 // Tile, flipping every other copy
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for projection and sampling. Like Framebuffer it is
// addressed bottom-up: (0, 0) is the lower-left texel and texture coordinate
// v = 0 is the bottom edge.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color // Row-major, top row first
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from any registered image format.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image. The image's top row
// becomes the texture's highest row.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	for row := range tex.Height {
		for x := range tex.Width {
			tex.Pixels[row*tex.Width+x] = math3d.ColorOf(img.At(b.Min.X+x, b.Min.Y+row))
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewGradientTexture creates a horizontal gradient texture.
func NewGradientTexture(width, height int, left, right Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			t := 0.0
			if width > 1 {
				t = float64(x) / float64(width-1)
			}
			tex.SetPixel(x, y, lerpColor(left, right, t))
		}
	}
	return tex
}

// SetPixel sets texel (x, y).
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[(t.Height-1-y)*t.Width+x] = c
}

// GetPixel returns texel (x, y), or ColorNone when out of bounds.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return ColorNone
	}
	return t.Pixels[(t.Height-1-y)*t.Width+x]
}

// Sample returns the color at texture coordinates (u, v).
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorNone
	}
	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	x := wrapTexel(floorInt(u*float64(t.Width)), t.Width, t.WrapU)
	y := wrapTexel(floorInt(v*float64(t.Height)), t.Height, t.WrapV)
	return t.GetPixel(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0, y0 := floorInt(fx), floorInt(fy)
	tx, ty := fx-float64(x0), fy-float64(y0)

	xa, xb := wrapTexel(x0, t.Width, t.WrapU), wrapTexel(x0+1, t.Width, t.WrapU)
	ya, yb := wrapTexel(y0, t.Height, t.WrapV), wrapTexel(y0+1, t.Height, t.WrapV)

	bottom := lerpColor(t.GetPixel(xa, ya), t.GetPixel(xb, ya), tx)
	top := lerpColor(t.GetPixel(xa, yb), t.GetPixel(xb, yb), tx)
	return lerpColor(bottom, top, ty)
}

// wrapTexel maps an integer texel coordinate into [0, size).
func wrapTexel(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x %= size
		if x < 0 {
			x += size
		}
	case WrapMirror:
		period := 2 * size
		x %= period
		if x < 0 {
			x += period
		}
		if x >= size {
			x = period - 1 - x
		}
	default:
		x = max(0, min(size-1, x))
	}
	return x
}

// MultiplyColor scales a color's RGB channels by intensity.
func MultiplyColor(c Color, intensity float64) Color {
	return c.Vec3().Scale(intensity).Color()
}

// ModulateColor multiplies two colors channel-wise.
func ModulateColor(a, b Color) Color {
	return a.Vec3().Mul(b.Vec3()).Color()
}
