package render

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// DefaultFont is the bitmap font used by DrawText.
var DefaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// textDisplay adapts a Framebuffer to drivers.Displayer. Displayers are
// addressed top-down, so y is flipped on the way in.
type textDisplay struct {
	fb *Framebuffer
}

var _ drivers.Displayer = textDisplay{}

func (d textDisplay) Size() (x, y int16) {
	return int16(d.fb.Width), int16(d.fb.Height)
}

func (d textDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.fb.SetPixel(int(x), d.fb.Height-1-int(y), RGBA(c.R, c.G, c.B, c.A))
}

func (d textDisplay) Display() error { return nil }

// DrawText writes s with its baseline starting at (u, v). Text reads upright
// when the framebuffer is presented top row first.
func (fb *Framebuffer) DrawText(u, v int, s string, c Color) {
	d := textDisplay{fb: fb}
	tinyfont.WriteLine(d, DefaultFont, int16(u), int16(fb.Height-1-v), s, color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()})
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(s string) int {
	_, w := tinyfont.LineWidth(DefaultFont, s)
	return int(w)
}
