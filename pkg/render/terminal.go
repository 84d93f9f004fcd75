package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

// TerminalRenderer presents a Framebuffer as terminal cells. Each cell shows
// two vertically stacked pixels using the upper half block ▀ with the top
// pixel as foreground and the bottom pixel as background.
//
// When the screen area does not match the framebuffer, the image is scaled
// with nearest-neighbor sampling.
type TerminalRenderer struct {
	fb     *Framebuffer
	scaled *image.NRGBA
}

// NewTerminalRenderer creates a presenter for fb.
func NewTerminalRenderer(fb *Framebuffer) *TerminalRenderer {
	return &TerminalRenderer{fb: fb}
}

// CellSize returns the framebuffer dimensions that map one-to-one onto a
// terminal of cols x rows cells.
func CellSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw converts the framebuffer to cells covering area.
func (t *TerminalRenderer) Draw(scr uv.Screen, area uv.Rectangle) {
	w, h := CellSize(area.Dx(), area.Dy())
	if w <= 0 || h <= 0 {
		return
	}
	img := t.fb.ToImage()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		if t.scaled == nil || t.scaled.Bounds().Dx() != w || t.scaled.Bounds().Dy() != h {
			t.scaled = image.NewNRGBA(image.Rect(0, 0, w, h))
		}
		draw.NearestNeighbor.Scale(t.scaled, t.scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = t.scaled
	}

	for row := 0; row < area.Dy(); row++ {
		for col := 0; col < area.Dx(); col++ {
			top := img.NRGBAAt(col, row*2)
			bot := img.NRGBAAt(col, row*2+1)
			scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(top),
					Bg: cellColor(bot),
				},
			})
		}
	}
}

// cellColor maps fully transparent pixels to the terminal default.
func cellColor(c color.NRGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
