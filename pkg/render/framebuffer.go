// Package render provides the pinhole camera, the software rasterizer and the
// presenters that turn a framebuffer into terminal cells or image files.
package render

// Framebuffer is a Width x Height grid of packed colors with an optional
// depth buffer of reciprocal depths.
//
// Pixel coordinates are (u, v) with u growing right and v growing up; memory is
// row-major top to bottom, so pixel (u, v) lives at (Height-1-v)*Width + u.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color // Row-major, top row first

	depth []float64 // Allocated on first depth access; 0 means nothing drawn
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

func (fb *Framebuffer) inBounds(u, v int) bool {
	return u >= 0 && u < fb.Width && v >= 0 && v < fb.Height
}

func (fb *Framebuffer) index(u, v int) int {
	return (fb.Height-1-v)*fb.Width + u
}

// Resize reallocates the buffers. Pixel and depth contents are discarded.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]Color, width*height)
	fb.depth = nil
}

// SetPixel sets pixel (u, v). Out-of-bounds writes are dropped.
func (fb *Framebuffer) SetPixel(u, v int, c Color) {
	if !fb.inBounds(u, v) {
		return
	}
	fb.Pixels[fb.index(u, v)] = c
}

// GetPixel returns pixel (u, v), or ColorNone when out of bounds.
func (fb *Framebuffer) GetPixel(u, v int) Color {
	if !fb.inBounds(u, v) {
		return ColorNone
	}
	return fb.Pixels[fb.index(u, v)]
}

// Fill sets every pixel to c.
func (fb *Framebuffer) Fill(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// FillCheckerboard fills the buffer with size x size squares alternating
// between c0 and c1, starting with c0 at the origin.
func (fb *Framebuffer) FillCheckerboard(size int, c0, c1 Color) {
	if size <= 0 {
		fb.Fill(c0)
		return
	}
	for v := range fb.Height {
		for u := range fb.Width {
			c := c0
			if (u/size+v/size)%2 == 1 {
				c = c1
			}
			fb.SetPixel(u, v, c)
		}
	}
}

// Clear fills the buffer with c and resets the depth buffer.
func (fb *Framebuffer) Clear(c Color) {
	fb.Fill(c)
	fb.ClearZBuffer()
}

func (fb *Framebuffer) ensureDepth() {
	if len(fb.depth) != fb.Width*fb.Height {
		fb.depth = make([]float64, fb.Width*fb.Height)
	}
}

// ClearZBuffer resets every depth entry to 0 (nothing drawn).
func (fb *Framebuffer) ClearZBuffer() {
	if fb.depth == nil {
		return
	}
	clear(fb.depth)
}

// ZBuffer returns the reciprocal depth stored at (u, v), or 0 when out of
// bounds or nothing has been drawn there.
func (fb *Framebuffer) ZBuffer(u, v int) float64 {
	if !fb.inBounds(u, v) {
		return 0
	}
	fb.ensureDepth()
	return fb.depth[fb.index(u, v)]
}

// SetZBuffer stores a reciprocal depth at (u, v).
func (fb *Framebuffer) SetZBuffer(u, v int, z float64) {
	if !fb.inBounds(u, v) {
		return
	}
	fb.ensureDepth()
	fb.depth[fb.index(u, v)] = z
}

// IsFarther reports whether a fragment with reciprocal depth z at (u, v) is
// hidden by what is already stored there. Equal depths count as farther so the
// fragment drawn first is kept. Out-of-bounds fragments are always farther.
func (fb *Framebuffer) IsFarther(u, v int, z float64) bool {
	if !fb.inBounds(u, v) {
		return true
	}
	fb.ensureDepth()
	return z <= fb.depth[fb.index(u, v)]
}
