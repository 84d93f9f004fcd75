package render

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// flatEpsilon is the vertical extent below which a triangle edge is treated as
// horizontal by the scanline fills.
const flatEpsilon = 0.001

func floorInt(x float64) int {
	return int(math.Floor(x))
}

// floorClamp floors x into [lo, hi]. NaN maps to lo.
func floorClamp(x float64, lo, hi int) int {
	if !(x >= float64(lo)) {
		return lo
	}
	if x >= float64(hi) {
		return hi
	}
	return floorInt(x)
}

// rows returns the buffer rows covered by [lo, hi], clamped to the image.
// The range is empty when it misses the image entirely.
func (fb *Framebuffer) rows(lo, hi float64) (first, last int) {
	return floorClamp(lo, 0, fb.Height), floorClamp(hi, -1, fb.Height-1)
}

// columns is rows for u.
func (fb *Framebuffer) columns(lo, hi float64) (first, last int) {
	return floorClamp(lo, 0, fb.Width), floorClamp(hi, -1, fb.Width-1)
}

// DrawPoint draws a size x size square of pixels centered on p.
func (fb *Framebuffer) DrawPoint(p math3d.Vec2, size int, c Color) {
	u, v := floorInt(p.X), floorInt(p.Y)
	if size <= 1 {
		fb.SetPixel(u, v, c)
		return
	}
	half := size / 2
	for dv := -half; dv < size-half; dv++ {
		for du := -half; du < size-half; du++ {
			fb.SetPixel(u+du, v+dv, c)
		}
	}
}

// DrawSegment draws a line from p0 to p1 by sampling ceil(length)+2 evenly
// spaced points along the part of it that crosses the image.
func (fb *Framebuffer) DrawSegment(p0, p1 math3d.Vec2, c Color) {
	t0, t1, ok := fb.clipSegment(p0, p1)
	if !ok {
		return
	}
	n := segmentSamples(p0.Lerp(p1, t0), p0.Lerp(p1, t1))
	for i := range n {
		p := p0.Lerp(p1, t0+(t1-t0)*float64(i)/float64(n-1))
		fb.SetPixel(floorInt(p.X), floorInt(p.Y), c)
	}
}

// DrawSegmentColors draws a line whose color blends from c0 at p0 to c1 at p1.
func (fb *Framebuffer) DrawSegmentColors(p0, p1 math3d.Vec2, c0, c1 Color) {
	t0, t1, ok := fb.clipSegment(p0, p1)
	if !ok {
		return
	}
	n := segmentSamples(p0.Lerp(p1, t0), p0.Lerp(p1, t1))
	for i := range n {
		t := t0 + (t1-t0)*float64(i)/float64(n-1)
		p := p0.Lerp(p1, t)
		fb.SetPixel(floorInt(p.X), floorInt(p.Y), lerpColor(c0, c1, t))
	}
}

func segmentSamples(p0, p1 math3d.Vec2) int {
	return int(math.Ceil(math.Hypot(p1.X-p0.X, p1.Y-p0.Y))) + 2
}

// clipSegment returns the parameter range of p0->p1 lying within the image,
// padded by one pixel (Liang-Barsky).
func (fb *Framebuffer) clipSegment(p0, p1 math3d.Vec2) (t0, t1 float64, ok bool) {
	d := p1.Sub(p0)
	t0, t1 = 0, 1
	bounds := [4][2]float64{
		{-d.X, p0.X + 1},
		{d.X, float64(fb.Width) + 1 - p0.X},
		{-d.Y, p0.Y + 1},
		{d.Y, float64(fb.Height) + 1 - p0.Y},
	}
	for _, b := range bounds {
		p, q := b[0], b[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
	}
	if math.IsNaN(t0) || math.IsNaN(t1) || t0 > t1 {
		return 0, 0, false
	}
	return t0, t1, true
}

// DrawRectangle draws the outline of the rectangle spanning (u0, v0) to
// (u1, v1) inclusive.
func (fb *Framebuffer) DrawRectangle(u0, v0, u1, v1 int, c Color) {
	if u0 > u1 {
		u0, u1 = u1, u0
	}
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	for u := max(u0, 0); u <= min(u1, fb.Width-1); u++ {
		fb.SetPixel(u, v0, c)
		fb.SetPixel(u, v1, c)
	}
	for v := max(v0, 0); v <= min(v1, fb.Height-1); v++ {
		fb.SetPixel(u0, v, c)
		fb.SetPixel(u1, v, c)
	}
}

// DrawRectangleFilled fills the rectangle spanning (u0, v0) to (u1, v1)
// inclusive.
func (fb *Framebuffer) DrawRectangleFilled(u0, v0, u1, v1 int, c Color) {
	if u0 > u1 {
		u0, u1 = u1, u0
	}
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	for v := max(v0, 0); v <= min(v1, fb.Height-1); v++ {
		for u := max(u0, 0); u <= min(u1, fb.Width-1); u++ {
			fb.SetPixel(u, v, c)
		}
	}
}

// DrawCircle draws a circle outline with the midpoint algorithm.
func (fb *Framebuffer) DrawCircle(center math3d.Vec2, radius float64, c Color) {
	cu, cv := floorInt(center.X), floorInt(center.Y)
	r := int(math.Round(radius))
	if r <= 0 {
		fb.SetPixel(cu, cv, c)
		return
	}

	x, y := r, 0
	d := 1 - r
	for x >= y {
		fb.SetPixel(cu+x, cv+y, c)
		fb.SetPixel(cu+y, cv+x, c)
		fb.SetPixel(cu-y, cv+x, c)
		fb.SetPixel(cu-x, cv+y, c)
		fb.SetPixel(cu-x, cv-y, c)
		fb.SetPixel(cu-y, cv-x, c)
		fb.SetPixel(cu+y, cv-x, c)
		fb.SetPixel(cu+x, cv-y, c)

		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// DrawCircleFilled fills every pixel within radius of center.
func (fb *Framebuffer) DrawCircleFilled(center math3d.Vec2, radius float64, c Color) {
	cu, cv := floorInt(center.X), floorInt(center.Y)
	r := int(math.Round(radius))
	for j := max(-r, -cv); j <= min(r, fb.Height-1-cv); j++ {
		for i := max(-r, -cu); i <= min(r, fb.Width-1-cu); i++ {
			if i*i+j*j <= r*r {
				fb.SetPixel(cu+i, cv+j, c)
			}
		}
	}
}

// DrawTriangle draws the outline of a triangle.
func (fb *Framebuffer) DrawTriangle(p0, p1, p2 math3d.Vec2, c Color) {
	fb.DrawSegment(p0, p1, c)
	fb.DrawSegment(p1, p2, c)
	fb.DrawSegment(p2, p0, c)
}

// DrawTriangleFilled fills a triangle with a solid color, ignoring depth.
//
// The vertices are sorted by v and the triangle is split at the middle vertex
// into a flat-bottom and a flat-top half, each walked one row at a time by
// accumulating inverse edge slopes.
func (fb *Framebuffer) DrawTriangleFilled(p0, p1, p2 math3d.Vec2, c Color) {
	if p0.Y > p1.Y {
		p0, p1 = p1, p0
	}
	if p0.Y > p2.Y {
		p0, p2 = p2, p0
	}
	if p1.Y > p2.Y {
		p1, p2 = p2, p1
	}

	if p2.Y-p0.Y < flatEpsilon {
		lo := math.Min(p0.X, math.Min(p1.X, p2.X))
		hi := math.Max(p0.X, math.Max(p1.X, p2.X))
		fb.hline(lo, hi, floorClamp(p0.Y, -1, fb.Height), c)
		return
	}

	switch {
	case p2.Y-p1.Y < flatEpsilon:
		fb.fillFlatBottom(p0, p1, p2, c)
	case p1.Y-p0.Y < flatEpsilon:
		fb.fillFlatTop(p0, p1, p2, c)
	default:
		split := math3d.V2(p0.X+((p1.Y-p0.Y)/(p2.Y-p0.Y))*(p2.X-p0.X), p1.Y)
		fb.fillFlatBottom(p0, p1, split, c)
		fb.fillFlatTop(p1, split, p2, c)
	}
}

// fillFlatBottom fills a triangle whose apex p0 is below the shared row of p1
// and p2.
func (fb *Framebuffer) fillFlatBottom(p0, p1, p2 math3d.Vec2, c Color) {
	inv1 := (p1.X - p0.X) / (p1.Y - p0.Y)
	inv2 := (p2.X - p0.X) / (p2.Y - p0.Y)
	start := math.Floor(p0.Y)
	first, last := fb.rows(p0.Y, p1.Y)
	for v := first; v <= last; v++ {
		dy := float64(v) - start
		fb.hline(p0.X+inv1*dy, p0.X+inv2*dy, v, c)
	}
}

// fillFlatTop fills a triangle whose apex p2 is above the shared row of p0
// and p1.
func (fb *Framebuffer) fillFlatTop(p0, p1, p2 math3d.Vec2, c Color) {
	inv0 := (p2.X - p0.X) / (p2.Y - p0.Y)
	inv1 := (p2.X - p1.X) / (p2.Y - p1.Y)
	start := math.Floor(p2.Y)
	first, last := fb.rows(p0.Y, p2.Y)
	for v := last; v >= first; v-- {
		dy := start - float64(v)
		fb.hline(p2.X-inv0*dy, p2.X-inv1*dy, v, c)
	}
}

func (fb *Framebuffer) hline(x0, x1 float64, v int, c Color) {
	if v < 0 || v >= fb.Height {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	first, last := fb.columns(x0, x1)
	for u := first; u <= last; u++ {
		fb.SetPixel(u, v, c)
	}
}

// fragment is one end of a scanline: its u position, color and reciprocal
// depth.
type fragment struct {
	x     float64
	color math3d.Vec3
	depth float64
}

type shadedVertex struct {
	p     math3d.Vec2
	color math3d.Vec3
	depth float64
}

// edgeAt interpolates along the edge a->b at row v. Edges with a vertical
// extent under flatEpsilon return a's values.
func edgeAt(a, b shadedVertex, v float64) fragment {
	dy := b.p.Y - a.p.Y
	if math.Abs(dy) < flatEpsilon {
		return fragment{a.p.X, a.color, a.depth}
	}
	t := math.Max(0, math.Min(1, (v-a.p.Y)/dy))
	return fragment{
		x:     a.p.X + (b.p.X-a.p.X)*t,
		color: a.color.Lerp(b.color, t),
		depth: a.depth + (b.depth-a.depth)*t,
	}
}

// DrawTriangleShaded fills a triangle with per-vertex colors and reciprocal
// depths d0, d1, d2, interpolated linearly in image space.
//
// A pixel is written only when the interpolated depth is strictly nearer than
// the stored one (see IsFarther), and color and depth are written together.
func (fb *Framebuffer) DrawTriangleShaded(p0, p1, p2 math3d.Vec2, c0, c1, c2 Color, d0, d1, d2 float64) {
	a := shadedVertex{p0, c0.Vec3(), d0}
	b := shadedVertex{p1, c1.Vec3(), d1}
	c := shadedVertex{p2, c2.Vec3(), d2}
	if a.p.Y > b.p.Y {
		a, b = b, a
	}
	if a.p.Y > c.p.Y {
		a, c = c, a
	}
	if b.p.Y > c.p.Y {
		b, c = c, b
	}

	first, last := fb.rows(a.p.Y, c.p.Y)
	switch {
	case math.Abs(b.p.Y-c.p.Y) < flatEpsilon:
		for v := first; v <= last; v++ {
			fy := float64(v)
			fb.scanline(v, edgeAt(a, b, fy), edgeAt(a, c, fy))
		}
	case math.Abs(a.p.Y-b.p.Y) < flatEpsilon:
		for v := first; v <= last; v++ {
			fy := float64(v)
			fb.scanline(v, edgeAt(a, c, fy), edgeAt(b, c, fy))
		}
	default:
		mid := floorClamp(b.p.Y, -1, fb.Height)
		for v := first; v <= min(mid, last); v++ {
			fy := float64(v)
			fb.scanline(v, edgeAt(a, b, fy), edgeAt(a, c, fy))
		}
		for v := max(mid+1, first); v <= last; v++ {
			fy := float64(v)
			fb.scanline(v, edgeAt(b, c, fy), edgeAt(a, c, fy))
		}
	}
}

func (fb *Framebuffer) scanline(v int, left, right fragment) {
	if v < 0 || v >= fb.Height {
		return
	}
	if left.x > right.x {
		left, right = right, left
	}
	span := right.x - left.x
	first, last := fb.columns(left.x, right.x)
	for u := first; u <= last; u++ {
		t := 0.0
		if span > 0 {
			t = math.Max(0, math.Min(1, (float64(u)-left.x)/span))
		}
		z := left.depth + (right.depth-left.depth)*t
		if fb.IsFarther(u, v, z) {
			continue
		}
		fb.SetPixel(u, v, left.color.Lerp(right.color, t).Color())
		fb.SetZBuffer(u, v, z)
	}
}
