package render

import "github.com/taigrr/pinhole/pkg/math3d"

// project maps a world point to image coordinates through cam.
func project(cam *Camera, p math3d.Vec3) (math3d.Vec2, float64, bool) {
	pp, ok := cam.ProjectToPixel(p)
	if !ok {
		return math3d.Vec2{}, 0, false
	}
	return math3d.V2(pp.X, pp.Y), pp.Z, true
}

// Draw3DPoint draws a world-space point as a size x size square. Points on or
// behind the camera plane are skipped.
func (fb *Framebuffer) Draw3DPoint(cam *Camera, p math3d.Vec3, size int, c Color) {
	q, _, ok := project(cam, p)
	if !ok {
		return
	}
	fb.DrawPoint(q, size, c)
}

// Draw3DSegment draws a world-space segment. It is skipped if either endpoint
// fails to project.
func (fb *Framebuffer) Draw3DSegment(cam *Camera, p0, p1 math3d.Vec3, c Color) {
	fb.Draw3DSegmentColors(cam, p0, p1, c, c)
}

// Draw3DSegmentColors draws a world-space segment blending c0 to c1.
func (fb *Framebuffer) Draw3DSegmentColors(cam *Camera, p0, p1 math3d.Vec3, c0, c1 Color) {
	q0, _, ok0 := project(cam, p0)
	q1, _, ok1 := project(cam, p1)
	if !ok0 || !ok1 {
		return
	}
	fb.DrawSegmentColors(q0, q1, c0, c1)
}

// Draw3DTriangle projects a world-space triangle and fills it with per-vertex
// colors through the depth buffer. It is skipped if any vertex fails to
// project.
func (fb *Framebuffer) Draw3DTriangle(cam *Camera, p0, p1, p2 math3d.Vec3, c0, c1, c2 Color) {
	q0, d0, ok0 := project(cam, p0)
	q1, d1, ok1 := project(cam, p1)
	q2, d2, ok2 := project(cam, p2)
	if !ok0 || !ok1 || !ok2 {
		return
	}
	fb.DrawTriangleShaded(q0, q1, q2, c0, c1, c2, d0, d1, d2)
}

// DrawCross draws a point as three small axis-aligned segments.
func (fb *Framebuffer) DrawCross(cam *Camera, pos math3d.Vec3, size float64, c Color) {
	h := size / 2
	fb.Draw3DSegment(cam, pos.Sub(math3d.V3(h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), c)
	fb.Draw3DSegment(cam, pos.Sub(math3d.V3(0, h, 0)), pos.Add(math3d.V3(0, h, 0)), c)
	fb.Draw3DSegment(cam, pos.Sub(math3d.V3(0, 0, h)), pos.Add(math3d.V3(0, 0, h)), c)
}

// boxEdges indexes the 12 edges of the corners returned by boxCorners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // min-z face
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // max-z face
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func boxCorners(lo, hi math3d.Vec3) [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}

// DrawBox draws the wireframe of the axis-aligned box spanning lo to hi.
func (fb *Framebuffer) DrawBox(cam *Camera, lo, hi math3d.Vec3, c Color) {
	corners := boxCorners(lo, hi)
	for _, e := range boxEdges {
		fb.Draw3DSegment(cam, corners[e[0]], corners[e[1]], c)
	}
}

// DrawAxes draws the world axes from origin: X red, Y green, Z blue.
func (fb *Framebuffer) DrawAxes(cam *Camera, origin math3d.Vec3, length float64) {
	fb.Draw3DSegment(cam, origin, origin.Add(math3d.V3(length, 0, 0)), ColorRed)
	fb.Draw3DSegment(cam, origin, origin.Add(math3d.V3(0, length, 0)), ColorGreen)
	fb.Draw3DSegment(cam, origin, origin.Add(math3d.V3(0, 0, length)), ColorBlue)
}

// DrawGrid draws a size x size grid on the XZ plane at height y, centered on
// the origin.
func (fb *Framebuffer) DrawGrid(cam *Camera, y, size, step float64, c Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		fb.Draw3DSegment(cam, math3d.V3(x, y, -half), math3d.V3(x, y, half), c)
	}
	for z := -half; z <= half; z += step {
		fb.Draw3DSegment(cam, math3d.V3(-half, y, z), math3d.V3(half, y, z), c)
	}
}
