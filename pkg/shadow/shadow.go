// Package shadow implements a light-space depth map used to decide whether a
// world point is occluded from a light.
//
// The map shares the pinhole model and the reciprocal depth convention of the
// render package: stored values are 1/z, so larger means nearer to the light
// and 0 means nothing was recorded.
package shadow

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// DefaultFOV is the field of view of a new map, in radians.
const DefaultFOV = 1.5

// DefaultBias is a depth offset suitable for scenes tens of units across.
const DefaultBias = 1e-4

// coverageSlack admits pixel centers lying on a shared triangle edge.
const coverageSlack = 1e-9

// ShadowMap records, per light-space pixel, the reciprocal depth of the
// nearest occluder seen from the light.
type ShadowMap struct {
	frame  math3d.Frame
	width  int
	height int
	fov    float64
	depth  []float64
}

// New creates an empty width x height map at the origin facing -Z.
func New(width, height int) *ShadowMap {
	return &ShadowMap{
		frame:  math3d.NewFrame(),
		width:  width,
		height: height,
		fov:    DefaultFOV,
		depth:  make([]float64, width*height),
	}
}

// Width returns the map width in pixels.
func (s *ShadowMap) Width() int { return s.width }

// Height returns the map height in pixels.
func (s *ShadowMap) Height() int { return s.height }

// SetPosition aims the map from light toward lookAt. The basis is built the
// same way as Camera.Pose, so it stays orthonormal even when up is parallel
// to the view direction.
func (s *ShadowMap) SetPosition(light, lookAt, up math3d.Vec3) {
	s.frame = math3d.LookAt(light, lookAt, up)
}

// Position returns the light position.
func (s *ShadowMap) Position() math3d.Vec3 {
	return s.frame.Position
}

// Frame returns the light-space frame.
func (s *ShadowMap) Frame() math3d.Frame {
	return s.frame
}

// FOV returns the horizontal field of view in radians.
func (s *ShadowMap) FOV() float64 { return s.fov }

// SetFOV sets the horizontal field of view, clamped like a camera's.
func (s *ShadowMap) SetFOV(fov float64) {
	s.fov = math.Max(0.01, math.Min(math.Pi-0.01, fov))
}

// FocalLength returns the focal length in pixels.
func (s *ShadowMap) FocalLength() float64 {
	return (float64(s.width) / 2) / math.Tan(s.fov/2)
}

// Project maps p into light space as (x/z, y/z, 1/z). It returns false when p
// is on or behind the light plane.
func (s *ShadowMap) Project(p math3d.Vec3) (math3d.Vec3, bool) {
	return s.frame.Project(p)
}

// ToPixel maps p to continuous light-space image coordinates and its
// reciprocal depth. v grows upward, matching the render package.
func (s *ShadowMap) ToPixel(p math3d.Vec3) (u, v, invDepth float64, ok bool) {
	pp, ok := s.frame.Project(p)
	if !ok {
		return 0, 0, 0, false
	}
	f := s.FocalLength()
	return float64(s.width)/2 + pp.X*f, float64(s.height)/2 + pp.Y*f, pp.Z, true
}

func (s *ShadowMap) inBounds(u, v int) bool {
	return u >= 0 && u < s.width && v >= 0 && v < s.height
}

// Depth returns the reciprocal depth stored at (u, v), 0 if none or out of
// bounds.
func (s *ShadowMap) Depth(u, v int) float64 {
	if !s.inBounds(u, v) {
		return 0
	}
	return s.depth[v*s.width+u]
}

// SetDepth stores a reciprocal depth at (u, v) unconditionally.
func (s *ShadowMap) SetDepth(u, v int, z float64) {
	if !s.inBounds(u, v) {
		return
	}
	s.depth[v*s.width+u] = z
}

// Clear forgets every recorded occluder.
func (s *ShadowMap) Clear() {
	clear(s.depth)
}

// keepNearest stores z at (u, v) if it is nearer than what is there.
func (s *ShadowMap) keepNearest(u, v int, z float64) {
	if !s.inBounds(u, v) {
		return
	}
	i := v*s.width + u
	if z > s.depth[i] {
		s.depth[i] = z
	}
}

// Record marks a single occluder point. Points behind the light or outside
// the map are ignored.
func (s *ShadowMap) Record(p math3d.Vec3) {
	u, v, z, ok := s.ToPixel(p)
	if !ok {
		return
	}
	s.keepNearest(int(math.Floor(u)), int(math.Floor(v)), z)
}

// RecordTriangle rasterizes an occluding triangle into the map. Every pixel
// whose center lies inside the projected triangle receives the interpolated
// reciprocal depth, nearest wins. Triangles with a vertex behind the light are
// skipped; the vertices themselves are always recorded so that sub-pixel
// triangles still occlude.
func (s *ShadowMap) RecordTriangle(a, b, c math3d.Vec3) {
	ua, va, za, okA := s.ToPixel(a)
	ub, vb, zb, okB := s.ToPixel(b)
	uc, vc, zc, okC := s.ToPixel(c)
	if !okA || !okB || !okC {
		return
	}

	s.keepNearest(int(math.Floor(ua)), int(math.Floor(va)), za)
	s.keepNearest(int(math.Floor(ub)), int(math.Floor(vb)), zb)
	s.keepNearest(int(math.Floor(uc)), int(math.Floor(vc)), zc)

	area := edge(ua, va, ub, vb, uc, vc)
	if area == 0 {
		return
	}

	minU := max(0, int(math.Floor(min(ua, ub, uc))))
	maxU := min(s.width-1, int(math.Ceil(max(ua, ub, uc))))
	minV := max(0, int(math.Floor(min(va, vb, vc))))
	maxV := min(s.height-1, int(math.Ceil(max(va, vb, vc))))

	for v := minV; v <= maxV; v++ {
		pv := float64(v) + 0.5
		for u := minU; u <= maxU; u++ {
			pu := float64(u) + 0.5
			w0 := edge(ub, vb, uc, vc, pu, pv) / area
			w1 := edge(uc, vc, ua, va, pu, pv) / area
			w2 := edge(ua, va, ub, vb, pu, pv) / area
			if w0 < -coverageSlack || w1 < -coverageSlack || w2 < -coverageSlack {
				continue
			}
			s.keepNearest(u, v, w0*za+w1*zb+w2*zc)
		}
	}
}

// edge returns twice the signed area of triangle (a, b, p).
func edge(au, av, bu, bv, pu, pv float64) float64 {
	return (bu-au)*(pv-av) - (bv-av)*(pu-au)
}

// IsInShadow reports whether p is hidden from the light.
//
// Points behind the light or outside the map are treated as shadowed.
// Otherwise p is shadowed when its reciprocal depth plus bias is still smaller
// than the stored one, i.e. the recorded occluder is nearer to the light.
func (s *ShadowMap) IsInShadow(p math3d.Vec3, bias float64) bool {
	u, v, z, ok := s.ToPixel(p)
	if !ok {
		return true
	}
	iu, iv := int(math.Floor(u)), int(math.Floor(v))
	if !s.inBounds(iu, iv) {
		return true
	}
	return z+bias < s.depth[iv*s.width+iu]
}
