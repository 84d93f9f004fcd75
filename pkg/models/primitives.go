package models

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// boxFaces lists the corners of each box face counter-clockwise as seen from
// outside. Corner i has x from bit 0, y from bit 1 and z from bit 2.
var boxFaces = [6][4]uint32{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// AxisAlignedBox builds a box spanning lo to hi with 8 shared corners and 12
// outward-facing triangles. Corner normals point away from the box center.
func AxisAlignedBox(lo, hi math3d.Vec3) *TriangleMesh {
	m := NewTriangleMesh("box")
	center := lo.Add(hi).Scale(0.5)
	for i := range 8 {
		p := lo
		if i&1 != 0 {
			p.X = hi.X
		}
		if i&2 != 0 {
			p.Y = hi.Y
		}
		if i&4 != 0 {
			p.Z = hi.Z
		}
		m.AddVertex(p)
		m.Normals = append(m.Normals, p.Sub(center).Normalize())
	}
	for _, f := range boxFaces {
		m.AddTriangle(f[0], f[1], f[2])
		m.AddTriangle(f[0], f[2], f[3])
	}
	return m
}

// Sphere builds a UV sphere. slices is clamped to at least 3 and stacks to at
// least 2. The seam column is duplicated so texture coordinates wrap cleanly.
func Sphere(center math3d.Vec3, radius float64, slices, stacks int) *TriangleMesh {
	slices = max(slices, 3)
	stacks = max(stacks, 2)
	m := NewTriangleMesh("sphere")

	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			n := math3d.V3(math.Sin(phi)*math.Cos(theta), math.Cos(phi), math.Sin(phi)*math.Sin(theta))
			m.AddVertex(center.Add(n.Scale(radius)))
			m.Normals = append(m.Normals, n)
			m.TexCoords = append(m.TexCoords, math3d.V2(float64(j)/float64(slices), 1-float64(i)/float64(stacks)))
		}
	}

	row := uint32(slices + 1)
	for i := range stacks {
		for j := range slices {
			a := uint32(i)*row + uint32(j)
			b := a + row
			if i != 0 {
				m.AddTriangle(a, a+1, b)
			}
			if i != stacks-1 {
				m.AddTriangle(a+1, b+1, b)
			}
		}
	}
	return m
}

// Cylinder builds a capped cylinder standing on base along +Y. segments is
// clamped to at least 3.
func Cylinder(base math3d.Vec3, radius, height float64, segments int) *TriangleMesh {
	segments = max(segments, 3)
	m := NewTriangleMesh("cylinder")
	top := base.Add(math3d.V3(0, height, 0))

	ring := func(c math3d.Vec3, j int) (math3d.Vec3, math3d.Vec3) {
		theta := 2 * math.Pi * float64(j) / float64(segments)
		radial := math3d.V3(math.Cos(theta), 0, math.Sin(theta))
		return c.Add(radial.Scale(radius)), radial
	}

	// Side: top row then bottom row, seam duplicated.
	for _, c := range []math3d.Vec3{top, base} {
		for j := 0; j <= segments; j++ {
			p, n := ring(c, j)
			m.AddVertex(p)
			m.Normals = append(m.Normals, n)
			v := 0.0
			if c == top {
				v = 1
			}
			m.TexCoords = append(m.TexCoords, math3d.V2(float64(j)/float64(segments), v))
		}
	}
	row := uint32(segments + 1)
	for j := range uint32(segments) {
		a, b := j, j+row
		m.AddTriangle(a, a+1, b)
		m.AddTriangle(a+1, b+1, b)
	}

	addCap := func(c, normal math3d.Vec3, up bool) {
		center := m.AddVertex(c)
		m.Normals = append(m.Normals, normal)
		m.TexCoords = append(m.TexCoords, math3d.V2(0.5, 0.5))
		first := uint32(m.VertexCount())
		for j := range segments {
			p, radial := ring(c, j)
			m.AddVertex(p)
			m.Normals = append(m.Normals, normal)
			m.TexCoords = append(m.TexCoords, math3d.V2(0.5+radial.X/2, 0.5+radial.Z/2))
		}
		for j := range uint32(segments) {
			cur := first + j
			next := first + (j+1)%uint32(segments)
			if up {
				m.AddTriangle(center, next, cur)
			} else {
				m.AddTriangle(center, cur, next)
			}
		}
	}
	addCap(top, math3d.Up(), true)
	addCap(base, math3d.V3(0, -1, 0), false)
	return m
}

// Quad builds a two-triangle quad from corners given counter-clockwise as seen
// from the front. Texture coordinates run from (0, 0) at a to (1, 1) at c.
func Quad(a, b, c, d math3d.Vec3) *TriangleMesh {
	m := NewTriangleMesh("quad")
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	for _, p := range []math3d.Vec3{a, b, c, d} {
		m.AddVertex(p)
		m.Normals = append(m.Normals, n)
	}
	m.TexCoords = []math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1), math3d.V2(0, 1)}
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(0, 2, 3)
	return m
}
