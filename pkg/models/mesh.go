// Package models provides the triangle mesh representation together with its
// binary and glTF codecs and closed-form primitive generators.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/pinhole/pkg/lighting"
	"github.com/taigrr/pinhole/pkg/math3d"
)

// ErrInvalidMesh reports a mesh whose arrays are inconsistent.
var ErrInvalidMesh = errors.New("invalid mesh")

// TriangleMesh is an indexed triangle list stored as parallel arrays.
//
// Colors, Normals and TexCoords are optional; when present each has one entry
// per vertex. Triangles holds three vertex indices per triangle.
type TriangleMesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Colors    []math3d.Vec3 // RGB in [0, 1]
	Normals   []math3d.Vec3
	TexCoords []math3d.Vec2
	Triangles []uint32
}

// NewTriangleMesh creates an empty mesh.
func NewTriangleMesh(name string) *TriangleMesh {
	return &TriangleMesh{Name: name}
}

// VertexCount returns the number of vertices.
func (m *TriangleMesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *TriangleMesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Triangles[3*i], m.Triangles[3*i+1], m.Triangles[3*i+2]}
}

// HasColors reports whether per-vertex colors are present.
func (m *TriangleMesh) HasColors() bool { return len(m.Colors) > 0 }

// HasNormals reports whether per-vertex normals are present.
func (m *TriangleMesh) HasNormals() bool { return len(m.Normals) > 0 }

// HasTexCoords reports whether texture coordinates are present.
func (m *TriangleMesh) HasTexCoords() bool { return len(m.TexCoords) > 0 }

// Validate checks that optional arrays match the vertex count and every index
// is in range.
func (m *TriangleMesh) Validate() error {
	n := len(m.Vertices)
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidMesh, len(m.Triangles))
	}
	for name, l := range map[string]int{"colors": len(m.Colors), "normals": len(m.Normals), "texcoords": len(m.TexCoords)} {
		if l != 0 && l != n {
			return fmt.Errorf("%w: %d %s for %d vertices", ErrInvalidMesh, l, name, n)
		}
	}
	for i, idx := range m.Triangles {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range", ErrInvalidMesh, idx, i)
		}
	}
	return nil
}

// AddVertex appends a vertex and returns its index.
func (m *TriangleMesh) AddVertex(p math3d.Vec3) uint32 {
	m.Vertices = append(m.Vertices, p)
	return uint32(len(m.Vertices) - 1)
}

// AddTriangle appends a triangle.
func (m *TriangleMesh) AddTriangle(a, b, c uint32) {
	m.Triangles = append(m.Triangles, a, b, c)
}

// Append merges other into m. Optional arrays are kept only when both meshes
// carry them.
func (m *TriangleMesh) Append(other *TriangleMesh) {
	base := uint32(len(m.Vertices))
	keepColors := len(m.Vertices) == 0 || m.HasColors()
	keepNormals := len(m.Vertices) == 0 || m.HasNormals()
	keepTex := len(m.Vertices) == 0 || m.HasTexCoords()

	m.Vertices = append(m.Vertices, other.Vertices...)
	m.Colors = appendOrDrop(m.Colors, other.Colors, keepColors && other.HasColors())
	m.Normals = appendOrDrop(m.Normals, other.Normals, keepNormals && other.HasNormals())
	m.TexCoords = appendOrDrop(m.TexCoords, other.TexCoords, keepTex && other.HasTexCoords())
	for _, idx := range other.Triangles {
		m.Triangles = append(m.Triangles, base+idx)
	}
}

func appendOrDrop[T any](dst, src []T, keep bool) []T {
	if !keep {
		return nil
	}
	return append(dst, src...)
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *TriangleMesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// Position returns the centroid of the vertices.
func (m *TriangleMesh) Position() math3d.Vec3 {
	if len(m.Vertices) == 0 {
		return math3d.Zero3()
	}
	sum := math3d.Zero3()
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	return sum.Div(float64(len(m.Vertices)))
}

// SetPosition moves the mesh so its centroid lands on p.
func (m *TriangleMesh) SetPosition(p math3d.Vec3) {
	m.Translate(p.Sub(m.Position()))
}

// Translate moves every vertex by d.
func (m *TriangleMesh) Translate(d math3d.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(d)
	}
}

// Scale scales the mesh uniformly about its centroid. Normals are unchanged.
func (m *TriangleMesh) Scale(f float64) {
	c := m.Position()
	for i, v := range m.Vertices {
		m.Vertices[i] = c.Add(v.Sub(c).Scale(f))
	}
}

// RotateAboutAxis rotates vertices about the axis through origin along
// direction. Normals are rotated about the parallel axis through zero.
func (m *TriangleMesh) RotateAboutAxis(origin, direction math3d.Vec3, angle float64) {
	for i, v := range m.Vertices {
		m.Vertices[i] = v.RotateAboutAxis(origin, direction, angle)
	}
	zero := math3d.Zero3()
	for i, n := range m.Normals {
		m.Normals[i] = n.RotateAboutAxis(zero, direction, angle)
	}
}

// SetColor paints every vertex with c.
func (m *TriangleMesh) SetColor(c math3d.Vec3) {
	m.Colors = make([]math3d.Vec3, len(m.Vertices))
	for i := range m.Colors {
		m.Colors[i] = c
	}
}

// CalculateNormals computes face normals and assigns them to vertices.
// This is a flat-shading approach; a vertex shared by several faces keeps the
// normal of the last one.
func (m *TriangleMesh) CalculateNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Vertices))
	for i := range m.TriangleCount() {
		t := m.Triangle(i)
		v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		m.Normals[t[0]] = normal
		m.Normals[t[1]] = normal
		m.Normals[t[2]] = normal
	}
}

// CalculateSmoothNormals computes area-weighted averaged normals.
func (m *TriangleMesh) CalculateSmoothNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Vertices))

	for i := range m.TriangleCount() {
		t := m.Triangle(i)
		v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		normal := v1.Sub(v0).Cross(v2.Sub(v0)) // Don't normalize yet

		for _, idx := range t {
			m.Normals[idx] = m.Normals[idx].Add(normal)
		}
	}

	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
}

func (m *TriangleMesh) ensureNormals() {
	if len(m.Normals) != len(m.Vertices) {
		m.CalculateSmoothNormals()
	}
}

// LightDirection sets vertex colors to base lit by a directional light, using
// the Lambert model. toLight points from the surface toward the light.
func (m *TriangleMesh) LightDirection(base, toLight math3d.Vec3, ambient float64) {
	m.ensureNormals()
	l := toLight.Normalize()
	m.Colors = make([]math3d.Vec3, len(m.Vertices))
	for i, n := range m.Normals {
		m.Colors[i] = lighting.Lambert(base, n, l, ambient)
	}
}

// LightPoint sets vertex colors to base lit by a point light at lightPos.
func (m *TriangleMesh) LightPoint(base, lightPos math3d.Vec3, ambient float64) {
	m.ensureNormals()
	m.Colors = make([]math3d.Vec3, len(m.Vertices))
	for i, n := range m.Normals {
		l := lightPos.Sub(m.Vertices[i]).Normalize()
		m.Colors[i] = lighting.Lambert(base, n, l, ambient)
	}
}

// Clone creates a deep copy of the mesh.
func (m *TriangleMesh) Clone() *TriangleMesh {
	return &TriangleMesh{
		Name:      m.Name,
		Vertices:  cloneSlice(m.Vertices),
		Colors:    cloneSlice(m.Colors),
		Normals:   cloneSlice(m.Normals),
		TexCoords: cloneSlice(m.TexCoords),
		Triangles: cloneSlice(m.Triangles),
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
