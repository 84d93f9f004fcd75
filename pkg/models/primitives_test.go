package models

import (
	"math"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// assertOutward checks every triangle is non-degenerate and faces away from
// center.
func assertOutward(t *testing.T, m *TriangleMesh, center math3d.Vec3) {
	t.Helper()
	for i := range m.TriangleCount() {
		tri := m.Triangle(i)
		a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() < 1e-12 {
			t.Errorf("triangle %d is degenerate", i)
			continue
		}
		mid := a.Add(b).Add(c).Div(3)
		if n.Dot(mid.Sub(center)) <= 0 {
			t.Errorf("triangle %d %v faces inward", i, tri)
		}
	}
}

func TestAxisAlignedBox(t *testing.T) {
	lo, hi := math3d.V3(-1, 0, 2), math3d.V3(3, 1, 5)
	m := AxisAlignedBox(lo, hi)

	if m.VertexCount() != 8 || len(m.Triangles) != 36 {
		t.Fatalf("got %d vertices, %d indices", m.VertexCount(), len(m.Triangles))
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	gotLo, gotHi := m.Bounds()
	if gotLo != lo || gotHi != hi {
		t.Errorf("Bounds = %v, %v", gotLo, gotHi)
	}
	assertOutward(t, m, lo.Add(hi).Scale(0.5))
}

func TestSphere(t *testing.T) {
	tests := []struct {
		slices, stacks int
		wantTriangles  int
	}{
		{8, 4, 2 * 8 * (4 - 1)},
		{16, 8, 2 * 16 * (8 - 1)},
		{1, 1, 2 * 3 * (2 - 1)}, // clamped to 3x2
	}
	center := math3d.V3(1, 2, 3)
	for _, tc := range tests {
		m := Sphere(center, 2, tc.slices, tc.stacks)
		if err := m.Validate(); err != nil {
			t.Fatal(err)
		}
		if m.TriangleCount() != tc.wantTriangles {
			t.Errorf("%dx%d: %d triangles, want %d", tc.slices, tc.stacks, m.TriangleCount(), tc.wantTriangles)
		}
		for i, v := range m.Vertices {
			if d := v.Distance(center); math.Abs(d-2) > 1e-9 {
				t.Errorf("vertex %d at distance %v", i, d)
			}
			if !m.Normals[i].ApproxEqual(v.Sub(center).Scale(0.5), 1e-9) {
				t.Errorf("normal %d not radial", i)
			}
		}
		assertOutward(t, m, center)
	}
}

func TestCylinder(t *testing.T) {
	base := math3d.V3(0, -1, 0)
	m := Cylinder(base, 0.5, 2, 12)
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() != 4*12 {
		t.Errorf("TriangleCount = %d, want %d", m.TriangleCount(), 4*12)
	}
	lo, hi := m.Bounds()
	if math.Abs(lo.Y+1) > 1e-12 || math.Abs(hi.Y-1) > 1e-12 {
		t.Errorf("height span = %v..%v", lo.Y, hi.Y)
	}
	if math.Abs(hi.X-0.5) > 1e-12 {
		t.Errorf("radius = %v", hi.X)
	}
	assertOutward(t, m, math3d.Zero3())
}

func TestQuad(t *testing.T) {
	m := Quad(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0))
	if m.TriangleCount() != 2 {
		t.Fatalf("TriangleCount = %d", m.TriangleCount())
	}
	for i, n := range m.Normals {
		if !n.ApproxEqual(math3d.Back(), 1e-12) {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
	if m.TexCoords[2] != math3d.V2(1, 1) {
		t.Errorf("texcoord at c = %v", m.TexCoords[2])
	}
}
