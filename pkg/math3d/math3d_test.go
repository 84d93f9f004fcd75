package math3d

import (
	"image/color"
	"math"
	"testing"
)

const eps = 1e-9

func TestVec3Basics(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), V3(5, 7, 9)},
		{"sub", b.Sub(a), V3(3, 3, 3)},
		{"scale", a.Scale(2), V3(2, 4, 6)},
		{"div", b.Div(2), V3(2, 2.5, 3)},
		{"cross", Right().Cross(Up()), Back()},
		{"mul", a.Mul(b), V3(4, 10, 18)},
		{"clamp", V3(-1, 0.5, 2).Clamp01(), V3(0, 0.5, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.ApproxEqual(tc.expected, eps) {
				t.Errorf("got %v, want %v", tc.got, tc.expected)
			}
		})
	}

	if d := a.Dot(b); d != 32 {
		t.Errorf("Dot = %v, want 32", d)
	}
	if l := V3(3, 4, 0).Len(); l != 5 {
		t.Errorf("Len = %v, want 5", l)
	}
}

func TestUnitOfZeroIsNaN(t *testing.T) {
	u := Zero3().Unit()
	if !math.IsNaN(u.X) {
		t.Errorf("Unit of zero vector = %v, want NaN components", u)
	}
	if n := Zero3().Normalize(); n != Zero3() {
		t.Errorf("Normalize of zero vector = %v, want zero", n)
	}
}

func TestRotateAboutZMatchesClosedForm(t *testing.T) {
	p := V3(3, -2, 1.5)
	origin := Zero3()
	axis := Back()

	for i := range 73 {
		theta := float64(i) * (2 * math.Pi / 72)
		got := p.RotateAboutAxis(origin, axis, theta)
		c, s := math.Cos(theta), math.Sin(theta)
		want := V3(p.X*c-p.Y*s, p.X*s+p.Y*c, p.Z)
		if !got.ApproxEqual(want, 1e-12) {
			t.Errorf("theta=%v: got %v, want %v", theta, got, want)
		}
	}
}

func TestRotateAboutAxis(t *testing.T) {
	tests := []struct {
		name   string
		point  Vec3
		origin Vec3
		axis   Vec3
		angle  float64
		want   Vec3
	}{
		{"x to y about z", V3(1, 0, 0), Zero3(), V3(0, 0, 1), math.Pi / 2, V3(0, 1, 0)},
		{"z to x about y", V3(0, 0, 1), Zero3(), V3(0, 1, 0), math.Pi / 2, V3(1, 0, 0)},
		{"y to z about x", V3(0, 1, 0), Zero3(), V3(1, 0, 0), math.Pi / 2, V3(0, 0, 1)},
		{"offset origin", V3(2, 1, 0), V3(1, 1, 0), V3(0, 0, 1), math.Pi, V3(0, 1, 0)},
		{"point on axis", V3(0, 0, 5), Zero3(), V3(0, 0, 3), 1.234, V3(0, 0, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.point.RotateAboutAxis(tc.origin, tc.axis, tc.angle)
			if !got.ApproxEqual(tc.want, 1e-12) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRotateAboutAxisPreservesDistance(t *testing.T) {
	origin := V3(1, -2, 0.5)
	axis := V3(1, 2, 3)
	p := V3(4, 4, -1)
	for i := range 10 {
		r := p.RotateAboutAxis(origin, axis, float64(i)*0.7)
		if math.Abs(r.Distance(origin)-p.Distance(origin)) > 1e-9 {
			t.Errorf("rotation %d changed distance to origin", i)
		}
	}
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3{
		{2, 0, 1},
		{1, 3, 0},
		{0, 1, 4},
	}
	prod := m.Mul(m.Inverse())
	id := Identity3()
	for i := range 3 {
		if !prod[i].ApproxEqual(id[i], 1e-12) {
			t.Errorf("row %d of m*m⁻¹ = %v, want %v", i, prod[i], id[i])
		}
	}

	r := RotateX(0.3).Mul(RotateY(-1.1)).Mul(RotateZ(2))
	inv := r.Inverse()
	tr := r.Transpose()
	for i := range 3 {
		if !inv[i].ApproxEqual(tr[i], 1e-12) {
			t.Errorf("rotation inverse row %d = %v, want transpose %v", i, inv[i], tr[i])
		}
	}
}

func TestMat3ColumnRoundTrip(t *testing.T) {
	c0, c1, c2 := V3(1, 2, 3), V3(4, 5, 6), V3(7, 8, 9)
	m := BasisFromColumns(c0, c1, c2)
	if m.Column(0) != c0 || m.Column(1) != c1 || m.Column(2) != c2 {
		t.Errorf("columns = %v %v %v", m.Column(0), m.Column(1), m.Column(2))
	}
	if m[0] != V3(1, 4, 7) {
		t.Errorf("row 0 = %v, want (1,4,7)", m[0])
	}
}

func TestSingularInverseIsNotFinite(t *testing.T) {
	m := Mat3{{1, 2, 3}, {2, 4, 6}, {0, 0, 1}}
	inv := m.Inverse()
	if !math.IsInf(inv[0].X, 0) && !math.IsNaN(inv[0].X) {
		t.Errorf("inverse of singular matrix = %v, want Inf/NaN", inv)
	}
}

func TestColorChannelOrder(t *testing.T) {
	c := RGBA8(0x11, 0x22, 0x33, 0x44)
	if uint32(c) != 0x11223344 {
		t.Fatalf("packed = %#08x, want 0x11223344", uint32(c))
	}
	if c.R() != 0x11 || c.G() != 0x22 || c.B() != 0x33 || c.A() != 0x44 {
		t.Errorf("channels = %x %x %x %x", c.R(), c.G(), c.B(), c.A())
	}

	red := V3(1, 0, 0).Color()
	if red != 0xFF0000FF {
		t.Errorf("packed red = %#08x, want 0xFF0000FF", uint32(red))
	}

	n := color.NRGBAModel.Convert(RGB(10, 20, 30)).(color.NRGBA)
	if n.R != 10 || n.G != 20 || n.B != 30 || n.A != 255 {
		t.Errorf("color.Color conversion = %v", n)
	}
	if got := ColorOf(color.NRGBA{R: 1, G: 2, B: 3, A: 255}); got != RGB(1, 2, 3) {
		t.Errorf("ColorOf = %#08x", uint32(got))
	}
}

func TestColorPackUnpackFixedPoint(t *testing.T) {
	for v := range 256 {
		r, g, b := uint8(v), uint8(255-v), uint8(v*7)
		packed := RGB(r, g, b)
		again := packed.Vec3().Color()
		if again != packed {
			t.Fatalf("pack(unpack(%#08x)) = %#08x", uint32(packed), uint32(again))
		}
	}

	v := V3(0.5, 0.75, 0.25)
	back := v.Color().Vec3()
	if !back.ApproxEqual(v, 1.0/255) {
		t.Errorf("unpack(pack(%v)) = %v", v, back)
	}
}

func TestLookAtIsOrthonormal(t *testing.T) {
	tests := []struct {
		name            string
		pos, target, up Vec3
	}{
		{"down -z", V3(0, 0, 5), Zero3(), Up()},
		{"oblique", V3(3, 7, -2), V3(-1, 0.5, 4), Up()},
		{"skewed up", V3(1, 1, 1), V3(10, -3, 2), V3(0.3, 1, 0.2)},
		{"up parallel", V3(0, 50, 0), Zero3(), Up()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := LookAt(tc.pos, tc.target, tc.up)
			if !f.IsOrthonormal(1e-9) {
				t.Errorf("basis not orthonormal: %v", f.Basis)
			}
			want := tc.target.Sub(tc.pos).Unit()
			if !f.Forward().ApproxEqual(want, 1e-12) {
				t.Errorf("forward = %v, want %v", f.Forward(), want)
			}
		})
	}
}

func TestFrameProject(t *testing.T) {
	f := LookAt(V3(0, 0, 5), Zero3(), Up())

	p, ok := f.Project(V3(1, 2, 0))
	if !ok {
		t.Fatal("point in front of frame failed to project")
	}
	if !p.ApproxEqual(V3(0.2, 0.4, 0.2), eps) {
		t.Errorf("Project = %v, want (0.2, 0.4, 0.2)", p)
	}

	if _, ok := f.Project(V3(0, 0, 6)); ok {
		t.Error("point behind frame should not project")
	}
	if _, ok := f.Project(V3(1, 0, 5)); ok {
		t.Error("point on the frame plane should not project")
	}

	q := V3(-3, 1, 2)
	if back := f.FromLocal(f.ToLocal(q)); !back.ApproxEqual(q, eps) {
		t.Errorf("FromLocal(ToLocal(q)) = %v, want %v", back, q)
	}
}

func TestFrameRotateStaysOrthonormal(t *testing.T) {
	f := LookAt(V3(1, 2, 3), Zero3(), Up())
	for i := range 50 {
		f.Rotate(f.Up(), 0.37)
		f.Rotate(f.Right(), -0.21)
		f.Rotate(f.Forward(), 0.11)
		if !f.IsOrthonormal(1e-9) {
			t.Fatalf("basis drifted after %d rotations", i+1)
		}
	}
}

func BenchmarkRotateAboutAxis(b *testing.B) {
	p := V3(1, 2, 3)
	axis := V3(0.3, 0.4, 0.5)
	for b.Loop() {
		_ = p.RotateAboutAxis(Zero3(), axis, 0.5)
	}
}

func BenchmarkMat3Inverse(b *testing.B) {
	m := RotateX(0.3).Mul(RotateY(0.5))
	for b.Loop() {
		_ = m.Inverse()
	}
}

func BenchmarkFrameProject(b *testing.B) {
	f := LookAt(V3(0, 0, 5), Zero3(), Up())
	p := V3(1, 2, 0)
	for b.Loop() {
		_, _ = f.Project(p)
	}
}
