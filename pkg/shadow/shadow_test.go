package shadow

import (
	"math"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// occludedScene returns a map lit from (0, 50, 0) toward the origin with a
// 20x20 quad recorded at y = 25.
func occludedScene() *ShadowMap {
	s := New(256, 256)
	s.SetFOV(2.5)
	s.SetPosition(math3d.V3(0, 50, 0), math3d.Zero3(), math3d.Up())

	a := math3d.V3(-10, 25, -10)
	b := math3d.V3(10, 25, -10)
	c := math3d.V3(10, 25, 10)
	d := math3d.V3(-10, 25, 10)
	s.RecordTriangle(a, b, c)
	s.RecordTriangle(a, c, d)
	return s
}

func TestNewDefaults(t *testing.T) {
	s := New(64, 32)
	if s.FOV() != DefaultFOV {
		t.Errorf("FOV = %v, want %v", s.FOV(), DefaultFOV)
	}
	if s.Width() != 64 || s.Height() != 32 {
		t.Errorf("size = %dx%d", s.Width(), s.Height())
	}
	s.SetFOV(10)
	if s.FOV() >= math.Pi {
		t.Errorf("FOV not clamped: %v", s.FOV())
	}
}

func TestOccluderCastsShadow(t *testing.T) {
	s := occludedScene()
	const bias = 1e-3

	tests := []struct {
		name   string
		point  math3d.Vec3
		shadow bool
	}{
		{"below occluder", math3d.V3(0, 0, 0), true},
		{"below occluder corner", math3d.V3(12, 0, -12), true},
		{"out of the shadow", math3d.V3(100, 0, 0), false},
		{"beside the shadow", math3d.V3(0, 0, 40), false},
		{"occluder surface", math3d.V3(3, 25, 2), false},
		{"above occluder", math3d.V3(0, 40, 0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.IsInShadow(tc.point, bias); got != tc.shadow {
				t.Errorf("IsInShadow(%v) = %v, want %v", tc.point, got, tc.shadow)
			}
		})
	}
}

func TestUnobservedPointsAreShadowed(t *testing.T) {
	s := occludedScene()
	if !s.IsInShadow(math3d.V3(0, 60, 0), 0) {
		t.Error("point behind the light should be shadowed")
	}
	if !s.IsInShadow(math3d.V3(1000, 0, 0), 0) {
		t.Error("point outside the map should be shadowed")
	}
}

func TestBiasDirection(t *testing.T) {
	s := New(16, 16)
	s.SetPosition(math3d.V3(0, 10, 0), math3d.Zero3(), math3d.V3(0, 0, -1))

	surface := math3d.V3(0, 0, 0)
	s.Record(surface)

	// A hair below the recorded surface is within the bias.
	if s.IsInShadow(math3d.V3(0, -1e-4, 0), 1e-3) {
		t.Error("bias should absorb self-shadowing")
	}
	if s.IsInShadow(surface, 0) {
		t.Error("a surface must not shadow itself at zero bias")
	}
	if !s.IsInShadow(math3d.V3(0, -5, 0), 1e-3) {
		t.Error("a point well behind the surface should be shadowed")
	}
}

func TestRecordNearestWins(t *testing.T) {
	s := New(16, 16)
	s.SetPosition(math3d.V3(0, 10, 0), math3d.Zero3(), math3d.V3(0, 0, -1))

	far := math3d.V3(0, 0, 0)
	near := math3d.V3(0, 5, 0)

	s.Record(far)
	s.Record(near)
	u, v, _, _ := s.ToPixel(near)
	iu, iv := int(math.Floor(u)), int(math.Floor(v))
	if got := s.Depth(iu, iv); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("depth after near record = %v, want 0.2", got)
	}

	s.Record(far)
	if got := s.Depth(iu, iv); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("farther record replaced nearer: %v", got)
	}

	s.Clear()
	if s.Depth(iu, iv) != 0 {
		t.Error("Clear left a depth behind")
	}
}

func TestRecordTriangleDepth(t *testing.T) {
	s := occludedScene()
	u, v, z, ok := s.ToPixel(math3d.V3(1, 25, 1))
	if !ok {
		t.Fatal("occluder point failed to project")
	}
	got := s.Depth(int(math.Floor(u)), int(math.Floor(v)))
	if math.Abs(got-z) > 1e-9 {
		t.Errorf("recorded depth = %v, want %v", got, z)
	}

	s.RecordTriangle(math3d.V3(0, 60, 0), math3d.V3(1, 25, 0), math3d.V3(0, 25, 1))
	if got2 := s.Depth(int(math.Floor(u)), int(math.Floor(v))); got2 != got {
		t.Error("triangle with a vertex behind the light should be skipped")
	}
}

func TestToPixelCenter(t *testing.T) {
	s := New(100, 100)
	s.SetPosition(math3d.V3(0, 0, 10), math3d.Zero3(), math3d.Up())
	u, v, z, ok := s.ToPixel(math3d.Zero3())
	if !ok || math.Abs(u-50) > 1e-9 || math.Abs(v-50) > 1e-9 || math.Abs(z-0.1) > 1e-12 {
		t.Errorf("ToPixel(origin) = (%v, %v, %v, %v)", u, v, z, ok)
	}
}

func BenchmarkRecordTriangle(b *testing.B) {
	s := New(256, 256)
	s.SetFOV(2.5)
	s.SetPosition(math3d.V3(0, 50, 0), math3d.Zero3(), math3d.Up())
	for b.Loop() {
		s.RecordTriangle(math3d.V3(-10, 25, -10), math3d.V3(10, 25, -10), math3d.V3(10, 25, 10))
	}
}
