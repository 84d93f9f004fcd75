package lighting

import (
	"math"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
)

const tol = 1e-12

func TestDisabledLightIsAmbientOnly(t *testing.T) {
	l := New()
	light := NewLightSource()
	light.Enabled = false

	tests := []struct {
		ambient float64
		want    float64
	}{
		{0, 0},
		{0.2, 0.2},
		{1, 1},
		{1.5, 1},
		{-0.3, 0},
	}
	for _, tc := range tests {
		got := l.ComputeLighting(math3d.Zero3(), math3d.Up(), math3d.Up(), []LightSource{light}, tc.ambient, 16)
		if got != math3d.V3(tc.want, tc.want, tc.want) {
			t.Errorf("ambient %v: got %v, want %v", tc.ambient, got, tc.want)
		}
	}
}

func TestAttenuation(t *testing.T) {
	l := New()
	if a := l.Attenuation(0); a != 1 {
		t.Errorf("Attenuation(0) = %v, want 1", a)
	}
	if a := l.Attenuation(10); math.Abs(a-1/1.2) > tol {
		t.Errorf("Attenuation(10) = %v, want %v", a, 1/1.2)
	}
}

func TestLightTypes(t *testing.T) {
	l := New()
	dim := math3d.V3(0.1, 0.1, 0.1)
	origin := math3d.Zero3()

	tests := []struct {
		name   string
		light  LightSource
		point  math3d.Vec3
		normal math3d.Vec3
		want   float64
	}{
		{
			name:   "directional overhead",
			light:  LightSource{Type: Directional, Direction: math3d.V3(0, -3, 0), Color: dim, Enabled: true},
			point:  origin,
			normal: math3d.Up(),
			want:   0.2,
		},
		{
			name:   "point overhead",
			light:  LightSource{Type: Point, Position: math3d.V3(0, 10, 0), Color: dim, Enabled: true},
			point:  origin,
			normal: math3d.Up(),
			want:   0.2 / 1.2,
		},
		{
			name:   "spot on axis",
			light:  LightSource{Type: Spot, Position: math3d.V3(0, 10, 0), Direction: math3d.V3(0, -1, 0), Color: dim, SpotAngle: 0.1, Enabled: true},
			point:  origin,
			normal: math3d.Up(),
			want:   0.2 / 1.2,
		},
		{
			name:   "spot outside cone",
			light:  LightSource{Type: Spot, Position: math3d.V3(0, 10, 0), Direction: math3d.V3(0, -1, 0), Color: dim, SpotAngle: 0.1, Enabled: true},
			point:  math3d.V3(5, 0, 0),
			normal: math3d.Up(),
			want:   0,
		},
		{
			name:   "back facing",
			light:  LightSource{Type: Directional, Direction: math3d.V3(0, -1, 0), Color: dim, Enabled: true},
			point:  origin,
			normal: math3d.V3(0, -1, 0),
			want:   0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := l.ComputeLighting(tc.point, tc.normal, math3d.Up(), []LightSource{tc.light}, 0, 8)
			want := math3d.V3(tc.want, tc.want, tc.want)
			if !got.ApproxEqual(want, 1e-9) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestSpotFalloff(t *testing.T) {
	l := New()
	spot := LightSource{
		Type:      Spot,
		Position:  math3d.V3(0, 10, 0),
		Direction: math3d.V3(0, -1, 0),
		Color:     math3d.V3(0.1, 0.1, 0.1),
		SpotAngle: 1,
		Enabled:   true,
	}
	point := math3d.V3(3, 0, 0)
	toLight := spot.Position.Sub(point)
	cos := toLight.Unit().Dot(math3d.Up())

	got := l.ComputeLighting(point, math3d.Up(), toLight.Unit(), []LightSource{spot}, 0, 8)
	want := 0.1 * (cos + math.Pow(cos, 8)) * l.Attenuation(toLight.Len()) * cos * cos
	if math.Abs(got.X-want) > 1e-9 {
		t.Errorf("spot inside cone = %v, want %v", got.X, want)
	}
}

func TestLightsAccumulateAndClamp(t *testing.T) {
	l := New()
	bright := LightSource{Type: Directional, Direction: math3d.V3(0, -1, 0), Color: math3d.V3(1, 0.2, 0), Enabled: true}
	got := l.ComputeLighting(math3d.Zero3(), math3d.Up(), math3d.Up(), []LightSource{bright, bright}, 0.1, 4)
	if got.X != 1 {
		t.Errorf("red channel = %v, want clamped to 1", got.X)
	}
	if math.Abs(got.Y-(0.1+4*0.2)) > 1e-12 {
		t.Errorf("green channel = %v, want %v", got.Y, 0.1+4*0.2)
	}
	if got.Z != 0.1 {
		t.Errorf("blue channel = %v, want ambient 0.1", got.Z)
	}
}

func TestOpposedViewHasNoSpecularNaN(t *testing.T) {
	l := New()
	light := LightSource{Type: Directional, Direction: math3d.V3(0, -1, 0), Color: math3d.V3(1, 1, 1), Enabled: true}
	got := l.ComputeLighting(math3d.Zero3(), math3d.Up(), math3d.V3(0, -1, 0), []LightSource{light}, 0, 8)
	if math.IsNaN(got.X) || got.X != 1 {
		t.Errorf("got %v, want diffuse-only 1", got)
	}
}

func TestLambert(t *testing.T) {
	red := math3d.V3(1, 0, 0)
	if got := Lambert(red, math3d.Up(), math3d.Up(), 0.2); !got.ApproxEqual(red, tol) {
		t.Errorf("facing light = %v, want %v", got, red)
	}
	if got := Lambert(red, math3d.Up(), math3d.Right(), 0.2); !got.ApproxEqual(math3d.V3(0.2, 0, 0), tol) {
		t.Errorf("grazing light = %v, want ambient", got)
	}
}

func TestTypeString(t *testing.T) {
	for typ, want := range map[Type]string{Point: "point", Directional: "directional", Spot: "spot", Type(9): "unknown"} {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}
