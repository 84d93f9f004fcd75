// Package lighting computes per-vertex Blinn-Phong shading for point,
// directional and spot lights.
package lighting

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// SpotFalloff is the exponent applied to the spot cosine inside the cone.
const SpotFalloff = 2

// Type identifies a light model.
type Type int

const (
	Point Type = iota
	Directional
	Spot
)

func (t Type) String() string {
	switch t {
	case Point:
		return "point"
	case Directional:
		return "directional"
	case Spot:
		return "spot"
	default:
		return "unknown"
	}
}

// LightSource is a single light. Direction is the way the light shines, used
// by Directional and Spot lights; SpotAngle is the cone half-angle in radians.
// Color channels are in [0, 1].
type LightSource struct {
	Type      Type
	Position  math3d.Vec3
	Direction math3d.Vec3
	Color     math3d.Vec3
	SpotAngle float64
	Enabled   bool
}

// NewLightSource returns an enabled white point light at (0, 50, 0) shining
// straight down.
func NewLightSource() LightSource {
	return LightSource{
		Type:      Point,
		Position:  math3d.V3(0, 50, 0),
		Direction: math3d.V3(0, -1, 0),
		Color:     math3d.V3(1, 1, 1),
		SpotAngle: 0.5,
		Enabled:   true,
	}
}

// Lighting holds the distance attenuation coefficients shared by all point
// and spot lights.
type Lighting struct {
	Constant  float64
	Linear    float64
	Quadratic float64
}

// New returns the default attenuation (1, 0.01, 0.001).
func New() *Lighting {
	return &Lighting{Constant: 1, Linear: 0.01, Quadratic: 0.001}
}

// Attenuation returns 1 / (c0 + c1·d + c2·d²).
func (l *Lighting) Attenuation(d float64) float64 {
	return 1 / (l.Constant + l.Linear*d + l.Quadratic*d*d)
}

// ComputeLighting shades a surface point. viewDir points from the surface
// toward the viewer; normal should be unit length. The result starts at
// (ambient, ambient, ambient), accumulates diffuse and specular terms from
// every enabled light and is clamped per channel to [0, 1].
func (l *Lighting) ComputeLighting(point, normal, viewDir math3d.Vec3, lights []LightSource, ambient, specularExponent float64) math3d.Vec3 {
	result := math3d.V3(ambient, ambient, ambient)

	for i := range lights {
		light := &lights[i]
		if !light.Enabled {
			continue
		}

		var lightDir math3d.Vec3
		attenuation := 1.0

		switch light.Type {
		case Directional:
			lightDir = light.Direction.Negate().Unit()
		case Point, Spot:
			toLight := light.Position.Sub(point)
			lightDir = toLight.Unit()
			attenuation = l.Attenuation(toLight.Len())

			if light.Type == Spot {
				cos := lightDir.Negate().Dot(light.Direction.Unit())
				if cos < math.Cos(light.SpotAngle) {
					continue
				}
				attenuation *= math.Pow(cos, SpotFalloff)
			}
		}

		diffuse := math.Max(0, normal.Dot(lightDir))
		halfway := lightDir.Add(viewDir).Normalize()
		specular := math.Pow(math.Max(0, normal.Dot(halfway)), specularExponent)

		result = result.Add(light.Color.Scale((diffuse + specular) * attenuation))
	}

	return result.Clamp01()
}

// Lambert returns base·(ambient + (1 − ambient)·max(0, n·l)). lightDir points
// from the surface toward the light.
func Lambert(base, normal, lightDir math3d.Vec3, ambient float64) math3d.Vec3 {
	d := math.Max(0, normal.Dot(lightDir))
	return base.Scale(ambient + (1-ambient)*d)
}
