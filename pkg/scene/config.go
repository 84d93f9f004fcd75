package scene

import (
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
	"github.com/taigrr/pinhole/pkg/shadow"
)

// Config holds the settings a Scene is built from.
type Config struct {
	Width, Height int
	FOV           float64 // horizontal, radians
	Eye, Target   math3d.Vec3
	Background    render.Color

	Ambient          float64
	SpecularExponent float64

	Shadows        bool
	ShadowSize     int
	ShadowFOV      float64
	ShadowBias     float64
	ShadowDistance float64 // light distance used for directional lights

	FPS     int
	Inertia bool // route camera commands through the spring rig

	SnapshotPath string
	CameraPath   string
}

// DefaultConfig returns settings for a small scene viewed from above and in
// front of the origin.
func DefaultConfig() Config {
	return Config{
		Width:            320,
		Height:           240,
		FOV:              1.0,
		Eye:              math3d.V3(0, 20, 60),
		Target:           math3d.Zero3(),
		Background:       render.RGB(30, 30, 40),
		Ambient:          0.2,
		SpecularExponent: 32,
		Shadows:          true,
		ShadowSize:       512,
		ShadowFOV:        shadow.DefaultFOV,
		ShadowBias:       shadow.DefaultBias,
		ShadowDistance:   50,
		FPS:              60,
		SnapshotPath:     "pinhole.tiff",
		CameraPath:       "camera.txt",
	}
}
