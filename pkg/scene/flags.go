package scene

import (
	"flag"
	"fmt"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// RegisterFlags binds the user-facing fields of c to fs, using the current
// values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "Image width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "Image height in pixels")
	fs.Float64Var(&c.FOV, "fov", c.FOV, "Horizontal field of view in radians")
	fs.Func("bg", fmt.Sprintf("Background color (R,G,B) (default %s)", formatRGB(c.Background)), func(s string) error {
		bg, err := parseRGB(s)
		if err != nil {
			return err
		}
		c.Background = bg
		return nil
	})
	fs.Float64Var(&c.Ambient, "ambient", c.Ambient, "Ambient light level in [0, 1]")
	fs.Float64Var(&c.SpecularExponent, "specular", c.SpecularExponent, "Specular exponent")
	fs.BoolVar(&c.Shadows, "shadows", c.Shadows, "Enable the shadow pass")
	fs.IntVar(&c.ShadowSize, "shadow-size", c.ShadowSize, "Shadow map size in pixels")
	fs.Float64Var(&c.ShadowBias, "shadow-bias", c.ShadowBias, "Shadow test bias in reciprocal depth")
	fs.IntVar(&c.FPS, "fps", c.FPS, "Target FPS")
	fs.BoolVar(&c.Inertia, "inertia", c.Inertia, "Coast camera motion on a spring")
	fs.StringVar(&c.SnapshotPath, "snapshot", c.SnapshotPath, "Snapshot path (.png, .tiff or .bmp)")
	fs.StringVar(&c.CameraPath, "camera", c.CameraPath, "Camera pose file")
}

func parseRGB(s string) (render.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return 0, fmt.Errorf("invalid color %q: want R,G,B", s)
	}
	return render.RGB(r, g, b), nil
}

func formatRGB(c render.Color) string {
	return fmt.Sprintf("%d,%d,%d", c.R(), c.G(), c.B())
}

// Load builds a scene from cfg showing the model at path, standing on a
// floor. An empty path gives the demo scene.
func Load(cfg Config, path string) (*Scene, error) {
	s := New(cfg)
	if path == "" {
		s.AddDemo()
		return s, nil
	}
	m, err := LoadMesh(path)
	if err != nil {
		return nil, err
	}
	FitMesh(m, 24)
	if !m.HasColors() {
		m.SetColor(math3d.V3(0.8, 0.8, 0.8))
	}
	s.AddFloor(40, 16, render.ColorGrass)
	s.AddMesh(m)
	return s, nil
}
