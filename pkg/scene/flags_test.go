package scene

import (
	"flag"
	"io"
	"path/filepath"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
	"github.com/taigrr/pinhole/pkg/render"
)

func TestRegisterFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.RegisterFlags(fs)

	err := fs.Parse([]string{
		"-width", "100", "-height", "50",
		"-bg", "1,2,3",
		"-shadows=false",
		"-shadow-size", "128",
		"-inertia",
		"-snapshot", "out.png",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Background != render.RGB(1, 2, 3) {
		t.Errorf("background = %08x", cfg.Background)
	}
	if cfg.Shadows || cfg.ShadowSize != 128 || !cfg.Inertia || cfg.SnapshotPath != "out.png" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FOV != DefaultConfig().FOV {
		t.Errorf("untouched fov changed to %v", cfg.FOV)
	}
}

func TestRegisterFlagsBadColor(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-bg", "red"}); err == nil {
		t.Error("expected error for malformed color")
	}
}

func TestLoad(t *testing.T) {
	s, err := Load(DefaultConfig(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Meshes) != 4 {
		t.Errorf("demo meshes = %d, want 4", len(s.Meshes))
	}

	path := filepath.Join(t.TempDir(), "ball.mesh")
	ball := models.Sphere(math3d.V3(5, 5, 5), 1, 8, 4)
	ball.Normals = nil
	if err := ball.SaveBinary(path); err != nil {
		t.Fatal(err)
	}
	s, err = Load(DefaultConfig(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Meshes) != 2 {
		t.Fatalf("meshes = %d, want floor and model", len(s.Meshes))
	}
	m := s.Meshes[1]
	lo, hi := m.Bounds()
	if lo.Y < -1e-9 || hi.Y-lo.Y < 23.9 || !m.HasColors() || !m.HasNormals() {
		t.Errorf("model not fitted: bounds %v..%v colors=%v normals=%v", lo, hi, m.HasColors(), m.HasNormals())
	}

	if _, err := Load(DefaultConfig(), filepath.Join(t.TempDir(), "nope.glb")); err == nil {
		t.Error("expected error for missing model")
	}
}
