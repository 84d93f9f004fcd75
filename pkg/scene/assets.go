package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/taigrr/pinhole/pkg/logging"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
	"github.com/taigrr/pinhole/pkg/render"
)

// LoadMesh reads a .glb/.gltf or binary .mesh file. An embedded glTF base
// color texture is baked into the vertex colors.
func LoadMesh(path string) (*models.TriangleMesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		m, img, err := models.LoadGLBWithTexture(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		if img != nil && m.HasTexCoords() {
			BakeTexture(m, render.TextureFromImage(img))
			logging.Logger().Info("baked embedded texture", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
		}
		return m, nil
	case ".mesh":
		return models.LoadBinary(path)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .glb, .gltf or .mesh)", ext)
	}
}

// BakeTexture samples tex at every texture coordinate of m and stores the
// result as vertex colors, modulating colors already present.
func BakeTexture(m *models.TriangleMesh, tex *render.Texture) {
	if !m.HasTexCoords() {
		return
	}
	colors := make([]math3d.Vec3, m.VertexCount())
	for i, tc := range m.TexCoords {
		c := tex.Sample(tc.X, tc.Y).Vec3()
		if m.HasColors() {
			c = c.Mul(m.Colors[i])
		}
		colors[i] = c
	}
	m.Colors = colors
}

// FitMesh scales m uniformly so its largest extent is size and stands it on
// the y = 0 plane centered over the origin.
func FitMesh(m *models.TriangleMesh, size float64) {
	if m.VertexCount() == 0 {
		return
	}
	lo, hi := m.Bounds()
	ext := hi.Sub(lo)
	if d := math.Max(ext.X, math.Max(ext.Y, ext.Z)); d > 0 {
		m.Scale(size / d)
	}
	lo, hi = m.Bounds()
	mid := lo.Add(hi).Scale(0.5)
	m.Translate(math3d.V3(-mid.X, -lo.Y, -mid.Z))
}

// AddFloor adds a square at y = 0 extending half units from the origin, split
// into tiles x tiles quads so per-vertex shadows have somewhere to land.
func (s *Scene) AddFloor(half float64, tiles int, c render.Color) {
	tiles = max(tiles, 1)
	step := 2 * half / float64(tiles)
	floor := models.NewTriangleMesh("floor")
	for i := range tiles {
		for j := range tiles {
			x0, z0 := -half+float64(i)*step, -half+float64(j)*step
			x1, z1 := x0+step, z0+step
			floor.Append(models.Quad(
				math3d.V3(x0, 0, z0), math3d.V3(x0, 0, z1),
				math3d.V3(x1, 0, z1), math3d.V3(x1, 0, z0),
			))
		}
	}
	floor.SetColor(c.Vec3())
	s.AddMesh(floor)
}

// AddDemo fills the scene with a floor and a few primitives.
func (s *Scene) AddDemo() {
	s.AddFloor(40, 16, render.ColorGrass)

	box := models.AxisAlignedBox(math3d.V3(-22, 0, -6), math3d.V3(-10, 12, 6))
	box.SetColor(render.ColorRed.Vec3())

	ball := models.Sphere(math3d.V3(0, 8, 0), 8, 24, 12)
	ball.SetColor(render.ColorSky.Vec3())

	can := models.Cylinder(math3d.V3(16, 0, 0), 5, 14, 20)
	can.SetColor(render.ColorYellow.Vec3())

	for _, m := range []*models.TriangleMesh{box, ball, can} {
		s.AddMesh(m)
	}
}
