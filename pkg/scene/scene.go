// Package scene composes the rendering pipeline: it shades mesh vertices with
// the lighting model, tests them against the shadow map and rasterizes the
// projected triangles into its framebuffer.
package scene

import (
	"time"

	"github.com/taigrr/pinhole/pkg/lighting"
	"github.com/taigrr/pinhole/pkg/logging"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
	"github.com/taigrr/pinhole/pkg/render"
	"github.com/taigrr/pinhole/pkg/shadow"
)

// Stats describes one rendered frame.
type Stats struct {
	Triangles        int // submitted
	Culled           int // skipped because a vertex failed to project
	ShadowedVertices int
	Duration         time.Duration
}

// Mode controls how meshes are drawn.
type Mode int

const (
	ModeShaded    Mode = iota // lit, shadowed, depth-tested triangles
	ModeWireframe             // triangle edges only
	ModePoints                // vertices only
)

func (m Mode) String() string {
	switch m {
	case ModeShaded:
		return "shaded"
	case ModeWireframe:
		return "wireframe"
	case ModePoints:
		return "points"
	default:
		return "unknown"
	}
}

// overlay draws on top of the shaded scene.
type overlay func(fb *render.Framebuffer, frame int)

// Scene owns a camera, a framebuffer and a shadow map together with the
// meshes and lights they render.
type Scene struct {
	Camera      *render.Camera
	Framebuffer *render.Framebuffer
	Shadow      *shadow.ShadowMap
	Lighting    *lighting.Lighting
	Lights      []lighting.LightSource
	Meshes      []*models.TriangleMesh
	Rig         *CameraRig
	Projector   *render.Projector // tints lit surfaces when set

	Mode        Mode
	ShowGuides  bool // axes and ground grid
	ShowNormals bool

	cfg      Config
	home     render.Camera
	overlays []overlay
	animate  bool
	frame    int
	stats    Stats
}

// New creates a scene from cfg with a single default light and no meshes.
func New(cfg Config) *Scene {
	cam := render.NewCamera(cfg.Width, cfg.Height, cfg.FOV)
	cam.Pose(cfg.Eye, cfg.Target, math3d.Up())

	sm := shadow.New(cfg.ShadowSize, cfg.ShadowSize)
	sm.SetFOV(cfg.ShadowFOV)

	return &Scene{
		Camera:      cam,
		Framebuffer: render.NewFramebuffer(cfg.Width, cfg.Height),
		Shadow:      sm,
		Lighting:    lighting.New(),
		Lights:      []lighting.LightSource{lighting.NewLightSource()},
		Rig:         NewCameraRig(cfg.FPS),
		cfg:         cfg,
		home:        *cam,
	}
}

// Config returns the configuration the scene was built with.
func (s *Scene) Config() Config {
	return s.cfg
}

// Stats returns the statistics of the last rendered frame.
func (s *Scene) Stats() Stats {
	return s.stats
}

// AddMesh adds m to the scene. Missing normals are computed.
func (s *Scene) AddMesh(m *models.TriangleMesh) {
	if len(m.Normals) != m.VertexCount() {
		m.CalculateSmoothNormals()
	}
	s.Meshes = append(s.Meshes, m)
}

// Resize changes the image size of the camera and framebuffer.
func (s *Scene) Resize(width, height int) {
	s.cfg.Width, s.cfg.Height = width, height
	s.Camera.Resize(width, height)
	s.Framebuffer.Resize(width, height)
	s.home.Resize(width, height)
}

// Update advances animations by one frame.
func (s *Scene) Update() {
	s.Rig.Update(s.Camera)
	if s.animate {
		s.frame++
	}
}

// Render draws one frame into the framebuffer and returns its statistics.
func (s *Scene) Render() Stats {
	start := time.Now()
	s.stats = Stats{}
	fb := s.Framebuffer

	fb.Fill(s.cfg.Background)
	fb.ClearZBuffer()
	if s.ShowGuides {
		fb.DrawGrid(s.Camera, 0, 40, 5, render.ColorGray)
	}

	switch s.Mode {
	case ModeWireframe:
		for _, m := range s.Meshes {
			s.DrawMeshWireframe(m, render.ColorGreen)
		}
	case ModePoints:
		for _, m := range s.Meshes {
			s.DrawMeshPoints(m, 2, render.ColorYellow)
		}
	default:
		shadows := s.cfg.Shadows && s.shadowPass()
		for _, m := range s.Meshes {
			s.drawMesh(m, shadows)
		}
	}
	if s.ShowNormals {
		for _, m := range s.Meshes {
			s.DrawMeshNormals(m, 2)
		}
	}

	if s.ShowGuides {
		fb.DrawAxes(s.Camera, math3d.Zero3(), 10)
	}
	for _, o := range s.overlays {
		o(fb, s.frame)
	}

	s.stats.Duration = time.Since(start)
	logging.Logger().Debug("frame rendered",
		"triangles", s.stats.Triangles,
		"culled", s.stats.Culled,
		"shadowed", s.stats.ShadowedVertices,
		"duration", s.stats.Duration)
	return s.stats
}

// shadowLight returns the first enabled light.
func (s *Scene) shadowLight() (lighting.LightSource, bool) {
	for _, l := range s.Lights {
		if l.Enabled {
			return l, true
		}
	}
	return lighting.LightSource{}, false
}

// shadowPass aims the shadow map from the first enabled light at the scene
// target and records every mesh triangle. It reports whether a map was built.
func (s *Scene) shadowPass() bool {
	light, ok := s.shadowLight()
	if !ok {
		return false
	}
	pos := light.Position
	if light.Type == lighting.Directional {
		pos = s.cfg.Target.Sub(light.Direction.Unit().Scale(s.cfg.ShadowDistance))
	}
	s.Shadow.SetPosition(pos, s.cfg.Target, math3d.Up())
	s.Shadow.Clear()

	for _, m := range s.Meshes {
		for i := range m.TriangleCount() {
			t := m.Triangle(i)
			s.Shadow.RecordTriangle(m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]])
		}
	}
	return true
}

// shade returns the lit color of vertex i. Shadowed vertices get ambient
// light only.
func (s *Scene) shade(m *models.TriangleMesh, i int, shadows bool) render.Color {
	base := math3d.V3(1, 1, 1)
	if m.HasColors() {
		base = m.Colors[i]
	}
	p := m.Vertices[i]
	if s.Projector != nil {
		if c, ok := s.Projector.ProjectColor(p); ok {
			base = base.Mul(c.Vec3())
		}
	}

	a := s.cfg.Ambient
	light := math3d.V3(a, a, a).Clamp01()
	if shadows && s.Shadow.IsInShadow(p, s.cfg.ShadowBias) {
		s.stats.ShadowedVertices++
	} else {
		view := s.Camera.Position.Sub(p).Normalize()
		light = s.Lighting.ComputeLighting(p, m.Normals[i], view, s.Lights, a, s.cfg.SpecularExponent)
	}
	return base.Mul(light).Color()
}

func (s *Scene) drawMesh(m *models.TriangleMesh, shadows bool) {
	n := m.VertexCount()
	colors := make([]render.Color, n)
	pixels := make([]math3d.Vec3, n)
	visible := make([]bool, n)
	for i := range n {
		colors[i] = s.shade(m, i, shadows)
		pixels[i], visible[i] = s.Camera.ProjectToPixel(m.Vertices[i])
	}

	for i := range m.TriangleCount() {
		s.stats.Triangles++
		t := m.Triangle(i)
		if !visible[t[0]] || !visible[t[1]] || !visible[t[2]] {
			s.stats.Culled++
			continue
		}
		p0, p1, p2 := pixels[t[0]], pixels[t[1]], pixels[t[2]]
		s.Framebuffer.DrawTriangleShaded(
			math3d.V2(p0.X, p0.Y), math3d.V2(p1.X, p1.Y), math3d.V2(p2.X, p2.Y),
			colors[t[0]], colors[t[1]], colors[t[2]],
			p0.Z, p1.Z, p2.Z,
		)
	}
}

// DrawMeshPoints draws every vertex of m as a size x size point.
func (s *Scene) DrawMeshPoints(m *models.TriangleMesh, size int, c render.Color) {
	for _, v := range m.Vertices {
		s.Framebuffer.Draw3DPoint(s.Camera, v, size, c)
	}
}

// DrawMeshWireframe draws the edges of every triangle of m.
func (s *Scene) DrawMeshWireframe(m *models.TriangleMesh, c render.Color) {
	for i := range m.TriangleCount() {
		t := m.Triangle(i)
		a, b, d := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		s.Framebuffer.Draw3DSegment(s.Camera, a, b, c)
		s.Framebuffer.Draw3DSegment(s.Camera, b, d, c)
		s.Framebuffer.Draw3DSegment(s.Camera, d, a, c)
	}
}

// DrawMeshNormals draws each vertex normal as a segment of the given length,
// colored from black at the vertex to the normal's direction as RGB.
func (s *Scene) DrawMeshNormals(m *models.TriangleMesh, length float64) {
	for i, n := range m.Normals {
		tip := m.Vertices[i].Add(n.Scale(length))
		dir := n.Add(math3d.V3(1, 1, 1)).Scale(0.5).Color()
		s.Framebuffer.Draw3DSegmentColors(s.Camera, m.Vertices[i], tip, render.ColorBlack, dir)
	}
}
