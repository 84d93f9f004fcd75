package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/taigrr/pinhole/pkg/lighting"
	"github.com/taigrr/pinhole/pkg/logging"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// Commands is the set of actions a viewer's key map or overlay can trigger.
// Viewers receive it at construction; nothing reaches the scene any other way.
type Commands interface {
	MoveCamera(d math3d.Vec3) // along right, up and forward
	RotateCamera(pan, tilt, roll float64)
	ZoomCamera(factor float64)
	ResetCamera()

	CycleMode()
	ToggleShadows()
	ToggleGuides()
	ToggleNormals()
	ToggleProjector()

	DrawRectangle()
	DrawCircle()
	DrawLine()
	DrawName()
	ToggleAnimation()
	ClearOverlays()

	SaveSnapshot() error
	SaveCamera() error
	LoadCamera() error
}

var _ Commands = (*Scene)(nil)

// resetDuration is how long ResetCamera takes with inertia enabled.
const resetDuration = 600 * time.Millisecond

// MoveCamera translates the camera in its own axes.
func (s *Scene) MoveCamera(d math3d.Vec3) {
	if s.cfg.Inertia {
		s.Rig.Move(d)
		return
	}
	s.Camera.Translate(s.Camera.Right().Scale(d.X).
		Add(s.Camera.Up().Scale(d.Y)).
		Add(s.Camera.Forward().Scale(d.Z)))
}

// RotateCamera pans, tilts and rolls the camera by the given angles.
func (s *Scene) RotateCamera(pan, tilt, roll float64) {
	if s.cfg.Inertia {
		s.Rig.Rotate(pan, tilt, roll)
		return
	}
	s.Camera.Pan(pan)
	s.Camera.Tilt(tilt)
	s.Camera.Roll(roll)
}

// ZoomCamera narrows the field of view by factor.
func (s *Scene) ZoomCamera(factor float64) {
	s.Camera.Zoom(factor)
}

// ResetCamera returns the camera to its initial pose.
func (s *Scene) ResetCamera() {
	if s.cfg.Inertia {
		s.Rig.FlyTo(s.Camera, &s.home, resetDuration)
		return
	}
	s.Rig.Stop()
	*s.Camera = s.home
}

// CycleMode switches to the next draw mode.
func (s *Scene) CycleMode() {
	s.Mode = (s.Mode + 1) % (ModePoints + 1)
}

// ToggleShadows enables or disables the shadow pass.
func (s *Scene) ToggleShadows() {
	s.cfg.Shadows = !s.cfg.Shadows
}

// ToggleGuides shows or hides the axes and ground grid.
func (s *Scene) ToggleGuides() {
	s.ShowGuides = !s.ShowGuides
}

// ToggleNormals shows or hides vertex normals.
func (s *Scene) ToggleNormals() {
	s.ShowNormals = !s.ShowNormals
}

// ToggleProjector casts a checker texture from the shadow light onto the
// scene, or removes it.
func (s *Scene) ToggleProjector() {
	if s.Projector != nil {
		s.Projector = nil
		return
	}
	tex := render.NewCheckerTexture(64, 64, 8, render.ColorWhite, render.ColorMagenta)
	pr := render.NewProjector(tex, s.cfg.ShadowFOV)
	pos := math3d.V3(0, 50, 0)
	if l, ok := s.shadowLight(); ok && l.Type != lighting.Directional {
		pos = l.Position
	}
	pr.SetDirection(pos, s.cfg.Target.Sub(pos))
	s.Projector = pr
}

// DrawRectangle adds a rectangle outline around the middle of the image.
func (s *Scene) DrawRectangle() {
	s.overlays = append(s.overlays, func(fb *render.Framebuffer, _ int) {
		w, h := fb.Width/4, fb.Height/4
		fb.DrawRectangle(w, h, fb.Width-w, fb.Height-h, render.ColorYellow)
	})
}

// DrawCircle adds a circle centered in the image.
func (s *Scene) DrawCircle() {
	s.overlays = append(s.overlays, func(fb *render.Framebuffer, _ int) {
		r := float64(min(fb.Width, fb.Height)) / 3
		fb.DrawCircle(math3d.V2(float64(fb.Width)/2, float64(fb.Height)/2), r, render.ColorCyan)
	})
}

// DrawLine adds a red-to-blue diagonal across the image.
func (s *Scene) DrawLine() {
	s.overlays = append(s.overlays, func(fb *render.Framebuffer, _ int) {
		fb.DrawSegmentColors(math3d.V2(0, 0), math3d.V2(float64(fb.Width-1), float64(fb.Height-1)),
			render.ColorRed, render.ColorBlue)
	})
}

// nameText is the label drawn by DrawName.
const nameText = "pinhole"

// DrawName adds the program name near the bottom left. While animation is
// on, the label scrolls across the image.
func (s *Scene) DrawName() {
	s.overlays = append(s.overlays, func(fb *render.Framebuffer, frame int) {
		u := 4
		if span := fb.Width; span > 0 {
			u = (4 + 2*frame) % span
		}
		v := 4 + int(4*math.Sin(float64(frame)/8))
		fb.DrawText(u, v, nameText, render.ColorWhite)
	})
}

// ToggleAnimation starts or stops overlay animation.
func (s *Scene) ToggleAnimation() {
	s.animate = !s.animate
}

// ClearOverlays removes every demo drawing.
func (s *Scene) ClearOverlays() {
	s.overlays = nil
	s.frame = 0
}

// SaveSnapshot writes the current framebuffer to the configured path. The
// format follows the extension.
func (s *Scene) SaveSnapshot() error {
	if err := s.Framebuffer.SaveImage(s.cfg.SnapshotPath); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logging.Logger().Info("saved snapshot", "path", s.cfg.SnapshotPath)
	return nil
}

// SaveCamera writes the camera pose to the configured path.
func (s *Scene) SaveCamera() error {
	if err := s.Camera.SaveText(s.cfg.CameraPath); err != nil {
		return err
	}
	logging.Logger().Info("saved camera", "path", s.cfg.CameraPath)
	return nil
}

// LoadCamera restores a pose written by SaveCamera.
func (s *Scene) LoadCamera() error {
	if err := s.Camera.LoadText(s.cfg.CameraPath); err != nil {
		return err
	}
	s.Rig.Stop()
	logging.Logger().Info("loaded camera", "path", s.cfg.CameraPath)
	return nil
}

// Binding ties key names to an action. Key names follow the terminal
// convention: lowercase letters, "up", "left", "+", "shift+/" and so on.
type Binding struct {
	Keys   []string
	Help   string
	Action func() error
}

// Bindings returns the standard key map for c. step is the camera move per
// key press in world units; angle is the rotation per key press in radians.
// c is only used when an action runs.
func Bindings(c Commands, step, angle float64) []Binding {
	do := func(f func()) func() error {
		return func() error { f(); return nil }
	}
	return []Binding{
		{[]string{"w", "up"}, "move forward", do(func() { c.MoveCamera(math3d.V3(0, 0, step)) })},
		{[]string{"s", "down"}, "move back", do(func() { c.MoveCamera(math3d.V3(0, 0, -step)) })},
		{[]string{"a"}, "move left", do(func() { c.MoveCamera(math3d.V3(-step, 0, 0)) })},
		{[]string{"d"}, "move right", do(func() { c.MoveCamera(math3d.V3(step, 0, 0)) })},
		{[]string{"r"}, "move up", do(func() { c.MoveCamera(math3d.V3(0, step, 0)) })},
		{[]string{"f"}, "move down", do(func() { c.MoveCamera(math3d.V3(0, -step, 0)) })},
		{[]string{"left"}, "pan left", do(func() { c.RotateCamera(angle, 0, 0) })},
		{[]string{"right"}, "pan right", do(func() { c.RotateCamera(-angle, 0, 0) })},
		{[]string{"i"}, "tilt up", do(func() { c.RotateCamera(0, angle, 0) })},
		{[]string{"k"}, "tilt down", do(func() { c.RotateCamera(0, -angle, 0) })},
		{[]string{"q"}, "roll left", do(func() { c.RotateCamera(0, 0, angle) })},
		{[]string{"e"}, "roll right", do(func() { c.RotateCamera(0, 0, -angle) })},
		{[]string{"+", "="}, "zoom in", do(func() { c.ZoomCamera(1.1) })},
		{[]string{"-", "_"}, "zoom out", do(func() { c.ZoomCamera(1 / 1.1) })},
		{[]string{"0"}, "reset camera", do(func() { c.ResetCamera() })},
		{[]string{"x"}, "cycle draw mode", do(func() { c.CycleMode() })},
		{[]string{"h"}, "toggle shadows", do(func() { c.ToggleShadows() })},
		{[]string{"g"}, "toggle axes and grid", do(func() { c.ToggleGuides() })},
		{[]string{"n"}, "toggle normals", do(func() { c.ToggleNormals() })},
		{[]string{"t"}, "toggle projector", do(func() { c.ToggleProjector() })},
		{[]string{"1"}, "draw rectangle", do(func() { c.DrawRectangle() })},
		{[]string{"2"}, "draw circle", do(func() { c.DrawCircle() })},
		{[]string{"3"}, "draw line", do(func() { c.DrawLine() })},
		{[]string{"4"}, "draw name", do(func() { c.DrawName() })},
		{[]string{"5"}, "animate name", do(func() { c.ToggleAnimation() })},
		{[]string{"backspace"}, "clear drawings", do(func() { c.ClearOverlays() })},
		{[]string{"p"}, "save snapshot", func() error { return c.SaveSnapshot() }},
		{[]string{"c"}, "save camera", func() error { return c.SaveCamera() }},
		{[]string{"v"}, "load camera", func() error { return c.LoadCamera() }},
	}
}

// Lookup returns the binding for key.
func Lookup(bindings []Binding, key string) (Binding, bool) {
	for _, b := range bindings {
		for _, k := range b.Keys {
			if k == key {
				return b, true
			}
		}
	}
	return Binding{}, false
}
