package render

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Projector casts a texture into the scene like a slide projector. It uses the
// same pinhole model as Camera, with the texture as its image plane.
type Projector struct {
	math3d.Frame

	Texture *Texture
	FOV     float64
}

// NewProjector creates a projector at the origin facing -Z.
func NewProjector(tex *Texture, fov float64) *Projector {
	return &Projector{
		Frame:   math3d.NewFrame(),
		Texture: tex,
		FOV:     math.Max(MinFOV, math.Min(MaxFOV, fov)),
	}
}

// SetDirection places the projector at position facing along direction.
func (pr *Projector) SetDirection(position, direction math3d.Vec3) {
	pr.Frame = math3d.LookAt(position, position.Add(direction), math3d.Up())
}

// ProjectPoint maps a world point to continuous texel coordinates on the
// projected texture. It returns false when the point is behind the projector.
func (pr *Projector) ProjectPoint(p math3d.Vec3) (math3d.Vec2, bool) {
	pp, ok := pr.Project(p)
	if !ok || pr.Texture == nil {
		return math3d.Vec2{}, false
	}
	w, h := float64(pr.Texture.Width), float64(pr.Texture.Height)
	f := (w / 2) / math.Tan(pr.FOV/2)
	return math3d.V2(w/2+pp.X*f, h/2+pp.Y*f), true
}

// ProjectColor returns the texture color landing on world point p. Points
// behind the projector get ColorNone. Points outside the texture follow its
// wrap modes.
func (pr *Projector) ProjectColor(p math3d.Vec3) (Color, bool) {
	q, ok := pr.ProjectPoint(p)
	if !ok {
		return ColorNone, false
	}
	return pr.Texture.Sample(q.X/float64(pr.Texture.Width), q.Y/float64(pr.Texture.Height)), true
}
