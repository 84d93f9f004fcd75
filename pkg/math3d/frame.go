package math3d

import "math"

// parallelTolerance is the squared cross-product magnitude below which an up
// hint is treated as parallel to the view direction.
const parallelTolerance = 1e-12

// Frame is a pinhole viewpoint: a position plus an orthonormal basis whose
// columns are right, up and forward. Camera-space z grows along forward, so a
// point is in front of the frame when its local z is positive.
type Frame struct {
	Position Vec3
	Basis    Mat3
}

// NewFrame returns a frame at the origin looking down -Z with +Y up.
func NewFrame() Frame {
	return Frame{
		Basis: BasisFromColumns(Right(), Up(), V3(0, 0, -1)),
	}
}

// LookAt returns a frame at position aimed at target.
//
// forward = unit(target - position), right = unit(forward × up) and
// up' = unit(right × forward), so the basis is orthonormal for any up hint.
// When up is parallel to the view direction an auxiliary hint is used instead:
// world x if forward leans towards world y, world y otherwise.
func LookAt(position, target, up Vec3) Frame {
	forward := target.Sub(position).Unit()
	if forward.Cross(up).LenSq() < parallelTolerance {
		up = Up()
		if math.Abs(forward.X) < math.Abs(forward.Y) {
			up = Right()
		}
	}
	right := forward.Cross(up).Unit()
	newUp := right.Cross(forward).Unit()
	return Frame{
		Position: position,
		Basis:    BasisFromColumns(right, newUp, forward),
	}
}

// Right returns the frame's right axis.
func (f Frame) Right() Vec3 { return f.Basis.Column(0) }

// Up returns the frame's up axis.
func (f Frame) Up() Vec3 { return f.Basis.Column(1) }

// Forward returns the frame's view direction.
func (f Frame) Forward() Vec3 { return f.Basis.Column(2) }

// SetAxes replaces the basis columns.
func (f *Frame) SetAxes(right, up, forward Vec3) {
	f.Basis = BasisFromColumns(right, up, forward)
}

// ToLocal maps a world point into frame space: basis⁻¹ · (p - position).
func (f Frame) ToLocal(p Vec3) Vec3 {
	return f.Basis.Inverse().MulVec(p.Sub(f.Position))
}

// FromLocal maps a frame-space point back to world space.
func (f Frame) FromLocal(p Vec3) Vec3 {
	return f.Basis.MulVec(p).Add(f.Position)
}

// Project performs the perspective divide. It returns (x/z, y/z, 1/z) in frame
// space, or false when the point lies on or behind the frame plane (z <= 0).
func (f Frame) Project(p Vec3) (Vec3, bool) {
	local := f.ToLocal(p)
	if local.Z <= 0 {
		return Vec3{}, false
	}
	return Vec3{local.X / local.Z, local.Y / local.Z, 1 / local.Z}, true
}

// Rotate turns the frame's axes by angle radians about axis through its
// position. The position does not move.
func (f *Frame) Rotate(axis Vec3, angle float64) {
	origin := Zero3()
	f.SetAxes(
		f.Right().RotateAboutAxis(origin, axis, angle),
		f.Up().RotateAboutAxis(origin, axis, angle),
		f.Forward().RotateAboutAxis(origin, axis, angle),
	)
}

// IsOrthonormal reports whether the basis columns are unit length and
// mutually perpendicular within eps.
func (f Frame) IsOrthonormal(eps float64) bool {
	r, u, fw := f.Right(), f.Up(), f.Forward()
	return math.Abs(r.Len()-1) <= eps &&
		math.Abs(u.Len()-1) <= eps &&
		math.Abs(fw.Len()-1) <= eps &&
		math.Abs(r.Dot(u)) <= eps &&
		math.Abs(r.Dot(fw)) <= eps &&
		math.Abs(u.Dot(fw)) <= eps
}
