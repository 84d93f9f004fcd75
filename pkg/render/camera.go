package render

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Field-of-view limits. The horizontal FOV is kept inside this open-ish
// interval so the focal length stays finite and positive.
const (
	MinFOV = 0.01
	MaxFOV = math.Pi - 0.01
)

// Camera is a planar pinhole camera. Its pose is a math3d.Frame (position plus
// right/up/forward basis) and its image is Width x Height pixels with the
// horizontal field of view HFOV in radians.
type Camera struct {
	math3d.Frame

	Width  int
	Height int

	hfov float64
}

// NewCamera creates a camera at the origin looking down -Z with +Y up.
func NewCamera(width, height int, hfov float64) *Camera {
	c := &Camera{
		Frame:  math3d.NewFrame(),
		Width:  width,
		Height: height,
	}
	c.SetHorizontalFOV(hfov)
	return c
}

// HorizontalFOV returns the horizontal field of view in radians.
func (c *Camera) HorizontalFOV() float64 {
	return c.hfov
}

// SetHorizontalFOV sets the field of view, clamped to [MinFOV, MaxFOV].
func (c *Camera) SetHorizontalFOV(fov float64) {
	c.hfov = math.Max(MinFOV, math.Min(MaxFOV, fov))
}

// Resize changes the image dimensions. The pose and FOV are unchanged.
func (c *Camera) Resize(width, height int) {
	c.Width = width
	c.Height = height
}

// FocalLength returns the focal length in pixels: (width/2) / tan(fov/2).
func (c *Camera) FocalLength() float64 {
	return (float64(c.Width) / 2) / math.Tan(c.hfov/2)
}

// ViewDirection returns the forward axis.
func (c *Camera) ViewDirection() math3d.Vec3 {
	return c.Forward()
}

// Translate moves the camera by v.
func (c *Camera) Translate(v math3d.Vec3) {
	c.Position = c.Position.Add(v)
}

// Pan rotates the right and forward axes about the up axis.
func (c *Camera) Pan(angle float64) {
	o, up := math3d.Zero3(), c.Up()
	c.SetAxes(
		c.Right().RotateAboutAxis(o, up, angle),
		up,
		c.Forward().RotateAboutAxis(o, up, angle),
	)
}

// Tilt rotates the up and forward axes about the right axis.
func (c *Camera) Tilt(angle float64) {
	o, right := math3d.Zero3(), c.Right()
	c.SetAxes(
		right,
		c.Up().RotateAboutAxis(o, right, angle),
		c.Forward().RotateAboutAxis(o, right, angle),
	)
}

// Roll rotates the right and up axes about the forward axis.
func (c *Camera) Roll(angle float64) {
	o, fwd := math3d.Zero3(), c.Forward()
	c.SetAxes(
		c.Right().RotateAboutAxis(o, fwd, angle),
		c.Up().RotateAboutAxis(o, fwd, angle),
		fwd,
	)
}

// Zoom divides the field of view by factor and re-clamps it.
func (c *Camera) Zoom(factor float64) {
	c.SetHorizontalFOV(c.hfov / factor)
}

// Pose rebuilds the camera from a position, a look-at point and an up hint.
// The resulting basis is orthonormal regardless of up.
func (c *Camera) Pose(position, lookAt, up math3d.Vec3) {
	c.Frame = math3d.LookAt(position, lookAt, up)
}

// Project maps a world point to (x/z, y/z, 1/z) in camera space. It returns
// false when the point is on or behind the camera plane; the result must not
// be used in that case.
func (c *Camera) Project(p math3d.Vec3) (math3d.Vec3, bool) {
	return c.Frame.Project(p)
}

// ProjectToPixel maps a world point to continuous image coordinates
// (u, v, 1/z) with v growing upward. Pixel (i, j) covers [i, i+1) x [j, j+1).
func (c *Camera) ProjectToPixel(p math3d.Vec3) (math3d.Vec3, bool) {
	pp, ok := c.Frame.Project(p)
	if !ok {
		return math3d.Vec3{}, false
	}
	f := c.FocalLength()
	return math3d.V3(
		float64(c.Width)/2+pp.X*f,
		float64(c.Height)/2+pp.Y*f,
		pp.Z,
	), true
}

// Unproject is the inverse of ProjectToPixel: it recovers the world point at
// continuous image coordinates (u, v) with the given inverse depth.
func (c *Camera) Unproject(u, v, inverseDepth float64) math3d.Vec3 {
	f := c.FocalLength()
	x := u - float64(c.Width)/2
	y := v - float64(c.Height)/2
	depth := 1 / inverseDepth
	ray := c.Right().Scale(x).Add(c.Up().Scale(y)).Add(c.Forward().Scale(f))
	return c.Position.Add(ray.Scale(depth / f))
}

// UnprojectPixel recovers the world point seen through the center of pixel
// (u, v) at the given inverse depth, as stored in a z-buffer.
func (c *Camera) UnprojectPixel(u, v int, inverseDepth float64) math3d.Vec3 {
	return c.Unproject(float64(u)+0.5, float64(v)+0.5, inverseDepth)
}

// InterpolateLinear blends two cameras at t in [0, 1]. Axes are renormalized;
// the image size is taken from a.
func InterpolateLinear(a, b *Camera, t float64) *Camera {
	ret := &Camera{Width: a.Width, Height: a.Height}
	ret.Position = a.Position.Lerp(b.Position, t)
	ret.SetAxes(
		a.Right().Lerp(b.Right(), t).Normalize(),
		a.Up().Lerp(b.Up(), t).Normalize(),
		a.Forward().Lerp(b.Forward(), t).Normalize(),
	)
	ret.SetHorizontalFOV(a.hfov + (b.hfov-a.hfov)*t)
	return ret
}

// InterpolateSmooth is InterpolateLinear with smoothstep easing, t²(3-2t).
func InterpolateSmooth(a, b *Camera, t float64) *Camera {
	return InterpolateLinear(a, b, t*t*(3-2*t))
}

// MarshalText writes the pose as five lines: position, right, up, forward and
// the horizontal FOV.
func (c *Camera) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	for _, v := range []math3d.Vec3{c.Position, c.Right(), c.Up(), c.Forward()} {
		fmt.Fprintf(&buf, "%g %g %g\n", v.X, v.Y, v.Z)
	}
	fmt.Fprintf(&buf, "%g\n", c.hfov)
	return buf.Bytes(), nil
}

// ErrCameraText is returned when a camera pose cannot be parsed.
var ErrCameraText = errors.New("malformed camera pose")

// UnmarshalText parses a pose written by MarshalText. Image size is kept.
func (c *Camera) UnmarshalText(data []byte) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	var vecs [4]math3d.Vec3
	for i := range vecs {
		if !sc.Scan() {
			return fmt.Errorf("%w: missing vector %d", ErrCameraText, i)
		}
		v := &vecs[i]
		if _, err := fmt.Sscanf(sc.Text(), "%g %g %g", &v.X, &v.Y, &v.Z); err != nil {
			return fmt.Errorf("%w: vector %d: %v", ErrCameraText, i, err)
		}
	}
	if !sc.Scan() {
		return fmt.Errorf("%w: missing fov", ErrCameraText)
	}
	var fov float64
	if _, err := fmt.Sscanf(sc.Text(), "%g", &fov); err != nil {
		return fmt.Errorf("%w: fov: %v", ErrCameraText, err)
	}

	c.Position = vecs[0]
	c.SetAxes(vecs[1], vecs[2], vecs[3])
	c.SetHorizontalFOV(fov)
	return nil
}

// SaveText writes the camera pose to a file.
func (c *Camera) SaveText(path string) error {
	data, err := c.MarshalText()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save camera: %w", err)
	}
	return nil
}

// LoadText reads a camera pose written by SaveText.
func (c *Camera) LoadText(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load camera: %w", err)
	}
	return c.UnmarshalText(data)
}
