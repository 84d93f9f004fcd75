package scene

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// restVelocity is the speed below which an axis counts as stopped.
const restVelocity = 1e-4

// Axis is one camera degree of freedom whose velocity decays toward zero on a
// critically damped spring.
type Axis struct {
	Velocity float64
	accel    float64 // spring velocity of Velocity itself
	spring   harmonica.Spring
}

func newAxis(fps int) Axis {
	// Frequency 4 is a moderate decay; damping 1 never overshoots.
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// step returns the velocity to apply this frame and decays it.
func (a *Axis) step() float64 {
	v := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	if math.Abs(a.Velocity) < restVelocity && math.Abs(a.accel) < restVelocity {
		a.Velocity, a.accel = 0, 0
	}
	return v
}

func (a *Axis) moving() bool {
	return a.Velocity != 0
}

type flight struct {
	from, to      render.Camera
	frame, frames int
}

// CameraRig animates a camera: impulses on each axis coast to a stop, and
// FlyTo eases between two poses.
type CameraRig struct {
	Pan, Tilt, Roll        Axis
	Truck, Pedestal, Dolly Axis // right, up and forward motion
	fps                    int
	flight                 *flight
}

// NewCameraRig creates a rig stepped fps times per second.
func NewCameraRig(fps int) *CameraRig {
	if fps <= 0 {
		fps = 60
	}
	r := &CameraRig{fps: fps}
	r.Stop()
	return r
}

func (r *CameraRig) axes() []*Axis {
	return []*Axis{&r.Pan, &r.Tilt, &r.Roll, &r.Truck, &r.Pedestal, &r.Dolly}
}

// Stop cancels all motion.
func (r *CameraRig) Stop() {
	for _, a := range r.axes() {
		*a = newAxis(r.fps)
	}
	r.flight = nil
}

// Rotate adds angular velocity in radians per frame.
func (r *CameraRig) Rotate(pan, tilt, roll float64) {
	r.Pan.Velocity += pan
	r.Tilt.Velocity += tilt
	r.Roll.Velocity += roll
}

// Move adds linear velocity along the camera's right, up and forward axes.
func (r *CameraRig) Move(d math3d.Vec3) {
	r.Truck.Velocity += d.X
	r.Pedestal.Velocity += d.Y
	r.Dolly.Velocity += d.Z
}

// FlyTo eases the camera from its pose in from to the pose in to over d.
// Impulses are cancelled.
func (r *CameraRig) FlyTo(from, to *render.Camera, d time.Duration) {
	r.Stop()
	frames := max(1, int(d.Seconds()*float64(r.fps)))
	r.flight = &flight{from: *from, to: *to, frames: frames}
}

// Moving reports whether another Update would change the camera.
func (r *CameraRig) Moving() bool {
	if r.flight != nil {
		return true
	}
	for _, a := range r.axes() {
		if a.moving() {
			return true
		}
	}
	return false
}

// Update advances the rig by one frame and applies it to cam.
func (r *CameraRig) Update(cam *render.Camera) {
	if f := r.flight; f != nil {
		f.frame++
		t := float64(f.frame) / float64(f.frames)
		in := render.InterpolateSmooth(&f.from, &f.to, t)
		cam.Frame = in.Frame
		cam.SetHorizontalFOV(in.HorizontalFOV())
		if f.frame >= f.frames {
			r.flight = nil
		}
		return
	}

	if v := r.Pan.step(); v != 0 {
		cam.Pan(v)
	}
	if v := r.Tilt.step(); v != 0 {
		cam.Tilt(v)
	}
	if v := r.Roll.step(); v != 0 {
		cam.Roll(v)
	}
	d := cam.Right().Scale(r.Truck.step()).
		Add(cam.Up().Scale(r.Pedestal.step())).
		Add(cam.Forward().Scale(r.Dolly.step()))
	cam.Translate(d)
}
