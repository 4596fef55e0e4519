package quarkgl

const maxPitch = 1.5

// OrbitController moves a camera around a target point.
//
// It knows nothing about input devices; callers translate pointer deltas into
// Rotate, Zoom and Pan calls and then Apply the result to a camera.
type OrbitController struct {
	Target Vec3
	Yaw    Scalar
	Pitch  Scalar
	Radius Scalar

	MinRadius Scalar
	MaxRadius Scalar

	home orbitPose
}

// orbitPose is the resting pose restored by Reset.
type orbitPose struct {
	Target Vec3
	Yaw    Scalar
	Pitch  Scalar
	Radius Scalar
}

func NewOrbitController() *OrbitController {
	c := &OrbitController{Radius: 3, MinRadius: 0.1, MaxRadius: 1000}
	c.home = orbitPose{Radius: 3}
	return c
}

// Frame points the controller at b and makes that pose the new home.
func (c *OrbitController) Frame(b Bounds) {
	h := orbitPose{Radius: 3, Pitch: -0.4, Yaw: 0.6}
	if !b.Empty() {
		h.Target = b.Center()
		if r := b.Radius(); r > 0 {
			h.Radius = r * 2.5
		}
	}
	c.home = h
	c.Reset()
}

// Reset restores the home pose.
func (c *OrbitController) Reset() {
	c.Target = c.home.Target
	c.Yaw = c.home.Yaw
	c.Pitch = c.home.Pitch
	c.Radius = c.home.Radius
}

func (c *OrbitController) Rotate(dYaw, dPitch Scalar) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
}

// Zoom scales the orbit radius by factor.
func (c *OrbitController) Zoom(factor Scalar) {
	if factor <= 0 {
		return
	}
	c.Radius *= factor
	if c.MinRadius != 0 && c.Radius < c.MinRadius {
		c.Radius = c.MinRadius
	}
	if c.MaxRadius != 0 && c.Radius > c.MaxRadius {
		c.Radius = c.MaxRadius
	}
}

// Pan slides the target in the view plane; dx and dy are fractions of the
// orbit radius.
func (c *OrbitController) Pan(dx, dy Scalar) {
	rot := c.rotation()
	right := rot.MulV4(Vec4{X: 1})
	up := rot.MulV4(Vec4{Y: 1})
	off := V3(right.X, right.Y, right.Z).Mul(-dx * c.Radius).
		Add(V3(up.X, up.Y, up.Z).Mul(dy * c.Radius))
	c.Target = c.Target.Add(off)
}

// Apply writes the controller pose into cam.
func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.Radius
	if r <= 0 {
		r = 3
	}
	p := c.rotation().MulV4(Vec4{Z: r})
	cam.Position = c.Target.Add(V3(p.X, p.Y, p.Z))
	cam.Target = c.Target
	cam.Up = V3(0, 1, 0)
	if f := r * 4; f > cam.Far {
		cam.Far = f
	}
}

func (c *OrbitController) rotation() Mat4 {
	return Mat4Mul(Mat4RotateY(c.Yaw), Mat4RotateX(c.Pitch))
}
