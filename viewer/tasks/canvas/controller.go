package canvas

import (
	"csgview/viewer/input"
	"csgview/viewer/quarkgl"
)

const (
	rotateSpeed = 0.01  // radians per pixel
	panSpeed    = 0.002 // radius fractions per pixel
	zoomStep    = 0.1   // radius fraction per wheel notch
)

// Controller turns pointer actions into camera motion.
//
// Primary drag orbits, secondary drag pans, the vertical wheel zooms, the
// horizontal wheel spins and a double click returns to the framed view. The
// mapping is a pure function of the action sequence, so a replayed session
// produces the same camera path as the live one.
type Controller struct {
	scene *quarkgl.Scene
	orbit *quarkgl.OrbitController

	primary, secondary bool
	x, y               int64
	havePos            bool
}

var _ input.Listener = (*Controller)(nil)

func NewController(scene *quarkgl.Scene) *Controller {
	c := &Controller{scene: scene, orbit: quarkgl.NewOrbitController()}
	c.apply()
	return c
}

func (c *Controller) Scene() *quarkgl.Scene { return c.scene }

func (c *Controller) Orbit() *quarkgl.OrbitController { return c.orbit }

// Install puts mesh into the scene and frames it.
func (c *Controller) Install(mesh quarkgl.Mesh) {
	c.scene.SetModel(mesh)
	c.OnSceneUpdated()
}

// OnSceneUpdated frames the current model and resets the camera to it.
func (c *Controller) OnSceneUpdated() {
	var b quarkgl.Bounds
	if c.scene.HasModel() {
		b = c.scene.Model().Bounds()
	}
	c.orbit.Frame(b)
	c.apply()
}

// ResetCamera returns to the framed view and forgets drag state.
func (c *Controller) ResetCamera() {
	c.orbit.Reset()
	c.primary, c.secondary = false, false
	c.havePos = false
	c.apply()
}

func (c *Controller) PointerDownPrimary()   { c.primary = true }
func (c *Controller) PointerUpPrimary()     { c.primary = false }
func (c *Controller) PointerDownSecondary() { c.secondary = true }
func (c *Controller) PointerUpSecondary()   { c.secondary = false }

func (c *Controller) DoubleClick() {
	c.orbit.Reset()
	c.apply()
}

func (c *Controller) Scroll(amount, delta int64, axis input.WheelAxis) {
	if delta == 0 {
		delta = 120
	}
	notches := quarkgl.Scalar(amount) / quarkgl.Scalar(delta)
	if axis == input.WheelHorizontal {
		c.orbit.Rotate(notches*0.1, 0)
	} else {
		f := 1 - notches*zoomStep
		if f < 0.2 {
			f = 0.2
		}
		c.orbit.Zoom(f)
	}
	c.apply()
}

func (c *Controller) MoveTo(x, y int64) {
	if !c.havePos {
		c.x, c.y, c.havePos = x, y, true
		return
	}
	dx := quarkgl.Scalar(x - c.x)
	dy := quarkgl.Scalar(y - c.y)
	c.x, c.y = x, y

	switch {
	case c.primary:
		c.orbit.Rotate(-dx*rotateSpeed, -dy*rotateSpeed)
	case c.secondary:
		c.orbit.Pan(dx*panSpeed, dy*panSpeed)
	default:
		return
	}
	c.apply()
}

func (c *Controller) apply() { c.orbit.Apply(&c.scene.Camera) }
