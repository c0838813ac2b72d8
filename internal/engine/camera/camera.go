// Package camera provides the 2D view transform for model rendering.
package camera

import (
	"github.com/kurisu-dev/parapet/pkg/math"
)

// Camera places the model inside the window. The model's unit quad
// is kept square regardless of the window's aspect ratio.
type Camera struct {
	// Model offset in view units (1.0 = half the window height)
	X, Y float32

	// Zoom scales the unit quad; 2.0 fills the window height
	Zoom float32

	// Constraints
	MinZoom float32
	MaxZoom float32

	// Sensitivity
	ZoomSensitivity float32

	aspect float32
}

// New creates a camera with default settings for the given window size.
func New(width, height int) *Camera {
	c := &Camera{
		Zoom:            1.8,
		MinZoom:         0.2,
		MaxZoom:         6.0,
		ZoomSensitivity: 0.1,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect correction after a window resize.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		c.aspect = 1
		return
	}
	c.aspect = float32(width) / float32(height)
}

// ViewMatrix returns the transform mapping model space to clip space.
func (c *Camera) ViewMatrix() math.Mat4 {
	proj := math.Ortho(-c.aspect, c.aspect, -1, 1, -1, 1)
	view := math.Transform2D(c.X, c.Y, 0, c.Zoom, c.Zoom)
	return proj.Mul(view)
}

// HandleZoom updates zoom based on scroll wheel delta.
func (c *Camera) HandleZoom(delta float32) {
	c.Zoom += delta * c.Zoom * c.ZoomSensitivity
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// SetPosition moves the model offset.
func (c *Camera) SetPosition(x, y float32) {
	c.X = x
	c.Y = y
}
