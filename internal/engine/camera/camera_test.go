package camera

import (
	"testing"

	"github.com/kurisu-dev/parapet/pkg/math"
)

func almostEqual(a, b float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-5
}

func TestViewMatrixSquareWindow(t *testing.T) {
	c := New(600, 600)
	c.Zoom = 2

	m := c.ViewMatrix()
	corner := m.TransformPoint(math.Vec2{X: 0.5, Y: 0.5})
	if !almostEqual(corner.X, 1) || !almostEqual(corner.Y, 1) {
		t.Errorf("expected quad corner at (1, 1), got (%v, %v)", corner.X, corner.Y)
	}

	center := m.TransformPoint(math.Vec2{X: 0, Y: 0})
	if !almostEqual(center.X, 0) || !almostEqual(center.Y, 0) {
		t.Errorf("expected center at origin, got (%v, %v)", center.X, center.Y)
	}
}

func TestViewMatrixKeepsQuadSquare(t *testing.T) {
	// 800x400 window: a corner at NDC (0.5, 1) covers 200px on both axes.
	c := New(800, 400)
	c.Zoom = 2

	corner := c.ViewMatrix().TransformPoint(math.Vec2{X: 0.5, Y: 0.5})
	if !almostEqual(corner.X, 0.5) || !almostEqual(corner.Y, 1) {
		t.Errorf("expected corner at (0.5, 1), got (%v, %v)", corner.X, corner.Y)
	}
}

func TestViewMatrixOffset(t *testing.T) {
	c := New(400, 400)
	c.Zoom = 1
	c.SetPosition(0.5, -0.25)

	center := c.ViewMatrix().TransformPoint(math.Vec2{X: 0, Y: 0})
	if !almostEqual(center.X, 0.5) || !almostEqual(center.Y, -0.25) {
		t.Errorf("expected center at (0.5, -0.25), got (%v, %v)", center.X, center.Y)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := New(400, 600)

	for i := 0; i < 100; i++ {
		c.HandleZoom(-10)
	}
	if c.Zoom != c.MinZoom {
		t.Errorf("expected zoom clamped to %v, got %v", c.MinZoom, c.Zoom)
	}

	for i := 0; i < 100; i++ {
		c.HandleZoom(10)
	}
	if c.Zoom != c.MaxZoom {
		t.Errorf("expected zoom clamped to %v, got %v", c.MaxZoom, c.Zoom)
	}
}

func TestSetViewportDegenerate(t *testing.T) {
	c := New(0, 0)
	if c.aspect != 1 {
		t.Errorf("expected aspect fallback 1, got %v", c.aspect)
	}
}
