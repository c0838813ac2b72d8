// Package math provides the small math surface the engine needs: 2D
// vectors, column-major 4x4 matrices for OpenGL, and scalar helpers.
package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Clamp limits value to [min, max].
func Clamp(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Clamp01 limits value to [0, 1].
func Clamp01(value float32) float32 {
	return Clamp(value, 0, 1)
}

// MapRange remaps value from [srcMin, srcMax] to [dstMin, dstMax].
// A degenerate source range maps to dstMin.
func MapRange(value, srcMin, srcMax, dstMin, dstMax float32) float32 {
	if srcMax == srcMin {
		return dstMin
	}
	normalized := (value - srcMin) / (srcMax - srcMin)
	return dstMin + normalized*(dstMax-dstMin)
}
