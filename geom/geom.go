// Package geom provides 2D vector math and degree-based rotation helpers.
//
// Rotations follow a "facing up" convention: rotation 0 faces +Y and positive
// angles turn counter-clockwise, so the facing vector is (-sin r, cos r).
package geom

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the vector magnitude.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Dist returns the distance between a and b.
func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

// FacingFromRotation returns the unit facing vector for a rotation in degrees.
func FacingFromRotation(deg float64) Vec2 {
	r := deg * math.Pi / 180
	return Vec2{-math.Sin(r), math.Cos(r)}
}

// RotationFromDirection returns the rotation in degrees that faces dir.
func RotationFromDirection(dir Vec2) float64 {
	return math.Atan2(-dir.X, dir.Y) * 180 / math.Pi
}

// Repeat wraps t into [0, length).
func Repeat(t, length float64) float64 {
	return t - math.Floor(t/length)*length
}

// DeltaAngle returns the shortest signed difference target-current in (-180, 180].
func DeltaAngle(current, target float64) float64 {
	d := Repeat(target-current, 360)
	if d > 180 {
		d -= 360
	}
	return d
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RandomInCircle returns a uniformly distributed point in a circle of the given radius.
func RandomInCircle(radius float64, float func() float64) Vec2 {
	r := radius * math.Sqrt(float())
	theta := float() * 2 * math.Pi
	return Vec2{r * math.Cos(theta), r * math.Sin(theta)}
}
