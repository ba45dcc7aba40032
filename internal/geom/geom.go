// Package geom holds the small vector and collision helpers shared by the
// simulation and its frontends.
package geom

import "math"

// Vec is a 2D point or direction in world units.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// FromAngle returns the unit vector pointing along angle a (radians).
func FromAngle(a float64) Vec {
	return Vec{X: math.Cos(a), Y: math.Sin(a)}
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }
func (v Vec) Len() float64        { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vec) Angle() float64      { return math.Atan2(v.Y, v.X) }
func (v Vec) Dist(o Vec) float64  { return Distance(v.X, v.Y, o.X, o.Y) }

// Normalize returns the unit vector of v, or the zero vector when v has no
// length.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// ClampLen limits the magnitude of v to max.
func (v Vec) ClampLen(max float64) Vec {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// ClampRect keeps v inside [0,w]x[0,h].
func (v Vec) ClampRect(w, h float64) Vec {
	return Vec{Clamp(v.X, 0, w), Clamp(v.Y, 0, h)}
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// CirclesOverlap reports whether two circles intersect. Touching circles
// do not count.
func CirclesOverlap(a Vec, ra float64, b Vec, rb float64) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	radSum := ra + rb
	return dx*dx+dy*dy < radSum*radSum
}
