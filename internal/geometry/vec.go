package geometry

import "math"

// Epsilon is the default tolerance for approximate comparisons.
const Epsilon = 1e-9

// Vec2 is a point or direction in world space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }

func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }

func (a Vec2) LengthSq() float64 { return a.X*a.X + a.Y*a.Y }

func (a Vec2) Length() float64 { return math.Hypot(a.X, a.Y) }

// Distance returns the Euclidean distance between a and b.
func (a Vec2) Distance(b Vec2) float64 { return a.Sub(b).Length() }

// Normalize returns the unit vector in the direction of a, or the zero vector.
func (a Vec2) Normalize() Vec2 {
	l := a.Length()
	if l == 0 {
		return Vec2{}
	}
	return a.Scale(1 / l)
}

// Rotate rotates a around the origin by angle radians.
func (a Vec2) Rotate(angle float64) Vec2 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vec2{a.X*c - a.Y*s, a.X*s + a.Y*c}
}

// Lerp interpolates linearly from a to b.
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Equals reports whether both components differ by at most eps.
func (a Vec2) Equals(b Vec2, eps float64) bool {
	return ApproxEqual(a.X, b.X, eps) && ApproxEqual(a.Y, b.Y, eps)
}

// Angle returns the angle of a measured from the positive X axis.
func (a Vec2) Angle() float64 { return math.Atan2(a.Y, a.X) }

// FromAngle returns a vector of the given length pointing at angle radians.
func FromAngle(angle, length float64) Vec2 {
	return Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}

func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
