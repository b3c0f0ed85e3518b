package physics

import "math"

// Vec2 is a 2D vector used for positions and velocities.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// MagnitudeSquared avoids the square root; collision tests compare squared distances.
func (v Vec2) MagnitudeSquared() float64 {
	return v.Dot(v)
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.MagnitudeSquared())
}

// Normalize returns the unit vector along v. The zero vector normalizes to itself.
func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return v.Times(1.0 / m)
}

func (v Vec2) Invert() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Below reports whether both components are strictly below limit in magnitude.
func (v Vec2) Below(limit float64) bool {
	return math.Abs(v.X) < limit && math.Abs(v.Y) < limit
}
