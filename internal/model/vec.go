package model

import "math"

// Vec3 is a point or direction in world space (metres, Y up).
// Value type, passed by value.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Up is the world up axis.
var Up = Vec3{Y: 1}

// V is shorthand for Vec3{x, y, z}.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// LenSquared returns the squared length (no sqrt).
func (v Vec3) LenSquared() float64 { return v.Dot(v) }

func (v Vec3) Len() float64 { return math.Sqrt(v.LenSquared()) }

// Dist returns the euclidean distance between two points.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// DistSquared returns the squared distance between two points.
func (v Vec3) DistSquared(o Vec3) float64 { return v.Sub(o).LenSquared() }

// Normalize returns the unit vector in the same direction.
// The zero vector stays zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// AngleTo returns the unsigned angle between v and o in degrees.
// Returns 0 if either vector is zero.
func (v Vec3) AngleTo(o Vec3) float64 {
	a, b := v.Normalize(), o.Normalize()
	if a.IsZero() || b.IsZero() {
		return 0
	}
	cos := math.Max(-1, math.Min(1, a.Dot(b)))
	return math.Acos(cos) * 180 / math.Pi
}

// MoveTowards moves v toward target by at most maxDelta.
func (v Vec3) MoveTowards(target Vec3, maxDelta float64) Vec3 {
	d := target.Sub(v)
	dist := d.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return v.Add(d.Scale(maxDelta / dist))
}
