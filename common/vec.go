package common

import (
	"fmt"
	"math"
)

// Vec3 is a world-space point or direction. Y is up.
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

var (
	Zero = Vec3{}
	Up   = Vec3{Y: 1}
	Down = Vec3{Y: -1}
)

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// IsZero reports whether v has no measurable length.
func (v Vec3) IsZero() bool {
	return v.Dot(v) < Epsilon*Epsilon
}

// Normalized returns the unit vector of v, or Zero when v is degenerate.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < Epsilon {
		return Zero
	}
	return v.Scale(1 / l)
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// HorizontalDistance measures a and b in the XZ plane only.
func HorizontalDistance(a, b Vec3) float64 {
	return a.Sub(b).Flat().Length()
}

// LerpVec3 interpolates between a and b with t clamped to [0, 1].
func LerpVec3(a, b Vec3, t float64) Vec3 {
	t = Clamp01(t)
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

// ProjectOnPlane removes the component of v along normal.
func ProjectOnPlane(v, normal Vec3) Vec3 {
	sqr := normal.Dot(normal)
	if sqr < Epsilon {
		return v
	}
	return v.Sub(normal.Scale(v.Dot(normal) / sqr))
}
