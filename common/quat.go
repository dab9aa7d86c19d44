package common

import "math"

// Quat is a unit rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

var Identity = Quat{W: 1}

func (q Quat) Dot(o Quat) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

func (q Quat) Normalized() Quat {
	l := math.Sqrt(q.Dot(q))
	if l < Epsilon {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward is the +Z axis rotated by q.
func (q Quat) Forward() Vec3 {
	return q.Rotate(Vec3{Z: 1})
}

// Yaw returns the heading around +Y in radians, 0 facing +Z.
func (q Quat) Yaw() float64 {
	f := q.Forward()
	return math.Atan2(f.X, f.Z)
}

// LookRotation builds the rotation whose forward axis is forward and whose up
// axis is as close to world up as possible. forward must not be zero; callers
// guard degenerate directions themselves.
func LookRotation(forward Vec3) Quat {
	f := forward.Normalized()
	r := Up.Cross(f).Normalized()
	if r.IsZero() {
		// looking straight up or down
		r = Vec3{X: 1}
	}
	u := f.Cross(r)

	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q Quat
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{W: 0.25 * s, X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{W: (m21 - m12) / s, X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s}
	}
	return q.Normalized()
}

// QuatLerp is a normalized linear interpolation along the shortest arc, t
// clamped to [0, 1].
func QuatLerp(a, b Quat, t float64) Quat {
	t = Clamp01(t)
	if a.Dot(b) < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
	}
	return Quat{
		Lerp(a.X, b.X, t),
		Lerp(a.Y, b.Y, t),
		Lerp(a.Z, b.Z, t),
		Lerp(a.W, b.W, t),
	}.Normalized()
}
