package common

import (
	"math"
	"testing"
)

func TestLerpAndClamp(t *testing.T) {
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"lerp_mid", Lerp(2, 4, 0.5), 3},
		{"lerp_unclamped", Lerp(0, 1, 2), 2},
		{"clamp01_low", Clamp01(-1), 0},
		{"clamp01_high", Clamp01(3), 1},
		{"clamp_inside", Clamp(0.4, 0, 1), 0.4},
		{"clamp_high", Clamp(5, -1, 1), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if math.Abs(c.got-c.want) > 1e-12 {
				t.Fatalf("got %v, want %v", c.got, c.want)
			}
		})
	}
}

func TestLerpVec3Clamps(t *testing.T) {
	a, b := V3(0, 0, 0), V3(0, 0, 3)
	if got := LerpVec3(a, b, 1.5); got != b {
		t.Fatalf("overshoot: got %v, want %v", got, b)
	}
	if got := LerpVec3(a, b, -1); got != a {
		t.Fatalf("undershoot: got %v, want %v", got, a)
	}
	if got := LerpVec3(a, b, 0.5); Distance(got, V3(0, 0, 1.5)) > 1e-12 {
		t.Fatalf("mid: got %v", got)
	}
}

func TestNormalizedDegenerate(t *testing.T) {
	if got := Zero.Normalized(); got != Zero {
		t.Fatalf("zero vector normalized to %v", got)
	}
	if got := V3(3, 0, 4).Normalized(); math.Abs(got.Length()-1) > 1e-12 {
		t.Fatalf("length %v", got.Length())
	}
	if !V3(0, 5, 0).Flat().IsZero() {
		t.Fatalf("vertical vector should flatten to zero")
	}
}

func TestProjectOnPlane(t *testing.T) {
	got := ProjectOnPlane(V3(1, 2, 3), Up)
	if got != V3(1, 0, 3) {
		t.Fatalf("got %v", got)
	}
}

func TestLookRotation(t *testing.T) {
	cases := []struct {
		name    string
		forward Vec3
		yaw     float64
	}{
		{"plus_z", V3(0, 0, 1), 0},
		{"plus_x", V3(1, 0, 0), math.Pi / 2},
		{"minus_x", V3(-2, 0, 0), -math.Pi / 2},
		{"diagonal", V3(1, 0, 1), math.Pi / 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := LookRotation(c.forward)
			if d := Distance(q.Forward(), c.forward.Normalized()); d > 1e-9 {
				t.Fatalf("forward %v, want %v", q.Forward(), c.forward.Normalized())
			}
			if math.Abs(q.Yaw()-c.yaw) > 1e-9 {
				t.Fatalf("yaw %v, want %v", q.Yaw(), c.yaw)
			}
			if d := Distance(q.Rotate(Up), Up); d > 1e-9 {
				t.Fatalf("up tilted to %v", q.Rotate(Up))
			}
		})
	}
}

func TestQuatLerp(t *testing.T) {
	a := Identity
	b := LookRotation(V3(1, 0, 0))

	if got := QuatLerp(a, b, 0); math.Abs(got.Dot(a)-1) > 1e-9 {
		t.Fatalf("t=0 got %v", got)
	}
	if got := QuatLerp(a, b, 2); math.Abs(got.Dot(b)-1) > 1e-9 {
		t.Fatalf("t clamps to 1, got %v", got)
	}
	mid := QuatLerp(a, b, 0.5)
	if math.Abs(mid.Yaw()-math.Pi/4) > 1e-9 {
		t.Fatalf("mid yaw %v", mid.Yaw())
	}

	// the negated quaternion is the same rotation; lerp must not swing the long way
	neg := Quat{-b.X, -b.Y, -b.Z, -b.W}
	if got := QuatLerp(a, neg, 0.5); math.Abs(got.Yaw()-math.Pi/4) > 1e-9 {
		t.Fatalf("long-arc yaw %v", got.Yaw())
	}
}
