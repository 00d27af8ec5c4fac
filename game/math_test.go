package game

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// near compares every component against an absolute tolerance.
func near(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestAngleVectorsIdentity(t *testing.T) {
	forward, right, up := AngleVectors(mgl32.Vec3{})
	if !near(forward, mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Fatalf("forward = %v", forward)
	}
	if !near(right, mgl32.Vec3{0, -1, 0}, 1e-5) {
		t.Fatalf("right = %v", right)
	}
	if !near(up, mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Fatalf("up = %v", up)
	}

	forward, _, _ = AngleVectors(mgl32.Vec3{0, 90, 0})
	if !near(forward, mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("yaw 90 forward = %v", forward)
	}
}

func TestClipVelocityRemovesIntoComponent(t *testing.T) {
	out := ClipVelocity(mgl32.Vec3{100, 0, -400}, Up, OverClip)
	if out[2] <= 0 {
		t.Fatalf("clipped velocity must point away from the floor, got %v", out)
	}
	if out[0] != 100 {
		t.Fatalf("tangential component changed: %v", out)
	}

	away := ClipVelocity(mgl32.Vec3{0, 0, 50}, Up, OverClip)
	if away[2] >= 50 || away[2] <= 0 {
		t.Fatalf("velocity leaving a plane is only slightly reduced, got %v", away)
	}
}

func TestSnapVector(t *testing.T) {
	got := SnapVector(mgl32.Vec3{1.4, -2.6, 2.5})
	if got != (mgl32.Vec3{1, -3, 2}) {
		t.Fatalf("snap = %v", got)
	}
}

func TestShortAngles(t *testing.T) {
	if s := AngleToShort(90); s != 16384 {
		t.Fatalf("AngleToShort(90) = %d", s)
	}
	if a := ShortToAngle(16384); a != 90 {
		t.Fatalf("ShortToAngle(16384) = %v", a)
	}
	if s := AngleToShort(-90); s != 49152 {
		t.Fatalf("negative angles wrap, got %d", s)
	}
}

func TestStatistics(t *testing.T) {
	data := []float64{4, 1, 3, 2}
	if Mean(data) != 2.5 || Median(data) != 2.5 {
		t.Fatalf("unexpected mean %v or median %v", Mean(data), Median(data))
	}
	if data[0] != 4 {
		t.Fatalf("median reordered its input")
	}
	if sd := StandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}); sd != 2 {
		t.Fatalf("expected a standard deviation of 2, got %v", sd)
	}
	if Mean(nil) != 0 || Median(nil) != 0 || StandardDeviation(nil) != 0 {
		t.Fatalf("empty data must yield zero")
	}
	if v := RoundVec32(mgl32.Vec3{1.23456, -0.00049, 2}, 3); v != (mgl32.Vec3{1.235, 0, 2}) {
		t.Fatalf("unexpected rounding %v", v)
	}
}
