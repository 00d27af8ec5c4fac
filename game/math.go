package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AngleVectors returns the forward, right and up vectors of a pitch/yaw/roll triple in degrees.
func AngleVectors(angles mgl32.Vec3) (forward, right, up mgl32.Vec3) {
	yaw := angles[Yaw] * (math32.Pi * 2 / 360)
	sy, cy := math32.Sin(yaw), math32.Cos(yaw)
	pitch := angles[Pitch] * (math32.Pi * 2 / 360)
	sp, cp := math32.Sin(pitch), math32.Cos(pitch)
	roll := angles[Roll] * (math32.Pi * 2 / 360)
	sr, cr := math32.Sin(roll), math32.Cos(roll)

	forward = mgl32.Vec3{cp * cy, cp * sy, -sp}
	right = mgl32.Vec3{
		-sr*sp*cy + cr*sy,
		-sr*sp*sy - cr*cy,
		-sr * cp,
	}
	up = mgl32.Vec3{
		cr*sp*cy + sr*sy,
		cr*sp*sy - sr*cy,
		cr * cp,
	}
	return
}

// ClipVelocity slides in along a plane with the given normal. An overbounce above one pushes the result
// slightly away from the plane.
func ClipVelocity(in, normal mgl32.Vec3, overbounce float32) mgl32.Vec3 {
	backoff := in.Dot(normal)
	if backoff < 0 {
		backoff *= overbounce
	} else {
		backoff /= overbounce
	}
	return mgl32.Vec3{
		in[0] - normal[0]*backoff,
		in[1] - normal[1]*backoff,
		in[2] - normal[2]*backoff,
	}
}

// Normalize returns v scaled to unit length and the original length. A zero vector is returned unchanged.
func Normalize(v mgl32.Vec3) (mgl32.Vec3, float32) {
	length := v.Len()
	if length == 0 {
		return v, 0
	}
	inv := 1 / length
	return mgl32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, length
}

// SnapVector rounds every component to the nearest integer, ties to even.
func SnapVector(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.RoundToEven(float64(v[0]))),
		float32(math.RoundToEven(float64(v[1]))),
		float32(math.RoundToEven(float64(v[2]))),
	}
}

// AngleToShort converts degrees to a 16-bit wrapped angle.
func AngleToShort(degrees float32) int32 {
	return int32(degrees*65536/360) & 65535
}

// ShortToAngle converts a 16-bit angle back to degrees.
func ShortToAngle(short int32) float32 {
	return float32(short) * (360.0 / 65536)
}

// Vec3HzDistSqr returns the squared horizontal length of a vector.
func Vec3HzDistSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Y()*vec3.Y()
}

// Flatten returns v with the vertical component removed, normalised.
func Flatten(v mgl32.Vec3) mgl32.Vec3 {
	v[2] = 0
	v, _ = Normalize(v)
	return v
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// RoundVec32 will round a 32-bit vector to a given precision.
func RoundVec32(v mgl32.Vec3, p int) mgl32.Vec3 {
	return mgl32.Vec3{Round32(v.X(), p), Round32(v.Y(), p), Round32(v.Z(), p)}
}

// ClampInt8 clamps a command magnitude to [-limit, limit].
func ClampInt8(v int8, limit int8) int8 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
