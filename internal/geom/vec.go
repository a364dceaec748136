package geom

import "math"

// Epsilon is the tolerance used for degenerate lengths.
const Epsilon = 1e-9

// Up is the world up axis. Agents live on the XZ plane.
var Up = Vec3{Y: 1}

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// V3 is shorthand for building a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64       { return math.Sqrt(v.Dot(v)) }

// Dist returns the euclidean distance between two points.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// Normalize returns the unit vector along v, or the zero vector when v is
// too short to have a direction.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 { return Vec3{X: v.X, Z: v.Z} }

// IsZero reports whether v has no usable length.
func (v Vec3) IsZero() bool { return v.Len() < Epsilon }

// IsFinite reports whether every component is a real number.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// RotateY rotates v about the up axis by deg degrees. Positive angles turn
// +Z towards +X.
func (v Vec3) RotateY(deg float64) Vec3 {
	r := deg * math.Pi / 180
	s, c := math.Sincos(r)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// Lerp moves from v towards o by t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// Angle returns the unsigned angle between a and b in degrees. Zero length
// inputs have no angle and return 0.
func Angle(a, b Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < Epsilon || lb < Epsilon {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Forward returns the facing direction for a yaw in degrees. Yaw 0 faces +Z.
func Forward(yaw float64) Vec3 {
	return Vec3{Z: 1}.RotateY(yaw)
}

// YawOf returns the yaw, in degrees, that faces along dir.
func YawOf(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z) * 180 / math.Pi
}

// NormalizeDeg wraps an angle to (-180, 180].
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// TurnTowards rotates yaw towards target by at most step degrees.
func TurnTowards(yaw, target, step float64) float64 {
	diff := NormalizeDeg(target - yaw)
	if math.Abs(diff) <= step {
		return NormalizeDeg(target)
	}
	if diff > 0 {
		return NormalizeDeg(yaw + step)
	}
	return NormalizeDeg(yaw - step)
}

// Vec2 is a planar input or direction.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// ClampUnit shortens v to unit length if it is longer.
func (v Vec2) ClampUnit() Vec2 {
	l := v.Len()
	if l > 1 {
		return Vec2{v.X / l, v.Y / l}
	}
	return v
}

// Horizontal maps a planar input onto the XZ plane.
func (v Vec2) Horizontal() Vec3 {
	return Vec3{X: v.X, Z: v.Y}
}
