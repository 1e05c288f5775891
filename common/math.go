package common

import "math"

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// PixelsPerUnit converts simulation units (metres) to screen pixels.
	PixelsPerUnit = 64.0

	// Gravity is in units/s², positive Y pointing down the screen.
	Gravity = 9.81
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
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

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// MoveTowards steps current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// Vec3 is a tilt or direction in engine space. X and Z are horizontal.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// HorizontalMagnitude is the length of the (X, Z) projection.
func (v Vec3) HorizontalMagnitude() float64 {
	return math.Hypot(v.X, v.Z)
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
