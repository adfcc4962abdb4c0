package spatialmath

import "math"

// Angle is a planar angle stored in radians.
type Angle float64

// NewAngleFromRadians returns an Angle of r radians.
func NewAngleFromRadians(r float64) Angle {
	return Angle(r)
}

// NewAngleFromDegrees returns an Angle of d degrees.
func NewAngleFromDegrees(d float64) Angle {
	return Angle(d * math.Pi / 180)
}

// NewAngleFromRotations returns an Angle of the given number of full rotations.
func NewAngleFromRotations(rotations float64) Angle {
	return Angle(rotations * 2 * math.Pi)
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Rotations returns the angle in full rotations.
func (a Angle) Rotations() float64 {
	return float64(a) / (2 * math.Pi)
}

// Normalize wraps the angle into [0, 2π).
func (a Angle) Normalize() Angle {
	wrapped := math.Mod(float64(a), 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return Angle(wrapped)
}
