package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are intrinsic Z-Y'-X'' (yaw, pitch, roll) rotations.
type EulerAngles struct {
	Roll  Angle `json:"roll"`
	Pitch Angle `json:"pitch"`
	Yaw   Angle `json:"yaw"`
}

// Rotation3d is a rotation in 3D space stored as a unit quaternion.
type Rotation3d struct {
	q quat.Number
}

// NewZeroRotation3d returns the identity rotation.
func NewZeroRotation3d() Rotation3d {
	return Rotation3d{quat.Number{Real: 1}}
}

// NewRotation3dFromQuaternion returns the rotation described by the quaternion w + xi + yj + zk.
// The quaternion is normalized; a zero quaternion yields the identity rotation.
func NewRotation3dFromQuaternion(w, x, y, z float64) Rotation3d {
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	norm := quat.Abs(q)
	if norm == 0 || math.IsNaN(norm) {
		return NewZeroRotation3d()
	}
	return Rotation3d{quat.Scale(1/norm, q)}
}

// NewRotation3dFromEuler returns the rotation for the given roll, pitch and yaw.
func NewRotation3dFromEuler(roll, pitch, yaw Angle) Rotation3d {
	cr, sr := math.Cos(roll.Radians()/2), math.Sin(roll.Radians()/2)
	cp, sp := math.Cos(pitch.Radians()/2), math.Sin(pitch.Radians()/2)
	cy, sy := math.Cos(yaw.Radians()/2), math.Sin(yaw.Radians()/2)
	return Rotation3d{quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}}
}

// Quaternion returns the unit quaternion of the rotation.
func (r Rotation3d) Quaternion() quat.Number {
	if r.q == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return r.q
}

// EulerAngles converts the rotation to roll, pitch and yaw.
func (r Rotation3d) EulerAngles() EulerAngles {
	q := r.Quaternion()
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	sinPitch := 2 * (w*y - z*x)
	// clamp against numerical drift past the poles
	sinPitch = math.Max(-1, math.Min(1, sinPitch))

	return EulerAngles{
		Roll:  Angle(math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))),
		Pitch: Angle(math.Asin(sinPitch)),
		Yaw:   Angle(math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))),
	}
}

// Roll returns the rotation about the X axis.
func (r Rotation3d) Roll() Angle {
	return r.EulerAngles().Roll
}

// Pitch returns the rotation about the Y axis.
func (r Rotation3d) Pitch() Angle {
	return r.EulerAngles().Pitch
}

// Yaw returns the rotation about the Z axis.
func (r Rotation3d) Yaw() Angle {
	return r.EulerAngles().Yaw
}

// Inverse returns the rotation undoing r.
func (r Rotation3d) Inverse() Rotation3d {
	return Rotation3d{quat.Conj(r.Quaternion())}
}

// RotationAlmostEqual returns whether two rotations are within tol of each other, treating q and -q
// as the same rotation.
func RotationAlmostEqual(a, b Rotation3d, tol float64) bool {
	qa, qb := a.Quaternion(), b.Quaternion()
	same := quat.Abs(quat.Sub(qa, qb)) <= tol
	flipped := quat.Abs(quat.Add(qa, qb)) <= tol
	return same || flipped
}
