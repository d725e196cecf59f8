// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// Quaternion is a quaternion of float64.
type Quaternion struct {
	V Vector3
	R float64
}

// MulQ returns l ⋅ r.
// As a rotation, r is applied first.
func MulQ(l, r Quaternion) Quaternion {
	v := l.V.Scale(r.R).Add(r.V.Scale(l.R)).Add(l.V.Cross(r.V))
	return Quaternion{V: v, R: l.R*r.R - l.V.Dot(r.V)}
}

// AxisAngle returns the rotation of angle radians about axis.
// axis must be normalized.
func AxisAngle(axis Vector3, angle float64) Quaternion {
	s, c := math.Sincos(angle * 0.5)
	return Quaternion{V: axis.Scale(s), R: c}
}

// EulerXYZ returns the rotation described by Euler angles
// in intrinsic XYZ order, matching the rotation of Compose.
func EulerXYZ(rotation Vector3) Quaternion {
	qx := AxisAngle(Vector3{X: 1}, rotation.X)
	qy := AxisAngle(Vector3{Y: 1}, rotation.Y)
	qz := AxisAngle(Vector3{Z: 1}, rotation.Z)
	return MulQ(qx, MulQ(qy, qz))
}

// Matrix returns the rotation matrix of q.
// q must be a unit quaternion.
func (q Quaternion) Matrix() Matrix4 {
	x, y, z, w := q.V.X, q.V.Y, q.V.Z, q.R
	return Matrix4{
		1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0,
		2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0,
		2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}
