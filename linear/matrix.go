// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// Matrix4 is a column-major 4x4 matrix of float64.
// The element at row r and column c is m[4*c+r].
//
// Matrices transform column vectors (v' = M ⋅ v), so in
// Mul(a, b) the transform b is applied first. Perspective,
// LookAt, Compose and Decompose all follow this convention.
type Matrix4 [16]float64

// Identity returns the identity matrix.
func Identity() Matrix4 {
	return Matrix4{0: 1, 5: 1, 10: 1, 15: 1}
}

// At returns the element at row r and column c.
func (m Matrix4) At(r, c int) float64 { return m[4*c+r] }

// Mul returns l ⋅ r.
func Mul(l, r Matrix4) (m Matrix4) {
	for c := 0; c < 4; c++ {
		for i := 0; i < 4; i++ {
			var x float64
			for k := 0; k < 4; k++ {
				x += l[4*k+i] * r[4*c+k]
			}
			m[4*c+i] = x
		}
	}
	return
}

// Transpose returns the transpose of m.
func (m Matrix4) Transpose() (t Matrix4) {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			t[4*r+c] = m[4*c+r]
		}
	}
	return
}

// cofactors computes the 2x2 sub-determinants shared by
// Det and Invert.
func (m Matrix4) cofactors() (s, c [6]float64) {
	s[0] = m[0]*m[5] - m[1]*m[4]
	s[1] = m[0]*m[6] - m[2]*m[4]
	s[2] = m[0]*m[7] - m[3]*m[4]
	s[3] = m[1]*m[6] - m[2]*m[5]
	s[4] = m[1]*m[7] - m[3]*m[5]
	s[5] = m[2]*m[7] - m[3]*m[6]
	c[0] = m[8]*m[13] - m[9]*m[12]
	c[1] = m[8]*m[14] - m[10]*m[12]
	c[2] = m[8]*m[15] - m[11]*m[12]
	c[3] = m[9]*m[14] - m[10]*m[13]
	c[4] = m[9]*m[15] - m[11]*m[13]
	c[5] = m[10]*m[15] - m[11]*m[14]
	return
}

// Det returns the determinant of m.
func (m Matrix4) Det() float64 {
	s, c := m.cofactors()
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Invert returns the inverse of m.
// It returns false if m is singular, in which case the
// returned matrix must not be used.
func (m Matrix4) Invert() (n Matrix4, ok bool) {
	s, c := m.cofactors()
	det := s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return
	}
	idet := 1 / det
	n[0] = (c[5]*m[5] - c[4]*m[6] + c[3]*m[7]) * idet
	n[1] = (-c[5]*m[1] + c[4]*m[2] - c[3]*m[3]) * idet
	n[2] = (s[5]*m[13] - s[4]*m[14] + s[3]*m[15]) * idet
	n[3] = (-s[5]*m[9] + s[4]*m[10] - s[3]*m[11]) * idet
	n[4] = (-c[5]*m[4] + c[2]*m[6] - c[1]*m[7]) * idet
	n[5] = (c[5]*m[0] - c[2]*m[2] + c[1]*m[3]) * idet
	n[6] = (-s[5]*m[12] + s[2]*m[14] - s[1]*m[15]) * idet
	n[7] = (s[5]*m[8] - s[2]*m[10] + s[1]*m[11]) * idet
	n[8] = (c[4]*m[4] - c[2]*m[5] + c[0]*m[7]) * idet
	n[9] = (-c[4]*m[0] + c[2]*m[1] - c[0]*m[3]) * idet
	n[10] = (s[4]*m[12] - s[2]*m[13] + s[0]*m[15]) * idet
	n[11] = (-s[4]*m[8] + s[2]*m[9] - s[0]*m[11]) * idet
	n[12] = (-c[3]*m[4] + c[1]*m[5] - c[0]*m[6]) * idet
	n[13] = (c[3]*m[0] - c[1]*m[1] + c[0]*m[2]) * idet
	n[14] = (-s[3]*m[12] + s[1]*m[13] - s[0]*m[14]) * idet
	n[15] = (s[3]*m[8] - s[1]*m[9] + s[0]*m[10]) * idet
	return n, true
}

// TransformPoint returns m ⋅ (v, 1), divided by the
// resulting w when it is neither 0 nor 1.
func (m Matrix4) TransformPoint(v Vector3) Vector3 {
	x := m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	y := m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	z := m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w != 0 && w != 1 {
		return Vector3{x / w, y / w, z / w}
	}
	return Vector3{x, y, z}
}

// TransformDir returns m ⋅ (v, 0).
func (m Matrix4) TransformDir(v Vector3) Vector3 {
	return Vector3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// ApproxEqual reports whether every element of m is
// within eps of the corresponding element of n.
func (m Matrix4) ApproxEqual(n Matrix4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-n[i]) > eps {
			return false
		}
	}
	return true
}

// Translation returns a matrix that translates by v.
func Translation(v Vector3) Matrix4 {
	return Matrix4{0: 1, 5: 1, 10: 1, 12: v.X, 13: v.Y, 14: v.Z, 15: 1}
}

// Scaling returns a matrix that scales by v.
func Scaling(v Vector3) Matrix4 {
	return Matrix4{0: v.X, 5: v.Y, 10: v.Z, 15: 1}
}

// RotationX returns a rotation of angle radians about the x axis.
func RotationX(angle float64) Matrix4 {
	s, c := math.Sincos(angle)
	return Matrix4{0: 1, 5: c, 6: s, 9: -s, 10: c, 15: 1}
}

// RotationY returns a rotation of angle radians about the y axis.
func RotationY(angle float64) Matrix4 {
	s, c := math.Sincos(angle)
	return Matrix4{0: c, 2: -s, 5: 1, 8: s, 10: c, 15: 1}
}

// RotationZ returns a rotation of angle radians about the z axis.
func RotationZ(angle float64) Matrix4 {
	s, c := math.Sincos(angle)
	return Matrix4{0: c, 1: s, 4: -s, 5: c, 10: 1, 15: 1}
}

// Perspective returns a right-handed perspective projection
// that maps view space depth into [-1, 1] clip space.
// fovY is the vertical field of view in radians and aspect
// is width / height.
//
// The result is degenerate unless near > 0, far > near and
// 0 < fovY < π. These are not checked.
func Perspective(fovY, aspect, near, far float64) Matrix4 {
	f := 1 / math.Tan(fovY*0.5)
	nf := 1 / (near - far)
	return Matrix4{
		0:  f / aspect,
		5:  f,
		10: (far + near) * nf,
		11: -1,
		14: 2 * far * near * nf,
	}
}

// LookAt returns a right-handed view matrix for an observer
// at eye looking toward target, with up as the vertical
// reference.
//
// If eye equals target or up is parallel to the view
// direction, the basis collapses and the matrix is singular.
// This is not checked.
func LookAt(eye, target, up Vector3) Matrix4 {
	z := eye.Sub(target).Norm()
	x := up.Cross(z).Norm()
	y := z.Cross(x).Norm()
	return Matrix4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// Compose returns the transform T ⋅ Rx ⋅ Ry ⋅ Rz ⋅ S.
// rotation holds Euler angles in radians, applied in
// intrinsic XYZ order (x about the local frame first,
// then the rotated y, then the twice-rotated z).
// Applied to a point, scale takes effect first and
// translation last.
func Compose(position, rotation, scale Vector3) Matrix4 {
	sx, cx := math.Sincos(rotation.X)
	sy, cy := math.Sincos(rotation.Y)
	sz, cz := math.Sincos(rotation.Z)
	return Matrix4{
		cy * cz * scale.X,
		(cx*sz + sx*sy*cz) * scale.X,
		(sx*sz - cx*sy*cz) * scale.X,
		0,
		-cy * sz * scale.Y,
		(cx*cz - sx*sy*sz) * scale.Y,
		(sx*cz + cx*sy*sz) * scale.Y,
		0,
		sy * scale.Z,
		-sx * cy * scale.Z,
		cx * cy * scale.Z,
		0,
		position.X,
		position.Y,
		position.Z,
		1,
	}
}

// Decompose splits m into the position, Euler XYZ rotation
// and scale that Compose would take to produce it.
// m must be an affine transform without shear. A negative
// determinant is attributed to the x scale. The rotation
// is unspecified for axes whose scale is zero.
func Decompose(m Matrix4) (position, rotation, scale Vector3) {
	position = Vector3{m[12], m[13], m[14]}
	c0 := Vector3{m[0], m[1], m[2]}
	c1 := Vector3{m[4], m[5], m[6]}
	c2 := Vector3{m[8], m[9], m[10]}
	scale = Vector3{c0.Len(), c1.Len(), c2.Len()}
	if c0.Cross(c1).Dot(c2) < 0 {
		scale.X = -scale.X
	}
	if scale.X != 0 {
		c0 = c0.Scale(1 / scale.X)
	}
	if scale.Y != 0 {
		c1 = c1.Scale(1 / scale.Y)
	}
	if scale.Z != 0 {
		c2 = c2.Scale(1 / scale.Z)
	}
	// Row 0 of Rx ⋅ Ry ⋅ Rz is (cy cz, -cy sz, sy).
	sy := math.Max(-1, math.Min(1, c2.X))
	rotation.Y = math.Asin(sy)
	if math.Abs(sy) < 0.9999999 {
		rotation.X = math.Atan2(-c2.Y, c2.Z)
		rotation.Z = math.Atan2(-c1.X, c0.X)
	} else {
		// Gimbal lock: only x + z (or x - z) is determined.
		rotation.X = math.Atan2(c1.Z, c1.Y)
	}
	return
}
