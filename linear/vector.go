// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements math for 3D graphics.
//
// All types are values and every operation returns a new
// value; nothing is modified in place.
package linear

import (
	"math"
)

// Vector3 is a 3-component vector of float64.
type Vector3 struct {
	X, Y, Z float64
}

// Zero returns the zero vector.
func Zero() Vector3 { return Vector3{} }

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns s ⋅ v.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{s * v.X, s * v.Y, s * v.Z}
}

// Dot returns v ⋅ w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns v × w (right-handed).
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Len returns the length of v.
// NaN components produce a NaN length.
func (v Vector3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Norm returns v normalized.
// The zero vector is returned unchanged.
func (v Vector3) Norm() Vector3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Min returns the component-wise minimum of v and w.
func (v Vector3) Min(w Vector3) Vector3 {
	return Vector3{math.Min(v.X, w.X), math.Min(v.Y, w.Y), math.Min(v.Z, w.Z)}
}

// Max returns the component-wise maximum of v and w.
func (v Vector3) Max(w Vector3) Vector3 {
	return Vector3{math.Max(v.X, w.X), math.Max(v.Y, w.Y), math.Max(v.Z, w.Z)}
}

// Array returns v as an array.
func (v Vector3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
