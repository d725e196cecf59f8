// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package mesh provides reference geometry.
package mesh

import (
	"math"

	"github.com/gviegas/scenegraph/linear"
)

// Mesh is an indexed triangle list.
// Positions holds three floats per vertex and Indices
// holds three vertex indices per triangle.
type Mesh struct {
	Positions []float32
	Indices   []uint32
}

// Cube creates an axis-aligned cube centered at the origin
// with edges of length size.
// It always has 8 vertices and 12 triangles.
func Cube(size float32) *Mesh {
	s := size * 0.5
	return &Mesh{
		Positions: []float32{
			-s, -s, -s,
			s, -s, -s,
			s, s, -s,
			-s, s, -s,
			-s, -s, s,
			s, -s, s,
			s, s, s,
			-s, s, s,
		},
		Indices: []uint32{
			0, 1, 2, 2, 3, 0,
			4, 5, 6, 6, 7, 4,
			0, 4, 7, 7, 3, 0,
			1, 5, 6, 6, 2, 1,
			3, 2, 6, 6, 7, 3,
			0, 1, 5, 5, 4, 0,
		},
	}
}

// VertexCount returns the number of vertices in m.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles in m.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Bounds returns the minimum and maximum corners of the
// box enclosing every vertex of m.
// It returns false if m has no vertices.
func (m *Mesh) Bounds() (lo, hi linear.Vector3, ok bool) {
	if m.VertexCount() == 0 {
		return
	}
	lo = linear.Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = linear.Vector3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i+2 < len(m.Positions); i += 3 {
		p := linear.Vector3{
			X: float64(m.Positions[i]),
			Y: float64(m.Positions[i+1]),
			Z: float64(m.Positions[i+2]),
		}
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi, true
}
