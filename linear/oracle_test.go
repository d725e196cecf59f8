// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// The mgl64 package follows OpenGL conventions (column-major
// storage, column vectors), so its results must agree with ours.

func mglV(v Vector3) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func TestPerspectiveOracle(t *testing.T) {
	for _, x := range [...][4]float64{
		{math.Pi / 3, 16.0 / 9.0, 0.1, 100},
		{math.Pi / 2, 1, 1, 10},
		{0.2, 0.5, 0.01, 1e4},
	} {
		have := Perspective(x[0], x[1], x[2], x[3])
		want := Matrix4(mgl64.Perspective(x[0], x[1], x[2], x[3]))
		if !have.ApproxEqual(want, 1e-9) {
			t.Fatalf("Perspective%v\nhave %v\nwant %v", x, have, want)
		}
		// Near and far planes map to -1 and 1.
		near := have.TransformPoint(Vector3{Z: -x[2]})
		far := have.TransformPoint(Vector3{Z: -x[3]})
		if math.Abs(near.Z+1) > 1e-9 || math.Abs(far.Z-1) > 1e-6 {
			t.Fatalf("Perspective%v: depth range\nhave [%v, %v]\nwant [-1, 1]", x, near.Z, far.Z)
		}
	}
}

func TestLookAtOracle(t *testing.T) {
	for _, x := range [...][3]Vector3{
		{{0, 0, 5}, {0, 0, 0}, {0, 1, 0}},
		{{3, 4, -2}, {1, 0, 1}, {0, 1, 0}},
		{{-1, 2, 7}, {4, -3, 0}, {0, 0, 1}},
	} {
		have := LookAt(x[0], x[1], x[2])
		want := Matrix4(mgl64.LookAtV(mglV(x[0]), mglV(x[1]), mglV(x[2])))
		if !have.ApproxEqual(want, 1e-12) {
			t.Fatalf("LookAt%v\nhave %v\nwant %v", x, have, want)
		}
		// The eye maps to the origin and the target lies
		// on the negative z axis.
		if v := have.TransformPoint(x[0]); v.Len() > 1e-12 {
			t.Fatalf("LookAt%v: eye\nhave %v\nwant {0 0 0}", x, v)
		}
		d := x[1].Sub(x[0]).Len()
		if v := have.TransformPoint(x[1]); v.Sub(Vector3{Z: -d}).Len() > 1e-12 {
			t.Fatalf("LookAt%v: target\nhave %v\nwant {0 0 %v}", x, v, -d)
		}
	}
}

func TestComposeOracle(t *testing.T) {
	pos := Vector3{-3, 0.5, 12}
	rot := Vector3{2.1, 0.3, -0.8}
	scl := Vector3{1.5, 1.5, 0.2}
	want := mgl64.Translate3D(pos.X, pos.Y, pos.Z).
		Mul4(mgl64.HomogRotate3DX(rot.X)).
		Mul4(mgl64.HomogRotate3DY(rot.Y)).
		Mul4(mgl64.HomogRotate3DZ(rot.Z)).
		Mul4(mgl64.Scale3D(scl.X, scl.Y, scl.Z))
	if have := Compose(pos, rot, scl); !have.ApproxEqual(Matrix4(want), 1e-12) {
		t.Fatalf("Compose\nhave %v\nwant %v", have, want)
	}
	// Projection ⋅ view ⋅ model, as a renderer would combine them.
	proj := Perspective(math.Pi/4, 1.5, 0.5, 50)
	view := LookAt(Vector3{0, 2, 10}, Vector3{}, Vector3{Y: 1})
	model := Compose(pos, rot, scl)
	mvp := Mul(proj, Mul(view, model))
	wmvp := mgl64.Perspective(math.Pi/4, 1.5, 0.5, 50).
		Mul4(mgl64.LookAtV(mgl64.Vec3{0, 2, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})).
		Mul4(want)
	if !mvp.ApproxEqual(Matrix4(wmvp), 1e-9) {
		t.Fatalf("P⋅V⋅M\nhave %v\nwant %v", mvp, wmvp)
	}
}
