package geom

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func almostEq(x, y, eps float64) bool {
	return x+eps > y && x-eps < y
}

func vecAlmostEq(v, u r3.Vec, eps float64) bool {
	return almostEq(v.X, u.X, eps) &&
		almostEq(v.Y, u.Y, eps) &&
		almostEq(v.Z, u.Z, eps)
}

func TestRayNorm(t *testing.T) {
	r := NewRay(3.0/13, 4.0/13, 12.0/13)
	if !almostEq(r.Norm(), 1, 1e-6) {
		t.Errorf("Norm of a unit ray is %g.", r.Norm())
	}
	if r[3] != 0 {
		t.Errorf("Ray padding component is %g.", float64(r[3]))
	}
}

func TestLevelPose(t *testing.T) {
	h := LevelPose(1.5)
	if !vecAlmostEq(h.CamAxis(), r3.Vec{X: 1}, 1e-12) {
		t.Errorf("Level principal axis is %v.", h.CamAxis())
	}
	if h.Height() != 1.5 {
		t.Errorf("Height is %g.", h.Height())
	}
}

func TestDownPose(t *testing.T) {
	h := DownPose(2)
	if !vecAlmostEq(h.CamAxis(), r3.Vec{Z: -1}, 1e-12) {
		t.Errorf("Down principal axis is %v.", h.CamAxis())
	}
}

// Euler poses must be proper rotations: rotating into the camera frame and
// back is the identity.
func TestEulerPoseOrthonormal(t *testing.T) {
	angles := [][3]float64{
		{0.3, -0.8, 1.7}, {0, 0, 0}, {-1.2, 0.4, 0.1}, {2.9, 1.5, -2.2},
	}
	v := r3.Vec{X: 0.267, Y: -0.534, Z: 0.802}

	for i, a := range angles {
		p := EulerPose(a[0], a[1], a[2], 1)
		round := p.Rot.MulVec(p.ToCam(v))
		if !vecAlmostEq(round, v, 1e-12) {
			t.Errorf("%d) Round trip of %v through %v gave %v.",
				i+1, v, a, round)
		}
		if !almostEq(r3.Norm(p.CamAxis()), 1, 1e-12) {
			t.Errorf("%d) Principal axis norm is %g.",
				i+1, r3.Norm(p.CamAxis()))
		}
	}
}

func TestNewHoc(t *testing.T) {
	h := NewHoc([4][4]float64{
		{0, 0, 1, 0.5},
		{0, 1, 0, -0.25},
		{-1, 0, 0, 2},
		{0, 0, 0, 1},
	})
	if !vecAlmostEq(h.CamAxis(), r3.Vec{Z: -1}, 1e-12) {
		t.Errorf("Principal axis is %v.", h.CamAxis())
	}
	if h.Height() != 2 {
		t.Errorf("Height is %g.", h.Height())
	}
	if !vecAlmostEq(h.Cam, r3.Vec{X: 0.5, Y: -0.25, Z: 2}, 1e-12) {
		t.Errorf("Camera position is %v.", h.Cam)
	}
}
