package geom

import (
	. "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Hoc is the rigid transform taking camera-frame vectors into the
// observation frame. The observation frame has z pointing up from the
// ground plane and its origin on the plane directly below the camera. The
// camera's principal axis is the x column of the rotation block.
type Hoc struct {
	// Rot rotates camera-frame vectors into the observation frame.
	Rot *r3.Mat
	// Cam is the camera position in the observation frame.
	Cam r3.Vec
}

// NewHoc builds a pose from a row-major 4x4 homogeneous transform.
func NewHoc(m [4][4]float64) *Hoc {
	rot := r3.NewMat([]float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
	return &Hoc{Rot: rot, Cam: r3.Vec{X: m[0][3], Y: m[1][3], Z: m[2][3]}}
}

// Height returns the camera height above the observation plane.
func (h *Hoc) Height() float64 { return h.Cam.Z }

// CamAxis returns the camera's principal axis in the observation frame.
func (h *Hoc) CamAxis() r3.Vec { return h.Rot.MulVec(r3.Vec{X: 1}) }

// ToCam rotates an observation-frame vector into the camera frame.
func (h *Hoc) ToCam(v r3.Vec) r3.Vec { return h.Rot.MulVecTrans(v) }

// EulerPose creates a pose at the given height whose orientation is built
// from three consecutive rotations phi, theta, and psi around the x, y, and
// z axes, respectively. EulerPose(0, 0, 0, h) leaves the principal axis
// level along +x; theta = -Pi/2 points it straight down.
func EulerPose(phi, theta, psi, height float64) *Hoc {
	rot := r3.NewMat([]float64{
		Cos(theta) * Cos(psi),
		Cos(phi)*Sin(psi) + Sin(phi)*Sin(theta)*Cos(psi),
		Sin(phi)*Sin(psi) - Cos(phi)*Sin(theta)*Cos(psi),
		-Cos(theta) * Sin(psi),
		Cos(phi)*Cos(psi) - Sin(phi)*Sin(theta)*Sin(psi),
		Sin(phi)*Cos(psi) + Cos(phi)*Sin(theta)*Sin(psi),
		Sin(theta),
		-Sin(phi) * Cos(theta),
		Cos(phi) * Cos(theta),
	})
	return &Hoc{Rot: rot, Cam: r3.Vec{Z: height}}
}

// LevelPose creates a pose at the given height with the camera level and
// its principal axis along +x.
func LevelPose(height float64) *Hoc { return EulerPose(0, 0, 0, height) }

// DownPose creates a pose at the given height with the camera's principal
// axis pointing straight down at the observation plane.
func DownPose(height float64) *Hoc { return EulerPose(0, -Pi/2, 0, height) }
