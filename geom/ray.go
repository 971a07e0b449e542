/*package geom contains the small geometric types shared by the mesh builder
and the frustum lookup: the padded unit rays stored in the node table and the
camera pose.
*/
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ray is a unit vector in the observation frame pointing from the camera
// origin out through a sample point on the ground plane. The fourth
// component is padding so rays stay 16-byte aligned in the node table.
type Ray [4]float32

// NewRay creates a Ray with the given components and zero padding.
func NewRay(x, y, z float64) Ray {
	return Ray{float32(x), float32(y), float32(z), 0}
}

// Norm returns the Euclidean length of the ray.
func (r *Ray) Norm() float64 {
	x, y, z := float64(r[0]), float64(r[1]), float64(r[2])
	return math.Sqrt(x*x + y*y + z*z)
}

// Vec returns the ray as an r3 vector, dropping the padding component.
func (r *Ray) Vec() r3.Vec {
	return r3.Vec{X: float64(r[0]), Y: float64(r[1]), Z: float64(r[2])}
}
