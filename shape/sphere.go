package shape

import (
	"math"
)

// Sphere models a sphere of fixed radius resting on the observation plane,
// e.g. a ball on a field.
type Sphere struct {
	// R is the radius of the sphere.
	R float64
	// Intersections is the number of sample rings that should cross a
	// sphere regardless of its distance from the camera.
	Intersections float64
	// MaxDistance is the distance over the observation plane past which no
	// samples are generated. May be +Inf.
	MaxDistance float64
}

// NewSphere creates a Sphere shape. The radius and intersection count must
// be finite and positive and the maximum distance positive (+Inf allowed).
func NewSphere(r, intersections, maxDistance float64) (*Sphere, error) {
	if err := validParams("Sphere", r, intersections, maxDistance); err != nil {
		return nil, err
	}
	return &Sphere{r, intersections, maxDistance}, nil
}

// angularRadius returns the half angle subtended by a sphere resting on the
// plane where the ray at phi meets it, seen from a camera at height h.
func (s *Sphere) angularRadius(phi, h float64) float64 {
	x := h * math.Tan(phi)
	if x > s.MaxDistance {
		return math.NaN()
	}
	return asinLimit(s.R / math.Hypot(x, h-s.R))
}

// PhiNext returns the ring after phi, spacing rings so that Intersections
// of them cross a sphere resting under the current ray. Above the horizon the
// same picture holds mirrored through the plane of the sphere tops.
func (s *Sphere) PhiNext(phi, h float64) float64 {
	if phi < math.Pi/2 {
		return phi + 2*s.angularRadius(phi, h)/s.Intersections
	}
	eh := 2*s.R - h
	if eh <= 0 {
		// Sphere tops are below the camera, so nothing pokes above the
		// horizon.
		return math.NaN()
	}
	return phi - 2*s.angularRadius(math.Pi-phi, eh)/s.Intersections
}

// Theta returns the angular width of a single sample at phi: the azimuthal
// width of a sphere at that ring divided by the intersection count.
func (s *Sphere) Theta(phi, h float64) float64 {
	eh := h
	p := phi
	if phi > math.Pi/2 {
		eh = 2*s.R - h
		p = math.Pi - phi
		if eh <= 0 {
			return math.NaN()
		}
	}
	x := eh * math.Tan(p)
	if x > s.MaxDistance {
		return math.NaN()
	}
	return 2 * asinLimit(s.R/x) / s.Intersections
}

// K returns the ratio of the intersection count observed at height h1 by a
// mesh designed for h0. The drift follows the angular radius of the
// nearest sphere, which scales every ring's spacing together.
func (s *Sphere) K(h0, h1 float64) float64 {
	return s.nearRadius(h1) / s.nearRadius(h0)
}

func (s *Sphere) nearRadius(h float64) float64 {
	return asinLimit(s.R / math.Abs(h-s.R))
}
