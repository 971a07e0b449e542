package shape

import (
	"math"
)

// Circle models a flat disc of fixed radius lying on the observation
// plane, e.g. a painted field marking.
type Circle struct {
	// R is the radius of the circle.
	R float64
	// Intersections is the number of sample rings that should cross a
	// circle regardless of its distance from the camera.
	Intersections float64
	// MaxDistance is the distance over the observation plane past which no
	// samples are generated. May be +Inf.
	MaxDistance float64
}

// NewCircle creates a Circle shape. The radius and intersection count must
// be finite and positive and the maximum distance positive (+Inf allowed).
func NewCircle(r, intersections, maxDistance float64) (*Circle, error) {
	if err := validParams("Circle", r, intersections, maxDistance); err != nil {
		return nil, err
	}
	return &Circle{r, intersections, maxDistance}, nil
}

// PhiNext advances the ground distance under the ray by a fixed fraction
// of the circle's diameter, so Intersections rings cross any circle. A
// flat circle has no extent above the horizon, so phi >= Pi/2 ends the
// walk.
func (c *Circle) PhiNext(phi, h float64) float64 {
	if phi >= math.Pi/2 {
		return math.NaN()
	}
	x := h * math.Tan(phi)
	if x > c.MaxDistance {
		return math.NaN()
	}
	return math.Atan((x + 2*c.R/c.Intersections) / h)
}

// Theta returns the angular width of a single sample at phi: the azimuthal
// width of a circle at that ring divided by the intersection count.
func (c *Circle) Theta(phi, h float64) float64 {
	if phi >= math.Pi/2 {
		return math.NaN()
	}
	x := h * math.Tan(phi)
	if x > c.MaxDistance {
		return math.NaN()
	}
	return 2 * asinLimit(c.R/x) / c.Intersections
}

// K returns the ratio of the intersection count observed at height h1 by a
// mesh designed for h0. Ring spacing over the ground scales linearly with
// height for a flat object, so the ratio is closed form.
func (c *Circle) K(h0, h1 float64) float64 {
	return h0 / h1
}
