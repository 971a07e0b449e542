package mesh

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/visualmesh/geom"
	"github.com/phil-mansfield/visualmesh/lens"
)

// OddIntersectionError reports a row whose frustum-edge intersections could
// not be paired into intervals. Lookup skips the row and keeps going, so
// callers that can live with a missing ring may ignore it.
type OddIntersectionError struct {
	Phi    float64
	Thetas []float64
}

func (e *OddIntersectionError) Error() string {
	return fmt.Sprintf(
		"Odd number of frustum intersections (%d) on the row at phi = %g.",
		len(e.Thetas), e.Phi,
	)
}

// thetaRange is a [lo, hi] azimuth interval. lo > hi means the interval
// crosses the 2 Pi wrap.
type thetaRange struct {
	lo, hi float64
}

// Lookup returns the index ranges of the nodes whose rays fall inside the
// camera frustum for the given pose and lens. An empty result is valid.
// Rows whose edge intersections are geometrically inconsistent are skipped
// and the first such *OddIntersectionError is returned alongside the
// ranges computed from the remaining rows.
func (m *Mesh) Lookup(hoc *geom.Hoc, l *lens.Lens) ([]Range, error) {
	switch l.Type {
	case lens.Equirectangular:
		return m.thetaLookup(newEquirectSolver(hoc, l).limits)
	case lens.Radial:
		return m.thetaLookup(newRadialSolver(hoc, l).limits)
	}
	return nil, &lens.TypeError{Type: l.Type}
}

// thetaLookup converts per-row theta intervals into node index ranges.
func (m *Mesh) thetaLookup(
	limits func(phi float64) ([]thetaRange, error),
) ([]Range, error) {
	var out []Range
	var firstErr error

	for _, row := range m.Rows {
		ranges, err := limits(row.Phi)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		n := row.Size()
		for _, tr := range ranges {
			begin := int(math.Ceil(float64(n) * tr.lo / (2 * math.Pi)))
			end := int(math.Ceil(float64(n) * tr.hi / (2 * math.Pi)))

			// n times 2 Pi divided by 2 Pi can round to slightly more than
			// n, so an interval ending at the wrap can overshoot the row. An
			// overshooting
			// begin means the interval starts on the seam itself.
			if begin > n {
				begin = 0
			}
			if end > n {
				end = n
			}

			if begin == end {
				continue
			}
			if begin < end {
				out = append(out, Range{row.Begin + begin, row.Begin + end})
			} else {
				out = append(out, Range{row.Begin, row.Begin + end})
				out = append(out, Range{row.Begin + begin, row.End})
			}
		}
	}

	return out, firstErr
}

// equirectSolver holds the per-pose invariants of the cone/frustum-edge
// intersection. The frustum of an equirectangular lens is a rectangular
// pyramid whose four edge segments run corner to corner; intersecting each
// segment with the cone at phi reduces to a quadratic in the parameter
// along the segment whose coefficients are affine in tan(phi)^2.
type equirectSolver struct {
	// corners holds the frustum corner rays in the observation frame and
	// dirs the corner-to-next-corner segments, both scaled so segment
	// parameters live in [0, 1].
	corners [4]r3.Vec
	dirs    [4]r3.Vec
	// edges holds the inward normals of the four frustum side planes.
	edges [4]r3.Vec
	// parts holds, per edge, the six coefficients of the quadratic:
	// t = (c2*parts[0] + parts[1] +- sqrt(c2*parts[2] + parts[3])) /
	//     (c2*parts[4] + parts[5]), with c2 = tan(phi)^2.
	parts [4][6]float64
	camZ  float64
}

func newEquirectSolver(hoc *geom.Hoc, l *lens.Lens) *equirectSolver {
	yExtent := math.Tan(l.FOV[0] * 0.5)
	zExtent := math.Tan(l.FOV[1] * 0.5)

	// Corner rays in the camera frame, clockwise.
	cam := [4]r3.Vec{
		{X: 1, Y: +yExtent, Z: +zExtent},
		{X: 1, Y: -yExtent, Z: +zExtent},
		{X: 1, Y: -yExtent, Z: -zExtent},
		{X: 1, Y: +yExtent, Z: -zExtent},
	}

	s := &equirectSolver{camZ: hoc.CamAxis().Z}
	for i := range cam {
		s.corners[i] = hoc.Rot.MulVec(cam[i])
	}

	// Corner-to-corner segments are columns of the rotation scaled by the
	// full edge length.
	yCol := hoc.Rot.MulVec(r3.Vec{Y: 1})
	zCol := hoc.Rot.MulVec(r3.Vec{Z: 1})
	s.dirs[0] = r3.Scale(-2*yExtent, yCol)
	s.dirs[1] = r3.Scale(-2*zExtent, zCol)
	s.dirs[2] = r3.Scale(+2*yExtent, yCol)
	s.dirs[3] = r3.Scale(+2*zExtent, zCol)

	for i := range s.edges {
		s.edges[i] = r3.Cross(s.corners[i], s.corners[(i+1)%4])
	}

	for i := range s.parts {
		o, d := s.corners[i], s.dirs[i]
		s.parts[i] = [6]float64{
			d.Z * o.Z,
			-d.Y*o.Y - d.X*o.X,
			d.X*d.X*o.Z*o.Z - 2*d.X*d.Z*o.X*o.Z +
				d.Y*d.Y*o.Z*o.Z - 2*d.Y*d.Z*o.Y*o.Z +
				d.Z*d.Z*o.X*o.X + d.Z*d.Z*o.Y*o.Y,
			-d.X*d.X*o.Y*o.Y + 2*d.X*d.Y*o.X*o.Y - d.Y*d.Y*o.X*o.X,
			-d.Z * d.Z,
			d.X*d.X + d.Y*d.Y,
		}
	}

	return s
}

// inside reports whether v is on the frustum side of all four edge planes.
func (s *equirectSolver) inside(v r3.Vec) bool {
	for i := range s.edges {
		if r3.Dot(v, s.edges[i]) < 0 {
			return false
		}
	}
	return true
}

func (s *equirectSolver) limits(phi float64) ([]thetaRange, error) {
	sinPhi, cosPhi := math.Sincos(phi)
	tanPhi := math.Tan(phi)
	c2 := tanPhi * tanPhi

	var limits []float64
	complexSols := 0

	for i := 0; i < 4; i++ {
		o, d := s.corners[i], s.dirs[i]

		num := c2*s.parts[i][0] + s.parts[i][1]
		disc := c2*s.parts[i][2] + s.parts[i][3]
		denom := c2*s.parts[i][4] + s.parts[i][5]

		// Edges that miss the cone entirely count towards the fully
		// enclosed case below. A single grazing solution is ignored.
		if disc <= 0 {
			complexSols++
			continue
		}
		if denom == 0 {
			continue
		}

		root := math.Sqrt(disc)
		for _, t := range [2]float64{(num + root) / denom, (num - root) / denom} {
			if t < 0 || t > 1 {
				continue
			}
			// The quadratic covers both nappes of the cone, so check the
			// solution is on the same side of the horizon as the row.
			z := o.Z + d.Z*t
			if (z > 0) != (phi > math.Pi/2) {
				continue
			}
			x := o.X + d.X*t
			y := o.Y + d.Y*t
			theta := math.Atan2(y, x)
			if theta <= 0 {
				theta += 2 * math.Pi
			}
			limits = append(limits, theta)
		}
	}

	if complexSols == 4 && (cosPhi > 0) == (s.camZ < 0) {
		// No edge touches the cone and the camera looks at the right
		// hemisphere, so the ring is either fully inside or fully outside.
		// Probing any one point on it decides which.
		if s.inside(r3.Vec{X: sinPhi, Z: -cosPhi}) {
			return []thetaRange{{0, 2 * math.Pi}}, nil
		}
		return nil, nil
	}

	if len(limits) == 0 {
		return nil, nil
	}
	sort.Float64s(limits)
	if len(limits)%2 != 0 {
		return nil, &OddIntersectionError{Phi: phi, Thetas: limits}
	}

	// Pair the sorted crossings into inside intervals. If the midpoint of
	// the first pair is outside, the ring enters the frustum on the second
	// crossing and the first interval wraps around 2 Pi.
	mid := (limits[0] + limits[1]) / 2
	sinMid, cosMid := math.Sincos(mid)
	firstIsEnd := !s.inside(r3.Vec{
		X: cosMid * sinPhi, Y: sinMid * sinPhi, Z: -cosPhi,
	})

	var out []thetaRange
	start := 0
	if firstIsEnd {
		start = 1
	}
	for i := start; i+1 < len(limits); i += 2 {
		out = append(out, thetaRange{limits[i], limits[i+1]})
	}
	if firstIsEnd {
		out = append(out, thetaRange{limits[len(limits)-1], limits[0]})
	}
	return out, nil
}

// radialSolver intersects constant-phi rings with the view cone of a
// radial lens. Both are circles on the unit sphere, so they cross in at
// most two points.
type radialSolver struct {
	cam        r3.Vec
	camInc     float64
	halfFov    float64
	cosHalfFov float64
}

func newRadialSolver(hoc *geom.Hoc, l *lens.Lens) *radialSolver {
	cam := hoc.CamAxis()
	return &radialSolver{
		cam:        cam,
		camInc:     math.Acos(-cam.Z),
		halfFov:    l.FOV[0] * 0.5,
		cosHalfFov: math.Cos(l.FOV[0] * 0.5),
	}
}

func (s *radialSolver) limits(phi float64) ([]thetaRange, error) {
	// Work in the angles of whichever hemisphere the row is on, measured
	// from its pole: the containment tests are then the same above and
	// below the horizon.
	p, inc := phi, s.camInc
	if phi > math.Pi/2 {
		p, inc = math.Pi-phi, math.Pi-s.camInc
	}

	// A ring whose farthest point from the camera axis is within the half
	// fov is entirely inside; one whose nearest point is beyond it is
	// entirely outside.
	far := p + inc
	if far > math.Pi {
		far = 2*math.Pi - far
	}
	if s.halfFov > far {
		return []thetaRange{{0, 2 * math.Pi}}, nil
	}
	if math.Abs(p-inc) > s.halfFov {
		return nil, nil
	}

	// The two crossings only have a closed form when the camera axis lies
	// in the x/z plane, so rotate it there, solve, and rotate back.
	offset := math.Atan2(s.cam.Y, s.cam.X)
	sinOff, cosOff := math.Sincos(offset)
	rx := s.cam.X*cosOff + s.cam.Y*sinOff
	if rx == 0 {
		// The axis is vertical and the ring grazes the fov circle exactly.
		return nil, nil
	}

	z := -math.Cos(phi)
	a := 1 - z*z
	x := (s.cosHalfFov - s.cam.Z*z) / rx

	yDisc := a - x*x
	if yDisc < 0 {
		return nil, nil
	}
	y := math.Sqrt(yDisc)

	t1 := offset + math.Atan2(-y, x)
	t2 := offset + math.Atan2(y, x)
	if t1 <= 0 {
		t1 += 2 * math.Pi
	}
	if t2 <= 0 {
		t2 += 2 * math.Pi
	}
	return []thetaRange{{t1, t2}}, nil
}
