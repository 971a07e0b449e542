/*package project maps visual mesh rays to pixel coordinates.

Projection consumes the index ranges produced by a mesh lookup, rotates
each ray into the camera frame, and applies the lens model. The mesh's
neighbour graph survives projection re-indexed into the projected subset,
so consumers can walk the hexagonal structure in image space.
*/
package project

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/visualmesh/geom"
	"github.com/phil-mansfield/visualmesh/lens"
	"github.com/phil-mansfield/visualmesh/mesh"
)

// Projected holds the image-space view of a mesh subset.
type Projected struct {
	// Pixels holds the (x, y) pixel coordinate of each projected point.
	Pixels [][2]float64
	// GlobalIndices maps each projected point back to its node index in
	// the source mesh.
	GlobalIndices []int
	// Neighbours is the mesh neighbour graph re-indexed into the
	// projected subset. Neighbours that did not project are -1.
	Neighbours [][6]int32
}

// Len returns the number of projected points.
func (p *Projected) Len() int { return len(p.Pixels) }

// Project maps the nodes covered by ranges onto the image plane of the
// given lens. Rays that end up behind the image plane are dropped together
// with their indices.
func Project(
	m *mesh.Mesh, ranges []mesh.Range, hoc *geom.Hoc, l *lens.Lens,
) (*Projected, error) {
	if l.Type != lens.Equirectangular && l.Type != lens.Radial {
		return nil, &lens.TypeError{Type: l.Type}
	}

	points := 0
	for _, r := range ranges {
		points += r.End - r.Begin
	}

	p := &Projected{
		Pixels:        make([][2]float64, 0, points),
		GlobalIndices: make([]int, 0, points),
	}

	for _, r := range ranges {
		for i := r.Begin; i < r.End; i++ {
			// Rco is the transpose of the rotation block of Hoc.
			rayCam := hoc.ToCam(m.Nodes[i].Ray.Vec())
			px, py, ok := pixel(rayCam, l)
			if !ok {
				continue
			}
			p.Pixels = append(p.Pixels, [2]float64{px, py})
			p.GlobalIndices = append(p.GlobalIndices, i)
		}
	}

	p.reindex(m)
	return p, nil
}

// pixel maps a camera-frame ray to pixel coordinates. Pixel x grows
// rightward (-y in the camera frame) and pixel y downward (-z).
func pixel(v r3.Vec, l *lens.Lens) (px, py float64, ok bool) {
	switch l.Type {
	case lens.Equirectangular:
		if v.X <= 0 {
			return 0, 0, false
		}
		px = l.Centre[0] - l.FocalLength*v.Y/v.X
		py = l.Centre[1] - l.FocalLength*v.Z/v.X
		return px, py, true

	case lens.Radial:
		// The angle off the principal axis comes from atan2 so that rays
		// which are not exactly unit length (the node table stores float32)
		// still land at the right radius.
		n := math.Hypot(v.Y, v.Z)
		if n == 0 {
			return l.Centre[0], l.Centre[1], true
		}
		rPx := math.Atan2(n, v.X) * l.PixelsPerRadian
		px = l.Centre[0] - rPx*v.Y/n
		py = l.Centre[1] - rPx*v.Z/n
		return px, py, true
	}
	return 0, 0, false
}

// Unproject returns the camera-frame unit ray imaged at the given pixel.
func Unproject(px, py float64, l *lens.Lens) (r3.Vec, error) {
	dx := l.Centre[0] - px
	dy := l.Centre[1] - py

	switch l.Type {
	case lens.Equirectangular:
		return r3.Unit(r3.Vec{
			X: 1,
			Y: dx / l.FocalLength,
			Z: dy / l.FocalLength,
		}), nil

	case lens.Radial:
		r := math.Hypot(dx, dy)
		angle := r / l.PixelsPerRadian
		if r == 0 {
			return r3.Vec{X: 1}, nil
		}
		sinA, cosA := math.Sincos(angle)
		return r3.Vec{
			X: cosA,
			Y: sinA * dx / r,
			Z: sinA * dy / r,
		}, nil
	}
	return r3.Vec{}, &lens.TypeError{Type: l.Type}
}

// reindex rebuilds the neighbour graph of the projected subset. Neighbour
// offsets in the mesh are relative, so each is resolved to an absolute
// index first and then looked up among the projected points.
func (p *Projected) reindex(m *mesh.Mesh) {
	local := make(map[int]int32, len(p.GlobalIndices))
	for i, g := range p.GlobalIndices {
		local[g] = int32(i)
	}

	p.Neighbours = make([][6]int32, len(p.GlobalIndices))
	for i, g := range p.GlobalIndices {
		for d, off := range m.Nodes[g].Neighbours {
			j, ok := local[g+int(off)]
			if !ok {
				j = -1
			}
			p.Neighbours[i][d] = j
		}
	}
}
