package mesh

import (
	"math"
	"sort"

	"github.com/phil-mansfield/visualmesh/geom"
	"github.com/phil-mansfield/visualmesh/shape"
)

// DefaultMinAngularRes is the smallest angular step Build takes when the
// caller has no opinion. Caches use it for the meshes they construct.
const DefaultMinAngularRes = 1e-3

type phiRow struct {
	phi   float64
	steps int
}

// Build constructs the visual mesh for a camera at the given height. k and
// maxDistance are recorded on the mesh and key it in caches; the shape's
// own parameters drive the sampling and must describe the same mesh.
// minAngularRes floors both the phi steps and the per-sample theta widths.
//
// An empty mesh is a valid result: a shape may produce no finite samples at
// a height.
func Build(
	s shape.Shape, height, k, maxDistance, minAngularRes float64,
) (*Mesh, error) {
	if !(height > 0) || math.IsInf(height, 0) {
		return nil, &InputError{"height", height}
	}
	if !(k > 0) || math.IsInf(k, 0) {
		return nil, &InputError{"intersections", k}
	}
	if !(maxDistance > 0) {
		return nil, &InputError{"max distance", maxDistance}
	}
	if !(minAngularRes > 0) || math.IsInf(minAngularRes, 0) {
		return nil, &InputError{"min angular res", minAngularRes}
	}

	var phis []phiRow

	// Walk up from straight down to the horizon. The first sample sits half
	// a step out so the pole isn't a single degenerate point. A NaN from
	// the shape falls out of the loop condition.
	for phi := s.PhiNext(0, height) * 0.5; phi < math.Pi/2; {
		phis = appendRow(phis, s, phi, height, minAngularRes)
		phi = math.Max(phi+minAngularRes, s.PhiNext(phi, height))
	}
	// And down from straight up, mirrored.
	for phi := (math.Pi + s.PhiNext(math.Pi, height)) * 0.5; phi > math.Pi/2; {
		phis = appendRow(phis, s, phi, height, minAngularRes)
		phi = math.Min(phi-minAngularRes, s.PhiNext(phi, height))
	}

	sort.Slice(phis, func(i, j int) bool { return phis[i].phi < phis[j].phi })

	total := 0
	for _, p := range phis {
		total += p.steps
	}

	m := &Mesh{
		Nodes:         make([]Node, 0, total),
		Rows:          make([]Row, 0, len(phis)),
		Height:        height,
		Intersections: k,
		MaxDistance:   maxDistance,
	}

	for _, p := range phis {
		m.addRow(p.phi, p.steps)
	}
	m.linkRows()

	return m, nil
}

// appendRow accepts the ring at phi unless the shape skips it with NaN.
func appendRow(
	phis []phiRow, s shape.Shape, phi, h, minAngularRes float64,
) []phiRow {
	theta := math.Max(s.Theta(phi, h), minAngularRes)
	if math.IsNaN(theta) {
		return phis
	}
	return append(phis, phiRow{phi, int(math.Ceil(2 * math.Pi / theta))})
}

// addRow generates the rays of one constant-phi ring along with their
// horizontal neighbour offsets. Left and right wrap within the ring.
func (m *Mesh) addRow(phi float64, steps int) {
	sinPhi, cosPhi := math.Sincos(phi)
	dtheta := 2 * math.Pi / float64(steps)
	begin := len(m.Nodes)

	for i := 0; i < steps; i++ {
		theta := dtheta * float64(i)
		n := Node{Ray: geom.NewRay(
			math.Cos(theta)*sinPhi,
			math.Sin(theta)*sinPhi,
			-cosPhi,
		)}

		l, r := i-1, i+1
		if i == 0 {
			l = steps - 1
		}
		if i == steps-1 {
			r = 0
		}
		n.Neighbours[L] = int32(l - i)
		n.Neighbours[R] = int32(r - i)

		m.Nodes = append(m.Nodes, n)
	}

	m.Rows = append(m.Rows, Row{phi, begin, begin + steps})
}

// linkRows fills in the vertical neighbour offsets: middle rows link to the
// rows on either side and the polar rows link back across themselves.
func (m *Mesh) linkRows() {
	if len(m.Rows) == 0 {
		return
	}
	if len(m.Rows) == 1 {
		m.linkPole(m.Rows[0], TL)
		m.linkPole(m.Rows[0], BL)
		return
	}

	for r := 1; r < len(m.Rows)-1; r++ {
		cur := m.Rows[r]
		for i := cur.Begin; i < cur.End; i++ {
			pos := float64(i-cur.Begin) / float64(cur.Size())
			m.link(i, pos, m.Rows[r-1], TL)
			m.link(i, pos, m.Rows[r+1], BL)
		}
	}

	// The first and last rows have no row on the polar side, so that pair
	// of links wraps to the two antipodal nodes within the same row. The
	// other pair links to the adjacent row normally.
	front := m.Rows[0]
	m.linkPole(front, TL)
	for i := front.Begin; i < front.End; i++ {
		pos := float64(i-front.Begin) / float64(front.Size())
		m.link(i, pos, m.Rows[1], BL)
	}

	back := m.Rows[len(m.Rows)-1]
	m.linkPole(back, BL)
	for i := back.Begin; i < back.End; i++ {
		pos := float64(i-back.Begin) / float64(back.Size())
		m.link(i, pos, m.Rows[len(m.Rows)-2], TL)
	}
}

// link sets the up or down neighbour pair of node i, where pos is i's
// position within its own row in [0, 1) and offset is TL or BL. The first
// target is the closest node in the target row on the non-wrapping side;
// the second comes from following that node's own horizontal link, which
// keeps the wrap seam handled in exactly one place.
func (m *Mesh) link(i int, pos float64, target Row, offset int) {
	left := pos > 0.5
	size := target.Size()

	add := 1
	if left {
		add = 0
	}
	o1 := target.Begin + int(math.Floor(pos*float64(size)+float64(add)))
	if o1 >= target.End {
		o1 = target.Begin
	}

	dir := L
	if left {
		dir = R
	}
	o2 := o1 + int(m.Nodes[o1].Neighbours[dir])

	if left {
		m.Nodes[i].Neighbours[offset] = int32(o1 - i)
		m.Nodes[i].Neighbours[offset+1] = int32(o2 - i)
	} else {
		m.Nodes[i].Neighbours[offset] = int32(o2 - i)
		m.Nodes[i].Neighbours[offset+1] = int32(o1 - i)
	}
}

// linkPole ties a polar row back onto itself: the two nodes across the
// pole stand in for the missing next row. For odd sizes the antipode is
// not unique and the floor and floor+1 nodes are used.
func (m *Mesh) linkPole(row Row, offset int) {
	n := row.Size()
	for i := row.Begin; i < row.End; i++ {
		idx := i - row.Begin + n/2
		m.Nodes[i].Neighbours[offset] = int32(row.Begin + idx%n - i)
		m.Nodes[i].Neighbours[offset+1] = int32(row.Begin + (idx+1)%n - i)
	}
}
