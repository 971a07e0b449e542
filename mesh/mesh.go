/*package mesh builds and queries visual meshes: viewing-sphere sample
clouds wired into hexagonal neighbour graphs so that a ground-plane object
of known size covers a near-constant number of samples at any distance.

A Mesh is built once for a camera height and is immutable afterwards, so a
single mesh can serve concurrent lookups. The Cache type keeps a bounded set
of meshes alive across small height changes.
*/
package mesh

import (
	"fmt"

	"github.com/phil-mansfield/visualmesh/geom"
)

// Neighbour directions within a Node's neighbour block.
const (
	TL = iota // top left
	TR        // top right
	L         // left
	R         // right
	BL        // bottom left
	BR        // bottom right
)

// Node is a single mesh sample: a unit ray in the observation frame and the
// six relative indices of its hexagonal neighbours, ordered TL, TR, L, R,
// BL, BR. Offsets are relative to the node's own index so the table stays
// position independent when uploaded to a device.
type Node struct {
	Ray        geom.Ray
	Neighbours [6]int32
}

// Row is a contiguous run of nodes sharing a phi value. Begin and End index
// the node table, End one past the last node.
type Row struct {
	Phi        float64
	Begin, End int
}

// Size returns the number of nodes in the row.
func (r *Row) Size() int { return r.End - r.Begin }

// Range is a half-open interval of absolute node indices.
type Range struct {
	Begin, End int
}

// Mesh is a visual mesh for a single camera height.
type Mesh struct {
	// Nodes is the sample table, row-major in ascending phi.
	Nodes []Node
	// Rows partitions Nodes into constant-phi rings, ascending in phi.
	Rows []Row
	// Height is the camera height the mesh was built for.
	Height float64
	// Intersections is the design intersection count k.
	Intersections float64
	// MaxDistance bounds the ground distance the mesh samples out to.
	MaxDistance float64
}

// InputError reports an invalid argument to Build, BuildSet, or a Cache.
type InputError struct {
	Param string
	Value float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s = %g is not valid.", e.Param, e.Value)
}
