package mesh

import (
	"math"

	"github.com/phil-mansfield/visualmesh/shape"
)

// Set is a ladder of meshes built ahead of time across a range of camera
// heights, for callers that know their height envelope up front and want
// lookups without any build latency. The Cache type is the better fit when
// heights drift unpredictably.
type Set struct {
	meshes []*Mesh
}

// BuildSet builds levels meshes at evenly spaced heights in [minH, maxH).
func BuildSet(
	s shape.Shape, minH, maxH float64, levels int,
	k, maxDistance, minAngularRes float64,
) (*Set, error) {
	if !(minH > 0) || math.IsInf(minH, 0) {
		return nil, &InputError{"min height", minH}
	}
	if !(maxH > minH) || math.IsInf(maxH, 0) {
		return nil, &InputError{"max height", maxH}
	}
	if levels <= 0 {
		return nil, &InputError{"levels", float64(levels)}
	}

	set := &Set{meshes: make([]*Mesh, 0, levels)}
	step := (maxH - minH) / float64(levels)
	for i := 0; i < levels; i++ {
		m, err := Build(s, minH+step*float64(i), k, maxDistance, minAngularRes)
		if err != nil {
			return nil, err
		}
		set.meshes = append(set.meshes, m)
	}
	return set, nil
}

// Height returns the first mesh built for a height not less than h, or the
// highest mesh when h is above the whole ladder.
func (s *Set) Height(h float64) *Mesh {
	for _, m := range s.meshes {
		if m.Height >= h {
			return m
		}
	}
	return s.meshes[len(s.meshes)-1]
}

// Len returns the number of meshes in the set.
func (s *Set) Len() int { return len(s.meshes) }
