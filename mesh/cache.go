package mesh

import (
	"math"
	"sync"

	"github.com/phil-mansfield/visualmesh/shape"
)

// cacheEntry pairs a cached mesh with the parameters it was requested for.
type cacheEntry struct {
	mesh        *Mesh
	k           float64
	maxDistance float64
}

// Cache is a bounded collection of meshes ordered most recently used
// first. A mesh built for one height is reused at nearby heights as long
// as the intersection count it would deliver there stays within the
// caller's tolerance.
//
// A Cache may be shared between goroutines. Meshes are immutable, so
// handles returned from a cache stay valid after the entry is evicted.
type Cache struct {
	mu       sync.Mutex
	entries  []cacheEntry
	capacity int

	// MinAngularRes is the angular resolution floor passed to Build for
	// cache misses. Zero means DefaultMinAngularRes.
	MinAngularRes float64
}

// NewCache creates a cache holding at most capacity meshes.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		panic("capacity must be positive.")
	}
	return &Cache{capacity: capacity}
}

// Len returns the number of meshes currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetOrBuild returns a mesh for the given shape and height, reusing a
// cached mesh when the intersection count drift from its build height to h
// is within tol, and building one otherwise. Only entries requested with
// the same k and maxDistance are candidates.
//
// Construction runs outside the cache lock, so concurrent misses may build
// duplicate meshes; the reinsertion scan keeps whichever landed first.
func (c *Cache) GetOrBuild(
	s shape.Shape, h, k, tol, maxDistance float64,
) (*Mesh, error) {
	if math.IsNaN(tol) || tol < 0 {
		return nil, &InputError{"tolerance", tol}
	}

	c.mu.Lock()
	if m := c.find(s, h, k, tol, maxDistance); m != nil {
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	minRes := c.MinAngularRes
	if minRes == 0 {
		minRes = DefaultMinAngularRes
	}
	built, err := Build(s, h, k, maxDistance, minRes)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Someone else may have inserted a suitable mesh while we were
	// building. Prefer theirs so both callers share one mesh.
	if m := c.find(s, h, k, tol, maxDistance); m != nil {
		return m, nil
	}

	for len(c.entries) >= c.capacity {
		c.entries = c.entries[:len(c.entries)-1]
	}
	c.entries = append(c.entries, cacheEntry{})
	copy(c.entries[1:], c.entries)
	c.entries[0] = cacheEntry{built, k, maxDistance}

	return built, nil
}

// find returns the cached mesh with the smallest intersection count drift
// if that drift is within tol, promoting it to the front. The caller must
// hold the lock.
func (c *Cache) find(
	s shape.Shape, h, k, tol, maxDistance float64,
) *Mesh {
	best, bestErr := -1, math.Inf(+1)
	for i := range c.entries {
		e := &c.entries[i]
		if e.k != k || e.maxDistance != maxDistance {
			continue
		}
		kErr := math.Abs(k - k*s.K(e.mesh.Height, h))
		if kErr < bestErr {
			best, bestErr = i, kErr
		}
	}
	if best == -1 || bestErr > tol {
		return nil
	}

	e := c.entries[best]
	copy(c.entries[1:best+1], c.entries[:best])
	c.entries[0] = e
	return e.mesh
}
