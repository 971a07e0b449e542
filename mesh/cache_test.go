package mesh

import (
	"math"
	"sync"
	"testing"

	"github.com/phil-mansfield/visualmesh/shape"
)

func testCircle(t testing.TB) *shape.Circle {
	c, err := shape.NewCircle(0.5, 4, 20)
	if err != nil {
		t.Fatalf("NewCircle failed: %v", err)
	}
	return c
}

func TestCacheInput(t *testing.T) {
	c := NewCache(2)
	s := testCircle(t)

	if _, err := c.GetOrBuild(s, 1, 4, -0.1, 20); err == nil {
		t.Errorf("GetOrBuild succeeded with a negative tolerance.")
	}
	if _, err := c.GetOrBuild(s, -1, 4, 0.5, 20); err == nil {
		t.Errorf("GetOrBuild succeeded with a negative height.")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("NewCache accepted a non-positive capacity.")
		}
	}()
	NewCache(0)
}

// Repeated requests at one height must share a single underlying mesh.
func TestCacheReuse(t *testing.T) {
	c := NewCache(4)
	s := testCircle(t)

	m1, err := c.GetOrBuild(s, 1.0, 4, 0.5, 20)
	if err != nil {
		t.Fatalf("GetOrBuild failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		m, err := c.GetOrBuild(s, 1.0, 4, 0.5, 20)
		if err != nil {
			t.Fatalf("GetOrBuild failed: %v", err)
		}
		if m != m1 {
			t.Fatalf("Request %d returned a different mesh.", i+1)
		}
	}
	if c.Len() != 1 {
		t.Errorf("Cache holds %d meshes after repeated identical requests.",
			c.Len())
	}
}

// Every returned mesh must deliver an intersection count within tolerance
// of the requested one at the requested height.
func TestCacheTolerance(t *testing.T) {
	c := NewCache(4)
	s := testCircle(t)
	k, tol := 4.0, 0.5

	heights := []float64{1.0, 1.05, 1.1, 2.0, 1.9}
	for i, h := range heights {
		m, err := c.GetOrBuild(s, h, k, tol, 20)
		if err != nil {
			t.Fatalf("%d) GetOrBuild failed: %v", i+1, err)
		}
		kErr := math.Abs(k - k*s.K(m.Height, h))
		if kErr > tol {
			t.Errorf("%d) Mesh built for %g used at %g has error %g > %g.",
				i+1, m.Height, h, kErr, tol)
		}
	}

	// A nearby height must not trigger a build, a distant one must.
	if c.Len() != 2 {
		t.Errorf("Cache holds %d meshes, not 2.", c.Len())
	}
}

func TestCacheCapacityAndEviction(t *testing.T) {
	c := NewCache(2)
	s := testCircle(t)

	m1, err := c.GetOrBuild(s, 1.0, 4, 1e-6, 20)
	if err != nil {
		t.Fatalf("GetOrBuild failed: %v", err)
	}
	if _, err := c.GetOrBuild(s, 2.0, 4, 1e-6, 20); err != nil {
		t.Fatalf("GetOrBuild failed: %v", err)
	}
	if _, err := c.GetOrBuild(s, 4.0, 4, 1e-6, 20); err != nil {
		t.Fatalf("GetOrBuild failed: %v", err)
	}

	if c.Len() != 2 {
		t.Fatalf("Cache holds %d meshes with capacity 2.", c.Len())
	}

	// The h = 1 mesh was least recently used and must be gone: asking for
	// it again has to build a fresh one.
	m, err := c.GetOrBuild(s, 1.0, 4, 1e-6, 20)
	if err != nil {
		t.Fatalf("GetOrBuild failed: %v", err)
	}
	if m == m1 {
		t.Errorf("The evicted mesh came back from the cache.")
	}
}

// The most recently returned mesh must sit at the front of the cache.
func TestCacheMRUOrder(t *testing.T) {
	c := NewCache(3)
	s := testCircle(t)

	m1, _ := c.GetOrBuild(s, 1.0, 4, 1e-6, 20)
	m2, _ := c.GetOrBuild(s, 2.0, 4, 1e-6, 20)
	if c.entries[0].mesh != m2 {
		t.Errorf("Front of the cache is not the last built mesh.")
	}

	// A hit on the older entry must promote it.
	m, _ := c.GetOrBuild(s, 1.0, 4, 1e-6, 20)
	if m != m1 {
		t.Fatalf("Lookup at height 1 missed.")
	}
	if c.entries[0].mesh != m1 {
		t.Errorf("A cache hit did not promote its entry to the front.")
	}
	if c.entries[1].mesh != m2 {
		t.Errorf("The previous front did not shift back.")
	}
}

// Entries only match requests that asked for the same max distance and
// intersection count.
func TestCacheKeying(t *testing.T) {
	c := NewCache(4)
	s1, err := shape.NewCircle(0.5, 4, 20)
	if err != nil {
		t.Fatalf("NewCircle failed: %v", err)
	}
	s2, err := shape.NewCircle(0.5, 4, 10)
	if err != nil {
		t.Fatalf("NewCircle failed: %v", err)
	}

	m1, _ := c.GetOrBuild(s1, 1.0, 4, 0.5, 20)
	m2, _ := c.GetOrBuild(s2, 1.0, 4, 0.5, 10)
	if m1 == m2 {
		t.Errorf("Meshes with different max distances were shared.")
	}
	if c.Len() != 2 {
		t.Errorf("Cache holds %d meshes, not 2.", c.Len())
	}
	if m1.MaxDistance == m2.MaxDistance {
		t.Errorf("Both meshes record max distance %g.", m1.MaxDistance)
	}
}

// Concurrent requests for the same mesh must converge on one copy.
func TestCacheConcurrent(t *testing.T) {
	c := NewCache(2)
	s := testCircle(t)

	workers := 8
	meshes := make([]*Mesh, workers)
	errs := make([]error, workers)

	wg := &sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			meshes[w], errs[w] = c.GetOrBuild(s, 1.0, 4, 0.0, 20)
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		if errs[w] != nil {
			t.Fatalf("Worker %d failed: %v", w, errs[w])
		}
	}
	if c.Len() != 1 {
		t.Errorf("Cache holds %d meshes after concurrent identical "+
			"requests.", c.Len())
	}
	cached := c.entries[0].mesh
	hits := 0
	for w := 0; w < workers; w++ {
		if meshes[w] == cached {
			hits++
		}
	}
	if hits != workers {
		t.Errorf("%d of %d workers got the cached mesh.", hits, workers)
	}
}
