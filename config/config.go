/*package config reads visual mesh parameter files. The core packages take
in-process values only; this package is the file-facing shim used by tools
that want their shape, lens, and cache parameters in one place.
*/
package config

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/visualmesh/lens"
	"github.com/phil-mansfield/visualmesh/mesh"
	"github.com/phil-mansfield/visualmesh/shape"
)

const (
	ExampleMeshFile = `[Mesh]

#######################
# Required Parameters #
#######################

# The object the mesh keeps a constant sample density for. Must be one of
# [ Sphere | Circle ].
Shape = Sphere

# The radius of the object in metres.
Radius = 0.075

# The number of mesh samples that should land on the object regardless of
# its distance from the camera.
Intersections = 4

#######################
# Optional Parameters #
#######################

# The ground distance past which no samples are generated. Defaults to
# unbounded.
# MaxDistance = 20

# The smallest angular step the mesh builder will take, in radians.
# MinAngularRes = 0.001`

	ExampleLensFile = `[Lens "forward"]
# Lens sections describe the cameras a mesh will be looked up through. Each
# section needs a unique name.

# Must be one of [ Equirectangular | Radial ].
Type = Radial

# Image dimensions in pixels.
Width  = 1280
Height = 1024

# Field of view in radians. Radial lenses use FOV; equirectangular lenses
# use FOVY and FOVZ.
FOV = 2.0944

# Pixel scale for radial lenses, in pixels per radian off the principal
# axis.
PixelsPerRadian = 420

# Equirectangular lenses take a focal length in pixels instead.
# FocalLength = 600

#######################
# Optional Parameters #
#######################

# The optical centre in pixel coordinates. Defaults to the image centre.
# CentreX = 640
# CentreY = 512`

	ExampleCacheFile = `[Cache]

# The largest number of meshes kept alive at once.
Capacity = 4

# How far the delivered intersection count may drift from the requested one
# before a cached mesh stops being reusable.
Tolerance = 0.5`
)

type MeshConfig struct {
	// Required
	Shape         string
	Radius        float64
	Intersections float64
	// Optional
	MaxDistance   float64
	MinAngularRes float64
}

func (con *MeshConfig) ValidShape() bool {
	s := strings.ToLower(con.Shape)
	return s == "sphere" || s == "circle"
}
func (con *MeshConfig) ValidRadius() bool {
	return con.Radius > 0 && !math.IsInf(con.Radius, 0)
}
func (con *MeshConfig) ValidIntersections() bool {
	return con.Intersections > 0 && !math.IsInf(con.Intersections, 0)
}
func (con *MeshConfig) ValidMaxDistance() bool {
	return con.MaxDistance > 0
}
func (con *MeshConfig) ValidMinAngularRes() bool {
	return con.MinAngularRes > 0 && !math.IsInf(con.MinAngularRes, 0)
}

type LensConfig struct {
	// Required
	Type          string
	Width, Height int
	// Lens type specific
	FOV             float64
	FOVY, FOVZ      float64
	FocalLength     float64
	PixelsPerRadian float64
	// Optional
	CentreX, CentreY float64
}

func (con *LensConfig) ValidType() bool {
	t := strings.ToLower(con.Type)
	return t == "equirectangular" || t == "radial"
}
func (con *LensConfig) ValidDimensions() bool {
	return con.Width > 0 && con.Height > 0
}
func (con *LensConfig) ValidCentre() bool {
	return con.CentreX >= 0 && con.CentreY >= 0
}

type CacheConfig struct {
	Capacity  int
	Tolerance float64
}

func (con *CacheConfig) ValidCapacity() bool {
	return con.Capacity > 0
}
func (con *CacheConfig) ValidTolerance() bool {
	return con.Tolerance >= 0 && !math.IsNaN(con.Tolerance)
}

// Wrapper holds every section a visual mesh parameter file may contain.
type Wrapper struct {
	Mesh  MeshConfig
	Lens  map[string]*LensConfig
	Cache CacheConfig
}

// DefaultWrapper creates a Wrapper with the optional parameters at their
// defaults.
func DefaultWrapper() *Wrapper {
	w := &Wrapper{}
	w.Mesh.MaxDistance = math.Inf(+1)
	w.Mesh.MinAngularRes = mesh.DefaultMinAngularRes
	w.Cache.Capacity = 4
	return w
}

// ReadString parses a parameter file from a string.
func ReadString(s string) (*Wrapper, error) {
	w := DefaultWrapper()
	if err := gcfg.ReadStringInto(w, s); err != nil {
		return nil, err
	}
	return w, nil
}

// ReadFile parses a parameter file from disk.
func ReadFile(fname string) (*Wrapper, error) {
	w := DefaultWrapper()
	if err := gcfg.ReadFileInto(w, fname); err != nil {
		return nil, err
	}
	return w, nil
}

// Shape materialises the [Mesh] section into a shape.
func (w *Wrapper) Shape() (shape.Shape, error) {
	con := &w.Mesh
	switch {
	case !con.ValidShape():
		return nil, fmt.Errorf("Invalid Shape value, '%s'.", con.Shape)
	case !con.ValidRadius():
		return nil, fmt.Errorf("Invalid Radius value, %g.", con.Radius)
	case !con.ValidIntersections():
		return nil, fmt.Errorf(
			"Invalid Intersections value, %g.", con.Intersections,
		)
	case !con.ValidMaxDistance():
		return nil, fmt.Errorf("Invalid MaxDistance value, %g.", con.MaxDistance)
	case !con.ValidMinAngularRes():
		return nil, fmt.Errorf(
			"Invalid MinAngularRes value, %g.", con.MinAngularRes,
		)
	}

	if strings.ToLower(con.Shape) == "sphere" {
		return shape.NewSphere(con.Radius, con.Intersections, con.MaxDistance)
	}
	return shape.NewCircle(con.Radius, con.Intersections, con.MaxDistance)
}

// Materialise converts a [Lens] section into a lens.
func (con *LensConfig) Materialise() (*lens.Lens, error) {
	switch {
	case !con.ValidType():
		return nil, fmt.Errorf("Invalid Type value, '%s'.", con.Type)
	case !con.ValidDimensions():
		return nil, fmt.Errorf(
			"Invalid dimensions, %d x %d.", con.Width, con.Height,
		)
	}

	var l *lens.Lens
	var err error
	if strings.ToLower(con.Type) == "radial" {
		l, err = lens.NewRadial(
			con.FOV, con.PixelsPerRadian, con.Width, con.Height,
		)
	} else {
		l, err = lens.NewEquirectangular(
			con.FOVY, con.FOVZ, con.FocalLength, con.Width, con.Height,
		)
	}
	if err != nil {
		return nil, err
	}

	if con.CentreX != 0 || con.CentreY != 0 {
		if !con.ValidCentre() {
			return nil, fmt.Errorf(
				"Invalid centre, (%g, %g).", con.CentreX, con.CentreY,
			)
		}
		l.Centre = [2]float64{con.CentreX, con.CentreY}
	}
	return l, nil
}

// NewCache materialises the [Cache] section, with the mesh section's
// angular resolution floor carried over to cache builds.
func (w *Wrapper) NewCache() (*mesh.Cache, error) {
	con := &w.Cache
	switch {
	case !con.ValidCapacity():
		return nil, fmt.Errorf("Invalid Capacity value, %d.", con.Capacity)
	case !con.ValidTolerance():
		return nil, fmt.Errorf("Invalid Tolerance value, %g.", con.Tolerance)
	}
	c := mesh.NewCache(con.Capacity)
	c.MinAngularRes = w.Mesh.MinAngularRes
	return c, nil
}
