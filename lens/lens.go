/*package lens describes the camera lens models a visual mesh can be looked
up and projected through.
*/
package lens

import (
	"fmt"
	"math"
)

// Type selects the projection family of a lens.
type Type int

const (
	// Equirectangular lenses image a rectangular pyramid of view onto the
	// sensor with a fixed focal length in pixels.
	Equirectangular Type = iota
	// Radial lenses image a cone of view onto the sensor with a fixed
	// number of pixels per radian off the principal axis.
	Radial
)

func (t Type) String() string {
	switch t {
	case Equirectangular:
		return "Equirectangular"
	case Radial:
		return "Radial"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Lens holds the parameters of a single camera lens.
type Lens struct {
	Type Type
	// Dimensions is the width and height of the image in pixels.
	Dimensions [2]int
	// Centre is the optical centre in pixel coordinates.
	Centre [2]float64
	// FOV is the field of view in radians. Radial lenses use only the
	// first element; equirectangular lenses use both (y then z extent).
	FOV [2]float64
	// FocalLength is the focal length in pixels. Equirectangular only.
	FocalLength float64
	// PixelsPerRadian converts angle off the principal axis to a pixel
	// radius. Radial only.
	PixelsPerRadian float64
}

// ParamError reports an invalid lens parameter.
type ParamError struct {
	Lens, Param string
	Value       float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s lens: %s = %g is not valid.", e.Lens, e.Param, e.Value)
}

// TypeError reports a lens with an unknown projection family.
type TypeError struct {
	Type Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Unknown lens type %d.", int(e.Type))
}

// NewEquirectangular creates an equirectangular lens with the given y and z
// fields of view in radians, focal length in pixels, and image dimensions.
// The optical centre defaults to the image centre.
func NewEquirectangular(fovY, fovZ, focalLength float64, w, h int) (*Lens, error) {
	if !(fovY > 0) || fovY > math.Pi {
		return nil, &ParamError{"Equirectangular", "y fov", fovY}
	}
	if !(fovZ > 0) || fovZ > math.Pi {
		return nil, &ParamError{"Equirectangular", "z fov", fovZ}
	}
	if !(focalLength > 0) || math.IsInf(focalLength, 0) {
		return nil, &ParamError{"Equirectangular", "focal length", focalLength}
	}
	if w <= 0 || h <= 0 {
		return nil, &ParamError{"Equirectangular", "dimensions", float64(w * h)}
	}
	return &Lens{
		Type:        Equirectangular,
		Dimensions:  [2]int{w, h},
		Centre:      [2]float64{float64(w) / 2, float64(h) / 2},
		FOV:         [2]float64{fovY, fovZ},
		FocalLength: focalLength,
	}, nil
}

// NewRadial creates a radial lens with the given field of view in radians,
// pixel density per radian, and image dimensions. The optical centre
// defaults to the image centre.
func NewRadial(fov, pixelsPerRadian float64, w, h int) (*Lens, error) {
	if !(fov > 0) || fov > 2*math.Pi {
		return nil, &ParamError{"Radial", "fov", fov}
	}
	if !(pixelsPerRadian > 0) || math.IsInf(pixelsPerRadian, 0) {
		return nil, &ParamError{"Radial", "pixels per radian", pixelsPerRadian}
	}
	if w <= 0 || h <= 0 {
		return nil, &ParamError{"Radial", "dimensions", float64(w * h)}
	}
	return &Lens{
		Type:            Radial,
		Dimensions:      [2]int{w, h},
		Centre:          [2]float64{float64(w) / 2, float64(h) / 2},
		FOV:             [2]float64{fov, 0},
		PixelsPerRadian: pixelsPerRadian,
	}, nil
}
