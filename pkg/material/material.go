package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material describes how a surface responds to light: a base color used for both
// the diffuse and mirror terms, and the fraction of light that is mirror-reflected.
type Material struct {
	Color        core.Vec3 // Per-channel surface color, conceptually in [0,1] (not clamped)
	Reflectivity float64   // Mirror weight in [0,1]; diffuse weight is 1-Reflectivity
}

// NewMaterial creates a new material
func NewMaterial(color core.Vec3, reflectivity float64) Material {
	return Material{Color: color, Reflectivity: reflectivity}
}

// NewDiffuse creates a material with no mirror component
func NewDiffuse(color core.Vec3) Material {
	return Material{Color: color}
}

// NewMirror creates a perfectly reflective material tinted by color
func NewMirror(color core.Vec3) Material {
	return Material{Color: color, Reflectivity: 1}
}

// Validate checks the reflectivity range
func (m Material) Validate() error {
	if m.Reflectivity < 0 || m.Reflectivity > 1 {
		return fmt.Errorf("reflectivity must be in [0,1], got %g", m.Reflectivity)
	}
	return nil
}
