package material

import (
	"fmt"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Kind identifies which scattering model a Material uses
type Kind uint8

const (
	KindLambertian Kind = iota + 1
	KindMetal
	KindDielectric
)

// String returns the lower-case name used in scene files
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Material is a closed set of scattering models. Values are immutable after
// construction and are shared by copy between every surface that uses them.
// The zero Material has no kind and absorbs every ray.
type Material struct {
	Kind            Kind
	Albedo          core.Color // Lambertian and Metal
	Fuzz            float32    // Metal only, in [0, 1]
	RefractiveIndex float32    // Dielectric only
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Attenuation core.Color // Color attenuation
	Scattered   core.Ray   // The scattered ray
}

// Scatter dispatches to the scattering model selected by m.Kind.
// The boolean is false when the ray is absorbed.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return m.scatterLambertian(hit, sampler)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Point3 // Point of intersection
	Normal    core.Vec3   // Unit normal, always facing the incoming ray
	T         float32     // Parameter t along the ray
	FrontFace bool        // Whether ray hit the front face
	Material  Material    // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
