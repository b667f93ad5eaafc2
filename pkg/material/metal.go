package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// NewMetal creates a new metal material
func NewMetal(albedo core.Color, fuzz float32) Material {
	// Clamp fuzz to valid range
	return Material{Kind: KindMetal, Albedo: albedo, Fuzz: core.Clamp(fuzz, 0, 1)}
}

func (m Material) scatterMetal(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Calculate perfect reflection direction
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// Add fuzziness by perturbing the reflection direction
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzz))
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Only scatter if the ray is above the surface (not absorbed)
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Attenuation: m.Albedo,
		Scattered:   scattered,
	}, scatters
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
