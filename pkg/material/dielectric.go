package material

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// NewDielectric creates a transparent material like glass that can both reflect and refract
func NewDielectric(refractiveIndex float32) Material {
	return Material{Kind: KindDielectric, RefractiveIndex: refractiveIndex}
}

func (m Material) scatterDielectric(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Dielectrics always attenuate by 1.0 (no color absorption for clear glass)
	attenuation := core.NewColor(1.0, 1.0, 1.0)

	// Determine if we're entering or exiting the material
	var refractionRatio float32
	if hit.FrontFace {
		refractionRatio = 1.0 / m.RefractiveIndex
	} else {
		refractionRatio = m.RefractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()

	cosTheta := math32.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math32.Sqrt(math32.Max(0, 1.0-cosTheta*cosTheta))

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || sampler.Get1D() < Reflectance(cosTheta, refractionRatio) {
		direction = Reflect(unitDirection, hit.Normal)
	} else {
		direction = Refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Attenuation: attenuation,
		Scattered:   core.NewRay(hit.Point, direction),
	}, true
}

// Refract bends the unit vector uv through a surface with normal n using Snell's law.
// etaiOverEtat is the ratio of the refractive indices on the incoming and outgoing sides.
func Refract(uv, n core.Vec3, etaiOverEtat float32) core.Vec3 {
	cosTheta := math32.Min(uv.Negate().Dot(n), 1.0)
	rOutParallel := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutPerp := n.Multiply(-math32.Sqrt(math32.Abs(1.0 - rOutParallel.LengthSquared())))
	return rOutParallel.Add(rOutPerp)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float32) float32 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math32.Pow(1-cosine, 5)
}
