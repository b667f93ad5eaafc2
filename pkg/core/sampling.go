package core

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float32
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a PCG random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from an existing random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own PCG stream seeded with seed.
// Two samplers created with the same seed produce identical sequences.
func NewSeededSampler(seed uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float32 in [0, 1)
func (r *RandomSampler) Get1D() float32 {
	return r.random.Float32()
}

// Get2D returns two random float32 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float32(), r.random.Float32())
}

// Get3D returns three random float32 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float32(), r.random.Float32(), r.random.Float32())
}

// RandomRange returns a random float32 in [min, max)
func RandomRange(sampler Sampler, min, max float32) float32 {
	return min + (max-min)*sampler.Get1D()
}

// RandomVec3 returns a vector with each component drawn from [min, max)
func RandomVec3(sampler Sampler, min, max float32) Vec3 {
	s := sampler.Get3D()
	return NewVec3(
		min+(max-min)*s.X,
		min+(max-min)*s.Y,
		min+(max-min)*s.Z,
	)
}

// RandomInUnitSphere generates a random point inside a unit sphere
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube
		p := RandomVec3(sampler, -1, 1)
		// Accept if inside unit sphere
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a uniform random direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	sample := sampler.Get2D()
	a := 2 * math32.Pi * sample.X
	z := 2*sample.Y - 1 // z ∈ [-1, 1)
	r := math32.Sqrt(max(0, 1-z*z))
	return NewVec3(r*math32.Cos(a), r*math32.Sin(a), z)
}

// RandomInUnitDisk generates a random point in a unit disk in the z = 0 plane (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		s := sampler.Get2D()
		// Generate random point in [-1,1] x [-1,1] square
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		// Accept if inside unit disk
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
