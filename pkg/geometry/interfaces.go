package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Hit reports the nearest intersection with t strictly inside (tMin, tMax).
// The set of shapes is closed: *Sphere and *HittableList.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float32) (material.HitRecord, bool)
	shape()
}
