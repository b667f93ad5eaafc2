package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// HittableList is an insertion-ordered aggregate of shapes searched by linear scan
type HittableList struct {
	objects []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	l := &HittableList{}
	for _, s := range shapes {
		l.Add(s)
	}
	return l
}

func (l *HittableList) shape() {}

// Add appends a shape; nil shapes are ignored
func (l *HittableList) Add(s Shape) {
	if s == nil {
		return
	}
	l.objects = append(l.objects, s)
}

// Clear removes every shape
func (l *HittableList) Clear() {
	l.objects = nil
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the shapes in insertion order
func (l *HittableList) Objects() []Shape {
	return l.objects
}

// Hit returns the closest intersection among all shapes
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float32) (material.HitRecord, bool) {
	var closest material.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, s := range l.objects {
		if rec, isHit := s.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = rec.T
			closest = rec
		}
	}

	return closest, hitAnything
}
