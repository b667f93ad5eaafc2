package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/chewxy/math32"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float32             `json:"point"`
	Normal       [3]float32             `json:"normal"`
	Distance     float32                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the first surface seen through a pixel
type InspectResult struct {
	Hit       bool
	HitRecord material.HitRecord
	Sphere    *geometry.Sphere // nil when the hit could not be attributed
}

// extractMaterialInfo reports the parameters relevant to the material's kind
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = [3]float32{mat.Albedo.X, mat.Albedo.Y, mat.Albedo.Z}
		properties["color"] = hexColor(mat.Albedo)
	case material.KindMetal:
		properties["albedo"] = [3]float32{mat.Albedo.X, mat.Albedo.Y, mat.Albedo.Z}
		properties["color"] = hexColor(mat.Albedo)
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractiveIndex"] = mat.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
	default:
		return "unknown", properties
	}
	return mat.Kind.String(), properties
}

func hexColor(c core.Color) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// inspectPixel casts a ray through the center of pixel (pixelX, pixelY), row 0 at the top,
// and returns the first sphere hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	s := (float32(pixelX) + 0.5) / float32(sceneObj.Width)
	t := (float32(sceneObj.Height-1-pixelY) + 0.5) / float32(sceneObj.Height)

	// A fixed sampler keeps the lens sample stable between requests
	ray := sceneObj.Camera.GetRay(s, t, core.NewSeededSampler(0))

	hit, isHit := sceneObj.World.Hit(ray, integrator.ShadowEpsilon, math32.Inf(1))
	if !isHit {
		return InspectResult{}
	}

	// The list does not report which shape it hit, so find the sphere with the same intersection
	for _, sphere := range sceneObj.Spheres() {
		if sphereHit, ok := sphere.Hit(ray, integrator.ShadowEpsilon, math32.Inf(1)); ok && sphereHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Sphere: sphere}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj := s.createScene(req.Scene)
	if sceneObj == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown scene: " + req.Scene})
		return
	}
	sceneObj.SetWidth(req.Width)

	if pixelX < 0 || pixelX >= sceneObj.Width || pixelY < 0 || pixelY >= sceneObj.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := "unknown", map[string]interface{}{}
	if result.Sphere != nil {
		geometryType = "sphere"
		geometryProps["center"] = [3]float32{result.Sphere.Center.X, result.Sphere.Center.Y, result.Sphere.Center.Z}
		geometryProps["radius"] = result.Sphere.Radius
	}

	rec := result.HitRecord
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float32{rec.Point.X, rec.Point.Y, rec.Point.Z},
		Normal:       [3]float32{rec.Normal.X, rec.Normal.Y, rec.Normal.Z},
		Distance:     rec.T,
		FrontFace:    rec.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
