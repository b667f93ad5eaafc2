//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Render mg.Namespace

// Renders the default scene with a low sample count as a smoke test.
func (Render) Preview() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd(filepath.Join("bin", "raytracer"), withArgs("-scene", "default", "-spp", "10", "-width", "200"), withStream())
	return err
}

// Renders the random cover scene at full quality.
func (Render) Cover() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd(filepath.Join("bin", "raytracer"), withArgs("-scene", "random", "-spp", "500", "-depth", "50", "-width", "1200"), withStream())
	return err
}

// Renders every scene file under scenes/.
func (Render) Files() error {
	mg.Deps(Build.Binary)
	files, err := filepath.Glob(filepath.Join("scenes", "*.toml"))
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("Rendering %s\n", f)
		if _, err := executeCmd(filepath.Join("bin", "raytracer"), withArgs("-scene", f), withStream()); err != nil {
			return err
		}
	}
	return nil
}
