//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the raytracer into bin/raytracer.
func (Build) Binary() error {
	if err := os.MkdirAll("bin", 0755); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/raytracer", "."), withStream()); err != nil {
		return err
	}
	fmt.Println("Built bin/raytracer")
	return nil
}

// Compiles the preview web server into bin/raytracer-web.
func (Build) Web() error {
	if err := os.MkdirAll("bin", 0755); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("build", "-o", "bin/raytracer-web", "./web"), withStream())
	return err
}

// Runs go vet over every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

type Test mg.Namespace

// Runs the unit tests.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the unit tests with the race detector; the scene watcher is concurrent.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}
