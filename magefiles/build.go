//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var commands = []string{"render", "inspect", "texdump"}

// Builds every command into bin/.
func (Build) All() error {
	for _, c := range commands {
		out := filepath.Join("bin", c)
		if _, err := executeCmd("go", withArgs("build", "-o", out, "./cmd/"+c)); err != nil {
			return fmt.Errorf("build %s: %w", c, err)
		}
	}
	return nil
}

// Runs go vet and the unit tests.
func Test() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Runs go mod tidy.
func Tidy() error {
	_, err := executeCmd("go", withArgs("mod", "tidy"))
	return err
}
