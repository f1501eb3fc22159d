//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Renders the model named by $MODEL, reading config.toml when present.
func (Run) Render() error {
	mg.Deps(Build.All)

	model := os.Getenv("MODEL")
	if model == "" {
		return fmt.Errorf("set MODEL to a .bmd file")
	}
	args := []string{"-model", model}
	if _, err := os.Stat("config.toml"); err == nil {
		args = append(args, "-config", "config.toml")
	}
	_, err := executeCmd("bin/render", withArgs(args...), withStream())
	return err
}

// Prints the scene tree of $MODEL.
func (Run) Inspect() error {
	mg.Deps(Build.All)

	model := os.Getenv("MODEL")
	if model == "" {
		return fmt.Errorf("set MODEL to a .bmd file")
	}
	_, err := executeCmd("bin/inspect", withArgs("-channels", model), withDir("."), withStream())
	return err
}
