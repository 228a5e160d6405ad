//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// runStage invokes the built CLI binary with the given arguments.
func runStage(args ...string) error {
	bin := filepath.Join(binDir, binName)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", bin, args, err)
	}
	return nil
}

// Validate checks dataset consistency in the assets directory.
func Validate() error {
	mg.Deps(Build)
	return runStage("validate")
}

// Annotate runs the annotation stage over the assets directory.
func Annotate() error {
	mg.Deps(Build)
	return runStage("annotate")
}

// Posfreq computes part-of-speech frequencies for every article.
func Posfreq() error {
	mg.Deps(Build)
	return runStage("posfreq")
}

// Index builds the SQLite corpus index from the annotated articles.
func Index() error {
	mg.Deps(Build)
	return runStage("index", "build")
}
