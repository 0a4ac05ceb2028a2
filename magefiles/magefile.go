//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for the paper-tools binaries.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

// binaries maps each output binary name to its main package.
var binaries = []struct {
	name string
	pkg  string
}{
	{name: "convert", pkg: "./cmd/convert"},
	{name: "get_pdf", pkg: "./cmd/get-pdf"},
}

// Default is run when mage is invoked without a target.
var Default = Build

// Build compiles both CLI binaries into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	for _, b := range binaries {
		out := filepath.Join(binDir, b.name)
		if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, b.pkg); err != nil {
			return fmt.Errorf("go build %s: %w", b.pkg, err)
		}
		fmt.Printf("Built %s\n", out)
	}
	return nil
}

// Test runs go vet and the full test suite.
func Test() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "test", "./...")
}

// Install builds the binaries and copies them into $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	dest := filepath.Join(gopath, "bin")
	for _, b := range binaries {
		if err := sh.Copy(filepath.Join(dest, b.name), filepath.Join(binDir, b.name)); err != nil {
			return fmt.Errorf("installing %s: %w", b.name, err)
		}
		if err := os.Chmod(filepath.Join(dest, b.name), 0o755); err != nil {
			return err
		}
		fmt.Printf("Installed %s\n", filepath.Join(dest, b.name))
	}
	return nil
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints Go production and test line counts.
func Stats() error {
	prod, tests, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	return nil
}

// countGoLines counts non-blank lines in .go files below root, split into
// production and test totals. Directories starting with "_" or "." are skipped.
func countGoLines(root string) (prod, tests int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, tests, err
}
