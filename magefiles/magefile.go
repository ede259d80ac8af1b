//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the slots project using Mage.
//
// Usage:
//
//	mage build          Compile the slots binary to bin/
//	mage install        Install slots to GOPATH/bin
//	mage clean          Remove build artifacts
//	mage lint           Vet and lint cmd/, internal/, pkg/
//	mage test:all       Run all tests
//	mage test:unit      Run tests except the SQLite journal packages
//	mage test:cover     Run all tests with a coverage profile
//	mage selftest       Build and run "slots selftest"
//	mage stats          Print Go lines of code
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "slots"
	binaryDir  = "bin"
	cmdDir     = "./cmd/slots"
	versionVar = "github.com/mesh-intelligence/slots/internal/cli.Version"
)

// sourcePkgs are the package patterns vetted and linted.
var sourcePkgs = []string{"./cmd/...", "./internal/...", "./pkg/..."}

// Build compiles the slots binary to bin/. SLOTS_VERSION, when set, is
// stamped into the binary.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if v := os.Getenv("SLOTS_VERSION"); v != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+v)
	}
	args = append(args, cmdDir)
	return sh.RunV(binGo, args...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Selftest builds the binary and runs its self-test without journaling.
func Selftest() error {
	mg.Deps(Build)
	return sh.RunWithV(map[string]string{"SLOTS_JOURNAL": "false"},
		filepath.Join(binaryDir, binaryName), "selftest")
}

// Lint runs go vet and then golangci-lint over the slots packages.
func Lint() error {
	if err := sh.RunV(binGo, append([]string{"vet"}, sourcePkgs...)...); err != nil {
		return err
	}
	return sh.RunV(binLint, append([]string{"run"}, sourcePkgs...)...)
}
