// Package profile names the mutually exclusive build flavours that share
// one working tree. Each flavour owns a package template that is
// materialised into the config slot before the package tools run.
package profile

import (
	"fmt"
	"path/filepath"
)

// Slot is the single config location read by the package tools
const Slot = "package.json"

type Profile int

const (
	Extension Profile = iota
	App
	CLI
)

var names = [...]string{
	Extension: "extension",
	App:       "app",
	CLI:       "cli",
}

var templates = [...]string{
	Extension: filepath.Join("vscode-extension", "package.extension.json"),
	App:       filepath.Join("app", "package.app.json"),
	CLI:       filepath.Join("cli", "package.cli.json"),
}

// Profiles in declaration order
func Profiles() []Profile {
	return []Profile{Extension, App, CLI}
}

func (p Profile) String() string {
	if p < 0 || int(p) >= len(names) {
		return fmt.Sprintf("profile(%d)", int(p))
	}

	return names[p]
}

// Template is the path, relative to the working directory, of the file
// copied into Slot when p is selected
func (p Profile) Template() string {
	return templates[p]
}
