package recipe

import (
	"fmt"

	"launcher/internal/functional"
)

type Target int

const (
	MakeFolders Target = iota
	Clean
	BuildExtension
	BuildApp
	StartApp
	RunCLI
	PackageExtension
	PackageApp
)

var targetNames = [...]string{
	MakeFolders:      "makeFolders",
	Clean:            "clean",
	BuildExtension:   "build-extension",
	BuildApp:         "build-app",
	StartApp:         "start-app",
	RunCLI:           "run",
	PackageExtension: "package-extension",
	PackageApp:       "package-app",
}

var descriptions = [...]string{
	MakeFolders:      "Create the working folders",
	Clean:            "Remove every generated file and folder",
	BuildExtension:   "Build the editor extension",
	BuildApp:         "Build the desktop app",
	StartApp:         "Build and start the desktop app",
	RunCLI:           "Build the CLI and run it with --path and --output",
	PackageExtension: "Clean, build and package the editor extension",
	PackageApp:       "Clean, build and package the app for all platforms",
}

// Targets in declaration order
func Targets() []Target {
	targets := make([]Target, len(targetNames))
	for index := range targetNames {
		targets[index] = Target(index)
	}

	return targets
}

func (t Target) String() string {
	if !t.valid() {
		return fmt.Sprintf("target(%d)", int(t))
	}

	return targetNames[t]
}

func (t Target) Description() string {
	if !t.valid() {
		return ""
	}

	return descriptions[t]
}

func (t Target) valid() bool {
	return t >= 0 && int(t) < len(targetNames)
}

// UnknownTargetError is returned for names that don't identify any target
type UnknownTargetError struct {
	Name       string
	Suggestion string
}

func (e *UnknownTargetError) Error() string {
	message := fmt.Sprintf(`unrecognized launch target specified: "%s"`, e.Name)
	if e.Suggestion != "" {
		message += fmt.Sprintf(`. Did you mean "%s"?`, e.Suggestion)
	}

	return message
}

func ParseTarget(name string) (Target, error) {
	for index, targetName := range targetNames {
		if targetName == name {
			return Target(index), nil
		}
	}

	return 0, &UnknownTargetError{
		Name:       name,
		Suggestion: functional.Suggest(name, targetNames[:]),
	}
}
