package recipe

import (
	"launcher/internal/profile"
)

// working folders created by makeFolders
const (
	NodeModules  = "node_modules"
	Dist         = "dist"
	AppOut       = "app-out"
	CLIOut       = "cli-out"
	ExtensionOut = "extension-out"
	Chromium     = ".local-chromium"
)

const (
	PackageLock   = "package-lock.json"
	Documentation = "Documentation"
	Readme        = "README.md"
	Advanced      = "Advanced.md"
	// CLIEntry is the compiled entry point started by the run target
	CLIEntry = "./cli-out/cli/main.js"
)

var builtin = mustValidate(Table{
	MakeFolders: {
		MakeDir{NodeModules},
		MakeDir{Dist},
		MakeDir{AppOut},
		MakeDir{CLIOut},
		MakeDir{ExtensionOut},
		MakeDir{Chromium},
	},
	Clean: {
		RemoveFile{profile.Slot},
		RemoveFile{PackageLock},
		RemoveDir{NodeModules},
		RemoveDir{Dist},
		RemoveDir{AppOut},
		RemoveDir{ExtensionOut},
		RemoveDir{Documentation},
		RemoveDir{Chromium},
		RemoveFile{Readme},
		RemoveFile{Advanced},
		Invoke{MakeFolders},
	},
	BuildExtension: build(ExtensionOut, profile.Extension, "npm run compile-extension"),
	BuildApp:       build(AppOut, profile.App, "npm run compile-app"),
	StartApp: {
		Invoke{BuildApp},
		required("npm run start"),
	},
	RunCLI: append(
		build(CLIOut, profile.CLI, "npm run compile-cli"),
		Run{Command: "node " + CLIEntry, Params: []Param{PathParam, OutputParam}, RequireZeroExit: true},
	),
	PackageExtension: {
		Invoke{Clean},
		CopyDir{"../" + Documentation, "./" + Documentation},
		CopyFile{"../" + Readme, "./" + Readme},
		CopyFile{"../" + Advanced, "./" + Advanced},
		Invoke{BuildExtension},
		required("vsce package"),
	},
	PackageApp: {
		Invoke{Clean},
		Invoke{BuildApp},
		required("npm run build-all"),
	},
})

// Builtin returns the recipes of every known target
func Builtin() Table {
	return builtin
}

// build is the shared shape of every compile target: reset the config
// slot and output folder, select the profile, install and compile
func build(output string, p profile.Profile, compile string) Recipe {
	return Recipe{
		RemoveFile{profile.Slot},
		RemoveFile{PackageLock},
		RemoveDir{output},
		Invoke{MakeFolders},
		Select{p},
		required("npm install"),
		required("npm run compile-css"),
		required(compile),
	}
}

func required(command string) Run {
	return Run{Command: command, RequireZeroExit: true}
}

func mustValidate(table Table) Table {
	err := table.Validate()
	if err != nil {
		panic(err.Error())
	}

	return table
}
