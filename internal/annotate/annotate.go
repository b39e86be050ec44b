// Package annotate marks generated folders so that file sync clients
// skip them.
package annotate

import "runtime"

const attribute = "com.dropbox.ignored"

// Command returns the command that marks folder as ignored on goos. ok is
// false when the platform has no such marker
func Command(goos, folder string) (command string, args []string, ok bool) {
	switch goos {
	case "darwin":
		return "xattr", []string{"-w", attribute, "1", folder}, true
	case "windows":
		return "powershell.exe", []string{
			"Set-Content",
			"-Path", folder,
			"-Stream", attribute,
			"-Value", "1",
		}, true
	default:
		return "", nil, false
	}
}

// Current is Command for the running platform
func Current(folder string) (string, []string, bool) {
	return Command(runtime.GOOS, folder)
}
