package profile

import (
	"path/filepath"
	"testing"
)

func TestProfiles(t *testing.T) {
	for index, p := range Profiles() {
		if int(p) != index {
			t.Errorf("expected profiles in declaration order but got %v", Profiles())
		}
	}
}

func TestTemplates(t *testing.T) {
	tests := []struct {
		profile Profile
		name    string
		path    string
	}{
		{Extension, "extension", "vscode-extension/package.extension.json"},
		{App, "app", "app/package.app.json"},
		{CLI, "cli", "cli/package.cli.json"},
	}

	for _, test := range tests {
		if test.profile.String() != test.name {
			t.Errorf("expected name %s but got %s", test.name, test.profile)
		}

		if got := filepath.ToSlash(test.profile.Template()); got != test.path {
			t.Errorf("expected %s template %s but got %s", test.name, test.path, got)
		}
	}
}
