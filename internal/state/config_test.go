package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LAUNCHER_TEST_HOME", "/home/chef")
	dir := writeConfig(t, `
log_level = "DEBUG"
annotate  = false
env = {
  NODE_ENV  = "production"
  CACHE_DIR = format("%s/.cache", env.LAUNCHER_TEST_HOME)
  ROOT      = upper(path.root)
}
`)

	config := NewConfig(dir)
	diags := config.Load(hclparse.NewParser(), DefaultConfigFile, true)
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	if config.Level != zerolog.DebugLevel {
		t.Errorf("expected debug level but got %s", config.Level)
	}

	if config.Flags.Annotate {
		t.Error("expected annotate to be disabled")
	}

	expected := map[string]string{
		"NODE_ENV":  "production",
		"CACHE_DIR": "/home/chef/.cache",
	}

	for key, value := range expected {
		if config.Env[key] != value {
			t.Errorf("expected %s=%s but got %s", key, value, config.Env[key])
		}
	}

	if config.Env["ROOT"] == "" {
		t.Error("expected path.root to be available")
	}
}

func TestLoadMissingConfig(t *testing.T) {
	config := NewConfig(t.TempDir())
	diags := config.Load(hclparse.NewParser(), DefaultConfigFile, false)
	if diags.HasErrors() {
		t.Fatal(diags)
	}

	if !config.Flags.Annotate || config.Level != zerolog.InfoLevel {
		t.Errorf("expected defaults to be kept but got %+v", config)
	}

	diags = config.Load(hclparse.NewParser(), DefaultConfigFile, true)
	if !diags.HasErrors() {
		t.Error("expected an error for a missing required config")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"unknown level":     `log_level = "loud"`,
		"unknown attribute": `parallelism = 4`,
		"wrong type":        `annotate = "maybe"`,
	}

	for name, content := range tests {
		dir := writeConfig(t, content)
		diags := NewConfig(dir).Load(hclparse.NewParser(), DefaultConfigFile, true)
		if !diags.HasErrors() {
			t.Errorf("%s: expected an error", name)
		}
	}
}
