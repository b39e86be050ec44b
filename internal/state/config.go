package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"launcher/internal/recipe"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// DefaultConfigFile is read from the working directory when present
const DefaultConfigFile = "launcher.hcl"

type Config struct {
	CWD    string
	Flags  Flags
	Params recipe.Params
	Level  zerolog.Level
	// Env is added to the environment of every external process
	Env map[string]string
}

type Flags struct {
	Dry      bool
	Verbose  bool
	Annotate bool
}

// File is the schema of the optional configuration file
type File struct {
	LogLevel string            `hcl:"log_level,optional"`
	Annotate *bool             `hcl:"annotate,optional"`
	Env      map[string]string `hcl:"env,optional"`
}

func NewConfig(cwd string) *Config {
	return &Config{
		CWD:    cwd,
		Flags:  Flags{Annotate: true},
		Params: recipe.Params{},
		Level:  zerolog.InfoLevel,
		Env:    map[string]string{},
	}
}

// Load decodes filename on top of the current values. A missing file is
// only an error when required is set
func (config *Config) Load(parser *hclparse.Parser, filename string, required bool) hcl.Diagnostics {
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(config.CWD, filename)
	}

	_, err := os.Stat(filename)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}

	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return diags
	}

	var content File
	diags = gohcl.DecodeBody(file.Body, config.EvalContext(), &content)
	if diags.HasErrors() {
		return diags
	}

	if content.LogLevel != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(content.LogLevel))
		if err != nil {
			return hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf(`unknown log level "%s"`, content.LogLevel),
				Detail:   "use one of trace, debug, info, warn or error",
				Subject:  attributeRange(file.Body, "log_level"),
			}}
		}

		config.Level = level
	}

	if content.Annotate != nil {
		config.Flags.Annotate = *content.Annotate
	}

	for key, value := range content.Env {
		config.Env[key] = value
	}

	return nil
}

func attributeRange(body hcl.Body, name string) *hcl.Range {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil
	}

	attr, ok := attrs[name]
	if !ok {
		return nil
	}

	return attr.Expr.Range().Ptr()
}

// EvalContext exposes the process environment and the working directory
// to configuration expressions
func (config Config) EvalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for key, value := range Env() {
		env[key] = cty.StringVal(value)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
			"path": cty.ObjectVal(map[string]cty.Value{
				"root": cty.StringVal(config.CWD),
			}),
		},
		Functions: Functions(),
	}
}

func Functions() map[string]function.Function {
	return map[string]function.Function{
		"upper":    stdlib.UpperFunc,
		"lower":    stdlib.LowerFunc,
		"join":     stdlib.JoinFunc,
		"format":   stdlib.FormatFunc,
		"coalesce": stdlib.CoalesceFunc,
	}
}

// Env returns the current process environment as a map
func Env() map[string]string {
	env := map[string]string{}
	for _, keyVal := range os.Environ() {
		parts := strings.SplitN(keyVal, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}

		env[parts[0]] = parts[1]
	}

	return env
}
