package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"launcher/internal/logging"
	"launcher/internal/recipe"
	"launcher/internal/runner"
	"launcher/internal/state"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := do(ctx, os.Args, os.Stdout)
	stop()
	os.Exit(code)
}

func do(ctx context.Context, args []string, out io.Writer) int {
	// where are we?
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	err = App(cwd, out).RunContext(ctx, interspersed(args))
	if err == nil {
		return 0
	}

	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		if msg := exit.Error(); msg != "" {
			fmt.Fprintln(out, msg)
		}

		return exit.ExitCode()
	}

	// flag parsing and other cli errors
	fmt.Fprintln(out, err)
	return 1
}

const (
	Path     = "path"
	Output   = "output"
	DryRun   = "dry-run"
	Verbose  = "verbose"
	NoColor  = "no-color"
	Annotate = "no-annotate"
	Config   = "config"
)

var (
	PathFlag = &cli.StringFlag{
		Name:  Path,
		Usage: "The path to build when running the CLI",
	}
	OutputFlag = &cli.StringFlag{
		Name:  Output,
		Usage: "If specified, PDF output will be used by the CLI",
	}
	DryRunFlag = &cli.BoolFlag{
		Name:  DryRun,
		Usage: "Don't actually run any step; just print them",
	}
	VerboseFlag = &cli.BoolFlag{
		Name:    Verbose,
		Aliases: []string{"v"},
		Usage:   "Print debug output",
	}
	NoColorFlag = &cli.BoolFlag{
		Name:    NoColor,
		Usage:   "Disable coloured output",
		EnvVars: []string{"NO_COLOR"},
	}
	AnnotateFlag = &cli.BoolFlag{
		Name:  Annotate,
		Usage: "Don't mark generated folders as ignored by file sync clients",
	}
	ConfigFlag = &cli.StringFlag{
		Name:  Config,
		Usage: "Configuration file",
		Value: state.DefaultConfigFile,
	}
)

// flags that consume the following argument
var valued = map[string]bool{Path: true, Output: true, Config: true}

func App(cwd string, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "launcher",
		Usage:     "Build, run and package the module builder",
		ArgsUsage: "<target>",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			PathFlag,
			OutputFlag,
			DryRunFlag,
			VerboseFlag,
			NoColorFlag,
			AnnotateFlag,
			ConfigFlag,
		},
		// exit codes are handled by the caller
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			color := !c.Bool(NoColor)
			parser := hclparse.NewParser()
			config, diags := newConfig(c, cwd, parser)
			if diags.HasErrors() {
				writer := hcl.NewDiagnosticTextWriter(out, parser.Files(), 78, color)
				_ = writer.WriteDiagnostics(diags)
				return cli.Exit("", 2)
			}

			if c.NArg() != 1 {
				listTargets(out)
				return cli.Exit("", 1)
			}

			logger := logging.New(out, config.Level, color)
			ctx := logging.WithLogger(c.Context, &logger)

			var exec runner.Executor = runner.System{
				Dir:      config.CWD,
				Env:      config.Env,
				Annotate: config.Flags.Annotate,
			}
			if config.Flags.Dry {
				exec = runner.DryRun{}
			}

			launcher, err := runner.New(recipe.Builtin(), exec, config.Params)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			code := launcher.Execute(ctx, c.Args().First())
			if code != 0 {
				return cli.Exit("", code)
			}

			return nil
		},
	}
}

// newConfig merges the configuration file and the command line flags.
// Flags win over the file
func newConfig(c *cli.Context, cwd string, parser *hclparse.Parser) (*state.Config, hcl.Diagnostics) {
	config := state.NewConfig(cwd)
	diags := config.Load(parser, c.String(Config), c.IsSet(Config))
	if diags.HasErrors() {
		return nil, diags
	}

	config.Flags.Dry = c.Bool(DryRun)
	config.Flags.Verbose = c.Bool(Verbose)
	if config.Flags.Verbose {
		config.Level = zerolog.DebugLevel
	}

	if c.Bool(Annotate) {
		config.Flags.Annotate = false
	}

	config.Params[recipe.PathParam] = c.String(Path)
	config.Params[recipe.OutputParam] = c.String(Output)
	return config, nil
}

func listTargets(out io.Writer) {
	fmt.Fprintln(out, "Available targets:")
	width := 0
	for _, target := range recipe.Targets() {
		if len(target.String()) > width {
			width = len(target.String())
		}
	}

	lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", width+3)
	for _, target := range recipe.Targets() {
		fmt.Fprintf(out, lineFmt, target.String()+":", target.Description())
	}
}

// interspersed moves positional arguments after the flags so that both
// "launcher run --path x" and "launcher --path x run" work
func interspersed(args []string) []string {
	if len(args) == 0 {
		return args
	}

	flags := make([]string, 0, len(args))
	positional := make([]string, 0)
	rest := args[1:]
	for index := 0; index < len(rest); index++ {
		arg := rest[index]
		if arg == "--" {
			positional = append(positional, rest[index+1:]...)
			break
		}

		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positional = append(positional, arg)
			continue
		}

		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if valued[name] && index+1 < len(rest) {
			index++
			flags = append(flags, rest[index])
		}
	}

	result := append([]string{args[0]}, flags...)
	if len(positional) > 0 {
		result = append(result, "--")
		result = append(result, positional...)
	}

	return result
}
