// Package runner executes recipes step by step. Execution is strictly
// sequential and stops at the first failing step; Invoke steps run the
// invoked recipe in place.
package runner

import (
	"context"
	"errors"
	"fmt"

	"launcher/internal/logging"
	"launcher/internal/profile"
	"launcher/internal/recipe"
)

type Runner struct {
	recipes recipe.Table
	exec    Executor
	params  recipe.Params
	active  *profile.Profile
}

// New creates a runner over recipes. The table is validated up front so
// that invocation cycles are reported before any step runs
func New(recipes recipe.Table, exec Executor, params recipe.Params) (*Runner, error) {
	err := recipes.Validate()
	if err != nil {
		return nil, err
	}

	if params == nil {
		params = recipe.Params{}
	}

	return &Runner{recipes: recipes, exec: exec, params: params}, nil
}

// Active returns the last profile selected by the runner
func (r *Runner) Active() (profile.Profile, bool) {
	if r.active == nil {
		return 0, false
	}

	return *r.active, true
}

// Execute runs the target with the given name, logs any failure and
// returns the exit status of the launcher
func (r *Runner) Execute(ctx context.Context, name string) int {
	err := r.Run(ctx, name)
	if err == nil {
		return 0
	}

	event := logging.From(ctx).Error()
	var subprocess *SubprocessFailure
	if errors.As(err, &subprocess) {
		event = event.Str("detail", subprocess.Detail)
	}

	event.Msg(err.Error())
	return ExitCode(err)
}

// Run resolves name and executes its recipe. Unknown names fail with
// *recipe.UnknownTargetError before any side effect
func (r *Runner) Run(ctx context.Context, name string) error {
	target, err := recipe.ParseTarget(name)
	if err != nil {
		return err
	}

	return r.target(ctx, target)
}

func (r *Runner) target(ctx context.Context, target recipe.Target) error {
	steps, ok := r.recipes[target]
	if !ok {
		return fmt.Errorf(`target "%s" has no recipe`, target)
	}

	ctx = logging.WithTarget(ctx, target.String())
	logging.From(ctx).Debug().Msgf("running %d steps", len(steps))
	for _, step := range steps {
		err := ctx.Err()
		if err != nil {
			return err
		}

		err = r.step(ctx, step)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) step(ctx context.Context, step recipe.Step) error {
	var err error
	switch s := step.(type) {
	case recipe.RemoveFile:
		err = r.exec.RemoveFile(ctx, s.Path)
	case recipe.RemoveDir:
		err = r.exec.RemoveDir(ctx, s.Path)
	case recipe.CopyFile:
		err = r.exec.CopyFile(ctx, s.Src, s.Dst)
	case recipe.CopyDir:
		err = r.exec.CopyDir(ctx, s.Src, s.Dst)
	case recipe.MakeDir:
		err = r.exec.MakeDir(ctx, s.Path)
	case recipe.Select:
		err = r.exec.CopyFile(ctx, s.Profile.Template(), profile.Slot)
		if err == nil {
			selected := s.Profile
			r.active = &selected
			logging.From(ctx).Debug().Msgf("active profile is %s", selected)
		}
	case recipe.Invoke:
		return r.target(ctx, s.Target)
	case recipe.Run:
		return r.run(ctx, s)
	default:
		panic(fmt.Sprintf("unknown step %T", step))
	}

	if err != nil {
		return &FileOperationFailure{Step: step, Err: err}
	}

	return nil
}

func (r *Runner) run(ctx context.Context, step recipe.Run) error {
	code, detail, err := r.exec.Run(ctx, step.Command, r.params.Resolve(step.Params))
	if code == 0 && err == nil {
		return nil
	}

	if code == 0 {
		code = 1
	}

	if !step.RequireZeroExit {
		logging.From(ctx).Warn().Msgf(`"%s" exited with code %d ... continuing`, step.Command, code)
		return nil
	}

	return &SubprocessFailure{Step: step, Code: code, Detail: detail, Err: err}
}
