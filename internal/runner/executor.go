package runner

import (
	"context"
	"path/filepath"

	"launcher/internal/annotate"
	"launcher/internal/fsops"
	"launcher/internal/logging"
	"launcher/internal/process"
)

// Executor performs the side effects of the primitive steps
type Executor interface {
	RemoveFile(ctx context.Context, path string) error
	RemoveDir(ctx context.Context, path string) error
	CopyFile(ctx context.Context, src, dst string) error
	CopyDir(ctx context.Context, src, dst string) error
	MakeDir(ctx context.Context, path string) error
	// Run returns the exit code of the command. A non nil error is only
	// expected together with a non zero code
	Run(ctx context.Context, command string, args []string) (int, string, error)
}

// Marker returns the command that marks folder as ignored by file sync
// clients. ok is false when there is nothing to run
type Marker func(folder string) (command string, args []string, ok bool)

// System executes steps against the real file system. Relative paths are
// resolved against Dir
type System struct {
	Dir      string
	Env      map[string]string
	Annotate bool
	// Marker defaults to annotate.Current
	Marker Marker
}

func (s System) path(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(s.Dir, path)
}

func (s System) RemoveFile(ctx context.Context, path string) error {
	removed, err := fsops.RemoveFile(s.path(path))
	if removed {
		logging.From(ctx).Info().Msgf("Deleting file %s", path)
	}

	return err
}

func (s System) RemoveDir(ctx context.Context, path string) error {
	removed, err := fsops.RemoveDir(s.path(path))
	if removed {
		logging.From(ctx).Info().Msgf("Deleting folder %s", path)
	}

	return err
}

func (s System) CopyFile(ctx context.Context, src, dst string) error {
	logging.From(ctx).Info().Msgf("Copying from %s to %s", src, dst)
	return fsops.CopyFile(s.path(src), s.path(dst))
}

func (s System) CopyDir(ctx context.Context, src, dst string) error {
	logging.From(ctx).Info().Msgf("Copying from %s to %s", src, dst)
	return fsops.CopyDir(s.path(src), s.path(dst))
}

func (s System) MakeDir(ctx context.Context, path string) error {
	log := logging.From(ctx)
	created, err := fsops.MakeDir(s.path(path))
	if err != nil {
		return err
	}

	if created {
		log.Info().Msgf("Creating folder %s", path)
	}

	if !s.Annotate {
		return nil
	}

	mark := s.Marker
	if mark == nil {
		mark = annotate.Current
	}

	command, args, ok := mark(s.path(path))
	if !ok {
		return nil
	}

	// the sync marker is best effort; its failures never stop a recipe
	result := process.Run(ctx, process.Command{Line: command, Args: args, Dir: s.Dir})
	if result.Err != nil {
		log.Debug().Err(result.Err).Msgf("couldn't mark %s as ignored by sync", path)
	}

	return nil
}

func (s System) Run(ctx context.Context, command string, args []string) (int, string, error) {
	c := process.Command{Line: command, Args: args, Dir: s.Dir, Env: s.Env}
	logging.From(ctx).Info().Msgf("Running process: %s", c)
	result := process.Run(ctx, c)
	return result.Code, result.Detail, result.Err
}

// DryRun only logs what System would do
type DryRun struct{}

func (DryRun) RemoveFile(ctx context.Context, path string) error {
	logging.From(ctx).Info().Msgf("would delete file %s", path)
	return nil
}

func (DryRun) RemoveDir(ctx context.Context, path string) error {
	logging.From(ctx).Info().Msgf("would delete folder %s", path)
	return nil
}

func (DryRun) CopyFile(ctx context.Context, src, dst string) error {
	logging.From(ctx).Info().Msgf("would copy from %s to %s", src, dst)
	return nil
}

func (DryRun) CopyDir(ctx context.Context, src, dst string) error {
	logging.From(ctx).Info().Msgf("would copy from %s to %s", src, dst)
	return nil
}

func (DryRun) MakeDir(ctx context.Context, path string) error {
	logging.From(ctx).Info().Msgf("would create folder %s", path)
	return nil
}

func (DryRun) Run(ctx context.Context, command string, args []string) (int, string, error) {
	c := process.Command{Line: command, Args: args}
	logging.From(ctx).Info().Msgf("would run process: %s", c)
	return 0, "", nil
}
