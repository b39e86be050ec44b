package runner

import (
	"context"
	"errors"
	"fmt"

	"launcher/internal/process"
	"launcher/internal/recipe"
)

// SubprocessFailure is returned when a required process exits with a non
// zero code
type SubprocessFailure struct {
	Step   recipe.Run
	Code   int
	Detail string
	Err    error
}

func (e *SubprocessFailure) Error() string {
	return fmt.Sprintf(`"%s" failed with exit code %d`, e.Step.Command, e.Code)
}

func (e *SubprocessFailure) Unwrap() error {
	return e.Err
}

// FileOperationFailure is returned when a file system step fails
type FileOperationFailure struct {
	Step recipe.Step
	Err  error
}

func (e *FileOperationFailure) Error() string {
	return fmt.Sprintf(`"%s" failed: %s`, e.Step, e.Err)
}

func (e *FileOperationFailure) Unwrap() error {
	return e.Err
}

// ExitCode maps the error returned by Runner.Run to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var subprocess *SubprocessFailure
	if errors.As(err, &subprocess) && subprocess.Code != 0 {
		return subprocess.Code
	}

	if errors.Is(err, context.Canceled) {
		return process.CodeInterrupted
	}

	return 1
}
