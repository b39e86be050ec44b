// Package process runs the external tools invoked by recipes and streams
// their output into the context logger.
package process

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"launcher/internal/functional"
	"launcher/internal/logging"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"mvdan.cc/sh/v3/shell"
)

const (
	// CodeNotFound is reported when the executable cannot be found
	CodeNotFound = 127
	// CodeInterrupted is reported when the context was cancelled
	CodeInterrupted = 130

	detailLines = 20
	maxLineSize = 1024 * 1024
)

// Command describes a single invocation. Line is split into words using
// shell quoting rules; Args are appended verbatim
type Command struct {
	Line string
	Args []string
	Dir  string
	// Env is added on top of the current environment
	Env map[string]string
}

type Result struct {
	Code int
	Err  error
	// Detail holds the last lines written to stderr (or stdout if stderr
	// was empty)
	Detail string
}

func (c Command) String() string {
	words := append([]string{c.Line}, functional.Map(c.Args, quote)...)
	return strings.Join(words, " ")
}

func quote(arg string) string {
	return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
}

// Env merges extra on top of the current process environment
func Env(extra map[string]string) []string {
	env := os.Environ()
	for _, key := range functional.SortedKeys(extra) {
		env = append(env, key+"="+extra[key])
	}

	return env
}

func lookup(extra map[string]string) func(string) string {
	return func(name string) string {
		if value, ok := extra[name]; ok {
			return value
		}

		return os.Getenv(name)
	}
}

// Run executes c and waits for it to finish
func Run(ctx context.Context, c Command) Result {
	log := logging.From(ctx)
	words, err := shell.Fields(c.Line, lookup(c.Env))
	if err != nil {
		return Result{Code: 1, Err: eris.Wrapf(err, "failed to parse command %s", c.Line)}
	}

	if len(words) == 0 {
		return Result{Code: 1, Err: eris.New("empty command")}
	}

	words = append(words, c.Args...)
	command := exec.CommandContext(ctx, words[0], words[1:]...)
	command.Dir = c.Dir
	command.Env = Env(c.Env)
	isolate(command)
	stdout, err := command.StdoutPipe()
	if err != nil {
		return Result{Code: 1, Err: eris.Wrap(err, "failed to attach stdout")}
	}

	stderr, err := command.StderrPipe()
	if err != nil {
		return Result{Code: 1, Err: eris.Wrap(err, "failed to attach stderr")}
	}

	start := time.Now()
	err = command.Start()
	if err != nil {
		code := 1
		switch {
		case errors.Is(err, exec.ErrNotFound):
			code = CodeNotFound
		case ctx.Err() != nil:
			code = CodeInterrupted
		}

		return Result{Code: code, Err: eris.Wrapf(err, "failed to start %s", words[0])}
	}

	// descendants may outlive the child and keep the pipes open, so the
	// whole group is killed and the pipes closed once ctx is done
	exited := make(chan struct{})
	watcher := make(chan struct{})
	go func() {
		defer close(watcher)
		select {
		case <-ctx.Done():
			err := killGroup(command)
			if err != nil {
				log.Debug().Err(err).Msgf("couldn't kill the process group of %s", words[0])
			}

			_ = stdout.Close()
			_ = stderr.Close()
		case <-exited:
		}
	}()

	outTail := newTail(detailLines)
	errTail := newTail(detailLines)
	// both pipes must be drained before waiting on the command
	var group errgroup.Group
	group.Go(func() error { return stream(ctx, stdout, "stdout", outTail) })
	group.Go(func() error { return stream(ctx, stderr, "stderr", errTail) })
	streamErr := group.Wait()
	err = command.Wait()
	close(exited)
	<-watcher
	log.Debug().Msgf("done in %s", time.Since(start).Round(time.Millisecond))

	detail := errTail.String()
	if detail == "" {
		detail = outTail.String()
	}

	if err == nil {
		if streamErr != nil {
			log.Warn().Err(streamErr).Msg("output was truncated")
		}

		return Result{Code: 0, Detail: detail}
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		return Result{Code: CodeInterrupted, Err: eris.Wrap(ctx.Err(), "interrupted"), Detail: detail}
	case errors.As(err, &exitErr) && exitErr.ExitCode() > 0:
		return Result{Code: exitErr.ExitCode(), Err: eris.Wrapf(err, "%s failed", words[0]), Detail: detail}
	default:
		return Result{Code: 1, Err: eris.Wrapf(err, "%s failed", words[0]), Detail: detail}
	}
}

func stream(ctx context.Context, reader io.Reader, name string, tail *tail) error {
	log := logging.From(ctx)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		tail.Add(line)
		log.Info().Str("stream", name).Msg(line)
	}

	err := scanner.Err()
	if err != nil {
		// keep the child from blocking on a full pipe
		_, _ = io.Copy(io.Discard, reader)
		return eris.Wrapf(err, "failed to read %s", name)
	}

	return nil
}

// tail keeps the last n lines written to it
type tail struct {
	lines []string
	size  int
}

func newTail(size int) *tail {
	return &tail{size: size}
}

func (t *tail) Add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.size {
		t.lines = t.lines[len(t.lines)-t.size:]
	}
}

func (t *tail) String() string {
	return strings.TrimSpace(strings.Join(t.lines, "\n"))
}
