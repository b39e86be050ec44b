package process

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"launcher/internal/logging"

	"github.com/rs/zerolog"
)

func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on a posix shell")
	}

	var out bytes.Buffer
	logger := logging.New(&out, zerolog.InfoLevel, false)
	return logging.WithLogger(context.Background(), &logger), &out
}

func TestRunStreamsOutput(t *testing.T) {
	ctx, out := testContext(t)
	result := Run(ctx, Command{Line: `sh -c 'echo hello; echo "$0" "$1"'`, Args: []string{"/tmp/doc.txt", "pdf"}})
	if result.Err != nil {
		t.Fatal(result.Err)
	}

	if result.Code != 0 {
		t.Errorf("expected exit code 0 but got %d", result.Code)
	}

	for _, expected := range []string{"hello", "/tmp/doc.txt pdf"} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("expected %q in output %q", expected, out.String())
		}
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	ctx, _ := testContext(t)
	result := Run(ctx, Command{Line: `sh -c 'echo broken >&2; exit 3'`})
	if result.Code != 3 {
		t.Errorf("expected exit code 3 but got %d", result.Code)
	}

	if result.Err == nil {
		t.Error("expected an error for a non zero exit")
	}

	if result.Detail != "broken" {
		t.Errorf("expected stderr as detail but got %q", result.Detail)
	}
}

func TestRunMissingExecutable(t *testing.T) {
	ctx, _ := testContext(t)
	result := Run(ctx, Command{Line: "launcher-missing-tool --version"})
	if result.Code != CodeNotFound {
		t.Errorf("expected exit code %d but got %d", CodeNotFound, result.Code)
	}
}

func TestRunExtraEnv(t *testing.T) {
	ctx, out := testContext(t)
	result := Run(ctx, Command{
		Line: `sh -c 'echo "$LAUNCHER_FLAVOUR"'`,
		Env:  map[string]string{"LAUNCHER_FLAVOUR": "cli"},
	})
	if result.Err != nil {
		t.Fatal(result.Err)
	}

	if !strings.Contains(out.String(), "cli") {
		t.Errorf("expected the extra variable in output %q", out.String())
	}
}

func TestCancelKillsDescendants(t *testing.T) {
	ctx, _ := testContext(t)
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	// sleep outlives sh and inherits its stdout and stderr
	start := time.Now()
	result := Run(ctx, Command{Line: `sh -c 'sleep 5; true'`})
	elapsed := time.Since(start)
	if result.Code != CodeInterrupted {
		t.Errorf("expected exit code %d but got %d", CodeInterrupted, result.Code)
	}

	if elapsed > 2*time.Second {
		t.Errorf("expected Run to return right after the cancellation but it took %s", elapsed)
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, _ := testContext(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	result := Run(ctx, Command{Line: "sh -c true"})
	if result.Code != CodeInterrupted {
		t.Errorf("expected exit code %d but got %d", CodeInterrupted, result.Code)
	}
}

func TestRunEmptyCommand(t *testing.T) {
	result := Run(context.Background(), Command{Line: "   "})
	if result.Err == nil || result.Code == 0 {
		t.Errorf("expected a failure for an empty command but got %+v", result)
	}
}

func TestCommandString(t *testing.T) {
	c := Command{Line: "node ./cli-out/cli/main.js", Args: []string{"/tmp/doc.txt", ""}}
	if got := c.String(); got != `node ./cli-out/cli/main.js "/tmp/doc.txt" ""` {
		t.Errorf("unexpected command %s", got)
	}
}

func TestTail(t *testing.T) {
	tail := newTail(2)
	for _, line := range []string{"a", "b", "c"} {
		tail.Add(line)
	}

	if got := tail.String(); got != "b\nc" {
		t.Errorf("expected the last two lines but got %q", got)
	}
}
