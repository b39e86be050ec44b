// Package logging sets up the structured logger shared by the runner
// and the step executors. The logger travels inside the context.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type logKey struct{}

func init() {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, os.Getenv("LAUNCHER_DEBUG") != "")
	}
}

// New creates a logger writing human readable lines to out
func New(out io.Writer, level zerolog.Level, color bool) zerolog.Logger {
	writer := NewConsoleWriter(out, level <= zerolog.DebugLevel, color)
	return zerolog.New(writer).Level(level)
}

// From returns the logger attached to ctx; a disabled logger if none is
func From(ctx context.Context) *zerolog.Logger {
	logger, ok := ctx.Value(logKey{}).(*zerolog.Logger)
	if !ok {
		disabled := zerolog.Nop()
		return &disabled
	}

	return logger
}

// WithLogger attaches the given logger to the context
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, logger)
}

// WithTarget scopes the context logger to the given target name
func WithTarget(ctx context.Context, target string) context.Context {
	logger := From(ctx).With().Str("target", target).Logger()
	return WithLogger(ctx, &logger)
}
