package utils

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger provides levelled logging throughout the application.
// Progress narration goes to the status writer (stdout), diagnostics to the
// error writer (stderr).
type Logger struct {
	status zerolog.Logger
	diag   zerolog.Logger
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr)
}

// NewLoggerTo creates a Logger writing status lines to out and diagnostics to errOut.
func NewLoggerTo(out, errOut io.Writer) *Logger {
	const timeFormat = "2006-01-02 15:04:05"
	return &Logger{
		status: zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}).
			With().Timestamp().Logger(),
		diag: zerolog.New(zerolog.ConsoleWriter{Out: errOut, TimeFormat: timeFormat}).
			With().Timestamp().Logger(),
	}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *Logger {
	return &Logger{status: zerolog.Nop(), diag: zerolog.Nop()}
}

// With returns a child logger carrying key=value on every line.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		status: l.status.With().Str(key, value).Logger(),
		diag:   l.diag.With().Str(key, value).Logger(),
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.status.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.diag.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.diag.Error().Msgf(format, args...)
}
