// Package logger provides a thin wrapper around zerolog.Logger used by the
// layerconf CLI.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, etc.) are available directly on *Logger.
// Human-facing command output never goes through the logger; it is written
// to the command's stdout. The logger writes to stderr.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/shinji-kodama/layerconf/internal/provider"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New constructs a *Logger writing human-readable lines to out.
//
// With verbose set every level down to Debug is emitted, otherwise only
// warnings and errors are.
func New(out io.Writer, verbose bool) *Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all log output.
// It is intended for use in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Component returns a child logger carrying a component field.
func (l *Logger) Component(component string) *Logger {
	return &Logger{l.Logger.With().Str("component", component).Logger()}
}

// Diagnostics returns a provider.DiagnosticSink that logs every diagnostic
// once at warn level.
func (l *Logger) Diagnostics() provider.DiagnosticSink {
	return diagnosticSink{l}
}

type diagnosticSink struct {
	l *Logger
}

func (s diagnosticSink) Emit(d provider.Diagnostic) {
	s.l.Warn().Str("diagnostic", string(d.Level)).Msg(d.Message)
}
