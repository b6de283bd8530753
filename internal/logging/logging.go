// Package logging builds the zerolog logger used for diagnostics. Logs go to
// the writer given (stderr in the CLI) and never to the framed output stream.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// App is attached to every log line.
const App = "ldframe"

// Options configures New.
type Options struct {
	// Verbose lowers the level from warn to debug.
	Verbose bool
	// JSON writes raw zerolog JSON lines instead of the console format.
	JSON bool
	// NoColor disables ANSI colors in console output.
	NoColor bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) zerolog.Logger {
	level := zerolog.WarnLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("app", App).Logger()
}

// WithRun returns a child logger tagged with a run identifier.
func WithRun(log zerolog.Logger, runID string) zerolog.Logger {
	return log.With().Str("run", runID).Logger()
}
