// Package cli implements the brewtower command-line interface.
//
// The commands talk to the brewtower backend over HTTP (see the backend
// package) except for serve, which runs it:
//   - serve: run the backend API and web UI
//   - styles: list, show and refresh the BJCP style catalog
//   - chart: compare a recipe with a style and write chart files
//   - recipes: manage stored recipes, BeerXML import/export, diagrams
//   - ingredients: query and edit the ingredient catalog
//   - cache: inspect and clear the local cache
//
// # Logging
//
// --verbose (-v) switches to debug level. The logger travels in the command
// context (withLogger / loggerFromContext) and is handed to the catalog,
// pipeline runner and server.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a step took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, plus
// any extra key-value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default so commands run outside the
// root command (tests) still log somewhere.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}
