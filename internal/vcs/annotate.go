package vcs

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/blameline/blameline/internal/blame"
)

// command is one external invocation: binary name plus arguments.
type command struct {
	name string
	args []string
}

// annotator is the loader shared by all adapters: it owns the loading-guard
// protocol and the parse-and-replace step. Adapters supply the annotate
// command and the repo root.
type annotator struct {
	runner  Runner
	store   *blame.Store
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics
	backend string

	ignoreWhitespace bool
}

// load runs the annotate command for path on its own goroutine and replaces
// the file's state on completion. The loading guard is checked and set
// atomically before dispatch, so a second call while a load is in flight is
// a no-op that neither re-invokes the command nor resets the continuation.
// The guard entry is cleared on every exit path.
func (a *annotator) load(ctx context.Context, path, repoRoot string, cmd command, done func(error)) {
	if !a.store.BeginLoad(path) {
		a.logger.Debug("blame load already in flight", "path", path)

		return
	}

	go func() {
		defer a.store.EndLoad(path)

		loadErr := a.loadSync(ctx, path, repoRoot, cmd)
		if done != nil {
			done(loadErr)
		}
	}()
}

// loadSync performs the actual invocation, parse, and store replacement.
func (a *annotator) loadSync(ctx context.Context, path, repoRoot string, cmd command) error {
	spanCtx, span := a.tracer.Start(ctx, "vcs.annotate",
		trace.WithAttributes(
			attribute.String("vcs.backend", a.backend),
			attribute.String("file.path", path),
		))
	defer span.End()

	start := time.Now()

	result, runErr := a.runner.Run(spanCtx, cmd.name, cmd.args...)
	if runErr != nil {
		span.RecordError(runErr)
		a.logger.Warn("annotate command failed", "backend", a.backend, "path", path, "error", runErr)

		return runErr
	}

	if len(result.Lines) == 0 && result.ExitCode != 0 {
		// Untracked file or unsupported buffer: no output arrived. Fail
		// silently with no state mutation; the guard is still cleared.
		a.logger.Debug("no annotate output", "backend", a.backend, "path", path, "exit_code", result.ExitCode)

		return nil
	}

	records := blame.Parse(result.Lines)

	a.store.Put(path, &blame.FileState{Records: records, RepoRoot: repoRoot})

	a.metrics.RecordLoad(spanCtx, a.backend, len(records), time.Since(start))
	a.logger.Debug("blame loaded",
		"backend", a.backend, "path", path, "records", len(records), "exit_code", result.ExitCode)

	return nil
}

// firstLine returns the first stdout line of a lookup command, or "" when
// the command produced no output or failed to run. Lookup failures are
// non-fatal by design: callers treat "" as the not-available sentinel.
func firstLine(ctx context.Context, runner Runner, cmd command) string {
	result, err := runner.Run(ctx, cmd.name, cmd.args...)
	if err != nil || len(result.Lines) == 0 {
		return ""
	}

	return result.Lines[0]
}
