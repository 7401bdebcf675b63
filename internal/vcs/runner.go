// Package vcs implements the version-control backends: the external command
// seam, the per-VCS capability set, and the shared annotate loader that
// feeds parsed blame records into the store.
package vcs

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Result is the outcome of one external command invocation: the stdout
// lines and the process exit code. Stderr is never inspected.
type Result struct {
	Lines    []string
	ExitCode int
}

// Runner executes an external command and delivers its stdout lines and
// exit code. A non-zero exit code is not an error; err is reserved for
// failures to run the command at all.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands through os/exec in a fixed working directory.
type ExecRunner struct {
	// Dir is the working directory for every invocation. Empty means the
	// process working directory.
	Dir string
}

// Run executes name with args and collects stdout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	out, runErr := cmd.Output()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return Result{}, runErr
		}

		return Result{Lines: splitLines(string(out)), ExitCode: exitErr.ExitCode()}, nil
	}

	return Result{Lines: splitLines(string(out))}, nil
}

// splitLines splits raw command output into lines, dropping the trailing
// empty line a final newline produces.
func splitLines(out string) []string {
	if out == "" {
		return nil
	}

	lines := strings.Split(out, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
