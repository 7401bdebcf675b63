package vcs

import (
	"context"
	"strings"
	"sync"

	"github.com/blameline/blameline/internal/blame"
)

// gitBin is the git executable name.
const gitBin = "git"

// Git is the git adapter. Blame acquisition uses the porcelain format,
// which the parser consumes natively.
type Git struct {
	annotator

	rootOnce sync.Once
	root     string
}

// NewGit creates the git backend adapter.
func NewGit(deps Deps) *Git {
	deps = deps.normalize()

	return &Git{annotator: annotator{
		runner:           deps.Runner,
		store:            deps.Store,
		logger:           deps.Logger,
		tracer:           deps.Tracer,
		metrics:          deps.Metrics,
		backend:          BackendGit,
		ignoreWhitespace: deps.IgnoreWhitespace,
	}}
}

// Name returns "git".
func (g *Git) Name() string { return BackendGit }

// Store exposes the blame cache.
func (g *Git) Store() *blame.Store { return g.store }

// LoadBlames runs git blame --porcelain for path and replaces its cached
// state on completion. Outside a repository this is a silent no-op.
func (g *Git) LoadBlames(ctx context.Context, path string, done func(error)) {
	root, rootErr := g.RepoRoot(ctx)
	if rootErr != nil || root == "" {
		if done != nil {
			done(nil)
		}

		return
	}

	args := []string{"blame", "--porcelain"}
	if g.ignoreWhitespace {
		args = append(args, "-w")
	}

	args = append(args, "--", path)

	g.load(ctx, path, root, command{name: gitBin, args: args}, done)
}

// RepoRoot returns the worktree root, cached after the first lookup, or ""
// outside a repository.
func (g *Git) RepoRoot(ctx context.Context) (string, error) {
	g.rootOnce.Do(func() {
		g.root = firstLine(ctx, g.runner, command{
			name: gitBin,
			args: []string{"rev-parse", "--show-toplevel"},
		})
	})

	return g.root, nil
}

// RemoteURL returns the url of the remote named "origin", or "" when no
// such remote exists.
func (g *Git) RemoteURL(ctx context.Context) (string, error) {
	result, runErr := g.runner.Run(ctx, gitBin, "remote", "-v")
	if runErr != nil {
		return "", nil
	}

	for _, line := range result.Lines {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "origin" {
			return fields[1], nil
		}
	}

	return "", nil
}

// LatestSHA returns the sha of HEAD.
func (g *Git) LatestSHA(ctx context.Context) (string, error) {
	return firstLine(ctx, g.runner, command{
		name: gitBin,
		args: []string{"rev-parse", "HEAD"},
	}), nil
}

// CurrentAuthor returns the configured user.name.
func (g *Git) CurrentAuthor(ctx context.Context) (string, error) {
	return firstLine(ctx, g.runner, command{
		name: gitBin,
		args: []string{"config", "--get", "user.name"},
	}), nil
}

// IsIgnored reports whether path matches a gitignore rule. git check-ignore
// exits 0 and echoes the path when ignored.
func (g *Git) IsIgnored(ctx context.Context, path string) bool {
	result, runErr := g.runner.Run(ctx, gitBin, "check-ignore", "--", path)
	if runErr != nil {
		return false
	}

	return result.ExitCode == 0 && len(result.Lines) > 0
}
