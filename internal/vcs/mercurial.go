package vcs

import (
	"context"
	"strings"
	"sync"

	"github.com/blameline/blameline/internal/blame"
)

// hgBin is the mercurial executable name.
const hgBin = "hg"

// hgAnnotateTemplate shapes hg annotate output into the same header plus
// metadata grammar the parser reads for git porcelain. Every line becomes a
// one-line range; repeated changesets rely on the parser's cross-record
// metadata reuse. Mercurial has no separate committer, so the author is
// emitted for both roles.
const hgAnnotateTemplate = `{lines % "{node} {lineno} {lineno} 1\n` +
	`author {person(author)}\n` +
	`author-time {date(date, '%s')}\n` +
	`committer {person(author)}\n` +
	`committer-time {date(date, '%s')}\n` +
	`summary {firstline(desc)}\n"}`

// Mercurial is the changeset-based adapter, built on templated hg annotate.
type Mercurial struct {
	annotator

	rootOnce sync.Once
	root     string
}

// NewMercurial creates the mercurial backend adapter.
func NewMercurial(deps Deps) *Mercurial {
	deps = deps.normalize()

	return &Mercurial{annotator: annotator{
		runner:           deps.Runner,
		store:            deps.Store,
		logger:           deps.Logger,
		tracer:           deps.Tracer,
		metrics:          deps.Metrics,
		backend:          BackendMercurial,
		ignoreWhitespace: deps.IgnoreWhitespace,
	}}
}

// Name returns "hg".
func (m *Mercurial) Name() string { return BackendMercurial }

// Store exposes the blame cache.
func (m *Mercurial) Store() *blame.Store { return m.store }

// LoadBlames runs templated hg annotate for path and replaces its cached
// state on completion. Outside a repository this is a silent no-op.
func (m *Mercurial) LoadBlames(ctx context.Context, path string, done func(error)) {
	root, rootErr := m.RepoRoot(ctx)
	if rootErr != nil || root == "" {
		if done != nil {
			done(nil)
		}

		return
	}

	args := []string{"annotate", "-T", hgAnnotateTemplate}
	if m.ignoreWhitespace {
		args = append(args, "-w")
	}

	args = append(args, "--", path)

	m.load(ctx, path, root, command{name: hgBin, args: args}, done)
}

// RepoRoot returns the repository root, cached after the first lookup, or
// "" outside a repository.
func (m *Mercurial) RepoRoot(ctx context.Context) (string, error) {
	m.rootOnce.Do(func() {
		m.root = firstLine(ctx, m.runner, command{
			name: hgBin,
			args: []string{"root"},
		})
	})

	return m.root, nil
}

// RemoteURL returns the "default" path, mercurial's origin equivalent, or
// "" when none is configured.
func (m *Mercurial) RemoteURL(ctx context.Context) (string, error) {
	return firstLine(ctx, m.runner, command{
		name: hgBin,
		args: []string{"paths", "default"},
	}), nil
}

// LatestSHA returns the changeset id of the working directory parent.
func (m *Mercurial) LatestSHA(ctx context.Context) (string, error) {
	return firstLine(ctx, m.runner, command{
		name: hgBin,
		args: []string{"log", "--rev", ".", "--template", "{node}"},
	}), nil
}

// CurrentAuthor returns the configured ui.username, stripped of any email
// part so it compares against parsed author names.
func (m *Mercurial) CurrentAuthor(ctx context.Context) (string, error) {
	username := firstLine(ctx, m.runner, command{
		name: hgBin,
		args: []string{"config", "ui.username"},
	})

	if idx := strings.Index(username, " <"); idx >= 0 {
		username = username[:idx]
	}

	return strings.TrimSpace(username), nil
}

// IsIgnored reports whether path is ignored. hg status -i lists ignored
// files prefixed with "I ".
func (m *Mercurial) IsIgnored(ctx context.Context, path string) bool {
	result, runErr := m.runner.Run(ctx, hgBin, "status", "-i", "--", path)
	if runErr != nil {
		return false
	}

	for _, line := range result.Lines {
		if strings.HasPrefix(line, "I ") {
			return true
		}
	}

	return false
}
