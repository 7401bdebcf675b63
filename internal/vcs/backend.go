package vcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/blameline/blameline/internal/blame"
)

// Backend names accepted by config and Select.
const (
	// BackendGit selects the git adapter.
	BackendGit = "git"
	// BackendMercurial selects the mercurial adapter.
	BackendMercurial = "hg"
)

// ErrUnknownBackend is returned when the configured backend name matches no
// adapter.
var ErrUnknownBackend = errors.New("unknown vcs backend")

// Backend is the capability set implemented once per VCS. All lookups are
// best-effort: an empty string from RepoRoot means "not in a repository"
// and is a sentinel, not an error.
type Backend interface {
	// Name returns the backend identifier ("git", "hg").
	Name() string

	// LoadBlames annotates path asynchronously and replaces the file's
	// cached state on completion, then invokes done. It is a silent no-op
	// when the file is untracked, outside a repository, or already
	// loading; done is still invoked (with a nil error) in those cases
	// unless a load is already in flight.
	LoadBlames(ctx context.Context, path string, done func(error))

	// RepoRoot returns the repository root, or "" when path is not inside
	// a repository.
	RepoRoot(ctx context.Context) (string, error)

	// RemoteURL returns the first remote named "origin" (or the backend's
	// equivalent), or "" when none is configured.
	RemoteURL(ctx context.Context) (string, error)

	// LatestSHA returns the identifier of the most recent commit on the
	// current line of history.
	LatestSHA(ctx context.Context) (string, error)

	// CurrentAuthor returns the local user identity configured for the
	// backend.
	CurrentAuthor(ctx context.Context) (string, error)

	// IsIgnored reports whether path is ignored by version control.
	IsIgnored(ctx context.Context, path string) bool

	// Store exposes the backend's blame cache for line/range resolution.
	Store() *blame.Store
}

// Deps are the collaborators shared by every backend adapter.
type Deps struct {
	Runner  Runner
	Store   *blame.Store
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *Metrics

	// IgnoreWhitespace asks the backend to skip whitespace-only changes
	// when attributing lines, where the backend supports it.
	IgnoreWhitespace bool
}

// normalize fills optional collaborators so adapters never nil-check.
func (d Deps) normalize() Deps {
	if d.Store == nil {
		d.Store = blame.NewStore()
	}

	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	if d.Tracer == nil {
		d.Tracer = nooptrace.NewTracerProvider().Tracer("vcs")
	}

	return d
}

// Select returns the adapter for the configured backend name. The choice is
// static for the process lifetime; switching backends requires dropping the
// store and building a new adapter.
func Select(name string, deps Deps) (Backend, error) {
	switch name {
	case BackendGit:
		return NewGit(deps), nil
	case BackendMercurial:
		return NewMercurial(deps), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}
