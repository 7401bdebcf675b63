package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blameline/blameline/internal/urls"
)

// URL kinds accepted by the blameline_url tool.
const (
	urlKindRepo   = "repo"
	urlKindCommit = "commit"
	urlKindFile   = "file"
)

// ErrNoRemote is returned when the repository has no configured remote.
var ErrNoRemote = errors.New("no remote configured")

// ErrUnknownURLKind is returned for an unrecognized url kind.
var ErrUnknownURLKind = errors.New("kind must be repo, commit, or file")

// ErrNotInRepo is returned when the target file is outside any repository.
var ErrNotInRepo = errors.New("not inside a repository")

// ErrNoCommit is returned when the repository has no commit to resolve.
var ErrNoCommit = errors.New("no commit found")

// URLInput is the payload of the blameline_url tool.
type URLInput struct {
	Kind    string `json:"kind" jsonschema:"repo, commit, or file"`
	SHA     string `json:"sha,omitempty" jsonschema:"commit id for kind=commit; defaults to the latest commit"`
	File    string `json:"file,omitempty" jsonschema:"file path for kind=file"`
	Ref     string `json:"ref,omitempty" jsonschema:"branch or sha for kind=file; defaults to the latest commit"`
	Line    int    `json:"line,omitempty" jsonschema:"optional 1-based start line for kind=file"`
	EndLine int    `json:"end_line,omitempty" jsonschema:"optional inclusive end line for kind=file"`
}

// handleURL processes blameline_url tool calls.
func (s *Server) handleURL(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input URLInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	remote, remoteErr := s.deps.Backend.RemoteURL(ctx)
	if remoteErr != nil || remote == "" {
		return errorResult(ErrNoRemote)
	}

	switch input.Kind {
	case urlKindRepo:
		return jsonResult(ToolOutput{"url": urls.Canonicalize(remote)})
	case urlKindCommit:
		return s.commitURL(ctx, remote, input)
	case urlKindFile:
		return s.fileURL(ctx, remote, input)
	default:
		return errorResult(fmt.Errorf("%w: %q", ErrUnknownURLKind, input.Kind))
	}
}

func (s *Server) commitURL(
	ctx context.Context, remote string, input URLInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	sha := input.SHA
	if sha == "" {
		latest, latestErr := s.deps.Backend.LatestSHA(ctx)
		if latestErr != nil {
			return errorResult(fmt.Errorf("resolve latest commit: %w", latestErr))
		}

		if latest == "" {
			return errorResult(ErrNoCommit)
		}

		sha = latest
	}

	return jsonResult(ToolOutput{"url": urls.CommitURL(remote, sha)})
}

func (s *Server) fileURL(
	ctx context.Context, remote string, input URLInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.File == "" {
		return errorResult(ErrNoFile)
	}

	relPath, relErr := s.relToRoot(ctx, input.File)
	if relErr != nil {
		return errorResult(relErr)
	}

	ref := input.Ref
	if ref == "" {
		latest, latestErr := s.deps.Backend.LatestSHA(ctx)
		if latestErr != nil {
			return errorResult(fmt.Errorf("resolve latest commit: %w", latestErr))
		}

		if latest == "" {
			return errorResult(ErrNoCommit)
		}

		ref = latest
	}

	url := urls.FileURL(remote, ref, relPath, input.Line, input.EndLine)

	return jsonResult(ToolOutput{"url": url})
}

// relToRoot converts path into its repository-relative form.
func (s *Server) relToRoot(ctx context.Context, path string) (string, error) {
	root, rootErr := s.deps.Backend.RepoRoot(ctx)
	if rootErr != nil || root == "" {
		return "", ErrNotInRepo
	}

	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		return "", fmt.Errorf("resolve path: %w", absErr)
	}

	rel, relErr := filepath.Rel(root, abs)
	if relErr != nil {
		return "", fmt.Errorf("relativize path: %w", relErr)
	}

	return filepath.ToSlash(rel), nil
}
