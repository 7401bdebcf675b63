package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blameline/blameline/internal/blame"
	"github.com/blameline/blameline/internal/vcs"
)

// ErrNoFile is returned when a tool call omits the file path.
var ErrNoFile = errors.New("file is required")

// ErrBadRange is returned when the requested line range is inverted or
// not positive.
var ErrBadRange = errors.New("line range must be positive and ordered")

// BlameInput is the payload of the blameline_blame tool.
type BlameInput struct {
	File    string `json:"file" jsonschema:"path of the file to annotate"`
	Line    int    `json:"line" jsonschema:"1-based line to attribute"`
	EndLine int    `json:"end_line,omitempty" jsonschema:"optional inclusive range end; the most recently authored record in the range wins"`
}

// handleBlame processes blameline_blame tool calls.
func (s *Server) handleBlame(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input BlameInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.File == "" {
		return errorResult(ErrNoFile)
	}

	if input.Line < 1 || (input.EndLine != 0 && input.EndLine < input.Line) {
		return errorResult(ErrBadRange)
	}

	path, absErr := filepath.Abs(input.File)
	if absErr != nil {
		return errorResult(fmt.Errorf("resolve path: %w", absErr))
	}

	loadErr := vcs.LoadAndWait(ctx, s.deps.Backend, path)
	if loadErr != nil {
		return errorResult(fmt.Errorf("load blame: %w", loadErr))
	}

	rec := s.resolve(path, input)

	// A nil record for a file outside any repository, or one ignored by
	// version control, renders nothing rather than a fake attribution.
	suppress := false

	if rec == nil {
		root, _ := s.deps.Backend.RepoRoot(ctx)
		suppress = root == "" || s.deps.Backend.IsIgnored(ctx, path)
	}

	text := s.deps.Formatter.Render(rec, suppress)

	out := ToolOutput{"text": text}
	if rec != nil {
		out["record"] = rec
	}

	return jsonResult(out)
}

// resolve picks the record for a single line or a range.
func (s *Server) resolve(path string, input BlameInput) *blame.Record {
	store := s.deps.Backend.Store()

	if input.EndLine > input.Line {
		return store.ResolveRange(path, input.Line, input.EndLine)
	}

	return store.Resolve(path, input.Line)
}
