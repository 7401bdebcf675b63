// Package mcp exposes blameline's blame and URL queries as Model Context
// Protocol tools over a stdio transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blameline/blameline/internal/format"
	"github.com/blameline/blameline/internal/vcs"
	"github.com/blameline/blameline/pkg/version"
)

// Tool names exposed by the server.
const (
	toolBlame = "blameline_blame"
	toolURL   = "blameline_url"
)

const serverName = "blameline"

// ServerDeps are the collaborators the MCP server needs.
type ServerDeps struct {
	Logger    *slog.Logger
	Backend   vcs.Backend
	Formatter *format.Formatter
}

// Server is the blameline MCP server.
type Server struct {
	deps      ServerDeps
	sdkServer *mcpsdk.Server
	toolNames []string
}

// NewServer creates the server and registers its tools.
func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	sdkServer := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    serverName,
		Version: version.Version,
	}, nil)

	srv := &Server{deps: deps, sdkServer: sdkServer}

	mcpsdk.AddTool(sdkServer, &mcpsdk.Tool{
		Name:        toolBlame,
		Description: "Attribute a file line or line range to its commit (author, date, summary, sha) and render it through the configured template.",
	}, srv.handleBlame)
	srv.toolNames = append(srv.toolNames, toolBlame)

	mcpsdk.AddTool(sdkServer, &mcpsdk.Tool{
		Name:        toolURL,
		Description: "Derive shareable web URLs for the repository, a commit, or a file line range from the configured remote.",
	}, srv.handleURL)
	srv.toolNames = append(srv.toolNames, toolURL)

	return srv
}

// ListToolNames returns the registered tool names.
func (s *Server) ListToolNames() []string {
	names := make([]string, len(s.toolNames))
	copy(names, s.toolNames)

	return names
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.deps.Logger.Info("mcp server starting", "tools", s.toolNames)

	runErr := s.sdkServer.Run(ctx, &mcpsdk.StdioTransport{})
	if runErr != nil {
		return fmt.Errorf("mcp server: %w", runErr)
	}

	return nil
}

// ToolOutput is the structured payload returned alongside tool text.
type ToolOutput map[string]any

// jsonResult renders payload as a JSON text content block.
func jsonResult(payload any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, marshalErr := json.MarshalIndent(payload, "", "  ")
	if marshalErr != nil {
		return errorResult(fmt.Errorf("marshal result: %w", marshalErr))
	}

	out, _ := payload.(ToolOutput)

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, out, nil
}

// errorResult reports a tool-level failure without failing the protocol call.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, nil, nil
}
