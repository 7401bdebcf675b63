package commands

import (
	"github.com/spf13/cobra"

	"github.com/blameline/blameline/internal/mcp"
	"github.com/blameline/blameline/internal/observability"
)

const (
	mcpCmdUse   = "mcp"
	mcpCmdShort = "Start MCP server for AI agent integration"
	mcpCmdLong  = `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes blame queries as tools that AI agents can discover
and invoke:
  - blameline_blame: attribute a file line or range to its commit
  - blameline_url: derive shareable repo/commit/file web URLs`

	mcpDebugFlag  = "debug"
	mcpDebugUsage = "enable debug logging"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:           mcpCmdUse,
		Short:         mcpCmdShort,
		Long:          mcpCmdLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if debug {
				Verbose = true
			}

			deps, depsErr := initDeps(configPath, observability.ModeMCP)
			if depsErr != nil {
				return depsErr
			}

			defer deps.shutdown()

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:    deps.providers.Logger,
				Backend:   deps.backend,
				Formatter: deps.formatter,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, configFlag, "", configFlagUsage)
	cmd.Flags().BoolVar(&debug, mcpDebugFlag, false, mcpDebugUsage)

	return cmd
}
