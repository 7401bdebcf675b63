// Package main provides the entry point for the blameline CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blameline/blameline/cmd/blameline/commands"
	"github.com/blameline/blameline/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blameline",
		Short: "Blameline - inline line attribution for git and mercurial",
		Long: `Blameline annotates source lines with the commit responsible for them
and derives shareable web URLs for commits, files, and line ranges.

Commands:
  blame     Attribute a line or range and render it through the template
  url       Print repository, commit, or file web URLs
  mcp       Start the MCP stdio server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&commands.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&commands.Quiet, "quiet", "q", false, "suppress output")

	// Add commands.
	rootCmd.AddCommand(commands.NewBlameCommand())
	rootCmd.AddCommand(commands.NewURLCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "blameline %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
