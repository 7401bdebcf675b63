package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blameline/blameline/internal/observability"
	"github.com/blameline/blameline/internal/urls"
)

const (
	urlCmdUse        = "url"
	urlCmdShort      = "Print repository, commit, or file web URLs"
	urlRefFlag       = "ref"
	urlRefUsage      = "branch or sha for file URLs (defaults to the latest commit)"
	urlRangeFlag     = "range"
	urlRangeUsage    = "line or line range, N or A:B"
	urlFileCmdUse    = "file <file>"
	urlFileCmdShort  = "Print the shareable URL of a file, optionally narrowed to lines"
	urlCommitCmdUse  = "commit [sha]"
	urlCommitShort   = "Print the web URL of a commit (defaults to the latest)"
	urlRepoCmdUse    = "repo"
	urlRepoCmdShort  = "Print the canonical repository URL"
	urlSubArgCount   = 1
	urlCommitMaxArgs = 1
)

// ErrNoRemote is returned when the repository has no configured remote.
var ErrNoRemote = errors.New("no remote configured")

// ErrNotInRepo is returned when the target file is outside any repository.
var ErrNotInRepo = errors.New("not inside a repository")

// ErrNoCommit is returned when the repository has no commit to resolve.
var ErrNoCommit = errors.New("no commit found")

// NewURLCommand creates the url subcommand tree.
func NewURLCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   urlCmdUse,
		Short: urlCmdShort,
	}

	cmd.PersistentFlags().StringVar(&configPath, configFlag, "", configFlagUsage)

	cmd.AddCommand(newURLFileCommand(&configPath))
	cmd.AddCommand(newURLCommitCommand(&configPath))
	cmd.AddCommand(newURLRepoCommand(&configPath))

	return cmd
}

func newURLFileCommand(configPath *string) *cobra.Command {
	var (
		ref       string
		lineRange string
	)

	cmd := &cobra.Command{
		Use:   urlFileCmdUse,
		Short: urlFileCmdShort,
		Args:  cobra.ExactArgs(urlSubArgCount),
		RunE: func(_ *cobra.Command, args []string) error {
			return runURLFile(*configPath, args[0], ref, lineRange)
		},
	}

	cmd.Flags().StringVar(&ref, urlRefFlag, "", urlRefUsage)
	cmd.Flags().StringVar(&lineRange, urlRangeFlag, "", urlRangeUsage)

	return cmd
}

func newURLCommitCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   urlCommitCmdUse,
		Short: urlCommitShort,
		Args:  cobra.MaximumNArgs(urlCommitMaxArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			sha := ""
			if len(args) > 0 {
				sha = args[0]
			}

			return runURLCommit(*configPath, sha)
		},
	}
}

func newURLRepoCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   urlRepoCmdUse,
		Short: urlRepoCmdShort,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runURLRepo(*configPath)
		},
	}
}

func runURLRepo(configPath string) error {
	_, remote, cleanup, err := depsWithRemote(configPath)
	if err != nil {
		return err
	}

	defer cleanup()

	fmt.Fprintln(os.Stdout, urls.Canonicalize(remote))

	return nil
}

func runURLCommit(configPath, sha string) error {
	deps, remote, cleanup, err := depsWithRemote(configPath)
	if err != nil {
		return err
	}

	defer cleanup()

	if sha == "" {
		ctx, cancel := deps.commandContext()
		defer cancel()

		latest, latestErr := deps.backend.LatestSHA(ctx)
		if latestErr != nil {
			return fmt.Errorf("resolve latest commit: %w", latestErr)
		}

		if latest == "" {
			return ErrNoCommit
		}

		sha = latest
	}

	fmt.Fprintln(os.Stdout, urls.CommitURL(remote, sha))

	return nil
}

func runURLFile(configPath, file, ref, lineRange string) error {
	line1, line2, rangeErr := parseURLRange(lineRange)
	if rangeErr != nil {
		return rangeErr
	}

	deps, remote, cleanup, err := depsWithRemote(configPath)
	if err != nil {
		return err
	}

	defer cleanup()

	ctx, cancel := deps.commandContext()
	defer cancel()

	relPath, relErr := relToRoot(ctx, deps, file)
	if relErr != nil {
		return relErr
	}

	if ref == "" {
		latest, latestErr := deps.backend.LatestSHA(ctx)
		if latestErr != nil {
			return fmt.Errorf("resolve latest commit: %w", latestErr)
		}

		if latest == "" {
			return ErrNoCommit
		}

		ref = latest
	}

	fmt.Fprintln(os.Stdout, urls.FileURL(remote, ref, relPath, line1, line2))

	return nil
}

// parseURLRange accepts "", "N", or "A:B".
func parseURLRange(lineRange string) (line1, line2 int, err error) {
	if lineRange == "" {
		return 0, 0, nil
	}

	if !strings.Contains(lineRange, rangeSep) {
		line, lineErr := strconv.Atoi(lineRange)
		if lineErr != nil || line < 1 {
			return 0, 0, ErrBadRange
		}

		return line, 0, nil
	}

	return parseRange(&blameOptions{lineRange: lineRange})
}

// depsWithRemote wires deps and resolves the origin remote.
func depsWithRemote(configPath string) (*appDeps, string, func(), error) {
	deps, depsErr := initDeps(configPath, observability.ModeCLI)
	if depsErr != nil {
		return nil, "", nil, depsErr
	}

	ctx, cancel := deps.commandContext()
	defer cancel()

	remote, remoteErr := deps.backend.RemoteURL(ctx)
	if remoteErr != nil || remote == "" {
		deps.shutdown()

		return nil, "", nil, ErrNoRemote
	}

	return deps, remote, deps.shutdown, nil
}

// relToRoot converts file into its repository-relative slash form.
func relToRoot(ctx context.Context, deps *appDeps, file string) (string, error) {
	root, rootErr := deps.backend.RepoRoot(ctx)
	if rootErr != nil || root == "" {
		return "", ErrNotInRepo
	}

	abs, absErr := filepath.Abs(file)
	if absErr != nil {
		return "", fmt.Errorf("resolve path: %w", absErr)
	}

	rel, relErr := filepath.Rel(root, abs)
	if relErr != nil {
		return "", fmt.Errorf("relativize path: %w", relErr)
	}

	return filepath.ToSlash(rel), nil
}
