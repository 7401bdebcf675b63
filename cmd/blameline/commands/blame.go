package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blameline/blameline/internal/blame"
	"github.com/blameline/blameline/internal/observability"
)

const (
	blameCmdUse      = "blame <file>"
	blameCmdShort    = "Attribute a line or range and render it through the template"
	blameArgCount    = 1
	blameLineFlag    = "line"
	blameLineUsage   = "1-based line to attribute"
	blameRangeFlag   = "range"
	blameRangeUsage  = "inclusive line range A:B; the most recently authored record wins"
	blameAllFlag     = "all"
	blameAllUsage    = "list every attribution record of the file"
	blameOutputFlag  = "output"
	blameOutputUsage = "output format: text, table, or yaml"
	blameNoColorFlag = "no-color"
	blameNoColorUse  = "disable colored output"
	blameTplFlag     = "template"
	blameTplUsage    = "placeholder template overriding the configured one"
	configFlag       = "config"
	configFlagUsage  = "explicit config file path"

	outputText  = "text"
	outputTable = "table"
	outputYAML  = "yaml"

	rangeSep       = ":"
	rangePartCount = 2
)

// ErrBadRange is returned for a malformed or inverted --range value.
var ErrBadRange = errors.New("range must be A:B with 1 <= A <= B")

// ErrBadOutput is returned for an unknown --output value.
var ErrBadOutput = errors.New("output must be text, table, or yaml")

// blameOptions collect the blame command's flag values.
type blameOptions struct {
	configPath string
	line       int
	lineRange  string
	all        bool
	output     string
	noColor    bool
	template   string
}

// NewBlameCommand creates the blame subcommand.
func NewBlameCommand() *cobra.Command {
	opts := &blameOptions{}

	cmd := &cobra.Command{
		Use:   blameCmdUse,
		Short: blameCmdShort,
		Args:  cobra.ExactArgs(blameArgCount),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBlame(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, configFlag, "", configFlagUsage)
	cmd.Flags().IntVar(&opts.line, blameLineFlag, 1, blameLineUsage)
	cmd.Flags().StringVar(&opts.lineRange, blameRangeFlag, "", blameRangeUsage)
	cmd.Flags().BoolVar(&opts.all, blameAllFlag, false, blameAllUsage)
	cmd.Flags().StringVar(&opts.output, blameOutputFlag, outputText, blameOutputUsage)
	cmd.Flags().BoolVar(&opts.noColor, blameNoColorFlag, false, blameNoColorUse)
	cmd.Flags().StringVar(&opts.template, blameTplFlag, "", blameTplUsage)

	return cmd
}

func runBlame(file string, opts *blameOptions) error {
	line1, line2, rangeErr := parseRange(opts)
	if rangeErr != nil {
		return rangeErr
	}

	deps, depsErr := initDeps(opts.configPath, observability.ModeCLI)
	if depsErr != nil {
		return depsErr
	}

	defer deps.shutdown()

	deps.overrideTemplate(opts.template)

	path, absErr := filepath.Abs(file)
	if absErr != nil {
		return fmt.Errorf("resolve path: %w", absErr)
	}

	loadErr := deps.waitLoaded(path)
	if loadErr != nil {
		return loadErr
	}

	if opts.all {
		return printAllRecords(deps, path, opts.output)
	}

	return printResolved(deps, path, line1, line2, opts)
}

// parseRange resolves the --line/--range flags into a line pair. line2 is
// zero for single-line queries.
func parseRange(opts *blameOptions) (line1, line2 int, err error) {
	if opts.lineRange == "" {
		if opts.line < 1 {
			return 0, 0, ErrBadRange
		}

		return opts.line, 0, nil
	}

	parts := strings.SplitN(opts.lineRange, rangeSep, rangePartCount)
	if len(parts) != rangePartCount {
		return 0, 0, ErrBadRange
	}

	line1, err1 := strconv.Atoi(parts[0])
	line2, err2 := strconv.Atoi(parts[1])

	if err1 != nil || err2 != nil || line1 < 1 || line2 < line1 {
		return 0, 0, ErrBadRange
	}

	return line1, line2, nil
}

func printResolved(deps *appDeps, path string, line1, line2 int, opts *blameOptions) error {
	text := resolveText(deps, path, line1, line2)
	if text == "" {
		return nil
	}

	if opts.noColor {
		fmt.Fprintln(os.Stdout, text)

		return nil
	}

	// Inline attributions render faint, the way editors show virtual text.
	faint := color.New(color.Faint)
	_, printErr := faint.Fprintln(os.Stdout, text)

	return printErr
}

// resolveText resolves the line or range and renders it. The empty string
// means nothing should be shown: a file outside any repository gets no
// attribution at all, and ignored unloaded files are suppressed the same way.
func resolveText(deps *appDeps, path string, line1, line2 int) string {
	store := deps.backend.Store()

	var rec *blame.Record
	if line2 > 0 {
		rec = store.ResolveRange(path, line1, line2)
	} else {
		rec = store.Resolve(path, line1)
	}

	suppress := false

	if rec == nil {
		ctx, cancel := deps.commandContext()
		defer cancel()

		root, _ := deps.backend.RepoRoot(ctx)
		suppress = root == "" || deps.backend.IsIgnored(ctx, path)
	}

	return deps.formatter.Render(rec, suppress)
}

func printAllRecords(deps *appDeps, path, output string) error {
	state, ok := deps.backend.Store().Get(path)
	if !ok {
		return nil
	}

	switch output {
	case outputYAML:
		return yaml.NewEncoder(os.Stdout).Encode(state.Records)
	case outputTable, outputText:
		printRecordTable(state.Records)

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrBadOutput, output)
	}
}

func printRecordTable(records []blame.Record) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"Lines", "SHA", "Author", "Summary"})

	for i := range records {
		rec := &records[i]
		tbl.AppendRow(table.Row{
			fmt.Sprintf("%d-%d", rec.StartLine, rec.EndLine),
			rec.ShortSHA(),
			rec.Author,
			rec.Summary,
		})
	}

	tbl.Render()
}
