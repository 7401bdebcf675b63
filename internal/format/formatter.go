// Package format renders a resolved attribution record into user-facing
// text through a placeholder template.
package format

import (
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/blameline/blameline/internal/blame"
)

// Template placeholders. Exact literal tokens, case-sensitive, substituted
// once each; substituted values are never re-scanned.
const (
	PlaceholderAuthor        = "<author>"
	PlaceholderCommitter     = "<committer>"
	PlaceholderDate          = "<date>"
	PlaceholderCommitterDate = "<committer-date>"
	PlaceholderSummary       = "<summary>"
	PlaceholderSHA           = "<sha>"
)

// relativeEscape inside the date format is replaced by a relative-time
// phrase ("3 days ago").
const relativeEscape = "%r"

const (
	// selfName replaces the author or committer when they match the
	// current local identity.
	selfName = "You"

	// uncommittedSummary is the summary synthesized for working-copy
	// lines.
	uncommittedSummary = "Not committed yet"

	// emptySummary renders a commit whose message first line is empty.
	emptySummary = "(empty)"
)

// sentinelAuthors are author names backends emit for lines that belong to
// no real commit. A record carrying one is treated as uncommitted.
var sentinelAuthors = map[string]struct{}{
	"Not Committed Yet":          {},
	"External file (--contents)": {},
}

// Options configure a Formatter. They are immutable after startup.
type Options struct {
	// Template is the placeholder template, e.g. "<author> • <summary>".
	Template string

	// DateFormat is a Go time layout, plus the %r escape for a relative
	// phrase.
	DateFormat string

	// MaxSummaryLength truncates <summary> to this many runes; 0 means
	// unlimited.
	MaxSummaryLength int

	// CurrentAuthor is the local identity, rendered as "You".
	CurrentAuthor string
}

// Formatter renders records. Safe for concurrent use.
type Formatter struct {
	opts Options

	relativeOnce sync.Once
	relative     bool

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

// New creates a Formatter.
func New(opts Options) *Formatter {
	return &Formatter{opts: opts, now: time.Now}
}

// Render formats rec through the template. A nil rec stands for a file with
// no loaded records at all: output is suppressed when the file is ignored
// by version control, otherwise an uncommitted record is synthesized.
func (f *Formatter) Render(rec *blame.Record, ignored bool) string {
	if rec == nil {
		if ignored {
			return ""
		}

		rec = &blame.Record{}
	}

	author, committer, summary := f.identity(rec)

	authorTime, committerTime := rec.AuthorTime, rec.CommitterTime
	if authorTime == 0 {
		authorTime = f.now().Unix()
	}

	if committerTime == 0 {
		committerTime = f.now().Unix()
	}

	replacer := strings.NewReplacer(
		PlaceholderAuthor, author,
		PlaceholderCommitter, committer,
		PlaceholderDate, f.formatDate(authorTime),
		PlaceholderCommitterDate, f.formatDate(committerTime),
		PlaceholderSummary, f.truncate(summary),
		PlaceholderSHA, rec.ShortSHA(),
	)

	return replacer.Replace(f.opts.Template)
}

// identity resolves the displayed author, committer, and summary, applying
// the uncommitted synthesis and the "You" substitution.
func (f *Formatter) identity(rec *blame.Record) (author, committer, summary string) {
	if !f.committed(rec) {
		return selfName, selfName, uncommittedSummary
	}

	author, committer = rec.Author, rec.Committer
	if author == f.opts.CurrentAuthor {
		author = selfName
	}

	if committer == f.opts.CurrentAuthor {
		committer = selfName
	}

	summary = rec.Summary
	if summary == "" {
		summary = emptySummary
	}

	return author, committer, summary
}

// committed reports whether rec carries a full committed identity.
func (f *Formatter) committed(rec *blame.Record) bool {
	if rec.Uncommitted() {
		return false
	}

	if _, sentinel := sentinelAuthors[rec.Author]; sentinel {
		return false
	}

	return rec.Author != "" && rec.Committer != "" && rec.AuthorTime != 0 && rec.CommitterTime != 0
}

// formatDate renders ts through the configured date format. The %r escape
// is substituted after the layout pass so the phrase's own characters are
// never reinterpreted as layout tokens.
func (f *Formatter) formatDate(ts int64) string {
	t := time.Unix(ts, 0)
	out := t.Format(f.opts.DateFormat)

	if f.isRelative() {
		out = strings.ReplaceAll(out, relativeEscape, humanize.RelTime(t, f.now(), "ago", "from now"))
	}

	return out
}

// isRelative reports whether the date format contains the %r escape. The
// format is immutable after startup, so this is decided once per process.
func (f *Formatter) isRelative() bool {
	f.relativeOnce.Do(func() {
		f.relative = strings.Contains(f.opts.DateFormat, relativeEscape)
	})

	return f.relative
}

// truncate cuts summary to the configured rune count. The bound is exact:
// no ellipsis marker is appended.
func (f *Formatter) truncate(summary string) string {
	maxLen := f.opts.MaxSummaryLength
	if maxLen <= 0 {
		return summary
	}

	runes := []rune(summary)
	if len(runes) <= maxLen {
		return summary
	}

	return string(runes[:maxLen])
}
