package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blameline/blameline/internal/blame"
)

const (
	testSHA    = "aaaa111122223333444455556666777788889999"
	testAuthor = "Alice"
)

// fixedNow pins the formatter clock three days after the test commit time.
var fixedNow = time.Unix(1700000000, 0).Add(72 * time.Hour)

func newTestFormatter(opts Options) *Formatter {
	f := New(opts)
	f.now = func() time.Time { return fixedNow }

	return f
}

func committedRecord() *blame.Record {
	return &blame.Record{
		StartLine:     1,
		EndLine:       3,
		CommitID:      testSHA,
		Author:        testAuthor,
		AuthorTime:    1700000000,
		Committer:     "Bob",
		CommitterTime: 1700000100,
		Summary:       "Add the thing",
	}
}

func TestRender_CommittedRecord(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<author> / <committer> / <summary> / <sha>",
		DateFormat: "2006-01-02",
	})

	got := f.Render(committedRecord(), false)
	assert.Equal(t, "Alice / Bob / Add the thing / aaaa111", got)
}

func TestRender_CurrentAuthorBecomesYou(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:      "<author>, <summary>",
		DateFormat:    "2006-01-02",
		CurrentAuthor: testAuthor,
	})

	got := f.Render(committedRecord(), false)
	assert.Equal(t, "You, Add the thing", got)
}

func TestRender_UncommittedSynthesis(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<author> • <summary> • <sha>",
		DateFormat: "2006-01-02",
	})

	rec := &blame.Record{
		StartLine: 1,
		EndLine:   1,
		CommitID:  blame.UncommittedID,
	}

	got := f.Render(rec, false)
	assert.Equal(t, "You • Not committed yet • ", got)
}

func TestRender_SentinelAuthorTreatedAsUncommitted(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<author>: <summary>",
		DateFormat: "2006-01-02",
	})

	rec := committedRecord()
	rec.Author = "Not Committed Yet"

	got := f.Render(rec, false)
	assert.Equal(t, "You: Not committed yet", got)
}

func TestRender_NilRecord(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<author> <summary>",
		DateFormat: "2006-01-02",
	})

	// Not loaded and ignored by version control: suppressed entirely.
	assert.Empty(t, f.Render(nil, true))

	// Not loaded but not ignored: synthesized uncommitted record.
	assert.Equal(t, "You Not committed yet", f.Render(nil, false))
}

func TestRender_EmptySummary(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<summary>",
		DateFormat: "2006-01-02",
	})

	rec := committedRecord()
	rec.Summary = ""

	assert.Equal(t, "(empty)", f.Render(rec, false))
}

func TestRender_SummaryTruncation(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:         "<summary>",
		DateFormat:       "2006-01-02",
		MaxSummaryLength: 5,
	})

	rec := committedRecord()
	rec.Summary = strings.Repeat("x", 20)

	got := f.Render(rec, false)
	assert.Len(t, got, 5)
}

func TestRender_SummaryWithPlaceholderIsNotReinterpreted(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<summary> | <author>",
		DateFormat: "2006-01-02",
	})

	rec := committedRecord()
	rec.Summary = "mention <author> and 100%r literally"

	got := f.Render(rec, false)
	assert.Equal(t, "mention <author> and 100%r literally | Alice", got)
}

func TestRender_AbsoluteDates(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<date> / <committer-date>",
		DateFormat: "2006-01-02 15:04",
	})

	rec := committedRecord()
	authorDate := time.Unix(rec.AuthorTime, 0).Format("2006-01-02 15:04")
	committerDate := time.Unix(rec.CommitterTime, 0).Format("2006-01-02 15:04")

	assert.Equal(t, authorDate+" / "+committerDate, f.Render(rec, false))
}

func TestRender_RelativeDate(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<date>",
		DateFormat: "%r",
	})

	assert.Equal(t, "3 days ago", f.Render(committedRecord(), false))
}

func TestRender_RelativeEscapeInsideLayout(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{
		Template:   "<date>",
		DateFormat: "2006-01-02 (%r)",
	})

	day := time.Unix(1700000000, 0).Format("2006-01-02")
	assert.Equal(t, day+" (3 days ago)", f.Render(committedRecord(), false))
}

func TestTruncate_Unlimited(t *testing.T) {
	t.Parallel()

	f := newTestFormatter(Options{Template: "<summary>", DateFormat: "%r"})

	long := strings.Repeat("y", 300)
	rec := committedRecord()
	rec.Summary = long

	assert.Equal(t, long, f.Render(rec, false))
}
