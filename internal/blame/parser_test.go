package blame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blameline/blameline/internal/blame"
)

const (
	shaAlpha = "aaaa111122223333444455556666777788889999"
	shaBeta  = "bbbb111122223333444455556666777788889999"
	shaZero  = "0000000000000000000000000000000000000000"
)

// porcelainFixture mimics git blame --porcelain for a five-line file:
// lines 1-2 from shaAlpha, line 3 from shaBeta, lines 4-5 from shaAlpha
// again with metadata omitted (git emits full metadata once per commit).
func porcelainFixture() []string {
	return []string{
		shaAlpha + " 1 1 2",
		"author Alice",
		"author-mail <alice@example.com>",
		"author-time 1700000000",
		"author-tz +0100",
		"committer Bob",
		"committer-time 1700000100",
		"committer-tz +0100",
		"summary Add parser",
		"filename main.go",
		"\tpackage main",
		shaAlpha + " 2 2",
		"\t",
		shaBeta + " 7 3 1",
		"author Carol",
		"author-time 1700100000",
		"committer Carol",
		"committer-time 1700100000",
		"summary Fix edge case",
		"filename main.go",
		"\tfunc main() {}",
		shaAlpha + " 4 4 2",
		"\t// tail",
		shaAlpha + " 5 5",
		"\t",
	}
}

func TestParse_RangesAndMetadata(t *testing.T) {
	t.Parallel()

	records := blame.Parse(porcelainFixture())
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, 1, first.StartLine)
	assert.Equal(t, 2, first.EndLine)
	assert.Equal(t, shaAlpha, first.CommitID)
	assert.Equal(t, "Alice", first.Author)
	assert.Equal(t, int64(1700000000), first.AuthorTime)
	assert.Equal(t, "Bob", first.Committer)
	assert.Equal(t, int64(1700000100), first.CommitterTime)
	assert.Equal(t, "Add parser", first.Summary)

	second := records[1]
	assert.Equal(t, 3, second.StartLine)
	assert.Equal(t, 3, second.EndLine)
	assert.Equal(t, "Carol", second.Author)
}

func TestParse_ReusesMetadataAcrossRecords(t *testing.T) {
	t.Parallel()

	records := blame.Parse(porcelainFixture())
	require.Len(t, records, 3)

	// The third range repeats shaAlpha without metadata lines; fields are
	// copied from the earlier record of the same commit.
	reused := records[2]
	assert.Equal(t, 4, reused.StartLine)
	assert.Equal(t, 5, reused.EndLine)
	assert.Equal(t, shaAlpha, reused.CommitID)
	assert.Equal(t, "Alice", reused.Author)
	assert.Equal(t, "Bob", reused.Committer)
	assert.Equal(t, "Add parser", reused.Summary)
	assert.Equal(t, int64(1700000000), reused.AuthorTime)
}

func TestParse_CoversFileWithoutGapsOrOverlaps(t *testing.T) {
	t.Parallel()

	const totalLines = 5

	records := blame.Parse(porcelainFixture())

	covered := make(map[int]int)
	for _, rec := range records {
		require.LessOrEqual(t, rec.StartLine, rec.EndLine)

		for line := rec.StartLine; line <= rec.EndLine; line++ {
			covered[line]++
		}
	}

	for line := 1; line <= totalLines; line++ {
		assert.Equal(t, 1, covered[line], "line %d", line)
	}
}

func TestParse_UncommittedSentinel(t *testing.T) {
	t.Parallel()

	records := blame.Parse([]string{
		shaZero + " 1 1 1",
		"author Not Committed Yet",
		"summary Version of main.go from main.go",
		"\tdraft",
	})

	require.Len(t, records, 1)
	assert.True(t, records[0].Uncommitted())
	assert.Empty(t, records[0].ShortSHA())
}

func TestParse_HeaderWithoutMetadataIsKept(t *testing.T) {
	t.Parallel()

	records := blame.Parse([]string{shaZero + " 3 3 2"})

	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].StartLine)
	assert.Equal(t, 4, records[0].EndLine)
	assert.True(t, records[0].Uncommitted())
}

func TestParse_IgnoresUnrecognizedLines(t *testing.T) {
	t.Parallel()

	records := blame.Parse([]string{
		shaAlpha + " 1 1 1",
		"author Alice",
		"author-time 1700000000",
		"committer Alice",
		"committer-time 1700000000",
		"summary ok",
		"previous " + shaBeta + " main.go",
		"boundary",
		"some-future-field value",
		"\tcontent",
	})

	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].Author)
	assert.Equal(t, "ok", records[0].Summary)
}

func TestParse_ContentLineShapedLikeHeader(t *testing.T) {
	t.Parallel()

	// A file whose own text reads like a header line. The tab prefix marks
	// it as content; it must not open a second record.
	records := blame.Parse([]string{
		shaAlpha + " 1 1 2",
		"author Alice",
		"author-time 1700000000",
		"committer Alice",
		"committer-time 1700000000",
		"summary ok",
		"\tcafebabe 10 10 1",
		"\tmore text",
	})

	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].StartLine)
	assert.Equal(t, 2, records[0].EndLine)
	assert.Equal(t, shaAlpha, records[0].CommitID)
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, blame.Parse(nil))
}

func TestParse_MalformedHeaderSkipped(t *testing.T) {
	t.Parallel()

	// Looks vaguely header-shaped but the commit id is not a revision and
	// the counts are not numbers; both lines must be skipped without
	// aborting the parse.
	records := blame.Parse([]string{
		"totally not a header line x",
		shaAlpha + " x y z",
		shaAlpha + " 1 1 1",
		"author Alice",
	})

	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].StartLine)
}
