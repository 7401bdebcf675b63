package blame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blameline/blameline/internal/blame"
)

// queryStore sets up three records: lines 1-3 (old), 4-6 (new), 7-9 (mid).
func queryStore(t *testing.T) *blame.Store {
	t.Helper()

	store := blame.NewStore()
	store.Put(testPath, &blame.FileState{Records: []blame.Record{
		{StartLine: 1, EndLine: 3, CommitID: shaAlpha, Author: "Alice", AuthorTime: 100},
		{StartLine: 4, EndLine: 6, CommitID: shaBeta, Author: "Bob", AuthorTime: 300},
		{StartLine: 7, EndLine: 9, CommitID: shaAlpha, Author: "Alice", AuthorTime: 200},
	}, RepoRoot: "/repo"})

	return store
}

func TestResolve_InsideRange(t *testing.T) {
	t.Parallel()

	store := queryStore(t)

	rec := store.Resolve(testPath, 5)
	require.NotNil(t, rec)
	assert.Equal(t, shaBeta, rec.CommitID)

	rec = store.Resolve(testPath, 1)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.StartLine)
}

func TestResolve_OutsideAllRanges(t *testing.T) {
	t.Parallel()

	store := queryStore(t)

	assert.Nil(t, store.Resolve(testPath, 10))
	assert.Nil(t, store.Resolve(testPath, 0))
}

func TestResolve_UnloadedFile(t *testing.T) {
	t.Parallel()

	store := blame.NewStore()

	assert.Nil(t, store.Resolve(testPath, 1))
	assert.Nil(t, store.ResolveRange(testPath, 1, 5))
}

func TestResolveRange_SingleLineEquivalence(t *testing.T) {
	t.Parallel()

	store := queryStore(t)

	for line := 1; line <= 9; line++ {
		single := store.Resolve(testPath, line)
		ranged := store.ResolveRange(testPath, line, line)

		require.NotNil(t, single, "line %d", line)
		require.NotNil(t, ranged, "line %d", line)
		assert.Equal(t, single.StartLine, ranged.StartLine, "line %d", line)
	}
}

func TestResolveRange_LatestAuthorTimeWins(t *testing.T) {
	t.Parallel()

	store := queryStore(t)

	// Selection spans the AuthorTime 100 and 300 records; 300 wins.
	rec := store.ResolveRange(testPath, 2, 5)
	require.NotNil(t, rec)
	assert.Equal(t, int64(300), rec.AuthorTime)

	// Whole file: still the greatest AuthorTime.
	rec = store.ResolveRange(testPath, 1, 9)
	require.NotNil(t, rec)
	assert.Equal(t, int64(300), rec.AuthorTime)
}

func TestResolveRange_PartialOverlapIncluded(t *testing.T) {
	t.Parallel()

	store := queryStore(t)

	// [6, 7] clips the tails of the 4-6 and 7-9 records; both compete and
	// AuthorTime 300 wins.
	rec := store.ResolveRange(testPath, 6, 7)
	require.NotNil(t, rec)
	assert.Equal(t, shaBeta, rec.CommitID)

	// [7, 20] only intersects the last record.
	rec = store.ResolveRange(testPath, 7, 20)
	require.NotNil(t, rec)
	assert.Equal(t, int64(200), rec.AuthorTime)
}

func TestResolveRange_TieIsStable(t *testing.T) {
	t.Parallel()

	store := blame.NewStore()
	store.Put(testPath, &blame.FileState{Records: []blame.Record{
		{StartLine: 1, EndLine: 1, CommitID: shaAlpha, AuthorTime: 500},
		{StartLine: 2, EndLine: 2, CommitID: shaBeta, AuthorTime: 500},
	}})

	rec := store.ResolveRange(testPath, 1, 2)
	require.NotNil(t, rec)
	assert.Equal(t, shaAlpha, rec.CommitID)
}

func TestResolveRange_EmptySelection(t *testing.T) {
	t.Parallel()

	store := queryStore(t)

	assert.Nil(t, store.ResolveRange(testPath, 10, 20))
}
