// Package blame holds the per-line attribution model: parsed annotate
// records, the per-file store, and line/range resolution.
package blame

import "strings"

// UncommittedID is the sentinel commit identifier emitted by backends for
// lines that only exist in the working copy.
const UncommittedID = "0000000000000000000000000000000000000000"

// shortSHALen is the number of identifier characters shown to users.
const shortSHALen = 7

// Record is one contiguous line range attributed to one commit.
// Lines are 1-based and inclusive; StartLine <= EndLine.
type Record struct {
	StartLine     int    `yaml:"start_line"`
	EndLine       int    `yaml:"end_line"`
	CommitID      string `yaml:"commit"`
	Author        string `yaml:"author,omitempty"`
	AuthorTime    int64  `yaml:"author_time,omitempty"`
	Committer     string `yaml:"committer,omitempty"`
	CommitterTime int64  `yaml:"committer_time,omitempty"`
	Summary       string `yaml:"summary,omitempty"`
}

// Contains reports whether the record's range covers the given line.
func (r *Record) Contains(line int) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// Intersects reports whether the record's range overlaps [line1, line2].
// A record is excluded only when it lies entirely before line1 or entirely
// after line2; partial overlap counts.
func (r *Record) Intersects(line1, line2 int) bool {
	return r.EndLine >= line1 && r.StartLine <= line2
}

// Uncommitted reports whether the record describes working-copy changes
// that have no real commit behind them. A record with the sentinel id, or
// one whose metadata never arrived, is uncommitted.
func (r *Record) Uncommitted() bool {
	if r.CommitID == "" || isZeroID(r.CommitID) {
		return true
	}

	return r.Author == "" && r.Committer == "" && r.AuthorTime == 0 && r.CommitterTime == 0
}

// ShortSHA returns the first seven characters of the commit identifier,
// or the empty string when the record has no identifier.
func (r *Record) ShortSHA() string {
	if r.CommitID == "" || isZeroID(r.CommitID) {
		return ""
	}

	if len(r.CommitID) <= shortSHALen {
		return r.CommitID
	}

	return r.CommitID[:shortSHALen]
}

// isZeroID reports whether id consists solely of '0' characters.
func isZeroID(id string) bool {
	if id == "" {
		return false
	}

	return strings.Trim(id, "0") == ""
}
