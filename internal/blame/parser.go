package blame

import (
	"strconv"
	"strings"
)

// Metadata line prefixes recognized by the parser. Anything else between
// headers is ignored so that backends may add fields without breaking us.
const (
	prefixAuthor        = "author "
	prefixAuthorTime    = "author-time "
	prefixCommitter     = "committer "
	prefixCommitterTime = "committer-time "
	prefixSummary       = "summary "
)

// headerMinFields is the minimum token count of a range header:
// <commit-id> <orig-line> <final-line> <line-count>.
const headerMinFields = 4

// Parse converts the raw output of one annotate invocation into the ordered
// record sequence. Records are appended in emission order; adjacent ranges
// sharing a commit are not merged. A header whose metadata never arrives is
// kept as-is and treated downstream as uncommitted.
func Parse(lines []string) []Record {
	records := make([]Record, 0, len(lines)/2)

	var current *Record

	for _, line := range lines {
		if rec, ok := parseHeader(line); ok {
			if current != nil {
				records = append(records, *current)
			}

			if !isZeroID(rec.CommitID) {
				copyKnownMetadata(records, &rec)
			}

			current = &rec

			continue
		}

		if current != nil {
			applyMetadata(current, line)
		}
	}

	if current != nil {
		records = append(records, *current)
	}

	return records
}

// parseHeader recognizes "<commit-id> <orig> <final> <count>" lines.
// Trailing extra fields are permitted and ignored. The commit id must look
// like a revision identifier (hex or the all-zero sentinel) so that ordinary
// metadata lines with four tokens are not mistaken for headers. File-content
// lines arrive tab-prefixed and are never headers, whatever their text.
func parseHeader(line string) (Record, bool) {
	if strings.HasPrefix(line, "\t") {
		return Record{}, false
	}

	fields := strings.Fields(line)
	if len(fields) < headerMinFields {
		return Record{}, false
	}

	if !isRevisionID(fields[0]) {
		return Record{}, false
	}

	final, finalErr := strconv.Atoi(fields[2])
	if finalErr != nil || final < 1 {
		return Record{}, false
	}

	count, countErr := strconv.Atoi(fields[3])
	if countErr != nil || count < 1 {
		return Record{}, false
	}

	if _, origErr := strconv.Atoi(fields[1]); origErr != nil {
		return Record{}, false
	}

	return Record{
		StartLine: final,
		EndLine:   final + count - 1,
		CommitID:  fields[0],
	}, true
}

// copyKnownMetadata backfills rec from an earlier record of the same commit
// in the same invocation. Backends that emit full metadata only once per
// distinct commit rely on this; backends that repeat metadata simply
// overwrite the copied values afterwards.
func copyKnownMetadata(records []Record, rec *Record) {
	for i := range records {
		prev := &records[i]
		if prev.CommitID != rec.CommitID {
			continue
		}

		rec.Author = prev.Author
		rec.AuthorTime = prev.AuthorTime
		rec.Committer = prev.Committer
		rec.CommitterTime = prev.CommitterTime
		rec.Summary = prev.Summary

		return
	}
}

// applyMetadata sets the field named by the line's prefix on the in-progress
// record. Unrecognized lines are skipped.
func applyMetadata(rec *Record, line string) {
	switch {
	case strings.HasPrefix(line, prefixAuthor):
		rec.Author = strings.TrimPrefix(line, prefixAuthor)
	case strings.HasPrefix(line, prefixAuthorTime):
		rec.AuthorTime = parseUnix(strings.TrimPrefix(line, prefixAuthorTime))
	case strings.HasPrefix(line, prefixCommitter):
		rec.Committer = strings.TrimPrefix(line, prefixCommitter)
	case strings.HasPrefix(line, prefixCommitterTime):
		rec.CommitterTime = parseUnix(strings.TrimPrefix(line, prefixCommitterTime))
	case strings.HasPrefix(line, prefixSummary):
		rec.Summary = strings.TrimPrefix(line, prefixSummary)
	}
}

// parseUnix parses a unix timestamp, returning zero for malformed input.
func parseUnix(s string) int64 {
	ts, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}

	return ts
}

// isRevisionID reports whether s is a plausible commit or changeset
// identifier: at least seven hex characters.
func isRevisionID(s string) bool {
	const minIDLen = 7

	if len(s) < minIDLen {
		return false
	}

	for _, c := range s {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}

	return true
}
