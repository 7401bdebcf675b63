package blame

// Resolve returns the record whose range contains line, or nil when the
// file has no loaded blame or no record covers the line. A nil result means
// the caller should trigger a load and retry, not that the line is
// permanently unattributed.
func (s *Store) Resolve(path string, line int) *Record {
	state, ok := s.Get(path)
	if !ok {
		return nil
	}

	for i := range state.Records {
		if state.Records[i].Contains(line) {
			rec := state.Records[i]

			return &rec
		}
	}

	return nil
}

// ResolveRange returns the winning record for the selection [line1, line2],
// line1 <= line2. Every record intersecting the selection competes; the one
// with the greatest AuthorTime wins, ties resolved by first-encountered
// order. Nil when no record intersects.
func (s *Store) ResolveRange(path string, line1, line2 int) *Record {
	state, ok := s.Get(path)
	if !ok {
		return nil
	}

	var best *Record

	for i := range state.Records {
		rec := &state.Records[i]
		if !rec.Intersects(line1, line2) {
			continue
		}

		if best == nil || rec.AuthorTime > best.AuthorTime {
			best = rec
		}
	}

	if best == nil {
		return nil
	}

	win := *best

	return &win
}
