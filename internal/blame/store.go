package blame

import "sync"

// FileState owns the parsed record sequence for one file, together with the
// repository root the file was attributed under. An empty RepoRoot means the
// file is not under version control.
type FileState struct {
	Records  []Record
	RepoRoot string
}

// Store caches FileState per absolute file path and tracks which paths have
// an annotate invocation in flight. It is safe for concurrent use; a reader
// during a reload observes the previous complete snapshot, never a partial
// one, because states are replaced wholesale.
type Store struct {
	mu      sync.RWMutex
	files   map[string]*FileState
	loading map[string]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		files:   make(map[string]*FileState),
		loading: make(map[string]struct{}),
	}
}

// Get returns the cached state for path. The boolean distinguishes "never
// loaded" from "loaded, empty file": an empty file yields an empty record
// sequence with ok == true.
func (s *Store) Get(path string) (*FileState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.files[path]

	return state, ok
}

// Put replaces the full state for path.
func (s *Store) Put(path string, state *FileState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[path] = state
}

// Remove drops the cached state for path, e.g. when the editor closes the
// file.
func (s *Store) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, path)
}

// Clear drops every cached state and loading mark. Required when the active
// backend changes: cached data is not portable across backends.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[string]*FileState)
	s.loading = make(map[string]struct{})
}

// BeginLoad marks path as having an annotate invocation in flight. It
// returns false, without side effects, when a load is already running for
// the path; the check and the mark are one atomic step so that two rapid
// load requests cannot both dispatch a command.
func (s *Store) BeginLoad(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, inFlight := s.loading[path]; inFlight {
		return false
	}

	s.loading[path] = struct{}{}

	return true
}

// EndLoad clears the in-flight mark for path. It must run on every load
// exit, success or failure, or the path becomes permanently un-refreshable.
func (s *Store) EndLoad(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.loading, path)
}

// Loading reports whether path has an annotate invocation in flight.
func (s *Store) Loading(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, inFlight := s.loading[path]

	return inFlight
}
