package history

import "sync"

// Store is a thread-safe in-memory registry of performance histories,
// keyed by session ID. Sessions are created implicitly on first use.
type Store struct {
	mu        sync.RWMutex
	histories map[string]*History
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		histories: make(map[string]*History),
	}
}

// GetOrCreate returns the history for the given session, creating an
// empty one on first use. Safe for concurrent use.
func (s *Store) GetOrCreate(sessionID string) *History {
	s.mu.RLock()
	h, ok := s.histories[sessionID]
	s.mu.RUnlock()
	if ok {
		return h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.histories[sessionID]; ok {
		return h
	}
	h = New()
	s.histories[sessionID] = h
	return h
}

// Sessions returns the number of tracked sessions.
func (s *Store) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.histories)
}
