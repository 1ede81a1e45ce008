package dialogue

import (
	"sync"

	"github.com/Belphemur/MediaFinder/internal/models"
)

// Session is the conversation state of one user.
type Session struct {
	UserID    int64
	State     State
	MediaKind models.MediaKind
	QueryName string
	Results   []models.SearchResult
	Selection *models.SelectedItem
}

// Store maps user identities to their active session. A session is only
// mutated by the goroutine handling that user's events; the mutex guards the
// map itself.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the session of userID, or an idle session that is not stored
// yet.
func (s *Store) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	return &Session{UserID: userID, State: StateIdle}
}

// StateOf returns the state of userID's session, StateIdle when there is none.
func (s *Store) StateOf(userID int64) State {
	return s.Get(userID).State
}

// Start replaces any session of userID with a fresh one.
func (s *Store) Start(userID int64) *Session {
	sess := &Session{UserID: userID, State: StateAwaitingTypeChoice}
	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()
	return sess
}

// Reset drops the session of userID.
func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
