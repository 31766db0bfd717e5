package storage

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/ocrchat/internal/session"
)

// SessionStore keeps chat sessions in process memory
type SessionStore struct {
	sessions     map[string]*session.Session
	defaultModel string
	mu           sync.RWMutex
}

func New(defaultModel string) *SessionStore {
	return &SessionStore{
		sessions:     make(map[string]*session.Session),
		defaultModel: defaultModel,
	}
}

// Create starts a new session with a random id
func (s *SessionStore) Create() *session.Session {
	sess := session.New(uuid.NewString(), s.defaultModel)
	s.Set(sess.ID, sess)
	return sess
}

func (s *SessionStore) Get(sessionID string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[sessionID]
	return sess, exists
}

func (s *SessionStore) Set(sessionID string, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = sess
}

// IDs returns every session id, oldest session first
func (s *SessionStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	ids := make([]string, 0, len(all))
	for _, sess := range all {
		ids = append(ids, sess.ID)
	}
	return ids
}

// Delete drops a session; returns false when it did not exist
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return exists
}
