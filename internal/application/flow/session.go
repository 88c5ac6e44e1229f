package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the transient state of one user's open wizard. It lives only
// in memory: a process restart loses in-flight wizards, which is safe
// because nothing is written to the ledger before the terminal step.
type Session struct {
	UserID uuid.UUID
	ChatID int64
	Step   Step

	// PromptMessageID is the one outstanding editable message. Button-driven
	// turns edit it in place; free-text turns send fresh and move it.
	PromptMessageID int64

	UpdatedAt time.Time
}

// SessionStore holds flow sessions keyed by user id. Implementations must
// be safe for concurrent use; UserLock serializes all turns of one user.
type SessionStore interface {
	// Get returns the user's open session, or false if there is none.
	Get(userID uuid.UUID) (*Session, bool)

	// Save stores the session, stamping its last-touched time.
	Save(session *Session)

	// Delete destroys the session. Deleting a missing session is a no-op.
	Delete(userID uuid.UUID)

	// UserLock returns the mutex serializing this user's turns.
	UserLock(userID uuid.UUID) *sync.Mutex

	// Sweep drops sessions idle since before the given time and reports how
	// many were dropped.
	Sweep(olderThan time.Time) int
}

// InMemorySessionStore is the default SessionStore: a mutex-guarded map
// with one lock per user id.
type InMemorySessionStore struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]*Session
	locks       map[uuid.UUID]*sync.Mutex
	idleTimeout time.Duration
	now         func() time.Time
}

// NewInMemorySessionStore creates a session store. idleTimeout of zero
// disables expiry entirely.
func NewInMemorySessionStore(idleTimeout time.Duration) *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions:    make(map[uuid.UUID]*Session),
		locks:       make(map[uuid.UUID]*sync.Mutex),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Get returns the user's open session, treating an expired one as absent.
func (s *InMemorySessionStore) Get(userID uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	if s.idleTimeout > 0 && s.now().Sub(sess.UpdatedAt) > s.idleTimeout {
		delete(s.sessions, userID)
		return nil, false
	}
	return sess, true
}

// Save stores the session.
func (s *InMemorySessionStore) Save(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = s.now()
	s.sessions[session.UserID] = session
}

// Delete destroys the session.
func (s *InMemorySessionStore) Delete(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// UserLock returns the per-user mutex, creating it on first use. Locks are
// never removed: the per-user footprint is one mutex and sessions themselves
// are swept separately.
func (s *InMemorySessionStore) UserLock(userID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Sweep drops idle sessions.
func (s *InMemorySessionStore) Sweep(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for userID, sess := range s.sessions {
		if sess.UpdatedAt.Before(olderThan) {
			delete(s.sessions, userID)
			dropped++
		}
	}
	return dropped
}
