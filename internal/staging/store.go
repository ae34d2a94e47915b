package staging

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNoSession is returned when a flight has no open staging session.
var ErrNoSession = errors.New("no staging session for flight")

// Store owns the open staging sessions, keyed by flight id.  It exists
// so sessions are explicit injected state rather than module-level
// mutable arrays shared between callers; handlers and tests each get
// their own instance.  All methods serialize access with one mutex,
// matching the single-writer event model of the console: no two moves
// on the same session can interleave.
type Store struct {
	mu       sync.Mutex
	sessions map[uint64]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[uint64]*Session)}
}

// Open creates a fresh session for the flight, replacing any previous
// one.  A new session id is generated on every call so a re-opened
// staging view never observes stale moves.  The returned session is a
// clone; mutations go through With.
func (st *Store) Open(flightID uint64, available, assigned []Candidate) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := NewSession(uuid.NewString(), flightID, available, assigned)
	st.sessions[flightID] = s
	return s.Clone()
}

// Get returns a clone of the open session for the flight.  Callers may
// read the clone freely; the stored session is only touched under the
// store lock.
func (st *Store) Get(flightID uint64) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[flightID]
	if !ok {
		return nil, ErrNoSession
	}
	return s.Clone(), nil
}

// With runs fn against the flight's session while holding the store
// lock, so moves and reads from concurrent requests stay serialized.
func (st *Store) With(flightID uint64, fn func(*Session)) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[flightID]
	if !ok {
		return ErrNoSession
	}
	fn(s)
	return nil
}

// Close discards the flight's session, if any.
func (st *Store) Close(flightID uint64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, flightID)
}
