package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/screen"
)

// Session is one browser tab's scan screen
type Session struct {
	ID     string
	Screen *screen.Screen

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore keeps sessions in memory and evicts idle ones
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	ttl       time.Duration
	newScreen func() *screen.Screen
	onChange  func(n int)
	now       func() time.Time
}

// NewSessionStore creates a store. onChange may be nil.
func NewSessionStore(ttl time.Duration, newScreen func() *screen.Screen, onChange func(n int)) *SessionStore {
	if onChange == nil {
		onChange = func(int) {}
	}
	return &SessionStore{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		newScreen: newScreen,
		onChange:  onChange,
		now:       time.Now,
	}
}

// Create starts a new session in the Idle state
func (st *SessionStore) Create() *Session {
	sess := &Session{
		ID:       uuid.New().String(),
		Screen:   st.newScreen(),
		lastSeen: st.now(),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	n := len(st.sessions)
	st.mu.Unlock()

	st.onChange(n)
	return sess
}

// Get returns a session and marks it as active
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		sess.touch(st.now())
	}
	return sess, ok
}

// Delete removes a session
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if ok {
		st.onChange(n)
	}
	return ok
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle for longer than the TTL. Sessions with a scan
// in flight are kept until the scan finishes.
func (st *SessionStore) Sweep() []string {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var evicted []string
	for id, sess := range st.sessions {
		if sess.Screen.State().Phase() == screen.PhaseScanning {
			continue
		}
		if sess.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			evicted = append(evicted, id)
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if len(evicted) > 0 {
		logger.Debug("evicted %d idle sessions", len(evicted))
		st.onChange(n)
	}
	return evicted
}

// Run sweeps on an interval until ctx is done. evict is called for each removed session.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration, evict func(id string)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, id := range st.Sweep() {
				if evict != nil {
					evict(id)
				}
			}
		}
	}
}
