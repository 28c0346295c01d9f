package service

import "sync"

// SessionLocks serialises work on one register session. A cart is loaded,
// mutated and saved under its lock, so two requests from the same register
// never interleave. An entry lives only while someone holds or waits on it.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[string]*sessionLock)}
}

// Lock blocks until the session is free and returns the unlock func.
func (l *SessionLocks) Lock(sessionKey string) func() {
	l.mu.Lock()
	entry, ok := l.locks[sessionKey]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionKey] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionKey)
		}
		l.mu.Unlock()
	}
}

// Len reports how many sessions currently hold or wait on a lock.
func (l *SessionLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
