package budget

import "sync"

// userLocks is a keyed mutex table: one lock per user id, created on first
// use. Entries are reference-counted and dropped when the last holder
// releases, so the table does not grow with the user population.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*userLock)}
}

// lock acquires the mutex for userID and returns the matching release func.
func (t *userLocks) lock(userID int64) func() {
	t.mu.Lock()
	l, ok := t.locks[userID]
	if !ok {
		l = &userLock{}
		t.locks[userID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, userID)
		}
		t.mu.Unlock()
	}
}
