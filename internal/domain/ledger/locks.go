package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// patientLocks serializes balance mutations per patient within this
// process. The database row lock (SELECT ... FOR UPDATE) is the real
// guarantee; this keeps concurrent requests for the same patient from
// piling up on the database.
type patientLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newPatientLocks() *patientLocks {
	return &patientLocks{entries: make(map[uuid.UUID]*lockEntry)}
}

func (l *patientLocks) lock(id uuid.UUID) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

func (l *patientLocks) unlock(id uuid.UUID) {
	l.mu.Lock()
	e := l.entries[id]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
