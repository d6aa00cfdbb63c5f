package shoppinglist

import (
	"sync"

	"github.com/google/uuid"
)

// StoreLocker serializes list mutations per store. Concurrent writers to the
// same store queue behind one mutex; writers to different stores never block
// each other. Entries are reference counted and dropped once idle so the map
// does not grow with every store ever touched.
type StoreLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*storeLock
}

type storeLock struct {
	mu   sync.Mutex
	refs int
}

// NewStoreLocker builds an empty locker.
func NewStoreLocker() *StoreLocker {
	return &StoreLocker{locks: make(map[uuid.UUID]*storeLock)}
}

// Lock acquires the store's mutex and returns the matching unlock.
func (l *StoreLocker) Lock(storeID uuid.UUID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[storeID]
	if !ok {
		entry = &storeLock{}
		l.locks[storeID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, storeID)
		}
		l.mu.Unlock()
	}
}
