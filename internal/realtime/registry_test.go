package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// fakeSink records pushed payloads and can be told to fail.
type fakeSink struct {
	mu       sync.Mutex
	payloads [][]byte
	failNext bool
	closed   bool
}

func (f *fakeSink) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return errors.New("transport closed")
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSink) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakeSink) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestActiveUsersSingleEntryAfterReconnect(t *testing.T) {
	registry := NewRegistry()
	storeID := uuid.New()
	userID := uuid.New()

	first := &fakeSink{}
	second := &fakeSink{}
	registry.Add(storeID, userID, first, "ana@example.com", "Ana")
	registry.Add(storeID, userID, second, "ana@example.com", "Ana")

	users := registry.ActiveUsers(storeID)
	if len(users) != 1 {
		t.Fatalf("expected one roster entry, got %d", len(users))
	}
	if users[0].Email != "ana@example.com" {
		t.Fatalf("unexpected roster entry %+v", users[0])
	}
}

func TestAddClosesDisplacedSink(t *testing.T) {
	registry := NewRegistry()
	storeID := uuid.New()
	userID := uuid.New()

	stale := &fakeSink{}
	registry.Add(storeID, userID, stale, "ana@example.com", "Ana")
	registry.Add(storeID, userID, &fakeSink{}, "ana@example.com", "Ana")

	if !stale.isClosed() {
		t.Fatal("expected the displaced sink to be closed on overwrite")
	}
}

func TestEmptyStoreIsPruned(t *testing.T) {
	registry := NewRegistry()
	storeID := uuid.New()
	userID := uuid.New()
	sink := &fakeSink{}

	registry.Add(storeID, userID, sink, "ana@example.com", "Ana")
	registry.Remove(storeID, userID, sink)

	if len(registry.ActiveUsers(storeID)) != 0 {
		t.Fatal("expected empty roster after last disconnect")
	}
	if registry.HasStore(storeID) {
		t.Fatal("expected store entry pruned after last member left")
	}
}

func TestRemoveIgnoresMismatchedSink(t *testing.T) {
	registry := NewRegistry()
	storeID := uuid.New()
	userID := uuid.New()

	current := &fakeSink{}
	registry.Add(storeID, userID, current, "ana@example.com", "Ana")

	// A stale handler cleaning up after being displaced must not evict the
	// connection that replaced it.
	registry.Remove(storeID, userID, &fakeSink{})

	if len(registry.ActiveUsers(storeID)) != 1 {
		t.Fatal("expected the live connection to survive a stale remove")
	}
}

func TestRemoveNilSinkIsUnconditional(t *testing.T) {
	registry := NewRegistry()
	storeID := uuid.New()
	userID := uuid.New()

	registry.Add(storeID, userID, &fakeSink{}, "ana@example.com", "Ana")
	registry.Remove(storeID, userID, nil)

	if registry.HasStore(storeID) {
		t.Fatal("expected unconditional removal")
	}
}

func TestActiveUsersIsScopedPerStore(t *testing.T) {
	registry := NewRegistry()
	storeA := uuid.New()
	storeB := uuid.New()

	userA := uuid.New()
	registry.Add(storeA, userA, &fakeSink{}, "ana@example.com", "Ana")
	registry.Add(storeB, uuid.New(), &fakeSink{}, "bo@example.com", "Bo")

	if len(registry.ActiveUsers(storeA)) != 1 || len(registry.ActiveUsers(storeB)) != 1 {
		t.Fatal("expected one viewer per store")
	}
	registry.Remove(storeA, userA, nil)
	if len(registry.ActiveUsers(storeB)) != 1 {
		t.Fatal("stores must be independent")
	}
}
