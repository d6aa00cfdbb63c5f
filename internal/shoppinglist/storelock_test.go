package shoppinglist

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestStoreLockerSerializesSameStore(t *testing.T) {
	locker := NewStoreLocker()
	storeID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(storeID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", counter)
	}
}

func TestStoreLockerDropsIdleEntries(t *testing.T) {
	locker := NewStoreLocker()
	storeID := uuid.New()

	unlock := locker.Lock(storeID)
	unlock()

	locker.mu.Lock()
	defer locker.mu.Unlock()
	if len(locker.locks) != 0 {
		t.Fatalf("expected idle lock entries pruned, got %d", len(locker.locks))
	}
}

func TestStoreLockerIndependentStores(t *testing.T) {
	locker := NewStoreLocker()
	storeA := uuid.New()
	storeB := uuid.New()

	unlockA := locker.Lock(storeA)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock(storeB)
		unlockB()
		close(done)
	}()

	<-done
}
