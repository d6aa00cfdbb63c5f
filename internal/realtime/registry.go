package realtime

import (
	"sync"

	"github.com/google/uuid"
)

type connection struct {
	sink  EventSink
	email string
	name  string
}

// Registry tracks the live event sinks per store. It is a process-wide
// service object constructed once and handed to the endpoints that need it;
// entries live only as long as the process.
type Registry struct {
	mu     sync.Mutex
	stores map[uuid.UUID]map[uuid.UUID]*connection
}

// NewRegistry creates a ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[uuid.UUID]map[uuid.UUID]*connection),
	}
}

// Add registers the sink for (store, user). At most one sink is kept per
// pair: a previously registered sink for the same user is closed before the
// new one is installed, so a stale tab's stream terminates instead of
// lingering until its next failed push.
func (r *Registry) Add(storeID, userID uuid.UUID, sink EventSink, email, name string) {
	r.mu.Lock()
	conns := r.stores[storeID]
	if conns == nil {
		conns = make(map[uuid.UUID]*connection)
		r.stores[storeID] = conns
	}
	prev := conns[userID]
	conns[userID] = &connection{sink: sink, email: email, name: name}
	total := r.connectionCount()
	r.mu.Unlock()

	if prev != nil {
		_ = prev.sink.Close()
	}
	activeConnections.Set(float64(total))
}

// Remove deletes the (store, user) entry when it still holds the given sink.
// Passing a nil sink removes unconditionally. Empty stores are pruned so the
// top-level map stays bounded by the number of stores with live viewers.
func (r *Registry) Remove(storeID, userID uuid.UUID, sink EventSink) {
	r.mu.Lock()
	conns, ok := r.stores[storeID]
	if !ok {
		r.mu.Unlock()
		return
	}
	conn, ok := conns[userID]
	if !ok || (sink != nil && conn.sink != sink) {
		r.mu.Unlock()
		return
	}
	delete(conns, userID)
	if len(conns) == 0 {
		delete(r.stores, storeID)
	}
	total := r.connectionCount()
	r.mu.Unlock()

	activeConnections.Set(float64(total))
}

// ActiveUsers returns the identities currently connected to the store.
// Order is unspecified.
func (r *Registry) ActiveUsers(storeID uuid.UUID) []ActiveUser {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.stores[storeID]
	users := make([]ActiveUser, 0, len(conns))
	for _, conn := range conns {
		users = append(users, ActiveUser{Email: conn.email, Name: conn.name})
	}
	return users
}

// HasStore reports whether any connection is registered for the store.
func (r *Registry) HasStore(storeID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.stores[storeID]
	return ok
}

type target struct {
	userID uuid.UUID
	sink   EventSink
}

// snapshot copies the store's delivery targets so pushes happen outside the lock.
func (r *Registry) snapshot(storeID uuid.UUID) []target {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.stores[storeID]
	targets := make([]target, 0, len(conns))
	for userID, conn := range conns {
		targets = append(targets, target{userID: userID, sink: conn.sink})
	}
	return targets
}

// connectionCount must be called with r.mu held.
func (r *Registry) connectionCount() int {
	total := 0
	for _, conns := range r.stores {
		total += len(conns)
	}
	return total
}
