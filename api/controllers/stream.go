package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mealvine/mealvine-backend/api/middleware"
	"github.com/mealvine/mealvine-backend/api/responses"
	"github.com/mealvine/mealvine-backend/internal/realtime"
	"github.com/mealvine/mealvine-backend/internal/stores"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
	"github.com/mealvine/mealvine-backend/pkg/logger"
)

// sseSink adapts one Server-Sent Events response into an event sink. Writes
// are serialized with a mutex because broadcasts and keepalives race on the
// same connection.
type sseSink struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	done    chan struct{}
	closed  bool
}

func newSSESink(w http.ResponseWriter, flusher http.Flusher) *sseSink {
	return &sseSink{w: w, flusher: flusher, done: make(chan struct{})}
}

// Send frames the payload as one SSE data event and flushes it out.
func (s *sseSink) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("sink closed")
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// keepalive writes an SSE comment line so proxies keep the connection open.
func (s *sseSink) keepalive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("sink closed")
	}
	if _, err := fmt.Fprint(s.w, ": keepalive\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Close wakes the handler goroutine; it is safe to call more than once.
func (s *sseSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	return nil
}

// StreamShoppingList subscribes the caller to a store's live list events
// over SSE. The connection carries presence, item_checked and list_updated
// frames until the client disconnects or a newer connection for the same
// user displaces this one.
func StreamShoppingList(access stores.AccessChecker, registry *realtime.Registry, broadcaster *realtime.Broadcaster, keepalive time.Duration, logg *logger.Logger) http.HandlerFunc {
	if keepalive <= 0 {
		keepalive = 30 * time.Second
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := identity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := pathUUID(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := access.EnsureMember(r.Context(), storeID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		// Disable nginx response buffering, otherwise events sit in the proxy.
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		email := middleware.UserEmailFromContext(r.Context())
		name := middleware.UserNameFromContext(r.Context())

		sink := newSSESink(w, flusher)
		registry.Add(storeID, userID, sink, email, name)

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithFields(logg.WithStoreID(ctx, storeID.String()), map[string]any{"transport": "sse"})
			logg.Info(ctx, "stream.connected")
		}

		// The joiner gets an immediate roster snapshot, then everyone,
		// including the joiner, sees the refreshed roster.
		if snapshot, err := json.Marshal(realtime.NewPresenceEvent(registry.ActiveUsers(storeID))); err == nil {
			_ = sink.Send(snapshot)
		}
		broadcaster.PublishPresence(ctx, storeID)

		ticker := time.NewTicker(keepalive)
		defer ticker.Stop()

	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-sink.done:
				// Displaced by a reconnect or pruned as dead; the replacement
				// connection owns the registry entry now.
				break loop
			case <-ticker.C:
				if err := sink.keepalive(); err != nil {
					break loop
				}
			}
		}

		// Remove is conditional on the sink so a displaced handler cannot
		// evict the connection that replaced it.
		registry.Remove(storeID, userID, sink)
		_ = sink.Close()
		broadcaster.PublishPresence(ctx, storeID)

		if logg != nil {
			logg.Info(ctx, "stream.disconnected")
		}
	}
}
