package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/logger"
)

// PushResult is the outcome of one delivery attempt.
type PushResult int

const (
	PushDelivered PushResult = iota
	PushDead
)

// Broadcaster fans events out to every registered connection of a store.
// Delivery is attempted once per sink; sinks whose push fails are treated as
// dead, closed, and dropped from the registry. One dead sink never fails the
// broadcast or blocks delivery to the remaining sinks.
type Broadcaster struct {
	registry *Registry
	logg     *logger.Logger
}

// NewBroadcaster builds a broadcaster over the given registry.
func NewBroadcaster(registry *Registry, logg *logger.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, logg: logg}
}

// Broadcast serializes the event once and pushes it to every connection of
// the store except excludeUserID (uuid.Nil excludes no one). Callers get no
// per-connection delivery confirmation; the broadcast only guarantees an
// attempt was made.
func (b *Broadcaster) Broadcast(ctx context.Context, storeID uuid.UUID, event any, excludeUserID uuid.UUID) {
	payload, err := json.Marshal(event)
	if err != nil {
		if b.logg != nil {
			b.logg.Error(ctx, "broadcast.encode_failed", err)
		}
		return
	}

	var dead []target
	for _, tgt := range b.registry.snapshot(storeID) {
		if excludeUserID != uuid.Nil && tgt.userID == excludeUserID {
			continue
		}
		if push(tgt.sink, payload) == PushDead {
			dead = append(dead, tgt)
		}
	}

	for _, tgt := range dead {
		_ = tgt.sink.Close()
		b.registry.Remove(storeID, tgt.userID, tgt.sink)
	}

	broadcastEvents.Inc()
	if len(dead) > 0 {
		deadSinksPruned.Add(float64(len(dead)))
		if b.logg != nil {
			ctx = b.logg.WithFields(ctx, map[string]any{
				"store_id":    storeID.String(),
				"pruned":      len(dead),
				"event_bytes": len(payload),
			})
			b.logg.Warn(ctx, "broadcast.pruned_dead_connections")
		}
	}
}

// PublishPresence reads the store's current roster and broadcasts it to every
// viewer, including whoever just joined or left. The registry mutation that
// triggered the publish must already be applied.
func (b *Broadcaster) PublishPresence(ctx context.Context, storeID uuid.UUID) {
	event := NewPresenceEvent(b.registry.ActiveUsers(storeID))
	b.Broadcast(ctx, storeID, event, uuid.Nil)
}

func push(sink EventSink, payload []byte) PushResult {
	if err := sink.Send(payload); err != nil {
		return PushDead
	}
	return PushDelivered
}
