package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesEveryConnection(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry, nil)
	storeID := uuid.New()

	sinks := map[uuid.UUID]*fakeSink{
		uuid.New(): {},
		uuid.New(): {},
		uuid.New(): {},
	}
	for userID, sink := range sinks {
		registry.Add(storeID, userID, sink, userID.String()+"@example.com", "user")
	}

	broadcaster.Broadcast(context.Background(), storeID, NewListUpdatedEvent(nil, "ana@example.com"), uuid.Nil)

	for _, sink := range sinks {
		require.Equal(t, 1, sink.sent())
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry, nil)
	storeID := uuid.New()
	actor := uuid.New()
	other := uuid.New()

	actorSink := &fakeSink{}
	otherSink := &fakeSink{}
	registry.Add(storeID, actor, actorSink, "actor@example.com", "Actor")
	registry.Add(storeID, other, otherSink, "other@example.com", "Other")

	broadcaster.Broadcast(context.Background(), storeID, NewItemCheckedEvent(uuid.New(), true, "actor@example.com"), actor)

	require.Zero(t, actorSink.sent(), "sender must not receive its own event")
	require.Equal(t, 1, otherSink.sent())
}

func TestBroadcastPrunesDeadSinkWithoutFailingOthers(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry, nil)
	storeID := uuid.New()
	deadUser := uuid.New()
	liveUser := uuid.New()

	dead := &fakeSink{failNext: true}
	live := &fakeSink{}
	registry.Add(storeID, deadUser, dead, "dead@example.com", "Dead")
	registry.Add(storeID, liveUser, live, "live@example.com", "Live")

	broadcaster.Broadcast(context.Background(), storeID, NewListUpdatedEvent(nil, "x"), uuid.Nil)

	require.Equal(t, 1, live.sent())
	require.True(t, dead.isClosed())

	users := registry.ActiveUsers(storeID)
	require.Len(t, users, 1)
	require.Equal(t, "live@example.com", users[0].Email)
}

func TestBroadcastPrunesStoreWhenLastSinkDies(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry, nil)
	storeID := uuid.New()

	registry.Add(storeID, uuid.New(), &fakeSink{failNext: true}, "dead@example.com", "Dead")
	broadcaster.Broadcast(context.Background(), storeID, NewListUpdatedEvent(nil, "x"), uuid.Nil)

	require.False(t, registry.HasStore(storeID))
}

func TestPublishPresenceAfterDisconnect(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry, nil)
	storeID := uuid.New()
	userA := uuid.New()
	userB := uuid.New()

	sinkA := &fakeSink{}
	sinkB := &fakeSink{}
	registry.Add(storeID, userA, sinkA, "a@example.com", "A")
	registry.Add(storeID, userB, sinkB, "b@example.com", "B")

	registry.Remove(storeID, userA, sinkA)
	broadcaster.PublishPresence(context.Background(), storeID)

	require.Equal(t, 1, sinkB.sent())

	var event PresenceEvent
	require.NoError(t, json.Unmarshal(sinkB.payloads[0], &event))
	require.Equal(t, EventTypePresence, event.Type)
	require.Len(t, event.ActiveUsers, 1)
	require.Equal(t, "b@example.com", event.ActiveUsers[0].Email)
	require.False(t, event.Timestamp.IsZero())
}
