package realtime

// EventSink is an outbound event channel to one connected client. The
// concrete transport (SSE today) adapts to this interface at the API
// boundary, keeping the registry and broadcaster transport-agnostic.
type EventSink interface {
	// Send pushes one serialized event frame. A non-nil error marks the
	// sink dead; the caller is expected to drop it from the registry.
	Send(payload []byte) error
	// Close releases the sink. Implementations must tolerate repeated calls.
	Close() error
}
