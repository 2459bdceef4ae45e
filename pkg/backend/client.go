package backend

import "context"

// Client is the session handle contract toward the backend process.
// This is the only interface the session manager requires from the
// backend collaborator; the transport behind it is opaque.
//
// Implementations are not required to be safe for concurrent exchanges:
// the session manager serializes callers so at most one send/receive
// cycle is in flight at a time.
type Client interface {
	// Connect establishes the underlying connection. It is the only
	// operation that may construct one. The backend is configured into
	// pure-conversation mode (all action-taking capabilities disabled)
	// and the given model is selected; an empty model selects the
	// configured default. Returns *ConnectionError on failure.
	Connect(ctx context.Context, model string) error

	// Configure selects a model on the live connection.
	// Returns *SessionError when no connection is live.
	Configure(ctx context.Context, model string) error

	// Send writes one prompt to the live connection.
	// Returns *SessionError when no connection is live.
	Send(ctx context.Context, prompt string) error

	// Receive yields the backend's event sequence for the exchange
	// started by the last Send. The channel is lazy, finite, and
	// non-restartable: it closes at the first completion event or when
	// the underlying connection closes. A mid-stream failure is
	// delivered as a final event with Err set.
	Receive(ctx context.Context) (<-chan Event, error)

	// Disconnect tears the connection down. It is an idempotent no-op
	// on an already-disconnected handle and releases the connection
	// resource deterministically.
	Disconnect() error

	// Connected reports whether a connection is live.
	Connected() bool
}
