package backend

import "fmt"

// ConnectionError indicates the backend process could not be reached or
// refused its capability-disabling configuration. It is surfaced to the
// caller as a failed request and is never retried automatically by the
// session manager.
type ConnectionError struct {
	// Op is the operation that failed ("start", "configure").
	Op string

	// Message describes the failure.
	Message string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend connection failed during %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("backend connection failed during %s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// SessionError indicates an operation was attempted on a handle with no
// live connection. Inside the session manager this is an invariant
// violation: EnsureConnected runs before every exchange, so callers
// should never observe it directly.
type SessionError struct {
	// Op is the operation that was attempted ("send", "receive", "configure").
	Op string
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	return fmt.Sprintf("backend %s attempted without a live connection", e.Op)
}

// ProtocolError indicates the backend emitted a frame that could not be
// decoded. The exchange is aborted and the connection torn down: frames
// following a malformed one cannot be trusted to belong to any exchange,
// so the next call reconnects.
type ProtocolError struct {
	// Line is a bounded copy of the raw frame that failed to decode.
	Line string

	// Cause is the underlying decode error.
	Cause error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("backend protocol error: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProtocolError) Unwrap() error {
	return e.Cause
}
