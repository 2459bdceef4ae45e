package backend

import (
	"encoding/json"
	"fmt"
)

// EventType tags an inbound backend event.
type EventType string

const (
	// EventText is an incremental assistant-text event.
	EventText EventType = "assistant_text"

	// EventComplete marks the end of the current task. The receive
	// sequence terminates at the first completion event.
	EventComplete EventType = "task_complete"

	// EventError is a message-level error reported by the backend.
	EventError EventType = "error"
)

// Event is one unit of the backend's receive sequence.
type Event struct {
	// Type tags the event.
	Type EventType

	// Text is the incremental assistant text (EventText only).
	Text string

	// Err carries a transport or protocol failure delivered mid-stream.
	// The channel closes after an event with Err set.
	Err error
}

// frame is the JSON-lines wire representation of one protocol message in
// either direction.
type frame struct {
	Type string `json:"type"`

	// Outbound fields.
	Model        string            `json:"model,omitempty"`
	Content      string            `json:"content,omitempty"`
	Capabilities map[string]bool   `json:"capabilities,omitempty"`
	Settings     map[string]string `json:"settings,omitempty"`

	// Inbound fields.
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// Outbound frame types.
const (
	frameConfigure = "configure"
	frameUserInput = "user_input"
)

// maxFrameNote bounds how much of a malformed frame is kept in errors and
// logs.
const maxFrameNote = 256

// encodeConfigure builds the capability-disabling configuration frame.
// Every action-taking capability is explicitly turned off so the backend
// runs in pure-conversation mode.
func encodeConfigure(model string) ([]byte, error) {
	f := frame{
		Type:  frameConfigure,
		Model: model,
		Capabilities: map[string]bool{
			"tools":      false,
			"filesystem": false,
			"shell":      false,
		},
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configure frame: %w", err)
	}
	return append(data, '\n'), nil
}

// encodeUserInput builds a prompt frame.
func encodeUserInput(prompt string) ([]byte, error) {
	data, err := json.Marshal(frame{Type: frameUserInput, Content: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to encode user input frame: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeEvent parses one inbound line into an Event.
//
// Unknown frame types return ok=false and are skipped by the reader;
// the backend is free to emit diagnostic frames the bridge does not
// care about. Malformed JSON returns a ProtocolError.
func decodeEvent(line []byte) (Event, bool, error) {
	var f frame
	if err := json.Unmarshal(line, &f); err != nil {
		return Event{}, false, &ProtocolError{Line: truncate(string(line), maxFrameNote), Cause: err}
	}

	switch EventType(f.Type) {
	case EventText:
		return Event{Type: EventText, Text: f.Text}, true, nil
	case EventComplete:
		return Event{Type: EventComplete}, true, nil
	case EventError:
		return Event{Type: EventError, Err: fmt.Errorf("backend error: %s", truncate(f.Message, maxFrameNote))}, true, nil
	default:
		return Event{}, false, nil
	}
}

// truncate bounds s to n bytes for log and error summaries.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
