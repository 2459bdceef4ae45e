package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/a88883284/iflow-sdk-bridge/pkg/backend"
	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway/types"
)

// NewCompletionID generates a completions-style response identifier.
func NewCompletionID() string {
	return "chatcmpl-" + uuid.NewString()
}

// NewMessageID generates a messages-style response identifier.
func NewMessageID() string {
	return "msg_" + uuid.NewString()
}

// FormatChatCompletion wraps accumulated text as a completions
// response. Usage is a zero placeholder; the backend reports no token
// counts.
func FormatChatCompletion(text, model string) *types.ChatCompletionResponse {
	return &types.ChatCompletionResponse{
		ID:      NewCompletionID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []types.Choice{
			{
				Index:        0,
				Message:      types.Message{Role: "assistant", Content: text},
				FinishReason: "stop",
			},
		},
	}
}

// FormatStreamChunk wraps one delta as a completions stream chunk. A
// non-empty stopReason marks the terminal chunk.
func FormatStreamChunk(id, model string, created int64, delta types.Delta, stopReason string) *types.ChatCompletionStreamChunk {
	choice := types.StreamChoice{Index: 0, Delta: delta}
	if stopReason != "" {
		choice.FinishReason = &stopReason
	}
	return &types.ChatCompletionStreamChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []types.StreamChoice{choice},
	}
}

// FormatMessagesResponse wraps accumulated text as a messages response.
func FormatMessagesResponse(text, model string) *types.MessagesResponse {
	return &types.MessagesResponse{
		ID:         NewMessageID(),
		Type:       "message",
		Role:       "assistant",
		Model:      model,
		Content:    []types.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
	}
}

// ErrorFor maps an error to the completions-style envelope and status.
func ErrorFor(err error) *types.ErrorResponse {
	var verr *types.ValidationError
	var cerr *backend.ConnectionError

	detail := types.ErrorDetail{Message: err.Error(), Type: types.ErrorTypeServerError}
	switch {
	case errors.As(err, &verr):
		detail.Type = types.ErrorTypeInvalidRequest
		detail.Param = verr.Field
	case errors.As(err, &cerr):
		detail.Type = types.ErrorTypeBadGateway
		if cerr.Op == "receive" {
			detail.Type = types.ErrorTypeGatewayTimeout
		}
	}
	return &types.ErrorResponse{Error: detail}
}

// AnthropicErrorFor maps an error to the messages-style envelope.
func AnthropicErrorFor(err error) (*types.AnthropicErrorResponse, int) {
	resp := ErrorFor(err)
	kind := "api_error"
	if resp.Error.Type == types.ErrorTypeInvalidRequest {
		kind = "invalid_request_error"
	}
	return &types.AnthropicErrorResponse{
		Type:  "error",
		Error: types.AnthropicErrorDetail{Type: kind, Message: resp.Error.Message},
	}, resp.Error.HTTPStatusCode()
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("encoding JSON response: %w", err)
	}
	return nil
}

// WriteError writes a completions-style error envelope with the status
// derived from its type.
func WriteError(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSON(w, errResp.Error.HTTPStatusCode(), errResp)
}

// SetSSEHeaders prepares the response for server-sent events.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// WriteSSEData writes one unnamed SSE event carrying v as JSON and
// flushes it immediately.
func WriteSSEData(w http.ResponseWriter, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling SSE event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("writing SSE event: %w", err)
	}
	flush(w)
	return nil
}

// WriteSSEEvent writes one named SSE event, the messages-stream format.
func WriteSSEEvent(w http.ResponseWriter, name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling SSE event %q: %w", name, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("writing SSE event %q: %w", name, err)
	}
	flush(w)
	return nil
}

// WriteSSEDone writes the completions-stream terminal sentinel.
func WriteSSEDone(w http.ResponseWriter) error {
	if _, err := fmt.Fprint(w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("writing SSE done marker: %w", err)
	}
	flush(w)
	return nil
}

func flush(w http.ResponseWriter) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
