package types

// MessagesRequest is an Anthropic-compatible messages request.
type MessagesRequest struct {
	// Model is the requested model identifier.
	Model string `json:"model"`

	// Messages is the conversation history. Content is a string or an
	// array of typed content blocks.
	Messages []Message `json:"messages"`

	// System is an optional system prompt, a string or an array of
	// content blocks.
	System interface{} `json:"system,omitempty"`

	// MaxTokens is required by the schema; the backend ignores it.
	MaxTokens int `json:"max_tokens"`

	// Stream enables server-sent events streaming.
	Stream bool `json:"stream,omitempty"`
}

// Validate checks the request before any backend interaction.
func (r *MessagesRequest) Validate() error {
	if r.Model == "" {
		return &ValidationError{Field: "model", Message: "model is required"}
	}
	if len(r.Messages) == 0 {
		return &ValidationError{Field: "messages", Message: "messages must contain at least one message"}
	}
	if r.MaxTokens <= 0 {
		return &ValidationError{Field: "max_tokens", Message: "max_tokens must be greater than 0"}
	}
	for i, msg := range r.Messages {
		if msg.Role == "" {
			return &ValidationError{Field: "messages", Message: messageFieldError(i, "role is required")}
		}
	}
	return nil
}

// MessagesResponse is the non-streaming messages response.
type MessagesResponse struct {
	// ID uniquely identifies the response ("msg_" prefix).
	ID string `json:"id"`

	// Type is always "message".
	Type string `json:"type"`

	// Role is always "assistant".
	Role string `json:"role"`

	// Model echoes the requested model identifier.
	Model string `json:"model"`

	// Content wraps the accumulated text as a single text block.
	Content []ContentBlock `json:"content"`

	// StopReason is "end_turn" on normal completion.
	StopReason string `json:"stop_reason"`

	// Usage carries zero placeholders.
	Usage MessagesUsage `json:"usage"`
}

// ContentBlock is one typed block of message content.
type ContentBlock struct {
	// Type is the block type, "text" for all bridge output.
	Type string `json:"type"`

	// Text is the block text.
	Text string `json:"text,omitempty"`
}

// MessagesUsage reports token counts as zero placeholders.
type MessagesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Messages-stream lifecycle event names, emitted in this order:
// message_start, content_block_start, content_block_delta (repeated),
// content_block_stop, message_delta, message_stop.
const (
	EventMessageStart      = "message_start"
	EventContentBlockStart = "content_block_start"
	EventContentBlockDelta = "content_block_delta"
	EventContentBlockStop  = "content_block_stop"
	EventMessageDelta      = "message_delta"
	EventMessageStop       = "message_stop"
)

// MessageStartEvent opens a messages stream.
type MessageStartEvent struct {
	Type    string           `json:"type"`
	Message MessagesResponse `json:"message"`
}

// ContentBlockStartEvent opens the single text block.
type ContentBlockStartEvent struct {
	Type         string       `json:"type"`
	Index        int          `json:"index"`
	ContentBlock ContentBlock `json:"content_block"`
}

// ContentBlockDeltaEvent carries one text increment.
type ContentBlockDeltaEvent struct {
	Type  string    `json:"type"`
	Index int       `json:"index"`
	Delta TextDelta `json:"delta"`
}

// TextDelta is the payload of a content_block_delta event.
type TextDelta struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ContentBlockStopEvent closes the text block.
type ContentBlockStopEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// MessageDeltaEvent carries the stop reason.
type MessageDeltaEvent struct {
	Type  string        `json:"type"`
	Delta MessageDelta  `json:"delta"`
	Usage MessagesUsage `json:"usage"`
}

// MessageDelta is the payload of a message_delta event.
type MessageDelta struct {
	StopReason string `json:"stop_reason"`
}

// MessageStopEvent closes a messages stream.
type MessageStopEvent struct {
	Type string `json:"type"`
}
