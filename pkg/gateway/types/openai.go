package types

// ChatCompletionRequest is an OpenAI-compatible chat completion
// request. Fields the backend cannot honor (temperature, max_tokens)
// are accepted for SDK compatibility and ignored.
type ChatCompletionRequest struct {
	// Model is the requested model identifier.
	Model string `json:"model"`

	// Messages is the conversation history.
	Messages []Message `json:"messages"`

	// Temperature is accepted for compatibility and ignored.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens is accepted for compatibility and ignored.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Stream enables server-sent events streaming.
	Stream bool `json:"stream,omitempty"`
}

// Message is a single conversation message. Content is either a string
// or an array of typed content parts.
type Message struct {
	// Role is "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is a string or an array of content parts.
	Content interface{} `json:"content"`
}

// Validate checks the request before any backend interaction.
func (r *ChatCompletionRequest) Validate() error {
	if r.Model == "" {
		return &ValidationError{Field: "model", Message: "model is required"}
	}
	if len(r.Messages) == 0 {
		return &ValidationError{Field: "messages", Message: "messages must contain at least one message"}
	}
	for i, msg := range r.Messages {
		if msg.Role == "" {
			return &ValidationError{Field: "messages", Message: messageFieldError(i, "role is required")}
		}
		if msg.Content == nil {
			return &ValidationError{Field: "messages", Message: messageFieldError(i, "content is required")}
		}
	}
	return nil
}

// ChatCompletionResponse is the non-streaming completions response.
type ChatCompletionResponse struct {
	// ID uniquely identifies the response ("chatcmpl-" prefix).
	ID string `json:"id"`

	// Object is always "chat.completion".
	Object string `json:"object"`

	// Created is the response creation time as a Unix timestamp.
	Created int64 `json:"created"`

	// Model echoes the requested model identifier.
	Model string `json:"model"`

	// Choices holds the single generated message.
	Choices []Choice `json:"choices"`

	// Usage carries zero placeholders; the backend reports no token
	// counts.
	Usage Usage `json:"usage"`
}

// Choice is one generated completion.
type Choice struct {
	// Index is the choice position, always 0.
	Index int `json:"index"`

	// Message is the generated assistant message.
	Message Message `json:"message"`

	// FinishReason is "stop" on normal completion.
	FinishReason string `json:"finish_reason"`
}

// Usage reports token counts. The backend exposes none, so all fields
// are zero placeholders.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionStreamChunk is one streamed completions event.
type ChatCompletionStreamChunk struct {
	// ID is shared by every chunk of one response.
	ID string `json:"id"`

	// Object is always "chat.completion.chunk".
	Object string `json:"object"`

	// Created is the response creation time as a Unix timestamp.
	Created int64 `json:"created"`

	// Model echoes the requested model identifier.
	Model string `json:"model"`

	// Choices holds the single incremental delta.
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice is one incremental choice update.
type StreamChoice struct {
	// Index is the choice position, always 0.
	Index int `json:"index"`

	// Delta carries the incremental role or content.
	Delta Delta `json:"delta"`

	// FinishReason is nil until the terminal chunk, then "stop".
	FinishReason *string `json:"finish_reason"`
}

// Delta is the incremental payload of a stream chunk.
type Delta struct {
	// Role is set only on the first chunk.
	Role string `json:"role,omitempty"`

	// Content is the incremental text.
	Content string `json:"content,omitempty"`
}

// ModelList is the models-list response.
type ModelList struct {
	// Object is always "list".
	Object string `json:"object"`

	// Data lists the advertised models.
	Data []Model `json:"data"`
}

// Model is one catalog entry.
type Model struct {
	// ID is the model identifier.
	ID string `json:"id"`

	// Object is always "model".
	Object string `json:"object"`

	// Created is a fixed catalog timestamp.
	Created int64 `json:"created"`

	// OwnedBy names the serving system.
	OwnedBy string `json:"owned_by"`
}
