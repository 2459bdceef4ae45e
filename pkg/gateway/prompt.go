package gateway

import (
	"strings"

	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway/types"
)

// BuildPrompt reduces a conversation to the single prompt string the
// backend accepts.
//
// When the final message is from the user, that message alone becomes
// the prompt and earlier turns are dropped. This lossy reduction
// mirrors the backend's single-turn usage and is intentional, not a
// bug. When the conversation does not end with a user message, the
// whole history is reconstructed line by line, with system and
// assistant messages carrying visible tags so the turns stay
// distinguishable.
func BuildPrompt(messages []types.Message) string {
	if len(messages) == 0 {
		return ""
	}

	if last := messages[len(messages)-1]; last.Role == "user" {
		return flattenContent(last.Content)
	}

	var lines []string
	for _, msg := range messages {
		text := flattenContent(msg.Content)
		if text == "" {
			continue
		}
		switch msg.Role {
		case "system":
			lines = append(lines, "System: "+text)
		case "assistant":
			lines = append(lines, "Assistant: "+text)
		default:
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// flattenContent extracts text from a message body, which is either a
// plain string or an array of typed parts. Text parts are concatenated
// in order; non-text parts are skipped.
func flattenContent(content interface{}) string {
	switch c := content.(type) {
	case string:
		return c
	case []interface{}:
		var sb strings.Builder
		for _, part := range c {
			m, ok := part.(map[string]interface{})
			if !ok {
				continue
			}
			if t, _ := m["type"].(string); t != "" && t != "text" {
				continue
			}
			if text, ok := m["text"].(string); ok {
				sb.WriteString(text)
			}
		}
		return sb.String()
	default:
		return ""
	}
}
