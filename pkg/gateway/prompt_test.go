package gateway

import (
	"strings"
	"testing"

	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway/types"
)

func TestBuildPromptSingleUserMessage(t *testing.T) {
	got := BuildPrompt([]types.Message{{Role: "user", Content: "hello"}})
	if got != "hello" {
		t.Errorf("BuildPrompt() = %q, want %q", got, "hello")
	}
}

func TestBuildPromptTrailingUserMessageWins(t *testing.T) {
	got := BuildPrompt([]types.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
		{Role: "user", Content: "second question"},
	})
	if got != "second question" {
		t.Errorf("BuildPrompt() = %q, want only the trailing user message", got)
	}
}

func TestBuildPromptFallbackReconstruction(t *testing.T) {
	got := BuildPrompt([]types.Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})

	// No trailing user message: both turns must appear, distinguishably.
	if !strings.Contains(got, "hi") {
		t.Errorf("BuildPrompt() = %q, missing user turn", got)
	}
	if !strings.Contains(got, "Assistant: hello") {
		t.Errorf("BuildPrompt() = %q, missing tagged assistant turn", got)
	}
}

func TestBuildPromptFallbackTagsSystem(t *testing.T) {
	got := BuildPrompt([]types.Message{
		{Role: "system", Content: "be brief"},
		{Role: "assistant", Content: "ok"},
	})
	if !strings.Contains(got, "System: be brief") {
		t.Errorf("BuildPrompt() = %q, missing tagged system turn", got)
	}
}

func TestBuildPromptMultiPartContent(t *testing.T) {
	content := []interface{}{
		map[string]interface{}{"type": "text", "text": "look at "},
		map[string]interface{}{"type": "image_url", "image_url": map[string]interface{}{"url": "http://x"}},
		map[string]interface{}{"type": "text", "text": "this"},
	}
	got := BuildPrompt([]types.Message{{Role: "user", Content: content}})
	if got != "look at this" {
		t.Errorf("BuildPrompt() = %q, want text parts concatenated in order", got)
	}
}

func TestBuildPromptEmpty(t *testing.T) {
	if got := BuildPrompt(nil); got != "" {
		t.Errorf("BuildPrompt(nil) = %q, want empty", got)
	}
}
