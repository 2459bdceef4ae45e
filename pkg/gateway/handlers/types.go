// Package handlers contains the HTTP handlers for the bridge's routes.
package handlers

import (
	"context"

	"github.com/a88883284/iflow-sdk-bridge/pkg/session"
)

// ChatService is the slice of the session manager the handlers depend
// on. Tests substitute a fake.
type ChatService interface {
	// Chat runs one paced, non-streaming exchange.
	Chat(ctx context.Context, req session.Request) (string, error)

	// ChatStream runs one paced, streaming exchange.
	ChatStream(ctx context.Context, req session.Request) (<-chan session.Chunk, error)

	// ResolveModel maps a model identifier through the alias table.
	ResolveModel(name string) string

	// Stats returns a read-only pacing snapshot.
	Stats() session.Stats

	// Connected reports whether a backend session is live.
	Connected() bool
}

// maxSummaryLen bounds the error text recorded in the request log.
const maxSummaryLen = 200

func boundedSummary(s string) string {
	if len(s) <= maxSummaryLen {
		return s
	}
	return s[:maxSummaryLen]
}
