package tracing

import (
	"context"
	"testing"

	"github.com/a88883284/iflow-sdk-bridge/pkg/config"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	tr, err := New(config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, span := tr.Start(context.Background(), "chat")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("disabled tracer produced a recording span")
	}
	if ctx == nil {
		t.Error("Start() returned nil context")
	}
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}

func TestEnabledTracerRecords(t *testing.T) {
	tr, err := New(config.TracingConfig{Enabled: true, SampleRate: 1.0})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer tr.Shutdown(context.Background())

	_, span := tr.Start(context.Background(), "chat")
	span.End()

	if !span.SpanContext().IsValid() {
		t.Error("enabled tracer produced an invalid span context")
	}
}
