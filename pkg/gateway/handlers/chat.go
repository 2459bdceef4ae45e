package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway"
	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway/middleware"
	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway/types"
	"github.com/a88883284/iflow-sdk-bridge/pkg/logstore"
	"github.com/a88883284/iflow-sdk-bridge/pkg/session"
	"github.com/a88883284/iflow-sdk-bridge/pkg/telemetry/metrics"
)

// ChatHandler serves the completions-style endpoint, streaming and
// non-streaming.
type ChatHandler struct {
	svc      ChatService
	logger   *slog.Logger
	metrics  *metrics.RequestMetrics
	logs     *logstore.Store
	maxBody  int64
	endpoint string
}

// NewChatHandler creates the completions handler. Metrics and the log
// store may be nil.
func NewChatHandler(svc ChatService, logger *slog.Logger, rm *metrics.RequestMetrics, logs *logstore.Store, maxBody int64) *ChatHandler {
	return &ChatHandler{
		svc:      svc,
		logger:   logger,
		metrics:  rm,
		logs:     logs,
		maxBody:  maxBody,
		endpoint: "chat_completions",
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	var chatReq types.ChatCompletionRequest
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	if err := json.NewDecoder(r.Body).Decode(&chatReq); err != nil {
		h.fail(w, r, &chatReq, start, &types.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := chatReq.Validate(); err != nil {
		h.fail(w, r, &chatReq, start, err)
		return
	}

	h.logger.InfoContext(ctx, "processing chat completion request",
		"request_id", requestID,
		"model", chatReq.Model,
		"messages", len(chatReq.Messages),
		"stream", chatReq.Stream,
	)

	req := session.Request{
		Prompt: gateway.BuildPrompt(chatReq.Messages),
		Model:  chatReq.Model,
	}

	if chatReq.Stream {
		h.stream(w, r, &chatReq, req, start)
		return
	}

	text, err := h.svc.Chat(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "chat completion failed",
			"request_id", requestID,
			"model", chatReq.Model,
			"error", err,
		)
		h.fail(w, r, &chatReq, start, err)
		return
	}

	h.record(r, &chatReq, start, logstore.OutcomeSuccess, "")
	if err := gateway.WriteJSON(w, http.StatusOK, gateway.FormatChatCompletion(text, chatReq.Model)); err != nil {
		h.logger.ErrorContext(ctx, "failed to write response", "request_id", requestID, "error", err)
	}
}

// stream writes the response as completions-style SSE chunks ending
// with the [DONE] sentinel.
func (h *ChatHandler) stream(w http.ResponseWriter, r *http.Request, chatReq *types.ChatCompletionRequest, req session.Request, start time.Time) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	chunks, err := h.svc.ChatStream(ctx, req)
	if err != nil {
		h.fail(w, r, chatReq, start, err)
		return
	}

	if h.metrics != nil {
		h.metrics.StreamStarted()
		defer h.metrics.StreamFinished()
	}

	gateway.SetSSEHeaders(w)
	responseID := gateway.NewCompletionID()
	created := time.Now().Unix()

	for chunk := range chunks {
		switch {
		case chunk.Err != nil:
			h.logger.ErrorContext(ctx, "stream aborted",
				"request_id", requestID,
				"model", chatReq.Model,
				"error", chunk.Err,
			)
			_ = gateway.WriteSSEData(w, gateway.ErrorFor(chunk.Err))
			h.record(r, chatReq, start, logstore.OutcomeError, chunk.Err.Error())
			return
		case chunk.Done:
			out := gateway.FormatStreamChunk(responseID, chatReq.Model, created, types.Delta{}, "stop")
			_ = gateway.WriteSSEData(w, out)
		case chunk.Role != "":
			out := gateway.FormatStreamChunk(responseID, chatReq.Model, created, types.Delta{Role: chunk.Role}, "")
			_ = gateway.WriteSSEData(w, out)
		default:
			out := gateway.FormatStreamChunk(responseID, chatReq.Model, created, types.Delta{Content: chunk.Delta}, "")
			_ = gateway.WriteSSEData(w, out)
		}
	}

	_ = gateway.WriteSSEDone(w)
	h.record(r, chatReq, start, logstore.OutcomeSuccess, "")
}

func (h *ChatHandler) fail(w http.ResponseWriter, r *http.Request, chatReq *types.ChatCompletionRequest, start time.Time, err error) {
	h.record(r, chatReq, start, logstore.OutcomeError, err.Error())
	if werr := gateway.WriteError(w, gateway.ErrorFor(err)); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write error response", "error", werr)
	}
}

func (h *ChatHandler) record(r *http.Request, chatReq *types.ChatCompletionRequest, start time.Time, outcome logstore.Outcome, summary string) {
	duration := time.Since(start)
	if h.metrics != nil {
		h.metrics.ObserveRequest(h.endpoint, chatReq.Model, string(outcome), duration)
	}
	if h.logs != nil {
		h.logs.Append(logstore.Entry{
			Time:       time.Now(),
			RequestID:  middleware.GetRequestID(r.Context()),
			Model:      chatReq.Model,
			Outcome:    outcome,
			Summary:    boundedSummary(summary),
			DurationMs: duration.Milliseconds(),
		})
	}
}
