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

// MessagesHandler serves the Anthropic-style messages endpoint,
// streaming and non-streaming.
type MessagesHandler struct {
	svc      ChatService
	logger   *slog.Logger
	metrics  *metrics.RequestMetrics
	logs     *logstore.Store
	maxBody  int64
	endpoint string
}

// NewMessagesHandler creates the messages handler. Metrics and the log
// store may be nil.
func NewMessagesHandler(svc ChatService, logger *slog.Logger, rm *metrics.RequestMetrics, logs *logstore.Store, maxBody int64) *MessagesHandler {
	return &MessagesHandler{
		svc:      svc,
		logger:   logger,
		metrics:  rm,
		logs:     logs,
		maxBody:  maxBody,
		endpoint: "messages",
	}
}

func (h *MessagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	var msgReq types.MessagesRequest
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	if err := json.NewDecoder(r.Body).Decode(&msgReq); err != nil {
		h.fail(w, r, &msgReq, start, &types.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := msgReq.Validate(); err != nil {
		h.fail(w, r, &msgReq, start, err)
		return
	}

	h.logger.InfoContext(ctx, "processing messages request",
		"request_id", requestID,
		"model", msgReq.Model,
		"messages", len(msgReq.Messages),
		"stream", msgReq.Stream,
	)

	req := session.Request{
		Prompt: gateway.BuildPrompt(promptMessages(&msgReq)),
		Model:  msgReq.Model,
	}

	if msgReq.Stream {
		h.stream(w, r, &msgReq, req, start)
		return
	}

	text, err := h.svc.Chat(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "messages request failed",
			"request_id", requestID,
			"model", msgReq.Model,
			"error", err,
		)
		h.fail(w, r, &msgReq, start, err)
		return
	}

	h.record(r, &msgReq, start, logstore.OutcomeSuccess, "")
	if err := gateway.WriteJSON(w, http.StatusOK, gateway.FormatMessagesResponse(text, msgReq.Model)); err != nil {
		h.logger.ErrorContext(ctx, "failed to write response", "request_id", requestID, "error", err)
	}
}

// promptMessages folds the optional system prompt in as a leading
// system message so prompt construction treats it uniformly.
func promptMessages(req *types.MessagesRequest) []types.Message {
	if req.System == nil {
		return req.Messages
	}
	msgs := make([]types.Message, 0, len(req.Messages)+1)
	msgs = append(msgs, types.Message{Role: "system", Content: req.System})
	return append(msgs, req.Messages...)
}

// stream writes the response as the named lifecycle event sequence:
// message_start, content_block_start, content_block_delta (repeated),
// content_block_stop, message_delta, message_stop.
func (h *MessagesHandler) stream(w http.ResponseWriter, r *http.Request, msgReq *types.MessagesRequest, req session.Request, start time.Time) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	chunks, err := h.svc.ChatStream(ctx, req)
	if err != nil {
		h.fail(w, r, msgReq, start, err)
		return
	}

	if h.metrics != nil {
		h.metrics.StreamStarted()
		defer h.metrics.StreamFinished()
	}

	gateway.SetSSEHeaders(w)

	opened := false
	open := func() {
		if opened {
			return
		}
		opened = true
		_ = gateway.WriteSSEEvent(w, types.EventMessageStart, types.MessageStartEvent{
			Type: types.EventMessageStart,
			Message: types.MessagesResponse{
				ID:      gateway.NewMessageID(),
				Type:    "message",
				Role:    "assistant",
				Model:   msgReq.Model,
				Content: []types.ContentBlock{},
			},
		})
		_ = gateway.WriteSSEEvent(w, types.EventContentBlockStart, types.ContentBlockStartEvent{
			Type:         types.EventContentBlockStart,
			ContentBlock: types.ContentBlock{Type: "text"},
		})
	}

	for chunk := range chunks {
		switch {
		case chunk.Err != nil:
			h.logger.ErrorContext(ctx, "stream aborted",
				"request_id", requestID,
				"model", msgReq.Model,
				"error", chunk.Err,
			)
			errResp, _ := gateway.AnthropicErrorFor(chunk.Err)
			_ = gateway.WriteSSEEvent(w, "error", errResp)
			h.record(r, msgReq, start, logstore.OutcomeError, chunk.Err.Error())
			return
		case chunk.Done:
			open()
			_ = gateway.WriteSSEEvent(w, types.EventContentBlockStop, types.ContentBlockStopEvent{
				Type: types.EventContentBlockStop,
			})
			_ = gateway.WriteSSEEvent(w, types.EventMessageDelta, types.MessageDeltaEvent{
				Type:  types.EventMessageDelta,
				Delta: types.MessageDelta{StopReason: "end_turn"},
			})
			_ = gateway.WriteSSEEvent(w, types.EventMessageStop, types.MessageStopEvent{
				Type: types.EventMessageStop,
			})
		case chunk.Role != "":
			open()
		default:
			open()
			_ = gateway.WriteSSEEvent(w, types.EventContentBlockDelta, types.ContentBlockDeltaEvent{
				Type:  types.EventContentBlockDelta,
				Delta: types.TextDelta{Type: "text_delta", Text: chunk.Delta},
			})
		}
	}

	h.record(r, msgReq, start, logstore.OutcomeSuccess, "")
}

func (h *MessagesHandler) fail(w http.ResponseWriter, r *http.Request, msgReq *types.MessagesRequest, start time.Time, err error) {
	h.record(r, msgReq, start, logstore.OutcomeError, err.Error())
	errResp, status := gateway.AnthropicErrorFor(err)
	if werr := gateway.WriteJSON(w, status, errResp); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write error response", "error", werr)
	}
}

func (h *MessagesHandler) record(r *http.Request, msgReq *types.MessagesRequest, start time.Time, outcome logstore.Outcome, summary string) {
	duration := time.Since(start)
	if h.metrics != nil {
		h.metrics.ObserveRequest(h.endpoint, msgReq.Model, string(outcome), duration)
	}
	if h.logs != nil {
		h.logs.Append(logstore.Entry{
			Time:       time.Now(),
			RequestID:  middleware.GetRequestID(r.Context()),
			Model:      msgReq.Model,
			Outcome:    outcome,
			Summary:    boundedSummary(summary),
			DurationMs: duration.Milliseconds(),
		})
	}
}
