package handlers

import (
	"net/http"

	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway"
	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway/types"
	"github.com/a88883284/iflow-sdk-bridge/pkg/logstore"
)

// ModelsHandler serves the static model catalog.
type ModelsHandler struct {
	catalog []string
}

// NewModelsHandler creates the models-list handler.
func NewModelsHandler(catalog []string) *ModelsHandler {
	return &ModelsHandler{catalog: catalog}
}

func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = gateway.WriteJSON(w, http.StatusOK, gateway.FormatModelList(h.catalog))
}

// HealthHandler reports liveness and backend connection state. The
// bridge is healthy even while disconnected; the backend connects
// lazily on first use.
type HealthHandler struct {
	svc ChatService
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(svc ChatService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = gateway.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"backend_connected": h.svc.Connected(),
	})
}

// StatsHandler exposes the session manager's pacing snapshot.
type StatsHandler struct {
	svc ChatService
}

// NewStatsHandler creates the stats handler.
func NewStatsHandler(svc ChatService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = gateway.WriteJSON(w, http.StatusOK, h.svc.Stats())
}

// LogsHandler exposes the volatile request-log ring, filterable by
// outcome.
type LogsHandler struct {
	store *logstore.Store
}

// NewLogsHandler creates the logs handler.
func NewLogsHandler(store *logstore.Store) *LogsHandler {
	return &LogsHandler{store: store}
}

func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	outcome := logstore.Outcome(r.URL.Query().Get("outcome"))
	switch outcome {
	case "", logstore.OutcomeSuccess, logstore.OutcomeError:
	default:
		_ = gateway.WriteError(w, &types.ErrorResponse{Error: types.ErrorDetail{
			Message: "outcome must be success or error",
			Type:    types.ErrorTypeInvalidRequest,
			Param:   "outcome",
		}})
		return
	}

	entries := h.store.List(outcome)
	_ = gateway.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(entries),
		"logs":  entries,
	})
}
