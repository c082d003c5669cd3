package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/africarailways/ussd-gateway/internal/ports"
)

type healthResponse struct {
	Status         string `json:"status"`
	RedisConnected bool   `json:"redis_connected"`
	EngineHealthy  bool   `json:"engine_healthy"`
	SMSConfigured  bool   `json:"sms_configured"`
	Timestamp      string `json:"timestamp"`
}

// Health reports the gateway's own liveness plus the state of each
// integration. Degraded integrations do not fail the check: the gateway
// keeps serving menus on its in-memory fallback.
type Health struct {
	log      *slog.Logger
	store    ports.SessionStore
	engine   ports.InvestmentEngine
	notifier ports.Notifier
}

func NewHealth(log *slog.Logger, store ports.SessionStore, engine ports.InvestmentEngine, notifier ports.Notifier) *Health {
	return &Health{log: log, store: store, engine: engine, notifier: notifier}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "ok",
		RedisConnected: h.store.Connected(r.Context()),
		EngineHealthy:  h.engine.Healthy(r.Context()),
		SMSConfigured:  h.notifier.Configured(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("encode health response", "error", err)
	}
}
