package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/africarailways/ussd-gateway/internal/domain"
	"github.com/africarailways/ussd-gateway/internal/ports"
	"github.com/africarailways/ussd-gateway/internal/usecase"
	"github.com/africarailways/ussd-gateway/pkg/prometheus"
)

// Handler terminates the aggregator callback protocol. Apart from origin
// rejection every outcome is a 200 with CON/END plain text: the aggregator
// renders whatever body it gets, so errors must be phrased for the handset,
// not for an HTTP client.
type Handler struct {
	log        *slog.Logger
	dispatcher *usecase.Dispatcher
	limiter    ports.RateLimiter
	guard      *OriginGuard
}

func NewHandler(log *slog.Logger, dispatcher *usecase.Dispatcher, limiter ports.RateLimiter, guard *OriginGuard) *Handler {
	return &Handler{log: log, dispatcher: dispatcher, limiter: limiter, guard: guard}
}

func (h *Handler) USSD(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	requestID := uuid.NewString()

	if !h.guard.Allow(r) {
		prometheus.RejectedRequests.WithLabelValues("origin").Inc()
		h.log.Warn("origin rejected", "request_id", requestID, "remote", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	sessionID := r.PostFormValue("sessionId")
	phone := r.PostFormValue("phoneNumber")
	text := domain.SanitizeText(r.PostFormValue("text"))

	if err := domain.ValidateSessionID(sessionID); err != nil {
		prometheus.RejectedRequests.WithLabelValues("session").Inc()
		h.log.Warn("bad session id", "request_id", requestID, "error", err)
		h.respond(w, r, started, "END Error: invalid session.")
		return
	}
	if err := domain.ValidatePhone(phone); err != nil {
		prometheus.RejectedRequests.WithLabelValues("phone").Inc()
		h.log.Warn("bad phone number", "request_id", requestID, "error", err)
		h.respond(w, r, started, "END Error: invalid phone number.")
		return
	}

	if allowed, retryAfter := h.limiter.Check(phone); !allowed {
		prometheus.RejectedRequests.WithLabelValues("rate_limit").Inc()
		h.log.Warn("rate limited", "request_id", requestID, "phone", phone, "retry_after", retryAfter)
		h.respond(w, r, started,
			fmt.Sprintf("END ⚠️ Too many requests. Please wait %d seconds and try again.", retryAfter))
		return
	}

	h.log.Info("ussd request", "request_id", requestID, "session", sessionID, "phone", phone, "text", text)
	resp := h.dispatcher.Handle(r.Context(), sessionID, phone, text)
	h.log.Info("ussd response", "request_id", requestID, "session", sessionID, "kind", respKind(resp))
	h.respond(w, r, started, resp)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, started time.Time, resp string) {
	path := pathLabel(r.PostFormValue("text"))
	prometheus.RequestCounter.WithLabelValues(path, respKind(resp)).Inc()
	prometheus.RequestDuration.WithLabelValues(path).Observe(time.Since(started).Seconds())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(resp))
}

func respKind(resp string) string {
	if strings.HasPrefix(resp, "CON ") {
		return "con"
	}
	return "end"
}

// pathLabel keeps metric cardinality bounded: only the top-level menu
// selection is recorded, never the full input.
func pathLabel(text string) string {
	text = domain.SanitizeText(text)
	if text == "" {
		return "root"
	}
	return strings.SplitN(text, "*", 2)[0]
}
