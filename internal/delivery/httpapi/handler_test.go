package httpapi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/africarailways/ussd-gateway/internal/adapters/memstore"
	"github.com/africarailways/ussd-gateway/internal/ports"
	"github.com/africarailways/ussd-gateway/internal/usecase"
)

type stubEngine struct{}

func (stubEngine) ExecuteInvestment(ctx context.Context, phone string, amount int64) (string, error) {
	return "0xSTUBTX", nil
}

func (stubEngine) CheckInvestmentStatus(ctx context.Context, phone string) (*ports.WalletStatus, error) {
	return &ports.WalletStatus{}, nil
}

func (stubEngine) ClaimVestedTokens(ctx context.Context, phone, certificateID string) (string, error) {
	return "0xSTUBCLAIM", nil
}

func (stubEngine) Healthy(ctx context.Context) bool { return true }

type stubNotifier struct{}

func (stubNotifier) SendInvestmentSuccess(context.Context, string, int64, string) error { return nil }
func (stubNotifier) SendTicketConfirmation(context.Context, string, string, string, string) error {
	return nil
}
func (stubNotifier) SendVestingReminder(context.Context, string, int64) error { return nil }
func (stubNotifier) Configured() bool                                         { return false }

type stubLimiter struct {
	deny  bool
	retry int
}

func (s stubLimiter) Check(phone string) (bool, int) {
	if s.deny {
		return false, s.retry
	}
	return true, 0
}

func newTestHandler(t *testing.T, limiter ports.RateLimiter, enforceOrigin bool) *Handler {
	t.Helper()
	return newTestHandlerWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)), limiter, enforceOrigin)
}

func newTestHandlerWithLogger(t *testing.T, log *slog.Logger, limiter ports.RateLimiter, enforceOrigin bool) *Handler {
	t.Helper()
	bridge := usecase.NewBridge(log, stubEngine{}, stubNotifier{}, time.Second)
	dispatcher := usecase.NewDispatcher(log, memstore.New(), bridge, usecase.NewFundraiseStats(0, 0), usecase.Config{
		ServiceCode:   "*384*26621#",
		SuiPrice:      decimal.NewFromFloat(1.44),
		MinInvestment: 100,
		MaxInvestment: 1_000_000,
		TotalRaise:    350_000,
		EquityOffered: 10,
		SessionTTL:    30 * time.Minute,
	})
	guard, err := NewOriginGuard([]string{"52.48.80.0/24"}, enforceOrigin)
	require.NoError(t, err)
	return NewHandler(log, dispatcher, limiter, guard)
}

func postUSSD(h *Handler, sessionID, phone, text, remoteAddr string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("sessionId", sessionID)
	form.Set("phoneNumber", phone)
	form.Set("text", text)

	req := httptest.NewRequest(http.MethodPost, "/ussd", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}

	rec := httptest.NewRecorder()
	h.USSD(rec, req)
	return rec
}

func TestUSSDServesMainMenu(t *testing.T) {
	h := newTestHandler(t, stubLimiter{}, false)

	rec := postUSSD(h, "ATUid_12345", "+260975190740", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "CON Welcome to ARAIL"))
}

func TestUSSDRejectsForeignOrigin(t *testing.T) {
	h := newTestHandler(t, stubLimiter{}, true)

	rec := postUSSD(h, "ATUid_12345", "+260975190740", "", "198.51.100.7:4411")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUSSDAllowsKnownOrigin(t *testing.T) {
	h := newTestHandler(t, stubLimiter{}, true)

	rec := postUSSD(h, "ATUid_12345", "+260975190740", "", "52.48.80.99:4411")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUSSDTrustsForwardedFor(t *testing.T) {
	h := newTestHandler(t, stubLimiter{}, true)

	form := url.Values{}
	form.Set("sessionId", "ATUid_12345")
	form.Set("phoneNumber", "+260975190740")
	form.Set("text", "")

	req := httptest.NewRequest(http.MethodPost, "/ussd", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", "52.48.80.12, 10.1.2.3")
	req.RemoteAddr = "10.1.2.3:9999"

	rec := httptest.NewRecorder()
	h.USSD(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUSSDInvalidPhone(t *testing.T) {
	h := newTestHandler(t, stubLimiter{}, false)

	for _, phone := range []string{"", "26097519", "+0123", "not-a-phone"} {
		rec := postUSSD(h, "ATUid_12345", phone, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, phone)
		assert.Equal(t, "END Error: invalid phone number.", rec.Body.String(), phone)
	}
}

func TestUSSDInvalidSession(t *testing.T) {
	h := newTestHandler(t, stubLimiter{}, false)

	for _, id := range []string{"", "ab", "bad session id"} {
		rec := postUSSD(h, id, "+260975190740", "", "")
		assert.Equal(t, http.StatusOK, rec.Code, id)
		assert.Equal(t, "END Error: invalid session.", rec.Body.String(), id)
	}
}

func TestUSSDRateLimited(t *testing.T) {
	h := newTestHandler(t, stubLimiter{deny: true, retry: 12}, false)

	rec := postUSSD(h, "ATUid_12345", "+260975190740", "2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "END ⚠️ Too many requests. Please wait 12 seconds and try again.", rec.Body.String())
}

func TestUSSDRequestLogCarriesIdentity(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := newTestHandlerWithLogger(t, log, stubLimiter{}, false)

	postUSSD(h, "ATUid_12345", "+260975190740", "2*1", "")

	logged := buf.String()
	assert.Contains(t, logged, `"session":"ATUid_12345"`)
	assert.Contains(t, logged, `"phone":"+260975190740"`)
	assert.Contains(t, logged, `"text":"2*1"`)
}

func TestUSSDSanitizesText(t *testing.T) {
	h := newTestHandler(t, stubLimiter{}, false)

	// Injected garbage collapses to "2", which is the invest menu.
	rec := postUSSD(h, "ATUid_12345", "+260975190740", "2'; --", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pre-Seed Round")
}
