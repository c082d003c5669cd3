package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/africarailways/ussd-gateway/internal/usecase"
)

func TestStatsEndpoint(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fund := usecase.NewFundraiseStats(85_400, 37)
	s := NewStats(log, fund, decimal.NewFromFloat(1.44), 350_000)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "1.44", got.SuiPrice)
	assert.Equal(t, int64(85_400), got.TotalRaised)
	assert.Equal(t, int64(350_000), got.Goal)
	assert.Equal(t, int64(37), got.InvestorCount)
	assert.Equal(t, "24.40", got.ProgressPercent)

	fund.RecordInvestment(600)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(86_000), got.TotalRaised)
	assert.Equal(t, int64(38), got.InvestorCount)
}
