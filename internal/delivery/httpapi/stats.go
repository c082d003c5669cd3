package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/africarailways/ussd-gateway/internal/usecase"
)

type statsResponse struct {
	SuiPrice        string `json:"sui_price"`
	TotalRaised     int64  `json:"total_raised"`
	Goal            int64  `json:"goal"`
	InvestorCount   int64  `json:"investor_count"`
	ProgressPercent string `json:"progress_percent"`
	Timestamp       string `json:"timestamp"`
}

// Stats exposes the public fundraise counters consumed by the campaign
// landing page.
type Stats struct {
	log      *slog.Logger
	stats    *usecase.FundraiseStats
	suiPrice decimal.Decimal
	goal     int64
}

func NewStats(log *slog.Logger, stats *usecase.FundraiseStats, suiPrice decimal.Decimal, goal int64) *Stats {
	return &Stats{log: log, stats: stats, suiPrice: suiPrice, goal: goal}
}

func (s *Stats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raised, investors := s.stats.Snapshot()

	progress := decimal.Zero
	if s.goal > 0 {
		progress = decimal.NewFromInt(raised).
			Div(decimal.NewFromInt(s.goal)).
			Mul(decimal.NewFromInt(100))
	}

	resp := statsResponse{
		SuiPrice:        s.suiPrice.StringFixed(2),
		TotalRaised:     raised,
		Goal:            s.goal,
		InvestorCount:   investors,
		ProgressPercent: progress.StringFixed(2),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("encode stats response", "error", err)
	}
}
