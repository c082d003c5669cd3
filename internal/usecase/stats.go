package usecase

import "sync"

// FundraiseStats counts confirmed investments on top of the seeded totals
// from earlier rounds. Served by /api/stats.
type FundraiseStats struct {
	mu        sync.Mutex
	raised    int64
	investors int64
}

func NewFundraiseStats(raisedToDate, investorCount int64) *FundraiseStats {
	return &FundraiseStats{raised: raisedToDate, investors: investorCount}
}

func (s *FundraiseStats) RecordInvestment(amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raised += amount
	s.investors++
}

func (s *FundraiseStats) Snapshot() (raised, investors int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raised, s.investors
}
