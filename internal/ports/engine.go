package ports

import "context"

// WalletStatus is a snapshot of a phone number's investment position.
type WalletStatus struct {
	HasInvestment        bool
	TotalInvested        int64 // SUI
	EquityTokens         int64
	VestedTokens         int64
	LockedTokens         int64
	VestingProgress      float64 // percent
	ClaimableTokens      int64
	DaysUntilFullyVested int64
	CertificateID        string
}

// InvestmentEngine executes on-chain operations. Implemented elsewhere;
// this gateway only consumes it.
type InvestmentEngine interface {
	// ExecuteInvestment returns the transaction reference on success.
	ExecuteInvestment(ctx context.Context, phone string, amount int64) (string, error)

	CheckInvestmentStatus(ctx context.Context, phone string) (*WalletStatus, error)

	// ClaimVestedTokens returns the claim transaction reference.
	ClaimVestedTokens(ctx context.Context, phone, certificateID string) (string, error)

	// Healthy reports reachability for the health endpoint.
	Healthy(ctx context.Context) bool
}
