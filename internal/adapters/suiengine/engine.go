package suiengine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/africarailways/ussd-gateway/internal/domain"
	"github.com/africarailways/ussd-gateway/internal/ports"
)

// Client talks to the investment engine service, which signs and submits
// the actual Move calls. The gateway never touches keys or RPC nodes.
type Client struct {
	log        *slog.Logger
	http       *resty.Client
	packageID  string
	treasuryID string
	now        func() time.Time
}

func New(log *slog.Logger, baseURL, apiKey, packageID, treasuryID string, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		http.SetAuthToken(apiKey)
	}
	return &Client{
		log:        log,
		http:       http,
		packageID:  packageID,
		treasuryID: treasuryID,
		now:        time.Now,
	}
}

type investRequest struct {
	Phone      string `json:"phone"`
	Amount     int64  `json:"amount"`
	PackageID  string `json:"package_id"`
	TreasuryID string `json:"treasury_id"`
}

type txResponse struct {
	OK       bool   `json:"ok"`
	TxDigest string `json:"tx_digest"`
	Error    string `json:"error"`
}

func (c *Client) ExecuteInvestment(ctx context.Context, phone string, amount int64) (string, error) {
	var out txResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(investRequest{Phone: phone, Amount: amount, PackageID: c.packageID, TreasuryID: c.treasuryID}).
		SetResult(&out).
		Post("/v1/invest")
	if err != nil {
		return "", fmt.Errorf("invest call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("invest call: engine returned %s", resp.Status())
	}
	if !out.OK {
		return "", fmt.Errorf("%w: %s", domain.ErrEngineRejected, out.Error)
	}
	c.log.Info("investment executed", "phone", phone, "amount", amount, "tx", out.TxDigest)
	return out.TxDigest, nil
}

// certificate mirrors the InvestmentCertificate fields the engine reads off
// chain. Vesting timestamps are Unix milliseconds.
type certificate struct {
	HasInvestment bool   `json:"has_investment"`
	SuiInvested   int64  `json:"sui_invested"`
	EquityTokens  int64  `json:"equity_tokens"`
	TotalClaimed  int64  `json:"total_claimed"`
	VestingStart  int64  `json:"vesting_start"`
	VestingEnd    int64  `json:"vesting_end"`
	CertificateID string `json:"certificate_id"`
	Error         string `json:"error"`
}

func (c *Client) CheckInvestmentStatus(ctx context.Context, phone string) (*ports.WalletStatus, error) {
	var cert certificate
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("phone", phone).
		SetResult(&cert).
		Get("/v1/investments/{phone}")
	if err != nil {
		return nil, fmt.Errorf("status call: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status call: engine returned %s", resp.Status())
	}
	if !cert.HasInvestment {
		return &ports.WalletStatus{}, nil
	}

	now := c.now().UnixMilli()
	vested := domain.VestedAmount(cert.EquityTokens, cert.VestingStart, cert.VestingEnd, now)
	claimable := vested - cert.TotalClaimed
	if claimable < 0 {
		claimable = 0
	}

	return &ports.WalletStatus{
		HasInvestment:        true,
		TotalInvested:        cert.SuiInvested,
		EquityTokens:         cert.EquityTokens,
		VestedTokens:         vested,
		LockedTokens:         cert.EquityTokens - vested,
		VestingProgress:      domain.VestingProgress(cert.EquityTokens, vested),
		ClaimableTokens:      claimable,
		DaysUntilFullyVested: domain.DaysUntilFullyVested(cert.VestingEnd, now),
		CertificateID:        cert.CertificateID,
	}, nil
}

type claimRequest struct {
	Phone         string `json:"phone"`
	CertificateID string `json:"certificate_id"`
}

func (c *Client) ClaimVestedTokens(ctx context.Context, phone, certificateID string) (string, error) {
	var out txResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(claimRequest{Phone: phone, CertificateID: certificateID}).
		SetResult(&out).
		Post("/v1/claim")
	if err != nil {
		return "", fmt.Errorf("claim call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("claim call: engine returned %s", resp.Status())
	}
	if !out.OK {
		return "", fmt.Errorf("%w: %s", domain.ErrEngineRejected, out.Error)
	}
	c.log.Info("tokens claimed", "phone", phone, "certificate", certificateID, "tx", out.TxDigest)
	return out.TxDigest, nil
}

func (c *Client) Healthy(ctx context.Context) bool {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	return err == nil && resp.IsSuccess()
}
