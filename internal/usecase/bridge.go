package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/africarailways/ussd-gateway/internal/domain"
	"github.com/africarailways/ussd-gateway/internal/ports"
	"github.com/africarailways/ussd-gateway/pkg/prometheus"
)

// BridgeResult normalizes the engine's and notifier's heterogeneous
// outcomes. Only the engine outcome decides OK; a failed SMS just clears
// SMSSent.
type BridgeResult struct {
	OK      bool
	Ref     string // tx digest or ticket id
	Kind    domain.FailKind
	Detail  string
	SMSSent bool
}

// Bridge fronts the investment engine and the SMS sender with an absolute
// per-call timeout and one failure taxonomy.
type Bridge struct {
	log      *slog.Logger
	engine   ports.InvestmentEngine
	notifier ports.Notifier
	timeout  time.Duration
}

func NewBridge(log *slog.Logger, engine ports.InvestmentEngine, notifier ports.Notifier, timeout time.Duration) *Bridge {
	return &Bridge{log: log, engine: engine, notifier: notifier, timeout: timeout}
}

// Invest executes the on-chain investment and, on success, sends the
// confirmation SMS.
func (b *Bridge) Invest(ctx context.Context, phone string, amount int64) BridgeResult {
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	ref, err := b.engine.ExecuteInvestment(cctx, phone, amount)
	if err != nil {
		kind := classify(err)
		b.log.Error("investment failed", "phone", phone, "amount", amount, "kind", string(kind), "error", err)
		prometheus.BridgeCalls.WithLabelValues("invest", "failure").Inc()
		return BridgeResult{Kind: kind, Detail: err.Error()}
	}
	prometheus.BridgeCalls.WithLabelValues("invest", "success").Inc()

	res := BridgeResult{OK: true, Ref: ref}
	if err := b.notifier.SendInvestmentSuccess(ctx, phone, amount, ref); err != nil {
		// The transaction already succeeded; never fail the flow over SMS.
		b.log.Warn("confirmation sms failed", "phone", phone, "error", err)
		prometheus.BridgeCalls.WithLabelValues("sms", "failure").Inc()
	} else {
		res.SMSSent = true
		prometheus.BridgeCalls.WithLabelValues("sms", "success").Inc()
	}
	return res
}

// BookTicket issues a ticket id and sends the ticket confirmation SMS.
// Payment and NFT minting happen downstream of the confirmation.
func (b *Bridge) BookTicket(ctx context.Context, phone, route, train string) BridgeResult {
	ticketID := "TKT" + strings.ToUpper(uuid.NewString()[:8])

	res := BridgeResult{OK: true, Ref: ticketID}
	if err := b.notifier.SendTicketConfirmation(ctx, phone, route, train, ticketID); err != nil {
		b.log.Warn("ticket sms failed", "phone", phone, "ticket", ticketID, "error", err)
		prometheus.BridgeCalls.WithLabelValues("sms", "failure").Inc()
	} else {
		res.SMSSent = true
		prometheus.BridgeCalls.WithLabelValues("sms", "success").Inc()
	}
	return res
}

// WalletStatus queries the engine for the phone's investment position.
func (b *Bridge) WalletStatus(ctx context.Context, phone string) (*ports.WalletStatus, BridgeResult) {
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	st, err := b.engine.CheckInvestmentStatus(cctx, phone)
	if err != nil {
		kind := classify(err)
		b.log.Error("status check failed", "phone", phone, "kind", string(kind), "error", err)
		prometheus.BridgeCalls.WithLabelValues("status", "failure").Inc()
		return nil, BridgeResult{Kind: kind, Detail: err.Error()}
	}
	prometheus.BridgeCalls.WithLabelValues("status", "success").Inc()
	return st, BridgeResult{OK: true}
}

// Claim claims vested tokens and sends the vesting SMS on success.
func (b *Bridge) Claim(ctx context.Context, phone, certificateID string, claimable int64) BridgeResult {
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	ref, err := b.engine.ClaimVestedTokens(cctx, phone, certificateID)
	if err != nil {
		kind := classify(err)
		b.log.Error("claim failed", "phone", phone, "certificate", certificateID, "kind", string(kind), "error", err)
		prometheus.BridgeCalls.WithLabelValues("claim", "failure").Inc()
		return BridgeResult{Kind: kind, Detail: err.Error()}
	}
	prometheus.BridgeCalls.WithLabelValues("claim", "success").Inc()

	res := BridgeResult{OK: true, Ref: ref}
	if err := b.notifier.SendVestingReminder(ctx, phone, claimable); err != nil {
		b.log.Warn("vesting sms failed", "phone", phone, "error", err)
	} else {
		res.SMSSent = true
	}
	return res
}

// SMSWalletDetails sends the full wallet breakdown by SMS.
func (b *Bridge) SMSWalletDetails(ctx context.Context, phone string, claimable int64) bool {
	if err := b.notifier.SendVestingReminder(ctx, phone, claimable); err != nil {
		b.log.Warn("wallet details sms failed", "phone", phone, "error", err)
		return false
	}
	return true
}

func classify(err error) domain.FailKind {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return domain.FailTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.FailTimeout
	}
	return domain.FailRemote
}
