package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/africarailways/ussd-gateway/internal/domain"
	"github.com/africarailways/ussd-gateway/internal/ports"
)

// backToken collapses any path back to the root menu.
const backToken = "*0"

var investmentTiers = []int64{100, 500, 1000}

// Config carries the offer terms the menu tree renders.
type Config struct {
	ServiceCode   string
	SuiPrice      decimal.Decimal
	MinInvestment int64
	MaxInvestment int64
	TotalRaise    int64
	EquityOffered int64
	SessionTTL    time.Duration
}

type request struct {
	ctx       context.Context
	sessionID string
	phone     string
	path      string
	session   domain.Fields
}

type handlerFunc func(req *request) string

// Dispatcher is the USSD state machine. The state is the cumulative input
// path itself, re-parsed on every request; the transition table maps exact
// paths to handlers, with the back-token suffix rule and an
// invalid-selection default. Only flow data lives in the session store.
type Dispatcher struct {
	log      *slog.Logger
	store    ports.SessionStore
	bridge   *Bridge
	stats    *FundraiseStats
	cfg      Config
	handlers map[string]handlerFunc
}

func NewDispatcher(log *slog.Logger, store ports.SessionStore, bridge *Bridge, stats *FundraiseStats, cfg Config) *Dispatcher {
	d := &Dispatcher{log: log, store: store, bridge: bridge, stats: stats, cfg: cfg}
	d.handlers = map[string]handlerFunc{
		"":        d.mainMenu,
		"1":       d.routeMenu,
		"1*1":     d.trainMenu,
		"1*1*1":   d.trainDetail,
		"1*1*1*1": d.confirmBooking,
		"2":       d.investMenu,
		"2*1":     d.investSummary(investmentTiers[0]),
		"2*2":     d.investSummary(investmentTiers[1]),
		"2*3":     d.investSummary(investmentTiers[2]),
		"2*1*1":   d.confirmInvestment(investmentTiers[0]),
		"2*2*1":   d.confirmInvestment(investmentTiers[1]),
		"2*3*1":   d.confirmInvestment(investmentTiers[2]),
		"3":       d.walletMenu,
		"3*1":     d.balanceCheck,
		"3*1*1":   d.claimTokens,
		"3*1*2":   d.smsWalletDetails,
		"4":       d.support,
	}
	return d
}

// Handle maps one USSD request to a CON/END response. It never lets an
// error escape: whatever happens inside, the transport gets well-formed
// terminal text and the session is cleared.
func (d *Dispatcher) Handle(ctx context.Context, sessionID, phone, text string) (resp string) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("dispatcher panic", "session", sessionID, "phone", phone, "panic", r)
			d.clear(ctx, sessionID)
			resp = "END An error occurred.\n\nPlease try again or contact support."
		}
	}()

	session, err := d.store.Get(ctx, sessionID)
	if err != nil {
		d.log.Error("session read failed", "session", sessionID, "error", err)
		session = domain.Fields{}
	}

	req := &request{ctx: ctx, sessionID: sessionID, phone: phone, path: text, session: session}

	if h, ok := d.handlers[text]; ok {
		return h(req)
	}
	if strings.HasSuffix(text, backToken) {
		return d.backToRoot(req)
	}
	return d.invalidSelection(req)
}

// ---- booking flow ----

func (d *Dispatcher) mainMenu(*request) string {
	return mainMenuText()
}

func mainMenuText() string {
	return "CON Welcome to ARAIL 🚂\n" +
		"Africa's Digital Railway\n\n" +
		"1. Book Train Ticket\n" +
		"2. Invest in $SENT Pre-Seed\n" +
		"3. Check My Wallet\n" +
		"4. Help & Support"
}

func (d *Dispatcher) routeMenu(*request) string {
	return "CON Select Route:\n\n" +
		"1. Lusaka → Dar es Salaam\n" +
		"2. Dar es Salaam → Lusaka\n" +
		"3. Lusaka → Kapiri Mposhi\n" +
		"4. Kapiri → Dar es Salaam\n" +
		"0. Back to Main Menu"
}

func (d *Dispatcher) trainMenu(req *request) string {
	d.save(req, domain.Fields{
		domain.FieldFlow:        domain.FlowBooking,
		domain.FieldRoute:       "Lusaka → Dar es Salaam",
		domain.FieldOrigin:      "Lusaka",
		domain.FieldDestination: "Dar es Salaam",
	})
	return "CON Lusaka → Dar es Salaam\n" +
		"Available Trains:\n\n" +
		"1. Express - 06:00 (K450)\n" +
		"2. Standard - 14:00 (K280)\n" +
		"3. Night - 20:00 (K320)\n" +
		"0. Back"
}

func (d *Dispatcher) trainDetail(req *request) string {
	req.session[domain.FieldTrain] = "Express 06:00"
	req.session.SetInt64(domain.FieldPrice, 450)
	d.save(req, req.session)
	return "CON Express Train - K450\n" +
		"Departure: 06:00\n" +
		"Arrival: 18:00 (next day)\n\n" +
		"1. Confirm Booking\n" +
		"0. Back"
}

func (d *Dispatcher) confirmBooking(req *request) string {
	route := req.session[domain.FieldRoute]
	if route == "" {
		route = "Unknown"
	}
	price := req.session.Int64(domain.FieldPrice, 0)

	res := d.bridge.BookTicket(req.ctx, req.phone, route, "Express 06:00")
	d.clear(req.ctx, req.sessionID)

	resp := "END ✅ Booking Confirmed!\n\n" +
		fmt.Sprintf("Route: %s\n", route) +
		"Train: Express 06:00\n" +
		fmt.Sprintf("Price: K%d\n", price) +
		fmt.Sprintf("Ticket: %s\n\n", res.Ref)
	if res.SMSSent {
		resp += "SMS confirmation sent.\n"
	}
	return resp + "Safe travels! 🚂"
}

// ---- investment flow ----

func (d *Dispatcher) investMenu(*request) string {
	resp := "CON 💎 ARAIL Pre-Seed Round\n\n" +
		fmt.Sprintf("SUI Price: $%s\n", d.cfg.SuiPrice.StringFixed(2)) +
		fmt.Sprintf("Min Investment: %d SUI\n", d.cfg.MinInvestment) +
		fmt.Sprintf("Equity: %d%% offered\n\n", d.cfg.EquityOffered)
	for i, tier := range investmentTiers {
		resp += fmt.Sprintf("%d. Invest %d SUI (~$%s)\n", i+1, tier, domain.ApproxUSD(tier, d.cfg.SuiPrice))
	}
	return resp + "4. Custom Amount\n0. Back"
}

func (d *Dispatcher) investSummary(amount int64) handlerFunc {
	return func(req *request) string {
		fields := domain.Fields{domain.FieldFlow: domain.FlowInvestment}
		fields.SetInt64(domain.FieldSuiAmount, amount)
		fields[domain.FieldUSDValue] = domain.USDValue(amount, d.cfg.SuiPrice)
		d.save(req, fields)

		return "CON Investment Summary:\n\n" +
			fmt.Sprintf("Amount: %d SUI\n", amount) +
			fmt.Sprintf("USD Value: $%s\n", fields[domain.FieldUSDValue]) +
			fmt.Sprintf("Equity: %s%%\n", domain.EquityPercent(amount, d.cfg.TotalRaise, d.cfg.EquityOffered)) +
			"Vesting: 12 months linear\n\n" +
			"1. Confirm Investment\n" +
			"0. Cancel"
	}
}

func (d *Dispatcher) confirmInvestment(defaultAmount int64) handlerFunc {
	return func(req *request) string {
		amount := req.session.Int64(domain.FieldSuiAmount, defaultAmount)

		// Bounds must fail before the engine is ever called.
		if amount < d.cfg.MinInvestment || amount > d.cfg.MaxInvestment {
			d.log.Warn("investment amount out of bounds", "phone", req.phone, "amount", amount)
			d.clear(req.ctx, req.sessionID)
			return "END ❌ Invalid Amount\n\n" +
				d.boundsMessage(amount) + "\n" +
				"Please try again or contact support."
		}

		d.log.Info("investment trigger", "phone", req.phone, "amount", amount)
		res := d.bridge.Invest(req.ctx, req.phone, amount)
		d.clear(req.ctx, req.sessionID)

		switch {
		case res.OK:
			d.stats.RecordInvestment(amount)
			resp := "END ✅ Investment Confirmed!\n\n" +
				fmt.Sprintf("Amount: %d SUI\n", amount) +
				fmt.Sprintf("Equity: %s%%\n", domain.EquityPercent(amount, d.cfg.TotalRaise, d.cfg.EquityOffered)) +
				fmt.Sprintf("TX: %s\n\n", domain.ShortRef(res.Ref))
			if res.SMSSent {
				resp += "Check your SMS for details.\n"
			}
			return resp + "Welcome to ARAIL! 🚂💎"
		case res.Kind == domain.FailTimeout:
			return "END ⏱ Connection Timeout\n\n" +
				"The network is busy right now.\n" +
				"Please try again shortly."
		default:
			return "END ❌ Investment Failed\n\n" +
				"An error occurred. Please try again.\n" +
				"Contact: investors@africarailways.com"
		}
	}
}

func (d *Dispatcher) boundsMessage(amount int64) string {
	if amount < d.cfg.MinInvestment {
		return fmt.Sprintf("Minimum investment is %d SUI.", d.cfg.MinInvestment)
	}
	return fmt.Sprintf("Maximum investment is %s SUI.", domain.GroupDigits(d.cfg.MaxInvestment))
}

// ---- wallet flow ----

func (d *Dispatcher) walletMenu(*request) string {
	return "CON Check Wallet:\n\n" +
		"1. $SENT Balance\n" +
		"2. AFC Balance\n" +
		"3. My Tickets\n" +
		"0. Back"
}

func (d *Dispatcher) balanceCheck(req *request) string {
	st, res := d.bridge.WalletStatus(req.ctx, req.phone)
	if !res.OK {
		d.clear(req.ctx, req.sessionID)
		if res.Kind == domain.FailTimeout {
			return "END ⏱ Connection Timeout\n\nPlease try again shortly."
		}
		return "END ❌ Balance Check Failed\n\nPlease try again or contact support."
	}

	if !st.HasInvestment {
		d.clear(req.ctx, req.sessionID)
		return "END No investments found.\n\n" +
			fmt.Sprintf("Dial %s and select\n", d.cfg.ServiceCode) +
			"2. Invest in $SENT to get started!"
	}

	fields := domain.Fields{domain.FieldCertificateID: st.CertificateID}
	fields.SetInt64(domain.FieldClaimableTokens, st.ClaimableTokens)
	d.save(req, fields)

	resp := "CON Your $SENT Balance:\n\n" +
		fmt.Sprintf("Total: %s tokens\n", domain.GroupDigits(st.EquityTokens)) +
		fmt.Sprintf("Vested: %s (%.1f%%)\n", domain.GroupDigits(st.VestedTokens), st.VestingProgress) +
		fmt.Sprintf("Locked: %s\n\n", domain.GroupDigits(st.LockedTokens))

	if st.ClaimableTokens > 0 {
		resp += fmt.Sprintf("1. Claim %s Tokens\n", domain.GroupDigits(st.ClaimableTokens)) +
			"2. SMS Full Details\n" +
			"0. Back"
	} else {
		resp += "No tokens ready to claim yet.\n" +
			fmt.Sprintf("%d days until fully vested.\n\n", st.DaysUntilFullyVested) +
			"2. SMS Full Details\n" +
			"0. Back"
	}
	return resp
}

func (d *Dispatcher) claimTokens(req *request) string {
	certificateID := req.session[domain.FieldCertificateID]
	claimable := req.session.Int64(domain.FieldClaimableTokens, 0)

	if certificateID == "" || claimable == 0 {
		d.clear(req.ctx, req.sessionID)
		return "END No tokens available to claim.\n\n" +
			"Check back later as your tokens vest."
	}

	d.log.Info("claim trigger", "phone", req.phone, "claimable", claimable)
	res := d.bridge.Claim(req.ctx, req.phone, certificateID, claimable)
	d.clear(req.ctx, req.sessionID)

	switch {
	case res.OK:
		resp := "END ✅ Tokens Claimed!\n\n" +
			fmt.Sprintf("Amount: %s $SENT\n", domain.GroupDigits(claimable)) +
			fmt.Sprintf("TX: %s\n\n", domain.ShortRef(res.Ref))
		if res.SMSSent {
			resp += "Check SMS for details.\n"
		}
		return resp + "Tokens sent to your wallet! 💎"
	case res.Kind == domain.FailTimeout:
		return "END ⏱ Connection Timeout\n\nPlease try again shortly."
	default:
		return "END ❌ Claim Failed\n\n" +
			fmt.Sprintf("Error: %s\n", domain.Truncate(res.Detail, 50)) +
			"Please try again or contact support."
	}
}

func (d *Dispatcher) smsWalletDetails(req *request) string {
	st, res := d.bridge.WalletStatus(req.ctx, req.phone)
	d.clear(req.ctx, req.sessionID)

	if !res.OK || !st.HasInvestment {
		return "END No investment found."
	}
	if !d.bridge.SMSWalletDetails(req.ctx, req.phone, st.ClaimableTokens) {
		return "END ❌ SMS Failed\n\nPlease try again or contact support."
	}
	return "END ✅ SMS Sent!\n\n" +
		"Check your phone for:\n" +
		"- Total token balance\n" +
		"- Vested vs locked tokens\n" +
		"- Vesting progress %\n" +
		"- Claimable amount"
}

// ---- terminal helpers ----

func (d *Dispatcher) support(req *request) string {
	d.clear(req.ctx, req.sessionID)
	return "END ARAIL Support:\n\n" +
		"📞 +260 977 000 000\n" +
		"📧 support@africarailways.com\n" +
		"🌐 africarailways.com\n\n" +
		"Office Hours:\n" +
		"Mon-Fri: 08:00-17:00\n" +
		"Sat: 09:00-13:00"
}

func (d *Dispatcher) backToRoot(req *request) string {
	d.clear(req.ctx, req.sessionID)
	return mainMenuText()
}

func (d *Dispatcher) invalidSelection(req *request) string {
	d.clear(req.ctx, req.sessionID)
	return "END Invalid selection.\n\n" +
		fmt.Sprintf("Please dial %s to try again.", d.cfg.ServiceCode)
}

func (d *Dispatcher) save(req *request, fields domain.Fields) {
	if err := d.store.Set(req.ctx, req.sessionID, fields, d.cfg.SessionTTL); err != nil {
		d.log.Error("session write failed", "session", req.sessionID, "error", err)
	}
	req.session = fields
}

func (d *Dispatcher) clear(ctx context.Context, sessionID string) {
	if err := d.store.Delete(ctx, sessionID); err != nil {
		d.log.Error("session clear failed", "session", sessionID, "error", err)
	}
}
