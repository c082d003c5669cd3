package ports

import "context"

// Notifier sends SMS confirmations. A notifier failure must never flip the
// outcome of the primary flow; callers log it and drop the reassurance line.
type Notifier interface {
	SendInvestmentSuccess(ctx context.Context, phone string, amount int64, txRef string) error
	SendTicketConfirmation(ctx context.Context, phone, route, train, ticketID string) error
	SendVestingReminder(ctx context.Context, phone string, claimable int64) error

	// Configured reports whether the sender has credentials to work with.
	Configured() bool
}
