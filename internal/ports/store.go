package ports

import (
	"context"
	"time"

	"github.com/africarailways/ussd-gateway/internal/domain"
)

// SessionStore keeps per-session flow data between USSD requests.
// Implementations must be safe for concurrent use across request handlers.
type SessionStore interface {
	// Get returns the stored fields, or an empty map when the session is
	// absent or expired.
	Get(ctx context.Context, sessionID string) (domain.Fields, error)

	// Set replaces the stored fields and stamps the entry with the current
	// time. A failing durable backing must fall back rather than error.
	Set(ctx context.Context, sessionID string, fields domain.Fields, ttl time.Duration) error

	Delete(ctx context.Context, sessionID string) error

	// Connected reports whether the durable backing is reachable (false
	// when running on the in-process fallback).
	Connected(ctx context.Context) bool
}
