package domain

import "errors"

// FailKind classifies a bridge failure for user-facing framing.
type FailKind string

const (
	FailTimeout    FailKind = "timeout"
	FailValidation FailKind = "validation"
	FailRemote     FailKind = "remote_failure"
	FailInternal   FailKind = "internal"
)

var (
	ErrSMSNotConfigured = errors.New("sms sender not configured")
	ErrEngineRejected   = errors.New("investment engine rejected the request")
)

// ShortRef renders a transaction reference as a bounded prefix.
func ShortRef(ref string) string {
	if len(ref) > 10 {
		return ref[:10] + "..."
	}
	return ref
}

// Truncate bounds internal error text before it reaches a handset.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
