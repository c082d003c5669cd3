package domain

import "strconv"

// Flow names stored under the "flow" session field.
const (
	FlowBooking    = "booking"
	FlowInvestment = "investment"
)

// Session field keys. The session is a flat string mapping; the dispatcher
// is the only writer.
const (
	FieldFlow            = "flow"
	FieldRoute           = "route"
	FieldOrigin          = "origin"
	FieldDestination     = "destination"
	FieldTrain           = "train"
	FieldPrice           = "price"
	FieldSuiAmount       = "sui_amount"
	FieldUSDValue        = "usd_value"
	FieldCertificateID   = "certificate_id"
	FieldClaimableTokens = "claimable_tokens"
)

// Fields is the flow-scoped data persisted between USSD requests. The menu
// position itself is never stored here: it is re-derived from the cumulative
// input text on every request.
type Fields map[string]string

func (f Fields) Int64(key string, def int64) int64 {
	v, ok := f[key]
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func (f Fields) SetInt64(key string, v int64) {
	f[key] = strconv.FormatInt(v, 10)
}
