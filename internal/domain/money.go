package domain

import "github.com/shopspring/decimal"

// EquityPercent computes the equity share for an investment amount:
// (amount / totalRaise) * equityOffered, rendered with 4 decimal places.
func EquityPercent(amount, totalRaise, equityOffered int64) string {
	if totalRaise <= 0 {
		return "0.0000"
	}
	return decimal.NewFromInt(amount).
		Div(decimal.NewFromInt(totalRaise)).
		Mul(decimal.NewFromInt(equityOffered)).
		StringFixed(4)
}

// USDValue converts a SUI amount at the configured price, 2 decimal places.
func USDValue(amount int64, suiPrice decimal.Decimal) string {
	return decimal.NewFromInt(amount).Mul(suiPrice).StringFixed(2)
}

// ApproxUSD renders a whole-dollar estimate for menu tiers, e.g. "1,440".
func ApproxUSD(amount int64, suiPrice decimal.Decimal) string {
	return GroupDigits(decimal.NewFromInt(amount).Mul(suiPrice).Round(0).IntPart())
}

// GroupDigits formats n with thousands separators ("142857" -> "142,857").
func GroupDigits(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := decimal.NewFromInt(n).String()
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
