package ledger

import "github.com/shopspring/decimal"

// FormatMoney formats an amount for display with two fractional digits.
func FormatMoney(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}

// FormatDate formats a timestamp as YYYY-MM-DD for display.
func FormatDate(t Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Time().Format("2006-01-02")
}

// BalanceTag is the display label for a balance: positive means the owner
// will collect, negative means the owner has to pay out.
func BalanceTag(balance decimal.Decimal) string {
	switch {
	case balance.Sign() > 0:
		return "You'll Get"
	case balance.Sign() < 0:
		return "You'll Give"
	default:
		return "Settled"
	}
}
