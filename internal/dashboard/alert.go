// Package dashboard provides the presentation-side arithmetic and formatting
// shared by the terminal client, the HTTP API and the CLI.
package dashboard

import (
	"github.com/shopspring/decimal"
)

// AlertThresholdPct is the absolute percent move that raises a price alert.
const AlertThresholdPct = 5

// PreviousClose infers the previous close from a live price and the
// backend's profit/loss fields: price-profit when profit is present, else
// price+loss when loss is present, else price itself.
func PreviousClose(price float64, profit, loss *float64) float64 {
	switch {
	case profit != nil:
		return price - *profit
	case loss != nil:
		return price + *loss
	default:
		return price
	}
}

// PriceChange returns the percent change from prev to price. ok is false
// when either value is zero and no change can be computed.
func PriceChange(price, prev float64) (pct decimal.Decimal, ok bool) {
	if price == 0 || prev == 0 {
		return decimal.Zero, false
	}
	p := decimal.NewFromFloat(price)
	c := decimal.NewFromFloat(prev)
	return p.Sub(c).Div(c).Mul(decimal.NewFromInt(100)), true
}

// PriceAlert returns a one-line alert when the move from prev to price
// exceeds AlertThresholdPct in either direction.
func PriceAlert(price, prev float64) (string, bool) {
	pct, ok := PriceChange(price, prev)
	if !ok || !pct.Abs().GreaterThan(decimal.NewFromInt(AlertThresholdPct)) {
		return "", false
	}
	return "Price changed by " + FormatChange(pct) + " from previous close!", true
}

// FormatChange renders a percent with an explicit sign and two decimals,
// e.g. "+22.22%" or "-7.50%".
func FormatChange(pct decimal.Decimal) string {
	s := pct.StringFixed(2)
	if pct.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}
