package dashboard

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"stockpulse/pkg/stockpulse"
)

// Currency is the symbol prices are rendered with.
const Currency = "₹"

// FormatPrice formats a price with thousands separators and at most two
// decimals, trailing zeros dropped: ₹90, ₹3,500.5, ₹1,234.57.
func FormatPrice(p float64) string {
	return Currency + humanize.CommafWithDigits(p, 2)
}

// FormatOptional formats an optional amount, or "-" when absent.
func FormatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return FormatPrice(*v)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	return humanize.Comma(int64(n))
}

// FormatAgo renders how long ago t was, e.g. "12 seconds ago", or "never"
// for the zero time.
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// SentimentLabel returns the display label for a sentiment. Unknown values
// render as neutral.
func SentimentLabel(s stockpulse.Sentiment) string {
	switch s {
	case stockpulse.SentimentPositive:
		return "😊 Positive"
	case stockpulse.SentimentNegative:
		return "😞 Negative"
	default:
		return "😐 Neutral"
	}
}

// TrendLabel returns the display label for a trend. Unknown values render as
// neutral.
func TrendLabel(t stockpulse.Trend) string {
	switch t {
	case stockpulse.TrendUp:
		return "📈 Uptrend"
	case stockpulse.TrendDown:
		return "📉 Downtrend"
	default:
		return "➖ Neutral"
	}
}

// RecordSummary is a one-line description of a record, used by the CLI.
func RecordSummary(r stockpulse.StockRecord) string {
	return fmt.Sprintf("%s (%s) %s profit %s loss %s", r.CompanyName, r.StockSymbol,
		FormatPrice(r.Price), FormatOptional(r.Profit), FormatOptional(r.Loss))
}
