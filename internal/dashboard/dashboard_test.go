package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockpulse/pkg/stockpulse"
)

func TestPreviousClose(t *testing.T) {
	tests := []struct {
		name         string
		price        float64
		profit, loss *float64
		want         float64
	}{
		{"profit", 110, stockpulse.Float(20), nil, 90},
		{"loss", 95, nil, stockpulse.Float(5), 100},
		{"profit wins over loss", 110, stockpulse.Float(10), stockpulse.Float(3), 100},
		{"neither", 100, nil, nil, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviousClose(tt.price, tt.profit, tt.loss); got != tt.want {
				t.Errorf("PreviousClose = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceAlert(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		profit    *float64
		loss      *float64
		wantFire  bool
		wantAlert string
	}{
		{"large gain", 110, stockpulse.Float(20), nil, true, "Price changed by +22.22% from previous close!"},
		{"just over threshold", 102, stockpulse.Float(5), nil, true, "Price changed by +5.15% from previous close!"},
		{"small gain", 100, stockpulse.Float(1), nil, false, ""},
		{"large loss", 92.5, nil, stockpulse.Float(7.5), true, "Price changed by -7.50% from previous close!"},
		{"exactly five percent", 105, stockpulse.Float(5), nil, false, ""},
		{"no profit or loss", 100, nil, nil, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := PreviousClose(tt.price, tt.profit, tt.loss)
			got, fired := PriceAlert(tt.price, prev)
			if fired != tt.wantFire {
				t.Fatalf("fired = %v, want %v (alert %q)", fired, tt.wantFire, got)
			}
			if got != tt.wantAlert {
				t.Errorf("alert = %q, want %q", got, tt.wantAlert)
			}
		})
	}
}

func TestPriceChangeZero(t *testing.T) {
	if _, ok := PriceChange(100, 0); ok {
		t.Error("PriceChange with zero previous close should not be ok")
	}
	if _, ok := PriceChange(0, 100); ok {
		t.Error("PriceChange with zero price should not be ok")
	}
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"22.2222", "+22.22%"},
		{"-1.005", "-1.01%"},
		{"0", "0.00%"},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.in)
		if got := FormatChange(d); got != tt.want {
			t.Errorf("FormatChange(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{190.5, "₹190.5"},
		{90, "₹90"},
		{3500, "₹3,500"},
		{1234567.891, "₹1,234,567.89"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatOptional(nil); got != "-" {
		t.Errorf("FormatOptional(nil) = %q, want \"-\"", got)
	}
}

func TestFormatInt(t *testing.T) {
	if got := FormatInt(1234567); got != "1,234,567" {
		t.Errorf("FormatInt = %q", got)
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := FormatAgo(time.Time{}, now); got != "never" {
		t.Errorf("FormatAgo(zero) = %q", got)
	}
	if got := FormatAgo(now.Add(-30*time.Second), now); got != "30 seconds ago" {
		t.Errorf("FormatAgo(-30s) = %q", got)
	}
}

func TestLabels(t *testing.T) {
	if got := SentimentLabel(stockpulse.SentimentPositive); got != "😊 Positive" {
		t.Errorf("SentimentLabel(Positive) = %q", got)
	}
	if got := SentimentLabel(""); got != "😐 Neutral" {
		t.Errorf("SentimentLabel(\"\") = %q", got)
	}
	if got := TrendLabel(stockpulse.TrendDown); got != "📉 Downtrend" {
		t.Errorf("TrendLabel(Downtrend) = %q", got)
	}
	if got := TrendLabel("sideways"); got != "➖ Neutral" {
		t.Errorf("TrendLabel(sideways) = %q", got)
	}
}
