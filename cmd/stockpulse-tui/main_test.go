package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"stockpulse/pkg/stockpulse"
)

func TestPadOrTrunc(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"pad", "abc", 5, "abc  "},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdef", 4, "abcd"},
		{"rupee", "₹3,500 up", 6, "₹3,500"},
		{"wide runes", "株式会社", 5, "株式 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padOrTrunc(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("padOrTrunc(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if w := runewidth.StringWidth(got); w != tt.width {
				t.Errorf("width = %d, want %d", w, tt.width)
			}
		})
	}
}

func TestRenderRowTruncatesMultibyteName(t *testing.T) {
	r := stockpulse.StockRecord{
		CompanyName: strings.Repeat("株式会社", 5),
		StockSymbol: "7203.T",
		Price:       2500,
	}
	out := model{}.renderRow(r, false)

	if !utf8.ValidString(out) {
		t.Fatalf("row is not valid UTF-8: %q", out)
	}
	if !strings.Contains(out, "~") {
		t.Errorf("long name not marked as truncated: %q", out)
	}
	if strings.Contains(out, strings.Repeat("株式会社", 4)) {
		t.Errorf("name not truncated: %q", out)
	}
}
