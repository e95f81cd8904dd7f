// Package view reconciles backend responses into per-page view state. Each
// page owns its State exclusively, commits every change atomically and
// refuses to commit once it has been deactivated.
package view

import (
	"strings"
	"time"

	"stockpulse/pkg/stockpulse"
)

// State is the visible state of one page. Pages hand out copies; a State
// value is never mutated after it has been published.
type State struct {
	Records           []stockpulse.StockRecord `json:"records"`
	Recommended       *stockpulse.StockRecord  `json:"recommended,omitempty"`
	SentimentChartURL string                   `json:"sentimentChartUrl,omitempty"`

	// Per-symbol 7-day chart.
	ChartSymbol string `json:"chartSymbol,omitempty"`
	ChartURL    string `json:"chartUrl,omitempty"`

	News        []stockpulse.Headline `json:"news"`
	NewsLoading bool                  `json:"newsLoading"`

	// Quote and search pages.
	Symbol string                  `json:"symbol,omitempty"`
	Quote  *StockQuote             `json:"quote,omitempty"`
	Alert  string                  `json:"alert,omitempty"`
	Result *stockpulse.StockRecord `json:"result,omitempty"`

	SearchTerm string    `json:"searchTerm"`
	Loading    bool      `json:"loading"`
	Err        string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FilteredRecords applies the current search term to Records.
func (s State) FilteredRecords() []stockpulse.StockRecord {
	return Filter(s.Records, s.SearchTerm)
}

func (s State) clone() State {
	c := s
	if s.Records != nil {
		c.Records = append([]stockpulse.StockRecord(nil), s.Records...)
	}
	if s.News != nil {
		c.News = append([]stockpulse.Headline(nil), s.News...)
	}
	return c
}

// Filter returns the records whose company name or symbol contains term,
// case-insensitively, in their original order. An empty term matches every
// record.
func Filter(records []stockpulse.StockRecord, term string) []stockpulse.StockRecord {
	if term == "" {
		return append([]stockpulse.StockRecord(nil), records...)
	}
	q := strings.ToLower(term)
	var out []stockpulse.StockRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.CompanyName), q) ||
			strings.Contains(strings.ToLower(r.StockSymbol), q) {
			out = append(out, r)
		}
	}
	return out
}

// normalizeSymbol trims and upper-cases user input.
func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
