package view

import (
	"context"
	"log/slog"
	"time"

	"stockpulse/internal/dashboard"
	"stockpulse/pkg/stockpulse"
)

// StockQuote is a live price enriched for display.
type StockQuote struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"name"`
	Price         float64   `json:"price"`
	Profit        *float64  `json:"profit,omitempty"`
	Loss          *float64  `json:"loss,omitempty"`
	PreviousClose float64   `json:"previousClose"`
	Open          float64   `json:"open"`
	Exchange      string    `json:"exchange"`
	Currency      string    `json:"currency"`
	FetchedAt     time.Time `json:"timestamp"`
}

// NewStockQuote enriches a live price payload.
func NewStockQuote(info stockpulse.StockInfo, at time.Time) StockQuote {
	return StockQuote{
		Symbol:        info.StockSymbol,
		CompanyName:   info.CompanyName,
		Price:         info.Price,
		Profit:        info.Profit,
		Loss:          info.Loss,
		PreviousClose: dashboard.PreviousClose(info.Price, info.Profit, info.Loss),
		Open:          info.Price,
		Exchange:      "N/A",
		Currency:      "INR",
		FetchedAt:     at,
	}
}

// Quote is the live stock info page for one symbol, with a threshold alert,
// a 7-day chart and a last-good fallback.
type Quote struct {
	*page
	gw       Gateway
	fallback *Fallback
	now      func() time.Time
}

// NewQuote creates an inactive quote page. fallback may be nil.
func NewQuote(gw Gateway, fallback *Fallback, log *slog.Logger) *Quote {
	return &Quote{page: newPage("quote", log), gw: gw, fallback: fallback, now: time.Now}
}

// Refresh reloads the symbol last passed to Load.
func (q *Quote) Refresh(ctx context.Context) {
	if sym := q.Snapshot().Symbol; sym != "" {
		q.Load(ctx, sym)
	}
}

// Load fetches the live price and the 7-day chart for symbol.
func (q *Quote) Load(ctx context.Context, symbol string) {
	sym, err := validateSymbol(symbol, msgInvalidSymbol)
	if err != nil {
		q.reject(func(s *State) {
			s.Symbol = ""
			s.Quote = nil
			s.Alert = ""
			s.ChartURL = ""
			s.Err = err.Error()
		})
		return
	}

	cycle, ok := q.begin(func(s *State) {
		if s.Symbol != sym {
			s.Quote = nil
			s.ChartURL = ""
		}
		s.Symbol = sym
		s.Alert = ""
	})
	if !ok {
		return
	}

	var (
		info    *stockpulse.StockInfo
		chart   string
		chartOK bool
	)
	err = gather(ctx, q.log,
		required("stock info", func(ctx context.Context) error {
			var err error
			info, err = q.gw.GetStockInfo(ctx, sym)
			return err
		}),
		optional("history chart", func(ctx context.Context) error {
			u, err := q.gw.StockHistoryChart(ctx, sym)
			if err != nil {
				return err
			}
			chart, chartOK = u, true
			return nil
		}),
	)
	if err != nil {
		q.log.Error("quote failed", "symbol", sym, "error", err)
		cached, hit := q.fallback.Load(ctx, sym)
		q.settle(cycle, func(s *State) {
			s.Err = msgQuoteFailed
			if hit {
				s.Quote = cached
			}
		})
		return
	}

	if info == nil || info.StockSymbol == "" {
		q.settle(cycle, func(s *State) {
			s.Err = msgStockNotFound
			s.Quote = nil
			if chartOK {
				s.ChartURL = chart
			}
		})
		return
	}

	quote := NewStockQuote(*info, q.now())
	alert, _ := dashboard.PriceAlert(quote.Price, quote.PreviousClose)
	committed := q.settle(cycle, func(s *State) {
		s.Quote = &quote
		s.Alert = alert
		if chartOK {
			s.ChartURL = chart
		}
		s.UpdatedAt = quote.FetchedAt
	})
	if committed {
		q.fallback.Save(ctx, quote)
	}
}
