package view

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"stockpulse/internal/store"
	"stockpulse/pkg/stockpulse"
)

// Dashboard is the main page: the watchlist, the recommended stock, the
// sentiment overview chart, headlines for the recommendation and an
// on-demand 7-day chart for any row.
type Dashboard struct {
	*page
	gw      Gateway
	archive store.ArchiveStore
	now     func() time.Time

	newsSeq  atomic.Uint64
	chartSeq atomic.Uint64
}

// DashboardOption customises a Dashboard.
type DashboardOption func(*Dashboard)

// WithArchive records every committed watchlist in a.
func WithArchive(a store.ArchiveStore) DashboardOption {
	return func(d *Dashboard) { d.archive = a }
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) { d.now = now }
}

// NewDashboard creates an inactive dashboard page.
func NewDashboard(gw Gateway, log *slog.Logger, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		page: newPage("dashboard", log),
		gw:   gw,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Refresh runs one refresh cycle. The stock list and the recommendation are
// required and commit together; the sentiment chart is optional. Headlines
// are fetched afterwards and never affect the primary commit.
func (d *Dashboard) Refresh(ctx context.Context) {
	cycle, ok := d.begin(nil)
	if !ok {
		return
	}

	var (
		stocks  []stockpulse.StockRecord
		rec     *stockpulse.StockRecord
		chart   string
		chartOK bool
	)
	err := gather(ctx, d.log,
		required("stocks", func(ctx context.Context) error {
			var err error
			stocks, err = d.gw.ListStocks(ctx)
			return err
		}),
		required("recommend", func(ctx context.Context) error {
			r, err := d.gw.Recommendation(ctx)
			if errors.Is(err, stockpulse.ErrNotFound) {
				return nil
			}
			rec = r
			return err
		}),
		optional("sentiment chart", func(ctx context.Context) error {
			u, err := d.gw.PriceChangeChart(ctx)
			if err != nil {
				return err
			}
			chart, chartOK = u, true
			return nil
		}),
	)
	if err != nil {
		d.log.Error("refresh failed", "error", err)
		d.settle(cycle, func(s *State) { s.Err = msgDashboardFailed })
		return
	}

	at := d.now()
	wantNews := rec != nil && rec.StockSymbol != ""
	committed := d.settle(cycle, func(s *State) {
		s.Records = stocks
		s.Recommended = rec
		if chartOK {
			s.SentimentChartURL = chart
		}
		s.UpdatedAt = at
		if wantNews {
			s.NewsLoading = true
		}
	})
	if !committed {
		return
	}
	d.log.Debug("refresh committed", "stocks", len(stocks), "recommended", rec != nil)

	d.archiveStocks(ctx, at, stocks)
	if wantNews {
		d.loadNews(ctx, rec.StockSymbol)
	}
}

// LoadChart fetches the 7-day price chart for symbol. A failure clears the
// chart; a newer call supersedes an older one still in flight.
func (d *Dashboard) LoadChart(ctx context.Context, symbol string) {
	sym := normalizeSymbol(symbol)
	if sym == "" {
		return
	}
	seq := d.chartSeq.Add(1)
	u, err := d.gw.StockHistoryChart(ctx, sym)
	if err != nil {
		d.log.Warn("chart fetch failed", "symbol", sym, "error", err)
	}
	d.update(func(s *State) bool {
		if d.chartSeq.Load() != seq {
			return false
		}
		s.ChartSymbol = sym
		s.ChartURL = u
		return true
	})
}

func (d *Dashboard) loadNews(ctx context.Context, symbol string) {
	seq := d.newsSeq.Add(1)
	headlines, err := d.gw.News(ctx, symbol)
	if err != nil {
		d.log.Warn("news fetch failed", "symbol", symbol, "error", err)
		headlines = nil
	}
	d.update(func(s *State) bool {
		if d.newsSeq.Load() != seq {
			return false
		}
		s.News = headlines
		s.NewsLoading = false
		return true
	})
}

func (d *Dashboard) archiveStocks(ctx context.Context, at time.Time, stocks []stockpulse.StockRecord) {
	if d.archive == nil || len(stocks) == 0 {
		return
	}
	rows := make([]store.StockRow, len(stocks))
	for i, r := range stocks {
		rows[i] = store.StockRow{
			Symbol:      r.StockSymbol,
			CompanyName: r.CompanyName,
			Price:       r.Price,
			Profit:      r.Profit,
			Loss:        r.Loss,
			Sentiment:   string(r.Sentiment),
			Trend:       string(r.Trend),
		}
	}
	if err := d.archive.WriteStocks(ctx, at, rows); err != nil {
		d.log.Warn("archiving stocks", "error", err)
	}
}
