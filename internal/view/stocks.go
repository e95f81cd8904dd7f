package view

import (
	"context"
	"log/slog"
	"time"
)

// Stocks is the live stock table: the watchlist alone, with search.
type Stocks struct {
	*page
	gw  Gateway
	now func() time.Time
}

// NewStocks creates an inactive stock table page.
func NewStocks(gw Gateway, log *slog.Logger) *Stocks {
	return &Stocks{page: newPage("stocks", log), gw: gw, now: time.Now}
}

// Refresh reloads the watchlist.
func (p *Stocks) Refresh(ctx context.Context) {
	cycle, ok := p.begin(nil)
	if !ok {
		return
	}
	records, err := p.gw.ListStocks(ctx)
	if err != nil {
		p.log.Error("refresh failed", "error", err)
	}
	p.settle(cycle, func(s *State) {
		switch {
		case err != nil:
			s.Err = msgStocksFailed
		case records == nil:
			s.Err = msgNoStockData
		default:
			s.Records = records
			s.UpdatedAt = p.now()
		}
	})
}
