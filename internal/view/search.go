package view

import (
	"context"
	"log/slog"
)

// Search looks up a single stock, with sentiment, by symbol.
type Search struct {
	*page
	gw Gateway
}

// NewSearch creates an inactive search page.
func NewSearch(gw Gateway, log *slog.Logger) *Search {
	return &Search{page: newPage("search", log), gw: gw}
}

// Refresh repeats the last lookup, if any.
func (p *Search) Refresh(ctx context.Context) {
	if sym := p.Snapshot().Symbol; sym != "" {
		p.Lookup(ctx, sym)
	}
}

// Lookup queries symbol. Blank input is rejected without a network call and
// the rejection is returned as a *ValidationError; backend failures only
// show up in the page state.
func (p *Search) Lookup(ctx context.Context, symbol string) error {
	sym, err := validateSymbol(symbol, msgEnterSymbol)
	if err != nil {
		p.reject(func(s *State) {
			s.Symbol = ""
			s.Result = nil
			s.Err = err.Error()
		})
		return err
	}

	cycle, ok := p.begin(func(s *State) { s.Symbol = sym })
	if !ok {
		return nil
	}
	rec, err := p.gw.GetStock(ctx, sym)
	if err != nil {
		p.log.Warn("lookup failed", "symbol", sym, "error", err)
	}
	p.settle(cycle, func(s *State) {
		if err != nil {
			s.Err = msgLookupFailed
			s.Result = nil
			return
		}
		s.Err = ""
		s.Result = rec
	})
	return nil
}
