package view

import (
	"context"
	"encoding/json"
	"log/slog"

	"stockpulse/internal/store"
)

// Fallback keeps the last successfully loaded quote so it can be shown when
// a later load of the same symbol fails. It never returns errors: storage
// and decoding failures are logged and treated as "nothing cached".
type Fallback struct {
	store store.SnapshotStore
	log   *slog.Logger
}

// NewFallback wraps s. A nil s yields a Fallback that remembers nothing.
func NewFallback(s store.SnapshotStore, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}
	return &Fallback{store: s, log: log.With("component", "fallback")}
}

// Save overwrites the cached quote.
func (f *Fallback) Save(ctx context.Context, q StockQuote) {
	if f == nil || f.store == nil {
		return
	}
	data, err := json.Marshal(q)
	if err != nil {
		f.log.Warn("encoding snapshot", "symbol", q.Symbol, "error", err)
		return
	}
	if err := f.store.Save(ctx, q.Symbol, data); err != nil {
		f.log.Warn("saving snapshot", "symbol", q.Symbol, "error", err)
	}
}

// Load returns the cached quote when it was saved for symbol.
func (f *Fallback) Load(ctx context.Context, symbol string) (*StockQuote, bool) {
	if f == nil || f.store == nil {
		return nil, false
	}
	data, ok, err := f.store.Load(ctx, symbol)
	if err != nil {
		f.log.Warn("loading snapshot", "symbol", symbol, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var q StockQuote
	if err := json.Unmarshal(data, &q); err != nil {
		f.log.Debug("discarding unreadable snapshot", "symbol", symbol, "error", err)
		return nil, false
	}
	if q.Symbol != symbol {
		return nil, false
	}
	return &q, true
}
