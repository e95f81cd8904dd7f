// Package store defines storage interfaces for the last-good quote snapshot
// and the archive of committed stock lists.
package store

import (
	"context"
	"time"
)

// SnapshotStore persists a single serialized record (one slot,
// last-write-wins). The symbol key is explicit so a snapshot saved for one
// symbol is never returned for another.
type SnapshotStore interface {
	// Save overwrites the slot with data for symbol.
	Save(ctx context.Context, symbol string, data []byte) error

	// Load returns the slot's data if it was saved for symbol. ok is false
	// when the slot is empty or holds another symbol.
	Load(ctx context.Context, symbol string) (data []byte, ok bool, err error)
}

// StockRow is one stock of one committed refresh.
type StockRow struct {
	Symbol      string
	CompanyName string
	Price       float64
	Profit      *float64
	Loss        *float64
	Sentiment   string
	Trend       string
}

// ArchiveStore appends committed stock lists and reads them back by day.
type ArchiveStore interface {
	// WriteStocks records rows observed at time at.
	WriteStocks(ctx context.Context, at time.Time, rows []StockRow) error

	// ReadStocks returns every row recorded on the given day (YYYY-MM-DD),
	// ordered by observation time.
	ReadStocks(ctx context.Context, date string) ([]ArchivedStock, error)
}

// ArchivedStock is a StockRow with its observation time.
type ArchivedStock struct {
	StockRow
	At time.Time
}
