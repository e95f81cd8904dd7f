package view

import (
	"context"

	"stockpulse/pkg/stockpulse"
)

// Gateway is the set of backend calls the pages depend on. It is satisfied
// by *stockpulse.Client.
type Gateway interface {
	ListStocks(ctx context.Context) ([]stockpulse.StockRecord, error)
	GetStock(ctx context.Context, symbol string) (*stockpulse.StockRecord, error)
	GetStockInfo(ctx context.Context, symbol string) (*stockpulse.StockInfo, error)
	StockHistoryChart(ctx context.Context, symbol string) (string, error)
	PriceChangeChart(ctx context.Context) (string, error)
	Recommendation(ctx context.Context) (*stockpulse.StockRecord, error)
	News(ctx context.Context, symbol string) ([]stockpulse.Headline, error)
	Login(ctx context.Context, creds stockpulse.Credentials) (string, error)
	Register(ctx context.Context, creds stockpulse.Credentials) (string, error)
}

var _ Gateway = (*stockpulse.Client)(nil)
